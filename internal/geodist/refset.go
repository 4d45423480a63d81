package geodist

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"gopkg.in/yaml.v3"
)

// References holds the fixed points of interest and the reference point sets
// for one city. Instances are immutable configuration injected into the
// enricher; nothing mutates them during a pipeline run.
type References struct {
	Center       geom.Coord
	ArtsSciences geom.Coord
	UPV          geom.Coord
	MetroXativa  geom.Coord

	Beach []geom.Coord
	Turia []geom.Coord
	Metro []geom.Coord
}

// refPoint is the YAML wire form of one coordinate.
type refPoint struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// refFile is the YAML wire form of a References table.
type refFile struct {
	Center       refPoint   `yaml:"center"`
	ArtsSciences refPoint   `yaml:"arts_sciences"`
	UPV          refPoint   `yaml:"upv"`
	MetroXativa  refPoint   `yaml:"metro_xativa"`
	Beach        []refPoint `yaml:"beach"`
	Turia        []refPoint `yaml:"turia"`
	Metro        []refPoint `yaml:"metro"`
}

func (p refPoint) coord() geom.Coord {
	return geom.Coord{p.Lng, p.Lat}
}

func coords(pts []refPoint) []geom.Coord {
	out := make([]geom.Coord, 0, len(pts))
	for _, p := range pts {
		out = append(out, p.coord())
	}
	return out
}

// LoadReferences reads a reference-geography table from a YAML file.
func LoadReferences(path string) (*References, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodist: read references %s", path)
	}

	var rf refFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, eris.Wrapf(err, "geodist: parse references %s", path)
	}
	if len(rf.Beach) == 0 || len(rf.Turia) == 0 || len(rf.Metro) == 0 {
		return nil, eris.Errorf("geodist: references %s missing a corridor set", path)
	}

	return &References{
		Center:       rf.Center.coord(),
		ArtsSciences: rf.ArtsSciences.coord(),
		UPV:          rf.UPV.coord(),
		MetroXativa:  rf.MetroXativa.coord(),
		Beach:        coords(rf.Beach),
		Turia:        coords(rf.Turia),
		Metro:        coords(rf.Metro),
	}, nil
}

// DefaultReferences returns the built-in Valencia reference geography.
func DefaultReferences() *References {
	return &References{
		Center:       geom.Coord{-0.3773, 39.4697}, // Plaza del Ayuntamiento
		ArtsSciences: geom.Coord{-0.3545, 39.4561},
		UPV:          geom.Coord{-0.3440, 39.4810},
		MetroXativa:  geom.Coord{-0.3767, 39.4671},
		Beach: []geom.Coord{
			{-0.3208, 39.4868}, // Malvarrosa north
			{-0.3216, 39.4702},
			{-0.3302, 39.4600},
			{-0.3320, 39.4450}, // Pinedo
		},
		Turia: []geom.Coord{
			{-0.4024, 39.4887}, // Parc de Capçalera
			{-0.3898, 39.4798},
			{-0.3790, 39.4741},
			{-0.3672, 39.4696},
			{-0.3550, 39.4629},
			{-0.3465, 39.4566},
		},
		Metro: []geom.Coord{
			{-0.3767, 39.4671}, // Xàtiva
			{-0.3710, 39.4702}, // Colón
			{-0.3640, 39.4731}, // Alameda
			{-0.3580, 39.4850}, // Benimaclet
			{-0.3930, 39.4800}, // Turia
			{-0.3848, 39.4701}, // Àngel Guimerà
			{-0.3850, 39.4626}, // Plaça Espanya
			{-0.3562, 39.4705}, // Aragón
			{-0.3480, 39.4670}, // Amistat
			{-0.3330, 39.4640}, // Marítim
			{-0.3900, 39.4570}, // Patraix
			{-0.3380, 39.4580}, // Ayora
		},
	}
}
