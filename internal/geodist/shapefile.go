package geodist

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadPointSet reads a reference point set from a shapefile. Point and
// multipoint records contribute their points; polyline records contribute
// their vertices, which is how corridor geometries (river, coastline, metro
// lines) are distributed. Other shape types are skipped.
func LoadPointSet(path string) ([]geom.Coord, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodist: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	var set []geom.Coord
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()
		switch s := shape.(type) {
		case *shp.Point:
			set = append(set, geom.Coord{s.X, s.Y})
		case *shp.MultiPoint:
			for _, p := range s.Points {
				set = append(set, geom.Coord{p.X, p.Y})
			}
		case *shp.PolyLine:
			for _, p := range s.Points {
				set = append(set, geom.Coord{p.X, p.Y})
			}
		default:
			skipped++
		}
	}

	if skipped > 0 {
		zap.L().Debug("geodist: skipped unsupported shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	if len(set) == 0 {
		return nil, eris.Errorf("geodist: shapefile %s contains no usable points", path)
	}
	return set, nil
}
