package textclass

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// RuleTable maps each flag to its normalized term list. Matching is
// substring-based over the normalized description; the table is immutable
// configuration injected at construction.
type RuleTable struct {
	Version     string   `yaml:"version"`
	Risky       []string `yaml:"risky"`
	Terrace     []string `yaml:"terrace"`
	Balcony     []string `yaml:"balcony"`
	LastFloor   []string `yaml:"last_floor"`
	SouthFacing []string `yaml:"south_facing"`
	ShortLet    []string `yaml:"short_let"`
}

// LoadRules reads a rule table from a YAML file and normalizes its terms.
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "textclass: read rules %s", path)
	}

	var rt RuleTable
	if err := yaml.Unmarshal(data, &rt); err != nil {
		return nil, eris.Wrapf(err, "textclass: parse rules %s", path)
	}
	if len(rt.Risky) == 0 {
		return nil, eris.Errorf("textclass: rules %s define no risk terms", path)
	}

	rt.normalizeTerms()
	return &rt, nil
}

func (rt *RuleTable) normalizeTerms() {
	for _, terms := range [][]string{
		rt.Risky, rt.Terrace, rt.Balcony, rt.LastFloor, rt.SouthFacing, rt.ShortLet,
	} {
		for i, t := range terms {
			terms[i] = Normalize(t)
		}
	}
}

// DefaultRules returns the built-in Spanish-language rule table.
func DefaultRules() *RuleTable {
	rt := &RuleTable{
		Version: "2024-06",
		Risky: []string{
			"ocupado", "ocupada", "sin posesion", "nuda propiedad",
			"usufructo", "subasta", "procedimiento judicial",
			"proindiviso", "pro indiviso",
		},
		Terrace:     []string{"terraza"},
		Balcony:     []string{"balcon"},
		LastFloor:   []string{"ultima planta", "ultimo piso", "atico"},
		SouthFacing: []string{"orientacion sur", "orientado al sur", "cara sur"},
		ShortLet: []string{
			"licencia turistica", "apartamento turistico",
			"uso turistico", "airbnb",
		},
	}
	rt.normalizeTerms()
	return rt
}
