// Package trend resolves per-zone reference prices and computes the price
// momentum features.
package trend

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ZoneStats holds the static market figures for one zone: a reference price
// per square meter and a multi-year historical growth rate.
type ZoneStats struct {
	PriceM2 float64 `yaml:"price_m2"`
	Growth  float64 `yaml:"growth"`
}

// MarketTable is the static market reference data for one city, keyed by
// neighborhood at the fine level and district at the coarse level.
// DefaultGrowth backs the batch-average fallback, which has no table entry
// to take a growth rate from.
type MarketTable struct {
	Neighborhoods map[string]ZoneStats `yaml:"neighborhoods"`
	Districts     map[string]ZoneStats `yaml:"districts"`
	DefaultGrowth float64              `yaml:"default_growth"`
}

// Neighborhood looks up a neighborhood entry. The boolean is false when the
// zone is absent or carries a non-positive reference price, so a zero row
// can never masquerade as market data.
func (t *MarketTable) Neighborhood(name string) (ZoneStats, bool) {
	return lookup(t.Neighborhoods, name)
}

// District looks up a district entry with the same presence semantics.
func (t *MarketTable) District(name string) (ZoneStats, bool) {
	return lookup(t.Districts, name)
}

func lookup(m map[string]ZoneStats, name string) (ZoneStats, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ZoneStats{}, false
	}
	s, ok := m[name]
	if !ok || s.PriceM2 <= 0 {
		return ZoneStats{}, false
	}
	return s, true
}

// LoadMarket reads a market table from a YAML file.
func LoadMarket(path string) (*MarketTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "trend: read market table %s", path)
	}

	var t MarketTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "trend: parse market table %s", path)
	}
	if len(t.Neighborhoods) == 0 && len(t.Districts) == 0 {
		return nil, eris.Errorf("trend: market table %s is empty", path)
	}
	if t.DefaultGrowth <= 0 {
		t.DefaultGrowth = DefaultMarket().DefaultGrowth
	}
	return &t, nil
}

// DefaultMarket returns the built-in Valencia market table.
func DefaultMarket() *MarketTable {
	return &MarketTable{
		DefaultGrowth: 0.15,
		Neighborhoods: map[string]ZoneStats{
			"Benimaclet":       {PriceM2: 2998, Growth: 0.270},
			"La Seu":           {PriceM2: 2739, Growth: 0.180},
			"Sant Francesc":    {PriceM2: 4072, Growth: 0.140},
			"El Carme":         {PriceM2: 3046, Growth: 0.210},
			"El Mercat":        {PriceM2: 2701, Growth: 0.190},
			"La Xerea":         {PriceM2: 4148, Growth: 0.120},
			"El Pla del Remei": {PriceM2: 4863, Growth: 0.110},
			"Patraix":          {PriceM2: 2587, Growth: 0.230},
			"Russafa":          {PriceM2: 3350, Growth: 0.250},
			"El Cabanyal":      {PriceM2: 2450, Growth: 0.310},
			"Aiora":            {PriceM2: 2210, Growth: 0.240},
		},
		Districts: map[string]ZoneStats{
			"Ciutat Vella":     {PriceM2: 3180, Growth: 0.190},
			"L'Eixample":       {PriceM2: 3640, Growth: 0.170},
			"Extramurs":        {PriceM2: 2720, Growth: 0.200},
			"Campanar":         {PriceM2: 2460, Growth: 0.160},
			"La Saïdia":        {PriceM2: 2080, Growth: 0.220},
			"El Pla del Real":  {PriceM2: 3110, Growth: 0.140},
			"L'Olivereta":      {PriceM2: 1880, Growth: 0.210},
			"Patraix":          {PriceM2: 2140, Growth: 0.230},
			"Jesús":            {PriceM2: 1960, Growth: 0.240},
			"Quatre Carreres":  {PriceM2: 2240, Growth: 0.250},
			"Poblats Marítims": {PriceM2: 2310, Growth: 0.290},
			"Camins al Grau":   {PriceM2: 2490, Growth: 0.220},
			"Algirós":          {PriceM2: 2380, Growth: 0.200},
			"Benimaclet":       {PriceM2: 2650, Growth: 0.260},
			"Rascanya":         {PriceM2: 1790, Growth: 0.230},
			"Benicalap":        {PriceM2: 1850, Growth: 0.240},
		},
	}
}
