// Package finance computes the investment arithmetic for enriched listings:
// renovation and acquisition costs, rental and short-let income, and yields.
package finance

import (
	"math"
	"strings"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/model"
)

// Calculator applies the static financial rates to listings. Price and size
// are guaranteed positive by the ingestion filters, so divisions by
// total_investment need no runtime guard here; that invariant is an input
// precondition.
type Calculator struct {
	cfg        config.FinanceConfig
	highDemand map[string]bool
}

// NewCalculator creates a Calculator. Nil rate tables fall back to the
// built-in Valencia rates.
func NewCalculator(cfg config.FinanceConfig) *Calculator {
	if cfg.RentRatesM2 == nil {
		cfg.RentRatesM2 = defaultRentRates()
	}
	if cfg.HighDemandDistricts == nil {
		cfg.HighDemandDistricts = defaultHighDemandDistricts()
	}

	hd := make(map[string]bool, len(cfg.HighDemandDistricts))
	for _, d := range cfg.HighDemandDistricts {
		hd[strings.TrimSpace(d)] = true
	}
	return &Calculator{cfg: cfg, highDemand: hd}
}

// Compute derives the financial features for one listing. shortLetReady
// comes from the text classifier; a listing without an explicit tourist
// license earns no short-let income.
func (c *Calculator) Compute(l *model.RawListing, shortLetReady bool) model.FinanceFeatures {
	var f model.FinanceFeatures

	rate := c.cfg.ReadyRateM2
	if l.NeedsReform() {
		rate = c.cfg.ReformRateM2
	}
	f.RenovationCost = l.Size * rate
	f.AcquisitionCost = l.Price * c.cfg.ClosingCostPct
	f.TotalInvestment = l.Price + f.AcquisitionCost + f.RenovationCost

	f.EstimatedRent = l.Size * c.rentRate(l.District)

	if shortLetReady {
		nightly := c.cfg.NightlyRateBase
		if c.highDemand[strings.TrimSpace(l.District)] {
			nightly = c.cfg.NightlyRateHigh
		}
		gross := nightly * 30 * c.cfg.OccupancyRate
		f.ShortLetNet = gross * (1 - c.cfg.ShortLetCostPct)
	}

	f.NetYield = f.EstimatedRent * 12 / f.TotalInvestment * 100
	f.ShortLetYield = f.ShortLetNet * 12 / f.TotalInvestment * 100
	f.BestYield = math.Max(f.NetYield, f.ShortLetYield)

	return f
}

func (c *Calculator) rentRate(district string) float64 {
	if r, ok := c.cfg.RentRatesM2[strings.TrimSpace(district)]; ok && r > 0 {
		return r
	}
	return c.cfg.DefaultRentRateM2
}

// defaultRentRates returns monthly rent per square meter by district.
func defaultRentRates() map[string]float64 {
	return map[string]float64{
		"Ciutat Vella":     13.5,
		"L'Eixample":       13.0,
		"Extramurs":        11.5,
		"Campanar":         10.5,
		"La Saïdia":        10.0,
		"El Pla del Real":  12.0,
		"L'Olivereta":      9.5,
		"Patraix":          10.0,
		"Jesús":            9.5,
		"Quatre Carreres":  10.0,
		"Poblats Marítims": 11.5,
		"Camins al Grau":   11.0,
		"Algirós":          10.5,
		"Benimaclet":       11.0,
		"Rascanya":         9.0,
		"Benicalap":        9.0,
	}
}

// defaultHighDemandDistricts lists the districts that command the higher
// short-let nightly rate.
func defaultHighDemandDistricts() []string {
	return []string{"Ciutat Vella", "L'Eixample", "Poblats Marítims"}
}
