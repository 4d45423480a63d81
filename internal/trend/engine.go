package trend

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/model"
)

// Engine computes the momentum features for listings by comparing observed
// pricing against the static market table. Momentum expresses whether a
// zone's current pricing is accelerating faster or slower than its known
// multi-year trend; the clip exists because ratios over small historical
// growth rates explode otherwise.
type Engine struct {
	table       *MarketTable
	growthFloor float64
	clipMin     float64
	clipMax     float64
}

// NewEngine creates an Engine over a market table. A nil table uses the
// built-in defaults; zero clip bounds use the configured defaults.
func NewEngine(table *MarketTable, cfg config.TrendConfig) (*Engine, error) {
	if table == nil {
		table = DefaultMarket()
	}
	if cfg.GrowthFloor <= 0 {
		return nil, eris.New("trend: growth floor must be positive")
	}
	if cfg.ClipMin >= cfg.ClipMax {
		return nil, eris.Errorf("trend: clip range [%g, %g] is empty", cfg.ClipMin, cfg.ClipMax)
	}
	return &Engine{
		table:       table,
		growthFloor: cfg.GrowthFloor,
		clipMin:     cfg.ClipMin,
		clipMax:     cfg.ClipMax,
	}, nil
}

// Reference resolves the reference zone stats for a listing: neighborhood
// table first, then the coarser district table, then the batch-wide average
// price with the table's default growth. batchAvgPriceM2 must come from the
// same batch the listing belongs to.
func (e *Engine) Reference(neighborhood, district string, batchAvgPriceM2 float64) ZoneStats {
	if s, ok := e.table.Neighborhood(neighborhood); ok {
		return s
	}
	if s, ok := e.table.District(district); ok {
		return s
	}
	return ZoneStats{PriceM2: batchAvgPriceM2, Growth: e.table.DefaultGrowth}
}

// Compute derives the momentum features for one listing.
//
// realtime_growth = observed_price_m2 / reference_price_m2 - 1. The
// historical growth is floor-clamped to a positive epsilon before being used
// as the momentum denominator, the ratio is clipped to the configured range,
// and any non-finite intermediate maps to 0 so no NaN reaches the scorer.
func (e *Engine) Compute(pricePerM2 float64, neighborhood, district string, batchAvgPriceM2 float64) model.TrendFeatures {
	ref := e.Reference(neighborhood, district, batchAvgPriceM2)

	var realtime float64
	if ref.PriceM2 > 0 {
		realtime = pricePerM2/ref.PriceM2 - 1
	}
	if math.IsNaN(realtime) || math.IsInf(realtime, 0) {
		realtime = 0
	}

	hist := math.Max(ref.Growth, e.growthFloor)

	momentum := realtime / hist
	if math.IsNaN(momentum) || math.IsInf(momentum, 0) {
		momentum = 0
	}
	momentum = math.Min(math.Max(momentum, e.clipMin), e.clipMax)

	return model.TrendFeatures{
		ReferencePriceM2: ref.PriceM2,
		HistoricalGrowth: hist,
		RealtimeGrowth:   realtime,
		MomentumScore:    momentum,
	}
}
