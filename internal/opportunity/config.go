// Package opportunity combines the price estimate and the derived features
// into a composite 0-100 investment score, applies the safety filters, and
// ranks the survivors.
package opportunity

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/turia-capital/scout-cli/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with the standard
// weights. Weights sum to 100 before the quality bonus, which is additive
// and capped separately; the final score is clipped to [0, 100].
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		// Weights and ramp targets.
		MarginTargetPct: 25,
		MarginWeight:    40,
		YieldTargetPct:  8,
		YieldWeight:     30,
		MomentumTarget:  1.5,
		MomentumWeight:  20,

		// Quality bonus.
		QualityCap:     10,
		ShortLetBonus:  4,
		TerraceBonus:   3,
		LastFloorBonus: 3,

		// Safety filters.
		MinMarginPct: 10,
		MaxMarginPct: 50,
		MinPrice:     55000,
	}
}

// WeightSum returns the sum of the ramp sub-score weights plus the quality
// cap, i.e. the maximum attainable raw score.
func WeightSum(c config.ScorerConfig) float64 {
	return c.MarginWeight + c.YieldWeight + c.MomentumWeight + c.QualityCap
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	weights := map[string]float64{
		"margin_weight":    c.MarginWeight,
		"yield_weight":     c.YieldWeight,
		"momentum_weight":  c.MomentumWeight,
		"quality_cap":      c.QualityCap,
		"short_let_bonus":  c.ShortLetBonus,
		"terrace_bonus":    c.TerraceBonus,
		"last_floor_bonus": c.LastFloorBonus,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	// Ramp targets are denominators; zero or negative would blow up the
	// sub-scores.
	targets := map[string]float64{
		"margin_target_pct": c.MarginTargetPct,
		"yield_target_pct":  c.YieldTargetPct,
		"momentum_target":   c.MomentumTarget,
	}
	for name, v := range targets {
		if v <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	// Scores should land on a 0-100 scale (allow tolerance for floating-point).
	if math.Abs(sum-100) > 1 {
		errs = append(errs, fmt.Sprintf("weights plus quality cap should sum to 100, got %.1f", sum))
	}

	if c.MinMarginPct >= c.MaxMarginPct {
		errs = append(errs, "min_margin_pct must be < max_margin_pct")
	}
	if c.MinPrice < 0 {
		errs = append(errs, "min_price must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("opportunity: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
