package opportunity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/model"
)

// Scorer is a pure per-batch function: the same enriched batch and estimate
// vector always produce the same ranked set.
type Scorer struct {
	cfg config.ScorerConfig
}

// NewScorer validates the configuration and creates a Scorer.
func NewScorer(cfg config.ScorerConfig) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// Score computes margin, composite score, and rank for a batch. estimates
// must carry one estimate per listing in batch order. Listings outside the
// safety band are dropped and counted; survivors are ranked by score
// descending, ties by margin descending, then input order.
func (s *Scorer) Score(batch []model.EnrichedListing, estimates []float64) ([]model.Opportunity, *model.FunnelCounts, error) {
	if len(batch) == 0 {
		return nil, nil, eris.New("opportunity: empty batch")
	}
	if len(estimates) != len(batch) {
		return nil, nil, eris.Errorf("opportunity: %d estimates for %d listings", len(estimates), len(batch))
	}
	if err := ValidateBatch(batch); err != nil {
		return nil, nil, err
	}

	counts := &model.FunnelCounts{RecordsIn: len(batch)}

	var opps []model.Opportunity
	for i := range batch {
		op := model.Opportunity{
			EnrichedListing: batch[i],
			EstimatedPrice:  estimates[i],
		}
		op.ProfitPotential = op.EstimatedPrice - op.Finance.TotalInvestment
		if op.EstimatedPrice > 0 {
			op.MarginPct = op.ProfitPotential / op.EstimatedPrice * 100
		}
		op.InvestmentScore = s.compositeScore(&op)

		if !s.plausible(&op) {
			counts.FilteredOut++
			continue
		}
		opps = append(opps, op)
	}

	// Rank: score descending, margin breaks ties, input order beyond that.
	sort.SliceStable(opps, func(i, j int) bool {
		if opps[i].InvestmentScore != opps[j].InvestmentScore {
			return opps[i].InvestmentScore > opps[j].InvestmentScore
		}
		return opps[i].MarginPct > opps[j].MarginPct
	})
	for i := range opps {
		opps[i].Rank = i + 1
	}

	counts.Opportunities = len(opps)
	zap.L().Info("opportunity: batch scored",
		zap.Int("records_in", counts.RecordsIn),
		zap.Int("filtered_out", counts.FilteredOut),
		zap.Int("opportunities", counts.Opportunities),
	)
	return opps, counts, nil
}

// compositeScore sums the independently clipped sub-scores. Each ramp is
// linear from 0 at zero to the full weight at the configured target.
func (s *Scorer) compositeScore(op *model.Opportunity) float64 {
	score := ramp(op.MarginPct, s.cfg.MarginTargetPct, s.cfg.MarginWeight) +
		ramp(op.Finance.BestYield, s.cfg.YieldTargetPct, s.cfg.YieldWeight) +
		ramp(op.Trend.MomentumScore, s.cfg.MomentumTarget, s.cfg.MomentumWeight) +
		s.qualityBonus(op)

	score = clip(score, 0, 100)
	return math.Round(score*100) / 100
}

func (s *Scorer) qualityBonus(op *model.Opportunity) float64 {
	var bonus float64
	if op.Flags.ShortLetReady {
		bonus += s.cfg.ShortLetBonus
	}
	if op.Flags.Terrace {
		bonus += s.cfg.TerraceBonus
	}
	if op.IsLastFloorUnit() {
		bonus += s.cfg.LastFloorBonus
	}
	return math.Min(bonus, s.cfg.QualityCap)
}

// plausible applies the safety band: margin inside (min, max) and price
// above the plausibility floor. The high-margin cut rejects estimates too
// good to be true; the price floor excludes garages and storage units
// misclassified as homes.
func (s *Scorer) plausible(op *model.Opportunity) bool {
	if op.MarginPct <= s.cfg.MinMarginPct || op.MarginPct >= s.cfg.MaxMarginPct {
		return false
	}
	return op.Price > s.cfg.MinPrice
}

// ramp maps v linearly onto [0, weight], reaching weight at target.
func ramp(v, target, weight float64) float64 {
	return clip(v/target*weight, 0, weight)
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ValidateBatch checks that every listing carries a structurally complete,
// finite feature set. Scoring a partial batch is not supported: a missing
// or non-finite column aborts the whole batch and the error names the
// offending columns so the operator can trace the gap upstream.
func ValidateBatch(batch []model.EnrichedListing) error {
	for i := range batch {
		l := &batch[i]
		var bad []string
		for name, v := range featureColumns(l) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				bad = append(bad, name)
			}
		}
		if len(bad) > 0 {
			sort.Strings(bad)
			return eris.New(fmt.Sprintf("opportunity: listing %s has invalid feature columns: %s",
				l.PropertyCode, strings.Join(bad, ", ")))
		}
	}
	return nil
}

func featureColumns(l *model.EnrichedListing) map[string]float64 {
	return map[string]float64{
		"price_per_m2":       l.PricePerM2,
		"floor_num":          l.FloorNum,
		"bath_ratio":         l.BathRatio,
		"light_score":        l.LightScore,
		"dist_center":        l.DistCenter,
		"dist_beach":         l.DistBeach,
		"dist_turia":         l.DistTuria,
		"dist_arts_sciences": l.DistArtsSciences,
		"dist_upv":           l.DistUPV,
		"dist_metro_xativa":  l.DistMetroXativa,
		"dist_metro":         l.DistMetro,
		"reference_price_m2": l.Trend.ReferencePriceM2,
		"historical_growth":  l.Trend.HistoricalGrowth,
		"realtime_growth":    l.Trend.RealtimeGrowth,
		"momentum_score":     l.Trend.MomentumScore,
		"renovation_cost":    l.Finance.RenovationCost,
		"acquisition_cost":   l.Finance.AcquisitionCost,
		"total_investment":   l.Finance.TotalInvestment,
		"estimated_rent":     l.Finance.EstimatedRent,
		"short_let_net":      l.Finance.ShortLetNet,
		"net_yield":          l.Finance.NetYield,
		"short_let_yield":    l.Finance.ShortLetYield,
		"best_yield":         l.Finance.BestYield,
	}
}
