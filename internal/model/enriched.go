package model

import "math"

// TextFlags holds the boolean classifications derived from the free-text
// description. Risky listings are excluded from the pipeline before any
// financial computation; the remaining flags feed the quality bonus.
type TextFlags struct {
	Risky         bool `json:"is_risky"`
	Terrace       bool `json:"has_terrace"`
	Balcony       bool `json:"has_balcony"`
	LastFloor     bool `json:"is_last_floor"`
	SouthFacing   bool `json:"is_south_facing"`
	ShortLetReady bool `json:"is_short_let_ready"`
}

// TrendFeatures holds the per-zone momentum figures.
type TrendFeatures struct {
	ReferencePriceM2 float64 `json:"reference_price_m2"`
	HistoricalGrowth float64 `json:"historical_growth"`
	RealtimeGrowth   float64 `json:"realtime_growth"`
	MomentumScore    float64 `json:"momentum_score"`
}

// FinanceFeatures holds the investment arithmetic for one listing.
type FinanceFeatures struct {
	RenovationCost  float64 `json:"renovation_cost"`
	AcquisitionCost float64 `json:"acquisition_cost"`
	TotalInvestment float64 `json:"total_investment"`
	EstimatedRent   float64 `json:"estimated_rent"`
	ShortLetNet     float64 `json:"estimated_short_let_net"`
	NetYield        float64 `json:"net_yield"`
	ShortLetYield   float64 `json:"short_let_yield"`
	BestYield       float64 `json:"best_yield"`
}

// EnrichedListing is a RawListing plus the closed set of derived features.
// Invariant: every numeric feature is finite before the record reaches the
// estimator or the scorer.
type EnrichedListing struct {
	RawListing

	PricePerM2 float64 `json:"price_per_m2"`
	FloorNum   float64 `json:"floor_num"`
	BathRatio  float64 `json:"bath_ratio"`
	LightScore float64 `json:"light_score"`

	DistCenter       float64 `json:"dist_center"`
	DistBeach        float64 `json:"dist_beach"`
	DistTuria        float64 `json:"dist_turia"`
	DistArtsSciences float64 `json:"dist_arts_sciences"`
	DistUPV          float64 `json:"dist_upv"`
	DistMetroXativa  float64 `json:"dist_metro_xativa"`
	DistMetro        float64 `json:"dist_metro"`

	GeoCluster int `json:"geo_cluster"`

	Flags   TextFlags       `json:"flags"`
	Trend   TrendFeatures   `json:"trend"`
	Finance FinanceFeatures `json:"finance"`
}

// IsLastFloorUnit combines the text-derived last-floor flag with the
// penthouse property type.
func (e *EnrichedListing) IsLastFloorUnit() bool {
	return e.Flags.LastFloor || e.IsPenthouse()
}

// FiniteFeatures reports whether every derived numeric feature is finite.
func (e *EnrichedListing) FiniteFeatures() bool {
	for _, v := range []float64{
		e.PricePerM2, e.FloorNum, e.BathRatio, e.LightScore,
		e.DistCenter, e.DistBeach, e.DistTuria, e.DistArtsSciences,
		e.DistUPV, e.DistMetroXativa, e.DistMetro,
		e.Trend.ReferencePriceM2, e.Trend.HistoricalGrowth,
		e.Trend.RealtimeGrowth, e.Trend.MomentumScore,
		e.Finance.RenovationCost, e.Finance.AcquisitionCost,
		e.Finance.TotalInvestment, e.Finance.EstimatedRent,
		e.Finance.ShortLetNet, e.Finance.NetYield,
		e.Finance.ShortLetYield, e.Finance.BestYield,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
