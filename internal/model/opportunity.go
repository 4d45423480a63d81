package model

// Opportunity is the terminal artifact of one scoring pass: an enriched
// listing that survived the safety filters, with the model estimate and the
// composite investment score attached. Opportunities are immutable snapshots;
// a new pass produces a new ranked set rather than updating these in place.
type Opportunity struct {
	EnrichedListing

	EstimatedPrice  float64 `json:"estimated_price"`
	ProfitPotential float64 `json:"profit_potential"`
	MarginPct       float64 `json:"margin_pct"`
	InvestmentScore float64 `json:"investment_score"`
	Rank            int     `json:"rank"`
}

// FunnelCounts reports how many records each filtering stage kept, so an
// operator can see where volume was lost.
type FunnelCounts struct {
	RecordsIn       int `json:"records_in"`
	RiskyExcluded   int `json:"risky_excluded"`
	AfterRiskFilter int `json:"after_risk_filter"`
	FilteredOut     int `json:"filtered_out"`
	Opportunities   int `json:"opportunities"`
}
