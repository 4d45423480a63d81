package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turia-capital/scout-cli/internal/config"
	"github.com/turia-capital/scout-cli/internal/model"
)

func testFinanceConfig() config.FinanceConfig {
	return config.FinanceConfig{
		ReformRateM2:      1850,
		ReadyRateM2:       600,
		ClosingCostPct:    0.125,
		DefaultRentRateM2: 11,
		NightlyRateHigh:   95,
		NightlyRateBase:   70,
		OccupancyRate:     0.75,
		ShortLetCostPct:   0.35,
	}
}

func TestComputeNeedsReform(t *testing.T) {
	c := NewCalculator(testFinanceConfig())
	l := &model.RawListing{
		PropertyCode: "a1",
		Price:        150000,
		Size:         70,
		Status:       "renew",
		Neighborhood: "Benimaclet",
		District:     "Benimaclet",
	}

	f := c.Compute(l, false)

	assert.InDelta(t, 129500, f.RenovationCost, 1e-9)
	assert.InDelta(t, 18750, f.AcquisitionCost, 1e-9)
	assert.InDelta(t, 298250, f.TotalInvestment, 1e-9)
	assert.InDelta(t, 70*11.0, f.EstimatedRent, 1e-9)
	assert.Zero(t, f.ShortLetNet)
	assert.InDelta(t, f.NetYield, f.BestYield, 1e-9)
}

func TestComputeReady(t *testing.T) {
	c := NewCalculator(testFinanceConfig())
	l := &model.RawListing{Price: 200000, Size: 80, Status: "good", District: "Patraix"}

	f := c.Compute(l, false)

	assert.InDelta(t, 80*600.0, f.RenovationCost, 1e-9)
	assert.InDelta(t, 200000*0.125, f.AcquisitionCost, 1e-9)
	assert.InDelta(t, 200000+48000+25000, f.TotalInvestment, 1e-9)
	// Patraix has a table rate.
	assert.InDelta(t, 80*10.0, f.EstimatedRent, 1e-9)
}

func TestComputeShortLet(t *testing.T) {
	c := NewCalculator(testFinanceConfig())

	t.Run("high demand district", func(t *testing.T) {
		l := &model.RawListing{Price: 180000, Size: 60, District: "Ciutat Vella"}
		f := c.Compute(l, true)

		want := 95.0 * 30 * 0.75 * (1 - 0.35)
		assert.InDelta(t, want, f.ShortLetNet, 1e-9)
		assert.Greater(t, f.ShortLetYield, 0.0)
	})

	t.Run("base district", func(t *testing.T) {
		l := &model.RawListing{Price: 180000, Size: 60, District: "Rascanya"}
		f := c.Compute(l, true)

		want := 70.0 * 30 * 0.75 * (1 - 0.35)
		assert.InDelta(t, want, f.ShortLetNet, 1e-9)
	})

	t.Run("not short let ready", func(t *testing.T) {
		l := &model.RawListing{Price: 180000, Size: 60, District: "Ciutat Vella"}
		f := c.Compute(l, false)

		assert.Zero(t, f.ShortLetNet)
		assert.Zero(t, f.ShortLetYield)
	})
}

func TestBestYield(t *testing.T) {
	c := NewCalculator(testFinanceConfig())

	// A short-let-ready flat in a high-demand district out-earns long-term
	// rent.
	l := &model.RawListing{Price: 120000, Size: 45, District: "Ciutat Vella"}
	f := c.Compute(l, true)

	assert.Greater(t, f.ShortLetYield, f.NetYield)
	assert.InDelta(t, f.ShortLetYield, f.BestYield, 1e-9)
}

func TestRentRateFallback(t *testing.T) {
	c := NewCalculator(testFinanceConfig())
	l := &model.RawListing{Price: 100000, Size: 50, District: "Nowhere"}

	f := c.Compute(l, false)
	assert.InDelta(t, 50*11.0, f.EstimatedRent, 1e-9)
}
