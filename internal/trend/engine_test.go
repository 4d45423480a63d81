package trend

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turia-capital/scout-cli/internal/config"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func testTrendConfig() config.TrendConfig {
	return config.TrendConfig{GrowthFloor: 0.01, ClipMin: -5, ClipMax: 10}
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(nil, config.TrendConfig{GrowthFloor: 0, ClipMin: -5, ClipMax: 10})
	assert.Error(t, err)

	_, err = NewEngine(nil, config.TrendConfig{GrowthFloor: 0.01, ClipMin: 10, ClipMax: -5})
	assert.Error(t, err)

	_, err = NewEngine(nil, testTrendConfig())
	assert.NoError(t, err)
}

func TestReferenceFallbackChain(t *testing.T) {
	e, err := NewEngine(DefaultMarket(), testTrendConfig())
	require.NoError(t, err)

	t.Run("neighborhood hit", func(t *testing.T) {
		s := e.Reference("Benimaclet", "Benimaclet", 2000)
		assert.InDelta(t, 2998, s.PriceM2, 1e-9)
		assert.InDelta(t, 0.270, s.Growth, 1e-9)
	})

	t.Run("district fallback", func(t *testing.T) {
		s := e.Reference("Unknown Barrio", "Ciutat Vella", 2000)
		assert.InDelta(t, 3180, s.PriceM2, 1e-9)
		assert.InDelta(t, 0.190, s.Growth, 1e-9)
	})

	t.Run("batch average fallback", func(t *testing.T) {
		s := e.Reference("Unknown Barrio", "Unknown District", 2000)
		assert.InDelta(t, 2000, s.PriceM2, 1e-9)
		assert.InDelta(t, 0.15, s.Growth, 1e-9)
	})

	t.Run("missing zone labels", func(t *testing.T) {
		s := e.Reference("", "", 1234)
		assert.InDelta(t, 1234, s.PriceM2, 1e-9)
	})
}

func TestZeroPriceRowIsAbsent(t *testing.T) {
	table := &MarketTable{
		Neighborhoods: map[string]ZoneStats{"Zeroville": {PriceM2: 0, Growth: 0.2}},
		Districts:     map[string]ZoneStats{"Realtown": {PriceM2: 1500, Growth: 0.1}},
		DefaultGrowth: 0.15,
	}
	e, err := NewEngine(table, testTrendConfig())
	require.NoError(t, err)

	// A zero-price table row must not masquerade as market data; the lookup
	// falls through to the district.
	s := e.Reference("Zeroville", "Realtown", 2000)
	assert.InDelta(t, 1500, s.PriceM2, 1e-9)
}

func TestCompute(t *testing.T) {
	e, err := NewEngine(DefaultMarket(), testTrendConfig())
	require.NoError(t, err)

	t.Run("benimaclet momentum", func(t *testing.T) {
		// 150000 / 70 m2 = 2142.857 per m2 against a 2998 reference.
		got := e.Compute(150000.0/70.0, "Benimaclet", "Benimaclet", 2500)

		wantRealtime := (150000.0/70.0)/2998.0 - 1
		assert.InDelta(t, wantRealtime, got.RealtimeGrowth, 1e-9)
		assert.InDelta(t, 0.270, got.HistoricalGrowth, 1e-9)
		assert.InDelta(t, wantRealtime/0.270, got.MomentumScore, 1e-9)
	})

	t.Run("growth floor backs the denominator", func(t *testing.T) {
		table := &MarketTable{
			Neighborhoods: map[string]ZoneStats{"Flat": {PriceM2: 2000, Growth: 0}},
			DefaultGrowth: 0.15,
		}
		fe, err := NewEngine(table, testTrendConfig())
		require.NoError(t, err)

		got := fe.Compute(2200, "Flat", "", 2000)
		assert.InDelta(t, 0.01, got.HistoricalGrowth, 1e-9)
		// 10% above reference over a 1% floor clips at the ceiling.
		assert.InDelta(t, 10, got.MomentumScore, 1e-9)
	})

	t.Run("momentum clips low", func(t *testing.T) {
		table := &MarketTable{
			Neighborhoods: map[string]ZoneStats{"Hot": {PriceM2: 10000, Growth: 0.01}},
			DefaultGrowth: 0.15,
		}
		fe, err := NewEngine(table, testTrendConfig())
		require.NoError(t, err)

		got := fe.Compute(1000, "Hot", "", 2000)
		assert.InDelta(t, -5, got.MomentumScore, 1e-9)
	})

	t.Run("non-finite inputs map to zero", func(t *testing.T) {
		got := e.Compute(math.NaN(), "Benimaclet", "", 2000)
		assert.Zero(t, got.RealtimeGrowth)
		assert.Zero(t, got.MomentumScore)
	})

	t.Run("zero batch average yields zero realtime", func(t *testing.T) {
		got := e.Compute(2000, "Unknown", "Unknown", 0)
		assert.Zero(t, got.RealtimeGrowth)
		assert.Zero(t, got.MomentumScore)
	})
}

func TestLoadMarket(t *testing.T) {
	path := t.TempDir() + "/market.yaml"
	content := `default_growth: 0.2
neighborhoods:
  Testzone:
    price_m2: 2500
    growth: 0.3
districts:
  Testdistrict:
    price_m2: 2100
    growth: 0.25
`
	require.NoError(t, writeFile(path, content))

	table, err := LoadMarket(path)
	require.NoError(t, err)

	s, ok := table.Neighborhood("Testzone")
	require.True(t, ok)
	assert.InDelta(t, 2500, s.PriceM2, 1e-9)
	assert.InDelta(t, 0.2, table.DefaultGrowth, 1e-9)
}

func TestLoadMarketEmpty(t *testing.T) {
	path := t.TempDir() + "/market.yaml"
	require.NoError(t, writeFile(path, "default_growth: 0.2\n"))

	_, err := LoadMarket(path)
	assert.Error(t, err)
}
