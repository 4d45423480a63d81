package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/turia-capital/scout-cli/internal/model"
)

func reportFixture(code string, rank int, score float64) model.Opportunity {
	op := model.Opportunity{
		EstimatedPrice:  210000,
		ProfitPotential: 52500,
		MarginPct:       25,
		InvestmentScore: score,
		Rank:            rank,
	}
	op.PropertyCode = code
	op.Price = 130000
	op.Size = 75
	op.Rooms = 3
	op.Bathrooms = 1
	op.Neighborhood = "Benimaclet"
	op.District = "Benimaclet"
	op.PricePerM2 = 1733.33
	op.GeoCluster = 2
	op.Flags = model.TextFlags{Terrace: true, ShortLetReady: true}
	op.Trend = model.TrendFeatures{ReferencePriceM2: 2998, MomentumScore: 2.1}
	op.Finance = model.FinanceFeatures{
		RenovationCost:  138750,
		AcquisitionCost: 16250,
		TotalInvestment: 285000,
		EstimatedRent:   825,
		NetYield:        3.47,
		BestYield:       6.1,
	}
	return op
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifacts", "opportunities.csv")
	opps := []model.Opportunity{
		reportFixture("100", 1, 72.5),
		reportFixture("200", 2, 55),
	}

	require.NoError(t, WriteCSV(path, opps))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])
	require.Len(t, records[1], len(header))

	byName := make(map[string]string, len(header))
	for i, name := range header {
		byName[name] = records[1][i]
	}
	assert.Equal(t, "1", byName["rank"])
	assert.Equal(t, "100", byName["propertyCode"])
	assert.Equal(t, "130000", byName["price"])
	assert.Equal(t, "Benimaclet", byName["neighborhood"])
	assert.Equal(t, "true", byName["has_terrace"])
	assert.Equal(t, "false", byName["has_balcony"])
	assert.Equal(t, "285000", byName["total_investment"])
	assert.Equal(t, "72.5", byName["investment_score"])

	assert.Equal(t, "200", records[2][1])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opportunities.xlsx")
	opps := []model.Opportunity{reportFixture("100", 1, 72.5)}

	require.NoError(t, WriteXLSX(path, opps))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "opportunities", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	require.Len(t, sheet.Rows[0].Cells, len(header))

	assert.Equal(t, "rank", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "1", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "100", sheet.Rows[1].Cells[1].String())
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	opps := []model.Opportunity{
		reportFixture("100", 1, 72.5),
		reportFixture("200", 2, 55),
	}

	RenderTable(&buf, opps, 0)

	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "SCORE")
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "Benimaclet")
	assert.Contains(t, out, "72.5")
}

func TestRenderTableHonorsTop(t *testing.T) {
	var buf bytes.Buffer
	opps := []model.Opportunity{
		reportFixture("100", 1, 72.5),
		reportFixture("200", 2, 55),
		reportFixture("300", 3, 41),
	}

	RenderTable(&buf, opps, 2)

	out := buf.String()
	assert.Contains(t, out, "100")
	assert.Contains(t, out, "200")
	assert.NotContains(t, out, "300")
}

func TestRenderTableTruncatesZone(t *testing.T) {
	var buf bytes.Buffer
	op := reportFixture("100", 1, 72.5)
	op.Neighborhood = "Ciutat de les Arts i de les Ciencies Nord"

	RenderTable(&buf, []model.Opportunity{op}, 0)

	assert.Contains(t, buf.String(), "Ciutat de les Arts i ...")
}

func TestRenderTableFallsBackToDistrict(t *testing.T) {
	var buf bytes.Buffer
	op := reportFixture("100", 1, 72.5)
	op.Neighborhood = ""
	op.District = "Extramurs"

	RenderTable(&buf, []model.Opportunity{op}, 0)

	assert.Contains(t, buf.String(), "Extramurs")
}

func TestRenderFunnel(t *testing.T) {
	var buf bytes.Buffer
	counts := &model.FunnelCounts{
		RecordsIn:       120,
		RiskyExcluded:   7,
		AfterRiskFilter: 113,
		FilteredOut:     90,
		Opportunities:   23,
	}

	RenderFunnel(&buf, counts)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, out, "records in")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "risky excluded")
	assert.Contains(t, out, "opportunities")
	assert.Contains(t, out, "23")
}
