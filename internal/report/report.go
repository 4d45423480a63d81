// Package report renders a ranked opportunity set as a terminal table, a
// flat CSV artifact, or an xlsx workbook for the reporting layer downstream.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/turia-capital/scout-cli/internal/model"
)

// header defines the column order of the opportunity artifact: every
// enriched field plus the scoring outputs.
var header = []string{
	"rank", "propertyCode", "price", "size", "rooms", "bathrooms",
	"neighborhood", "district", "price_per_m2", "floor_num", "bath_ratio",
	"light_score", "dist_center", "dist_beach", "dist_turia",
	"dist_arts_sciences", "dist_upv", "dist_metro_xativa", "dist_metro",
	"geo_cluster", "has_terrace", "has_balcony", "is_last_floor",
	"is_south_facing", "is_short_let_ready", "reference_price_m2",
	"historical_growth", "realtime_growth", "momentum_score",
	"renovation_cost", "acquisition_cost", "total_investment",
	"estimated_rent", "short_let_net", "net_yield", "short_let_yield",
	"best_yield", "estimated_price", "profit_potential", "margin_pct",
	"investment_score",
}

func row(op *model.Opportunity) []string {
	return []string{
		strconv.Itoa(op.Rank),
		op.PropertyCode,
		f(op.Price), f(op.Size),
		strconv.Itoa(op.Rooms), strconv.Itoa(op.Bathrooms),
		op.Neighborhood, op.District,
		f(op.PricePerM2), f(op.FloorNum), f(op.BathRatio), f(op.LightScore),
		f(op.DistCenter), f(op.DistBeach), f(op.DistTuria),
		f(op.DistArtsSciences), f(op.DistUPV), f(op.DistMetroXativa), f(op.DistMetro),
		strconv.Itoa(op.GeoCluster),
		b(op.Flags.Terrace), b(op.Flags.Balcony), b(op.IsLastFloorUnit()),
		b(op.Flags.SouthFacing), b(op.Flags.ShortLetReady),
		f(op.Trend.ReferencePriceM2), f(op.Trend.HistoricalGrowth),
		f(op.Trend.RealtimeGrowth), f(op.Trend.MomentumScore),
		f(op.Finance.RenovationCost), f(op.Finance.AcquisitionCost),
		f(op.Finance.TotalInvestment), f(op.Finance.EstimatedRent),
		f(op.Finance.ShortLetNet), f(op.Finance.NetYield),
		f(op.Finance.ShortLetYield), f(op.Finance.BestYield),
		f(op.EstimatedPrice), f(op.ProfitPotential), f(op.MarginPct),
		f(op.InvestmentScore),
	}
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func b(v bool) string {
	return strconv.FormatBool(v)
}

// WriteCSV persists the ranked set as a flat CSV artifact, creating parent
// directories as needed.
func WriteCSV(path string, opps []model.Opportunity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer file.Close() //nolint:errcheck

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for i := range opps {
		if err := w.Write(row(&opps[i])); err != nil {
			return eris.Wrapf(err, "report: write csv row %d", i)
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "report: flush csv")
}

// WriteXLSX persists the ranked set as a single-sheet workbook.
func WriteXLSX(path string, opps []model.Opportunity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("opportunities")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	hr := sheet.AddRow()
	for _, name := range header {
		hr.AddCell().SetString(name)
	}
	for i := range opps {
		r := sheet.AddRow()
		for _, cell := range row(&opps[i]) {
			r.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(file.Save(path), "report: save %s", path)
}

// RenderTable writes a compact ranked table for terminal consumption.
func RenderTable(out io.Writer, opps []model.Opportunity, top int) {
	if top > 0 && len(opps) > top {
		opps = opps[:top]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tCODE\tNEIGHBORHOOD\tPRICE\tESTIMATE\tMARGIN%\tYIELD%\tSCORE")
	_, _ = fmt.Fprintln(w, "----\t----\t------------\t-----\t--------\t-------\t------\t-----")
	for i := range opps {
		op := &opps[i]
		zone := op.Neighborhood
		if zone == "" {
			zone = op.District
		}
		if len(zone) > 24 {
			zone = zone[:21] + "..."
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.0f\t%.1f\t%.1f\t%.1f\n",
			op.Rank, op.PropertyCode, zone, op.Price, op.EstimatedPrice,
			op.MarginPct, op.Finance.BestYield, op.InvestmentScore)
	}
	_ = w.Flush()
}

// RenderFunnel writes the stage counters so an operator can see where
// volume was lost.
func RenderFunnel(out io.Writer, counts *model.FunnelCounts) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STAGE\tCOUNT")
	_, _ = fmt.Fprintf(w, "records in\t%d\n", counts.RecordsIn)
	_, _ = fmt.Fprintf(w, "risky excluded\t%d\n", counts.RiskyExcluded)
	_, _ = fmt.Fprintf(w, "after risk filter\t%d\n", counts.AfterRiskFilter)
	_, _ = fmt.Fprintf(w, "filtered out\t%d\n", counts.FilteredOut)
	_, _ = fmt.Fprintf(w, "opportunities\t%d\n", counts.Opportunities)
	_ = w.Flush()
}
