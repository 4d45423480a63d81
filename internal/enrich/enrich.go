// Package enrich derives the full feature set for a cleaned batch: text
// flags, spatial distances, zone clusters, market momentum, and the
// financial model. The whole pipeline is deterministic; re-running it over
// the same batch and tables produces identical output.
package enrich

import (
	"context"
	"math"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/turia-capital/scout-cli/internal/finance"
	"github.com/turia-capital/scout-cli/internal/geocluster"
	"github.com/turia-capital/scout-cli/internal/geodist"
	"github.com/turia-capital/scout-cli/internal/model"
	"github.com/turia-capital/scout-cli/internal/textclass"
	"github.com/turia-capital/scout-cli/internal/trend"
)

// Enricher holds the reference tables and derived-feature components for a
// scoring pass. Build one per run; the zone clusterer is re-fit on each
// batch so cluster identifiers are only comparable within a run.
type Enricher struct {
	refs    *geodist.References
	rules   *textclass.RuleTable
	cluster *geocluster.Clusterer
	trend   *trend.Engine
	finance *finance.Calculator
}

// New assembles an Enricher from its components. All tables must be
// non-nil; the caller decides between defaults and loaded files.
func New(refs *geodist.References, rules *textclass.RuleTable, cluster *geocluster.Clusterer, trendEngine *trend.Engine, calc *finance.Calculator) (*Enricher, error) {
	switch {
	case refs == nil:
		return nil, eris.New("enrich: nil reference set")
	case rules == nil:
		return nil, eris.New("enrich: nil rule table")
	case cluster == nil:
		return nil, eris.New("enrich: nil clusterer")
	case trendEngine == nil:
		return nil, eris.New("enrich: nil trend engine")
	case calc == nil:
		return nil, eris.New("enrich: nil finance calculator")
	}
	return &Enricher{
		refs:    refs,
		rules:   rules,
		cluster: cluster,
		trend:   trendEngine,
		finance: calc,
	}, nil
}

// Result is one enriched batch plus the stage counters the funnel reports.
type Result struct {
	Listings      []model.EnrichedListing
	RecordsIn     int
	RiskyExcluded int
}

// Run enriches a cleaned batch. Risk exclusion happens first so that no
// financial figure is ever computed for a legally encumbered listing; the
// zone clusters and the batch average price are then fit on the survivors
// only. Output order follows input order.
func (e *Enricher) Run(ctx context.Context, batch []model.RawListing) (*Result, error) {
	if len(batch) == 0 {
		return nil, eris.New("enrich: empty batch")
	}

	res := &Result{RecordsIn: len(batch)}

	// Text pass and risk exclusion.
	kept := make([]model.EnrichedListing, 0, len(batch))
	for i := range batch {
		flags := textclass.Classify(batch[i].Description, e.rules)
		if flags.Risky {
			res.RiskyExcluded++
			zap.L().Debug("enrich: risky listing excluded",
				zap.String("property_code", batch[i].PropertyCode))
			continue
		}
		kept = append(kept, model.EnrichedListing{RawListing: batch[i], Flags: flags})
	}
	if len(kept) == 0 {
		return nil, eris.New("enrich: no listings survived the risk filter")
	}

	// Zone clusters over the survivors.
	points := make([]geom.Coord, len(kept))
	for i := range kept {
		points[i] = geom.Coord{kept[i].Longitude, kept[i].Latitude}
	}
	assignments, err := e.cluster.Fit(points)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: fit zone clusters")
	}
	for i := range kept {
		kept[i].GeoCluster = assignments[i]
	}

	// Per-listing features are independent of each other once the clusters
	// are assigned, so they parallelize cleanly.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range kept {
		g.Go(func() error {
			e.listingFeatures(&kept[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "enrich: listing features")
	}

	// Trend and finance need the whole batch's average price per m² for the
	// last fallback tier, so they run after the per-listing pass.
	avg := batchAvgPriceM2(kept)
	for i := range kept {
		l := &kept[i]
		l.Trend = e.trend.Compute(l.PricePerM2, l.Neighborhood, l.District, avg)
		l.Finance = e.finance.Compute(&l.RawListing, l.Flags.ShortLetReady)
	}

	res.Listings = kept
	zap.L().Info("enrich: batch enriched",
		zap.Int("records_in", res.RecordsIn),
		zap.Int("risky_excluded", res.RiskyExcluded),
		zap.Int("kept", len(kept)),
	)
	return res, nil
}

// listingFeatures fills the price, floor, light, and distance fields.
func (e *Enricher) listingFeatures(l *model.EnrichedListing) {
	l.PricePerM2 = l.Price / l.Size
	l.FloorNum = l.FloorValue()
	l.BathRatio = float64(l.Bathrooms) / math.Max(float64(l.Rooms), 1)

	// Light proxy: higher floors facing outward get more daylight.
	exterior := 0.0
	if l.ExteriorValue() {
		exterior = 1.0
	}
	l.LightScore = l.FloorNum * exterior

	l.DistCenter = geodist.DistanceToKM(l.Latitude, l.Longitude, e.refs.Center)
	l.DistArtsSciences = geodist.DistanceToKM(l.Latitude, l.Longitude, e.refs.ArtsSciences)
	l.DistUPV = geodist.DistanceToKM(l.Latitude, l.Longitude, e.refs.UPV)
	l.DistMetroXativa = geodist.DistanceToKM(l.Latitude, l.Longitude, e.refs.MetroXativa)
	l.DistBeach = geodist.NearestKM(l.Latitude, l.Longitude, e.refs.Beach)
	l.DistTuria = geodist.NearestKM(l.Latitude, l.Longitude, e.refs.Turia)
	l.DistMetro = geodist.NearestKM(l.Latitude, l.Longitude, e.refs.Metro)
}

func batchAvgPriceM2(batch []model.EnrichedListing) float64 {
	var sum float64
	var n int
	for i := range batch {
		if v := batch[i].PricePerM2; !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
