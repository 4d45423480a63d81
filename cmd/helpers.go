package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/turia-capital/scout-cli/internal/enrich"
	"github.com/turia-capital/scout-cli/internal/finance"
	"github.com/turia-capital/scout-cli/internal/geocluster"
	"github.com/turia-capital/scout-cli/internal/geodist"
	"github.com/turia-capital/scout-cli/internal/store"
	"github.com/turia-capital/scout-cli/internal/textclass"
	"github.com/turia-capital/scout-cli/internal/trend"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "scout.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// buildEnricher assembles the enrichment components from config, falling
// back to the built-in Valencia reference tables when no files are set.
func buildEnricher() (*enrich.Enricher, error) {
	refs := geodist.DefaultReferences()
	if cfg.Geo.ReferencesFile != "" {
		loaded, err := geodist.LoadReferences(cfg.Geo.ReferencesFile)
		if err != nil {
			return nil, err
		}
		refs = loaded
	}
	for _, sf := range []struct {
		path string
		dst  *[]geom.Coord
	}{
		{cfg.Geo.BeachShapefile, &refs.Beach},
		{cfg.Geo.TuriaShapefile, &refs.Turia},
		{cfg.Geo.MetroShapefile, &refs.Metro},
	} {
		if sf.path == "" {
			continue
		}
		pts, err := geodist.LoadPointSet(sf.path)
		if err != nil {
			return nil, err
		}
		*sf.dst = pts
	}

	rules := textclass.DefaultRules()
	if cfg.Text.RulesFile != "" {
		loaded, err := textclass.LoadRules(cfg.Text.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	market := trend.DefaultMarket()
	if cfg.Trend.MarketFile != "" {
		loaded, err := trend.LoadMarket(cfg.Trend.MarketFile)
		if err != nil {
			return nil, err
		}
		market = loaded
	}
	trendEngine, err := trend.NewEngine(market, cfg.Trend)
	if err != nil {
		return nil, err
	}

	cluster := geocluster.New(cfg.Geo.Clusters, cfg.Geo.Seed)
	calc := finance.NewCalculator(cfg.Finance)

	return enrich.New(refs, rules, cluster, trendEngine, calc)
}
