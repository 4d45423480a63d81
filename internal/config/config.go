// Package config loads application configuration and bootstraps logging.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Geo       GeoConfig       `yaml:"geo" mapstructure:"geo"`
	Text      TextConfig      `yaml:"text" mapstructure:"text"`
	Trend     TrendConfig     `yaml:"trend" mapstructure:"trend"`
	Finance   FinanceConfig   `yaml:"finance" mapstructure:"finance"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Estimator EstimatorConfig `yaml:"estimator" mapstructure:"estimator"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// IngestConfig configures raw batch loading and the cleaning filters.
type IngestConfig struct {
	RawDir   string  `yaml:"raw_dir" mapstructure:"raw_dir"`
	Dataset  string  `yaml:"dataset" mapstructure:"dataset"`
	MinPrice float64 `yaml:"min_price" mapstructure:"min_price"`
	MinSize  float64 `yaml:"min_size" mapstructure:"min_size"`
}

// GeoConfig configures reference geography and spatial clustering.
type GeoConfig struct {
	ReferencesFile string `yaml:"references_file" mapstructure:"references_file"`
	BeachShapefile string `yaml:"beach_shapefile" mapstructure:"beach_shapefile"`
	TuriaShapefile string `yaml:"turia_shapefile" mapstructure:"turia_shapefile"`
	MetroShapefile string `yaml:"metro_shapefile" mapstructure:"metro_shapefile"`
	Clusters       int    `yaml:"clusters" mapstructure:"clusters"`
	Seed           int64  `yaml:"seed" mapstructure:"seed"`
}

// TextConfig configures the description classifier.
type TextConfig struct {
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// TrendConfig configures the momentum computation.
type TrendConfig struct {
	MarketFile  string  `yaml:"market_file" mapstructure:"market_file"`
	GrowthFloor float64 `yaml:"growth_floor" mapstructure:"growth_floor"`
	ClipMin     float64 `yaml:"clip_min" mapstructure:"clip_min"`
	ClipMax     float64 `yaml:"clip_max" mapstructure:"clip_max"`
}

// FinanceConfig holds the static financial rates.
type FinanceConfig struct {
	ReformRateM2        float64            `yaml:"reform_rate_m2" mapstructure:"reform_rate_m2"`
	ReadyRateM2         float64            `yaml:"ready_rate_m2" mapstructure:"ready_rate_m2"`
	ClosingCostPct      float64            `yaml:"closing_cost_pct" mapstructure:"closing_cost_pct"`
	DefaultRentRateM2   float64            `yaml:"default_rent_rate_m2" mapstructure:"default_rent_rate_m2"`
	RentRatesM2         map[string]float64 `yaml:"rent_rates_m2" mapstructure:"rent_rates_m2"`
	HighDemandDistricts []string           `yaml:"high_demand_districts" mapstructure:"high_demand_districts"`
	NightlyRateHigh     float64            `yaml:"nightly_rate_high" mapstructure:"nightly_rate_high"`
	NightlyRateBase     float64            `yaml:"nightly_rate_base" mapstructure:"nightly_rate_base"`
	OccupancyRate       float64            `yaml:"occupancy_rate" mapstructure:"occupancy_rate"`
	ShortLetCostPct     float64            `yaml:"short_let_cost_pct" mapstructure:"short_let_cost_pct"`
}

// ScorerConfig holds the composite-score weights, ramp targets, bonus
// increments, and safety-filter thresholds.
type ScorerConfig struct {
	MarginTargetPct float64 `yaml:"margin_target_pct" mapstructure:"margin_target_pct"`
	MarginWeight    float64 `yaml:"margin_weight" mapstructure:"margin_weight"`
	YieldTargetPct  float64 `yaml:"yield_target_pct" mapstructure:"yield_target_pct"`
	YieldWeight     float64 `yaml:"yield_weight" mapstructure:"yield_weight"`
	MomentumTarget  float64 `yaml:"momentum_target" mapstructure:"momentum_target"`
	MomentumWeight  float64 `yaml:"momentum_weight" mapstructure:"momentum_weight"`
	QualityCap      float64 `yaml:"quality_cap" mapstructure:"quality_cap"`
	ShortLetBonus   float64 `yaml:"short_let_bonus" mapstructure:"short_let_bonus"`
	TerraceBonus    float64 `yaml:"terrace_bonus" mapstructure:"terrace_bonus"`
	LastFloorBonus  float64 `yaml:"last_floor_bonus" mapstructure:"last_floor_bonus"`
	MinMarginPct    float64 `yaml:"min_margin_pct" mapstructure:"min_margin_pct"`
	MaxMarginPct    float64 `yaml:"max_margin_pct" mapstructure:"max_margin_pct"`
	MinPrice        float64 `yaml:"min_price" mapstructure:"min_price"`
}

// EstimatorConfig configures the external price-estimator service.
type EstimatorConfig struct {
	URL          string `yaml:"url" mapstructure:"url"`
	ModelVersion string `yaml:"model_version" mapstructure:"model_version"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts  int    `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// .env is optional; deployments may set the environment directly.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "scout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("ingest.raw_dir", "data/raw")
	v.SetDefault("ingest.dataset", "data/processed/listings.csv")
	v.SetDefault("ingest.min_price", 30000)
	v.SetDefault("ingest.min_size", 15)
	v.SetDefault("geo.clusters", 15)
	v.SetDefault("geo.seed", 42)
	v.SetDefault("trend.growth_floor", 0.01)
	v.SetDefault("trend.clip_min", -5)
	v.SetDefault("trend.clip_max", 10)
	v.SetDefault("finance.reform_rate_m2", 1850)
	v.SetDefault("finance.ready_rate_m2", 600)
	v.SetDefault("finance.closing_cost_pct", 0.125)
	v.SetDefault("finance.default_rent_rate_m2", 11)
	v.SetDefault("finance.nightly_rate_high", 95)
	v.SetDefault("finance.nightly_rate_base", 70)
	v.SetDefault("finance.occupancy_rate", 0.75)
	v.SetDefault("finance.short_let_cost_pct", 0.35)
	v.SetDefault("scorer.margin_target_pct", 25)
	v.SetDefault("scorer.margin_weight", 40)
	v.SetDefault("scorer.yield_target_pct", 8)
	v.SetDefault("scorer.yield_weight", 30)
	v.SetDefault("scorer.momentum_target", 1.5)
	v.SetDefault("scorer.momentum_weight", 20)
	v.SetDefault("scorer.quality_cap", 10)
	v.SetDefault("scorer.short_let_bonus", 4)
	v.SetDefault("scorer.terrace_bonus", 3)
	v.SetDefault("scorer.last_floor_bonus", 3)
	v.SetDefault("scorer.min_margin_pct", 10)
	v.SetDefault("scorer.max_margin_pct", 50)
	v.SetDefault("scorer.min_price", 55000)
	v.SetDefault("estimator.url", "")
	v.SetDefault("estimator.model_version", "v3")
	v.SetDefault("estimator.timeout_secs", 120)
	v.SetDefault("estimator.max_attempts", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
