package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/turia-capital/scout-cli/internal/db"
	"github.com/turia-capital/scout-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use this with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id            TEXT PRIMARY KEY,
	dataset       TEXT NOT NULL,
	model_version TEXT NOT NULL,
	counts        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS opportunities (
	run_id           TEXT NOT NULL REFERENCES scan_runs(id),
	rank             INTEGER NOT NULL,
	property_code    TEXT NOT NULL,
	price            DOUBLE PRECISION NOT NULL,
	neighborhood     TEXT,
	district         TEXT,
	estimated_price  DOUBLE PRECISION NOT NULL,
	profit_potential DOUBLE PRECISION NOT NULL,
	margin_pct       DOUBLE PRECISION NOT NULL,
	investment_score DOUBLE PRECISION NOT NULL,
	listing          JSONB NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_scan_runs_dataset ON scan_runs(dataset);
CREATE INDEX IF NOT EXISTS idx_opportunities_code ON opportunities(property_code);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var opportunityColumns = []string{
	"run_id", "rank", "property_code", "price", "neighborhood", "district",
	"estimated_price", "profit_potential", "margin_pct", "investment_score", "listing",
}

// SaveRun writes the run header, then bulk-loads the ranked opportunities
// via COPY.
func (s *PostgresStore) SaveRun(ctx context.Context, run *model.ScanRun, opps []model.Opportunity) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal counts")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scan_runs (id, dataset, model_version, counts, created_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Dataset, run.ModelVersion, string(countsJSON), run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert run")
	}

	rows := make([][]any, 0, len(opps))
	for i := range opps {
		op := &opps[i]
		listingJSON, err := json.Marshal(op)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal opportunity %s", op.PropertyCode)
		}
		rows = append(rows, []any{
			run.ID, op.Rank, op.PropertyCode, op.Price, op.Neighborhood, op.District,
			op.EstimatedPrice, op.ProfitPotential, op.MarginPct, op.InvestmentScore, string(listingJSON),
		})
	}

	if _, err := db.CopyFrom(ctx, s.pool, "opportunities", opportunityColumns, rows); err != nil {
		return eris.Wrapf(err, "postgres: copy opportunities for run %s", run.ID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.ScanRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, dataset, model_version, counts, created_at FROM scan_runs WHERE id = $1`,
		runID,
	)

	var r model.ScanRun
	var countsJSON []byte
	if err := row.Scan(&r.ID, &r.Dataset, &r.ModelVersion, &countsJSON, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(err, "postgres: run %s not found", runID)
		}
		return nil, eris.Wrap(err, "postgres: scan run")
	}
	if err := json.Unmarshal(countsJSON, &r.Counts); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal counts")
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error) {
	query := `SELECT id, dataset, model_version, counts, created_at FROM scan_runs`
	var args []any

	if filter.Dataset != "" {
		query += ` WHERE dataset = $1`
		args = append(args, filter.Dataset)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.ScanRun
	for rows.Next() {
		var r model.ScanRun
		var countsJSON []byte
		if err := rows.Scan(&r.ID, &r.Dataset, &r.ModelVersion, &countsJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(countsJSON, &r.Counts); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal counts")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) ListOpportunities(ctx context.Context, runID string, limit int) ([]model.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT listing FROM opportunities WHERE run_id = $1 ORDER BY rank ASC LIMIT $2`,
		runID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list opportunities for run %s", runID)
	}
	defer rows.Close()

	var opps []model.Opportunity
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan opportunity")
		}
		var op model.Opportunity
		if err := json.Unmarshal(payload, &op); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal opportunity")
		}
		opps = append(opps, op)
	}
	return opps, eris.Wrap(rows.Err(), "postgres: list opportunities iterate")
}

