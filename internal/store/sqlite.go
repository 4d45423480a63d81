package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/turia-capital/scout-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id            TEXT PRIMARY KEY,
	dataset       TEXT NOT NULL,
	model_version TEXT NOT NULL,
	counts        TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS opportunities (
	run_id           TEXT NOT NULL REFERENCES scan_runs(id),
	rank             INTEGER NOT NULL,
	property_code    TEXT NOT NULL,
	price            REAL NOT NULL,
	neighborhood     TEXT,
	district         TEXT,
	estimated_price  REAL NOT NULL,
	profit_potential REAL NOT NULL,
	margin_pct       REAL NOT NULL,
	investment_score REAL NOT NULL,
	listing          TEXT NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_scan_runs_dataset ON scan_runs(dataset);
CREATE INDEX IF NOT EXISTS idx_opportunities_code ON opportunities(property_code);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun writes the run header and its ranked opportunities in one
// transaction. The run gets a fresh ID if the caller left it empty.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.ScanRun, opps []model.Opportunity) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal counts")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scan_runs (id, dataset, model_version, counts, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Dataset, run.ModelVersion, string(countsJSON), run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO opportunities (run_id, rank, property_code, price, neighborhood, district,
			estimated_price, profit_potential, margin_pct, investment_score, listing)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare opportunity insert")
	}
	defer stmt.Close()

	for i := range opps {
		op := &opps[i]
		listingJSON, err := json.Marshal(op)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal opportunity %s", op.PropertyCode)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, op.Rank, op.PropertyCode, op.Price, op.Neighborhood, op.District,
			op.EstimatedPrice, op.ProfitPotential, op.MarginPct, op.InvestmentScore, string(listingJSON),
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert opportunity %s", op.PropertyCode)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.ScanRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, dataset, model_version, counts, created_at FROM scan_runs WHERE id = ?`,
		runID,
	)
	return scanRunRow(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.ScanRun, error) {
	query := `SELECT id, dataset, model_version, counts, created_at FROM scan_runs WHERE 1=1`
	var args []any

	if filter.Dataset != "" {
		query += ` AND dataset = ?`
		args = append(args, filter.Dataset)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.ScanRun
	for rows.Next() {
		r, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListOpportunities(ctx context.Context, runID string, limit int) ([]model.Opportunity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT listing FROM opportunities WHERE run_id = ? ORDER BY rank ASC LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list opportunities for run %s", runID)
	}
	defer rows.Close()

	var opps []model.Opportunity
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan opportunity")
		}
		var op model.Opportunity
		if err := json.Unmarshal([]byte(payload), &op); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal opportunity")
		}
		opps = append(opps, op)
	}
	return opps, eris.Wrap(rows.Err(), "sqlite: list opportunities iterate")
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRunRow(row scanner) (*model.ScanRun, error) {
	var r model.ScanRun
	var countsJSON string
	if err := row.Scan(&r.ID, &r.Dataset, &r.ModelVersion, &countsJSON, &r.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, eris.Wrap(err, "sqlite: run not found")
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if err := json.Unmarshal([]byte(countsJSON), &r.Counts); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal counts")
	}
	return &r, nil
}
