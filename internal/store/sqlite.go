package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/capex-close/internal/model"
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
CREATE TABLE IF NOT EXISTS close_runs (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	tool          TEXT NOT NULL,
	business_unit TEXT NOT NULL DEFAULT 'all',
	summary       TEXT NOT NULL DEFAULT '',
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_close_runs_session ON close_runs(session_id);
CREATE INDEX IF NOT EXISTS idx_close_runs_tool ON close_runs(tool);
CREATE INDEX IF NOT EXISTS idx_close_runs_created_at ON close_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run model.CloseRun) (*model.CloseRun, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.BusinessUnit == "" {
		run.BusinessUnit = "all"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO close_runs (id, session_id, tool, business_unit, summary, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SessionID, run.Tool, run.BusinessUnit, run.Summary, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert close run")
	}
	return &run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.CloseRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, tool, business_unit, summary, created_at FROM close_runs WHERE id = ?`,
		runID,
	)

	var run model.CloseRun
	err := row.Scan(&run.ID, &run.SessionID, &run.Tool, &run.BusinessUnit, &run.Summary, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: close run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get close run %s", runID)
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.CloseRun, error) {
	query := `SELECT id, session_id, tool, business_unit, summary, created_at FROM close_runs`
	var conds []string
	var args []any

	if filter.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Tool != "" {
		conds = append(conds, "tool = ?")
		args = append(args, filter.Tool)
	}
	if filter.BusinessUnit != "" {
		conds = append(conds, "business_unit = ?")
		args = append(args, filter.BusinessUnit)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list close runs")
	}
	defer rows.Close()

	var runs []model.CloseRun
	for rows.Next() {
		var run model.CloseRun
		if err := rows.Scan(&run.ID, &run.SessionID, &run.Tool, &run.BusinessUnit, &run.Summary, &run.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan close run")
		}
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate close runs")
}
