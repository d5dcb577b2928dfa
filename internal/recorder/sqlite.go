package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/yourusername/stocksim/internal/simulation"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reporting tools can read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id          TEXT PRIMARY KEY,
			started_at      INTEGER NOT NULL,
			duration_ms     INTEGER NOT NULL,
			start_date      TEXT NOT NULL,
			end_date        TEXT NOT NULL,
			initial_capital REAL NOT NULL,
			symbols         INTEGER NOT NULL,
			skipped         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS outcomes (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL REFERENCES runs(run_id),
			symbol       TEXT NOT NULL,
			strategy     TEXT NOT NULL,
			final_value  REAL NOT NULL,
			total_return REAL NOT NULL,
			cagr         REAL,
			max_drawdown REAL,
			sharpe_ratio REAL,
			trades       INTEGER NOT NULL,
			round_trips  INTEGER NOT NULL,
			win_rate     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_symbol ON outcomes(symbol, strategy)`,

		`CREATE TABLE IF NOT EXISTS skips (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			symbol TEXT NOT NULL,
			reason TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun persists the run, its summary rows, and its skipped symbols in
// one transaction.
func (r *SQLiteRecorder) RecordRun(report *simulation.RunReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(run_id, started_at, duration_ms, start_date, end_date, initial_capital, symbols, skipped)
		VALUES (?,?,?,?,?,?,?,?)`,
		report.RunID, report.StartedAt.Unix(), report.Duration.Milliseconds(),
		report.Config.StartDate.Format("2006-01-02"),
		report.Config.EndDate.Format("2006-01-02"),
		report.Config.InitialCapital,
		len(report.Runs), len(report.Skipped),
	)
	if err != nil {
		return err
	}

	for _, row := range simulation.Summarize(report) {
		_, err = tx.Exec(`INSERT INTO outcomes
			(run_id, symbol, strategy, final_value, total_return, cagr, max_drawdown, sharpe_ratio, trades, round_trips, win_rate)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			report.RunID, row.Symbol, row.Strategy, row.FinalValue, row.TotalReturn,
			row.CAGR, row.MaxDrawdown, row.SharpeRatio, row.Trades, row.RoundTrips, row.WinRate,
		)
		if err != nil {
			return err
		}
	}

	for _, s := range report.Skipped {
		reason := ""
		if s.Reason != nil {
			reason = s.Reason.Error()
		}
		if _, err = tx.Exec(`INSERT INTO skips (run_id, symbol, reason) VALUES (?,?,?)`,
			report.RunID, s.Symbol, reason); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RunCount returns the number of recorded runs.
func (r *SQLiteRecorder) RunCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
