// Package history provides SQLite-backed telemetry for simulation runs:
// per-turn snapshots, the action ledger, and an event archive. It is an
// append-mostly observation store; the engine never reads game state
// back from it.
package history

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/chemworks/internal/sim"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		run_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		money INTEGER NOT NULL,
		company_value INTEGER NOT NULL,
		operating_cost INTEGER NOT NULL,
		money_change INTEGER NOT NULL,
		PRIMARY KEY (run_id, turn)
	);

	CREATE TABLE IF NOT EXISTS prices (
		run_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		chemical TEXT NOT NULL,
		price INTEGER NOT NULL,
		demand INTEGER,
		PRIMARY KEY (run_id, turn, chemical)
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		kind TEXT NOT NULL,
		ok INTEGER NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_prices_chemical ON prices(run_id, chemical);
	CREATE INDEX IF NOT EXISTS idx_actions_turn ON actions(run_id, turn);
	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(run_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordTurn stores the end-of-turn snapshot: summary row plus the full
// market state for the processed turn.
func (db *DB) RecordTurn(s *sim.State, report sim.TurnReport) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := s.RunID.String()

	_, err = tx.Exec(`INSERT OR REPLACE INTO turns
		(run_id, turn, money, company_value, operating_cost, money_change)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, report.Turn, report.MoneyAfter, s.CompanyValue(), report.TotalCost, report.MoneyChange,
	)
	if err != nil {
		return fmt.Errorf("insert turn %d: %w", report.Turn, err)
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO prices
		(run_id, turn, chemical, price, demand) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, chem := range s.Catalog().Chemicals {
		var demand *int
		if !chem.Raw {
			d := s.Demand[chem.ID]
			demand = &d
		}
		if _, err := stmt.Exec(runID, report.Turn, string(chem.ID), s.Prices[chem.ID], demand); err != nil {
			return fmt.Errorf("insert price %s: %w", chem.ID, err)
		}
	}

	return tx.Commit()
}

// RecordAction appends one player action to the ledger.
func (db *DB) RecordAction(s *sim.State, kind string, res sim.Result) {
	ok := 0
	if res.OK {
		ok = 1
	}
	_, err := db.conn.Exec(
		"INSERT INTO actions (run_id, turn, kind, ok, message) VALUES (?, ?, ?, ?, ?)",
		s.RunID.String(), s.Turn, kind, ok, res.Message,
	)
	if err != nil {
		slog.Error("record action failed", "kind", kind, "error", err)
	}
}

// ArchiveEvents appends log events past the given offset and returns the
// new offset. Callers track the offset so each event is archived once.
func (db *DB) ArchiveEvents(s *sim.State, from int) (int, error) {
	if from >= len(s.Log) {
		return from, nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return from, err
	}
	defer tx.Rollback()

	for _, e := range s.Log[from:] {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, turn, message, severity) VALUES (?, ?, ?, ?)",
			s.RunID.String(), e.Turn, e.Message, string(e.Severity),
		)
		if err != nil {
			return from, err
		}
	}

	if err := tx.Commit(); err != nil {
		return from, err
	}
	return len(s.Log), nil
}

// TurnRow is one summary row from the turns table.
type TurnRow struct {
	Turn          int   `db:"turn" json:"turn"`
	Money         int64 `db:"money" json:"money"`
	CompanyValue  int64 `db:"company_value" json:"company_value"`
	OperatingCost int64 `db:"operating_cost" json:"operating_cost"`
	MoneyChange   int64 `db:"money_change" json:"money_change"`
}

// RunHistory returns the most recent N turn summaries for a run, newest
// first.
func (db *DB) RunHistory(runID string, limit int) ([]TurnRow, error) {
	var rows []TurnRow
	err := db.conn.Select(&rows,
		"SELECT turn, money, company_value, operating_cost, money_change FROM turns WHERE run_id = ? ORDER BY turn DESC LIMIT ?",
		runID, limit,
	)
	return rows, err
}

// PricePoint is one chemical price observation.
type PricePoint struct {
	Turn  int   `db:"turn" json:"turn"`
	Price int64 `db:"price" json:"price"`
}

// PriceHistory returns the recorded price series for one chemical,
// oldest first.
func (db *DB) PriceHistory(runID, chemical string, limit int) ([]PricePoint, error) {
	var points []PricePoint
	err := db.conn.Select(&points,
		`SELECT turn, price FROM (
			SELECT turn, price FROM prices WHERE run_id = ? AND chemical = ? ORDER BY turn DESC LIMIT ?
		) ORDER BY turn ASC`,
		runID, chemical, limit,
	)
	return points, err
}
