package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists cycle history to a SQLite database.
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

	// WAL mode so dashboards can read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sync_cycles (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           INTEGER NOT NULL,
			symbol_count        INTEGER,
			fetched_count       INTEGER,
			failed_count        INTEGER,
			total_invested      REAL,
			current_value       REAL,
			unrealized_pl       REAL,
			realized_pl         REAL,
			current_return_pct  REAL,
			current_bench_pct   REAL,
			alltime_return_pct  REAL,
			alltime_bench_pct   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON sync_cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS fetch_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			cycle_id  INTEGER NOT NULL,
			symbol    TEXT,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_cycle ON fetch_failures(cycle_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(rec *CycleRecord, failures []FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO sync_cycles
		(timestamp, symbol_count, fetched_count, failed_count,
		 total_invested, current_value, unrealized_pl, realized_pl,
		 current_return_pct, current_bench_pct, alltime_return_pct, alltime_bench_pct)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.SymbolCount, rec.FetchedCount, rec.FailedCount,
		rec.TotalInvested, rec.CurrentValue, rec.UnrealizedPL, rec.RealizedPL,
		rec.CurrentReturnPct, rec.CurrentBenchPct, rec.AllTimeReturnPct, rec.AllTimeBenchPct,
	)
	if err != nil {
		return err
	}
	cycleID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, f := range failures {
		if _, err := r.db.Exec(`INSERT INTO fetch_failures (cycle_id, symbol, reason) VALUES (?,?,?)`,
			cycleID, f.Symbol, f.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
