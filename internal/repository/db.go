package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// the schema exists. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		// The integer primary key is the dedup tie-breaker: the smallest id
		// in a (xref, total_loan_amount) group is the row that survives.
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			app_id TEXT NOT NULL,
			xref TEXT UNIQUE NOT NULL,
			settlement_date TEXT NOT NULL,
			broker TEXT NOT NULL,
			sub_broker TEXT NOT NULL,
			borrower_name TEXT NOT NULL,
			description TEXT NOT NULL,
			total_loan_amount REAL NOT NULL,
			commission_rate REAL NOT NULL,
			upfront REAL NOT NULL,
			upfront_incl_gst REAL NOT NULL,
			tier_level TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_settlement_date ON transactions(settlement_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_broker ON transactions(broker)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
