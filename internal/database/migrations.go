package database

import (
	"fmt"
	"log"
)

// Migrate runs all database migrations
func (db *DB) Migrate() error {
	log.Printf("[DB] Running migrations...")

	migrations := []string{
		// Download history
		`CREATE TABLE IF NOT EXISTS downloads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			thumbnail TEXT,
			format VARCHAR(10) NOT NULL,
			quality VARCHAR(20),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	log.Printf("[DB] Migrations completed successfully")
	return nil
}
