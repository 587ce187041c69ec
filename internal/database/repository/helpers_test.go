package repository_test

import (
	"database/sql"
	"testing"

	"github.com/artur/tubedrop/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(database.MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db.DB
}

func strPtr(s string) *string {
	return &s
}
