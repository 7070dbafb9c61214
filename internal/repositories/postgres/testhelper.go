package postgres

import (
	"database/sql"
	"testing"

	_ "github.com/lib/pq"

	"ringforge/internal/infrastructure/config"
	"ringforge/internal/infrastructure/database"
)

// SetupTestDB creates a test database connection and runs migrations
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Initialize test config
	if err := config.InitConfig("test"); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("Skipping: test database not configured: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		t.Skipf("Skipping: test database not reachable: %v", err)
	}

	// Run migrations
	if err := pg.RunMigrations("../../infrastructure/database/migrations/postgres"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return pg.DB
}

// CleanupTestDB closes the database connection and cleans up test data
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec("DELETE FROM rings"); err != nil {
		t.Logf("Warning: Failed to clean up rings table: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}
