package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/pitwall/internal/config"
)

// SetupTestDB creates a database connection for integration tests.
// Tests are skipped unless TEST_DB_HOST is set.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping database integration test")
	}

	port := 5432
	if raw := os.Getenv("TEST_DB_PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			t.Fatalf("invalid TEST_DB_PORT: %v", err)
		}
		port = parsed
	}

	cfg := &config.DatabaseConfig{
		Host:               host,
		Port:               port,
		Name:               envOr("TEST_DB_NAME", "pitwall_test"),
		User:               envOr("TEST_DB_USER", "pitwall"),
		Password:           envOr("TEST_DB_PASSWORD", "pitwall"),
		SSLMode:            "disable",
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
