// Package testutil provides shared helpers for postgres integration tests.
// Helpers skip automatically when TEST_DATABASE_URL is not set, so unit
// tests run without a database.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/tripmatch-app/tripmatch-api/db/migrations"
)

// OpenMigratedPool opens a pool against TEST_DATABASE_URL with the full
// migration set applied. The pool is closed when the test finishes.
//
// Tests share a database, so suites that need isolation should use fresh
// row identities rather than truncating tables.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()

	// goose needs database/sql, not a pgx pool.
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("testutil.OpenMigratedPool: open sql db: %v", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		t.Fatalf("testutil.OpenMigratedPool: goose provider: %v", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		t.Fatalf("testutil.OpenMigratedPool: run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testutil.OpenMigratedPool: open pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("testutil.OpenMigratedPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}
