// Package testutil provides shared helpers for integration tests against
// Postgres (TEST_DATABASE_URL) and MongoDB (TEST_MONGO_URI).
// Every helper skips the calling test when its variable is not set.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/pkordes/trip-planner/migrations"
)

// Environment variables that enable the integration tests.
const (
	EnvPostgres = "TEST_DATABASE_URL"
	EnvMongo    = "TEST_MONGO_URI"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// NewPool opens a *pgxpool.Pool on TEST_DATABASE_URL with the schema
// migrated. Migrations run once per test binary. The pool is closed when the
// test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := lookupEnv(t, EnvPostgres)
	migrateOnce.Do(func() {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			migrateErr = err
			return
		}
		defer db.Close()
		_, migrateErr = migrations.Up(context.Background(), db)
	})
	if migrateErr != nil {
		t.Fatalf("testutil.NewPool: migrate: %v", migrateErr)
	}
	return openPool(t, dsn)
}

// NewSQLDB returns a *sql.DB for TEST_DATABASE_URL without touching the
// schema. Use it when goose itself is under test.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", lookupEnv(t, EnvPostgres))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func openPool(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil: ping postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// lookupEnv returns the value of name, skipping the test when it is empty.
func lookupEnv(t *testing.T, name string) string {
	t.Helper()
	v := os.Getenv(name)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", name)
	}
	return v
}
