package helper

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const availabilityTimeout = 2 * time.Second

// SkipIfPostgresUnavailable skips the test when the Postgres pool cannot reach its server.
// The pool is closed when the test finishes, skipped or not.
func SkipIfPostgresUnavailable(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	t.Cleanup(pool.Close)

	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		t.Skipf("postgres is not available: %v", err)
	}
}

// SkipIfSQLDBUnavailable skips the test when the database/sql connection cannot reach its server.
// It serves both the lib/pq and the mysql driver. The handle is closed when the test finishes.
func SkipIfSQLDBUnavailable(t testing.TB, db *sql.DB) {
	t.Helper()
	t.Cleanup(func() { _ = db.Close() }) // ignore error

	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Skipf("database is not available: %v", err)
	}
}

// SkipIfRedisUnavailable skips the test when the Redis client cannot reach its server.
// The client is closed when the test finishes.
func SkipIfRedisUnavailable(t testing.TB, client *redis.Client) {
	t.Helper()
	t.Cleanup(func() { _ = client.Close() }) // ignore error

	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis is not available: %v", err)
	}
}
