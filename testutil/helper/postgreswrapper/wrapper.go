package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory/postgresengine"
	"github.com/AntonStoeckl/ticketsale-go/testutil/config"
	"github.com/AntonStoeckl/ticketsale-go/testutil/helper"
)

// Adapter type constants
const (
	typePGXPool = "pgx"
	typeSQLDB   = "sql"
	typeSQLXDB  = "sqlx"
)

// Wrapper interface to abstract over different adapter types
type Wrapper interface {
	GetCounter() *postgresengine.Counter
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	counter *postgresengine.Counter
}

// GetCounter returns the wrapped counter.
func (w *PGXPoolWrapper) GetCounter() *postgresengine.Counter {
	return w.counter
}

// Close closes the pool.
func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db      *sql.DB
	counter *postgresengine.Counter
}

// GetCounter returns the wrapped counter.
func (w *SQLDBWrapper) GetCounter() *postgresengine.Counter {
	return w.counter
}

// Close closes the database handle.
func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db      *sqlx.DB
	counter *postgresengine.Counter
}

// GetCounter returns the wrapped counter.
func (w *SQLXWrapper) GetCounter() *postgresengine.Counter {
	return w.counter
}

// Close closes the database handle.
func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the DB_ADAPTER environment variable.
// The test is skipped when the test database is unreachable.
func CreateWrapperWithTestConfig(t testing.TB, runID uuid.UUID, options ...postgresengine.Option) Wrapper {
	adapterTypeFromEnv := strings.ToLower(os.Getenv("DB_ADAPTER"))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")
		helper.SkipIfPostgresUnavailable(t, connPool)

		counter, err := postgresengine.NewCounterFromPGXPool(connPool, runID, options...)
		require.NoError(t, err, "error creating counter")

		return &PGXPoolWrapper{pool: connPool, counter: counter}

	case typeSQLDB:
		db := config.PostgresSQLDBTestConfig()
		helper.SkipIfSQLDBUnavailable(t, db)

		counter, err := postgresengine.NewCounterFromSQLDB(db, runID, options...)
		require.NoError(t, err, "error creating counter")

		return &SQLDBWrapper{db: db, counter: counter}

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()
		helper.SkipIfSQLDBUnavailable(t, db.DB)

		counter, err := postgresengine.NewCounterFromSQLX(db, runID, options...)
		require.NoError(t, err, "error creating counter")

		return &SQLXWrapper{db: db, counter: counter}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterTypeFromEnv))
	}
}

// GivenSeededCounter creates a wrapper, ensures the table exists, and seeds the sale with initial tickets.
// The row is discarded and the connection closed when the test finishes.
func GivenSeededCounter(t testing.TB, initial int, options ...postgresengine.Option) *postgresengine.Counter {
	wrapper := CreateWrapperWithTestConfig(t, helper.GivenUniqueRunID(t), options...)
	counter := wrapper.GetCounter()

	ctx := context.Background()
	require.NoError(t, counter.CreateTable(ctx), "error creating the inventory table")
	require.NoError(t, counter.Seed(ctx, initial), "error seeding the inventory")

	t.Cleanup(func() {
		_ = counter.Discard(context.Background()) // nothing to do about a failed cleanup
		wrapper.Close()
	})

	return counter
}
