// Package postgreswrapper provides test utilities for abstracting over different PostgreSQL database adapters.
//
// The same test suite for the Postgres inventory counter runs against pgx, sql.DB and sqlx.DB.
// The adapter is selected by the DB_ADAPTER environment variable (pgx, sql, sqlx; default pgx).
// Tests are skipped when the test database cannot be reached.
//
// Usage:
//
//	wrapper := CreateWrapperWithTestConfig(t, runID)
//	defer wrapper.Close()
//
//	counter := wrapper.GetCounter()
package postgreswrapper
