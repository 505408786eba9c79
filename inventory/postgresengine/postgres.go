package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/postgresengine/internal/adapters"
)

const (
	defaultTableName            = "inventories"
	sqlStateUniqueViolation     = "23505"
	logMsgBuildQueryFailed      = "failed to build query"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgDBExecFailed          = "database execution failed"
	logMsgCloseRowsFailed       = "failed to close database rows"
	logMsgRowsAffectedFailed    = "failed to get rows affected count"
	logMsgScanRowFailed         = "failed to scan database row"
	logMsgInconsistentState     = "inventory state violates the joint invariant"
	logMsgInventoryNotFound     = "inventory not found"
	logMsgSQLExecuted           = "executed sql for: "
	logMsgOperation             = "inventory operation: "
	logMsgInventorySeeded       = "inventory seeded"
	logMsgInventoryDiscarded    = "inventory discarded"
	logMsgTableCreated          = "table ensured"
	logAttrError                = "error"
	logAttrQuery                = "query"
	logAttrRunID                = "run_id"
	logAttrTable                = "table"
	logAttrInitial              = "initial"
	logAttrDurationMS           = "duration_ms"
	logAttrRowsAffected         = "rows_affected"
	logActionCreateTable        = "create_table"
	logActionSeed               = "seed"
	logActionPurchase           = "purchase"
	logActionSnapshot           = "snapshot"
	logActionDiscard            = "discard"
	colRunID                    = "run_id"
	colInitialTickets           = "initial_tickets"
	colAvailable                = "available"
	colSold                     = "sold"
	dialectPostgres             = "postgres"
	exprDecrementAvailable      = "available - 1"
	exprIncrementSold           = "sold + 1"
	createTableStatementPattern = `CREATE TABLE IF NOT EXISTS %s (
	run_id uuid PRIMARY KEY,
	initial_tickets integer NOT NULL CHECK (initial_tickets >= 0),
	available integer NOT NULL CHECK (available >= 0),
	sold integer NOT NULL CHECK (sold >= 0),
	CHECK (available + sold = initial_tickets)
)`
)

type sqlQueryString = string

// Counter is an inventory.Counter backed by one PostgreSQL row per sale.
type Counter struct {
	db               adapters.DBAdapter
	runID            uuid.UUID
	tableName        string
	logger           inventory.Logger
	contextualLogger inventory.ContextualLogger
}

// NewCounterFromPGXPool creates a new Counter using a pgx Pool with optional configuration.
func NewCounterFromPGXPool(db *pgxpool.Pool, runID uuid.UUID, options ...Option) (*Counter, error) {
	if db == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

	return newCounter(adapters.NewPGXAdapter(db), runID, options...)
}

// NewCounterFromSQLDB creates a new Counter using a sql.DB with optional configuration.
func NewCounterFromSQLDB(db *sql.DB, runID uuid.UUID, options ...Option) (*Counter, error) {
	if db == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

	return newCounter(adapters.NewSQLAdapter(db), runID, options...)
}

// NewCounterFromSQLX creates a new Counter using a sqlx.DB with optional configuration.
func NewCounterFromSQLX(db *sqlx.DB, runID uuid.UUID, options ...Option) (*Counter, error) {
	if db == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

	return newCounter(adapters.NewSQLXAdapter(db), runID, options...)
}

func newCounter(db adapters.DBAdapter, runID uuid.UUID, options ...Option) (*Counter, error) {
	c := &Counter{
		db:        db,
		runID:     runID,
		tableName: defaultTableName,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RunID returns the ID of the sale whose row this Counter operates on.
func (c *Counter) RunID() uuid.UUID {
	return c.runID
}

// CreateTable creates the inventory table if it does not exist yet.
func (c *Counter) CreateTable(ctx context.Context) error {
	sqlQuery := fmt.Sprintf(createTableStatementPattern, pgx.Identifier{c.tableName}.Sanitize())

	if _, err := c.execute(ctx, sqlQuery, logActionCreateTable); err != nil {
		return errors.Join(inventory.ErrCreatingTableFailed, err)
	}

	c.logOperation(ctx, logMsgTableCreated, logAttrTable, c.tableName)

	return nil
}

// Seed creates the row for this sale holding initial available and zero sold tickets.
func (c *Counter) Seed(ctx context.Context, initial int) error {
	if err := inventory.ValidateInitialInventory(initial); err != nil {
		return err
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(c.tableName).
		Rows(goqu.Record{
			colRunID:          c.runID.String(),
			colInitialTickets: initial,
			colAvailable:      initial,
			colSold:           0,
		})

	sqlQuery, err := c.toSQL(ctx, insertStmt.ToSQL)
	if err != nil {
		return err
	}

	if _, execErr := c.execute(ctx, sqlQuery, logActionSeed); execErr != nil {
		if isUniqueViolation(execErr) {
			return errors.Join(inventory.ErrSeedingFailed, inventory.ErrInventoryAlreadyExists, execErr)
		}

		return errors.Join(inventory.ErrSeedingFailed, execErr)
	}

	c.logOperation(ctx, logMsgInventorySeeded, logAttrInitial, initial)

	return nil
}

// AttemptPurchase sells one ticket to the buyer if any is left.
// The zero-check and both mutations are executed as one conditional UPDATE.
func (c *Counter) AttemptPurchase(ctx context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(c.tableName).
		Set(goqu.Record{
			colAvailable: goqu.L(exprDecrementAvailable),
			colSold:      goqu.L(exprIncrementSold),
		}).
		Where(
			goqu.C(colRunID).Eq(c.runID.String()),
			goqu.C(colAvailable).Gt(0),
		).
		Returning(colAvailable)

	sqlQuery, err := c.toSQL(ctx, updateStmt.ToSQL)
	if err != nil {
		return inventory.PurchaseResult{}, err
	}

	var remaining int
	found, queryErr := c.querySingleRow(ctx, sqlQuery, logActionPurchase, &remaining)
	if queryErr != nil {
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, queryErr)
	}

	if found {
		return inventory.BoughtResult(buyerID, remaining), nil
	}

	// No row was updated: either the sale is sold out or its row does not exist.
	if _, snapshotErr := c.Snapshot(ctx); snapshotErr != nil {
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, snapshotErr)
	}

	return inventory.MissedResult(buyerID), nil
}

// Snapshot reads both counters of this sale from its row.
func (c *Counter) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(c.tableName).
		Select(colInitialTickets, colAvailable, colSold).
		Where(goqu.C(colRunID).Eq(c.runID.String()))

	sqlQuery, err := c.toSQL(ctx, selectStmt.ToSQL)
	if err != nil {
		return inventory.Snapshot{}, err
	}

	var snapshot inventory.Snapshot
	found, queryErr := c.querySingleRow(ctx, sqlQuery, logActionSnapshot, &snapshot.Initial, &snapshot.Available, &snapshot.Sold)
	if queryErr != nil {
		return inventory.Snapshot{}, errors.Join(inventory.ErrSnapshotFailed, queryErr)
	}

	if !found {
		c.logError(ctx, logMsgInventoryNotFound, inventory.ErrInventoryNotFound)
		return inventory.Snapshot{}, inventory.ErrInventoryNotFound
	}

	if !snapshot.Consistent() {
		c.logError(ctx, logMsgInconsistentState, inventory.ErrInconsistentState,
			logAttrInitial, snapshot.Initial, colAvailable, snapshot.Available, colSold, snapshot.Sold)

		return inventory.Snapshot{}, inventory.ErrInconsistentState
	}

	return snapshot, nil
}

// Discard deletes the row of this sale.
func (c *Counter) Discard(ctx context.Context) error {
	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(c.tableName).
		Where(goqu.C(colRunID).Eq(c.runID.String()))

	sqlQuery, err := c.toSQL(ctx, deleteStmt.ToSQL)
	if err != nil {
		return err
	}

	result, execErr := c.execute(ctx, sqlQuery, logActionDiscard)
	if execErr != nil {
		return errors.Join(inventory.ErrDiscardFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		c.logWarn(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
	}

	c.logOperation(ctx, logMsgInventoryDiscarded, logAttrRowsAffected, rowsAffected)

	return nil
}

// toSQL renders a goqu statement and logs build failures.
func (c *Counter) toSQL(ctx context.Context, render func() (string, []any, error)) (sqlQueryString, error) {
	sqlQuery, _, toSQLErr := render()
	if toSQLErr != nil {
		c.logError(ctx, logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// querySingleRow executes the query and scans the first row into dest.
// It reports false when the query returned no rows.
func (c *Counter) querySingleRow(ctx context.Context, sqlQuery string, action string, dest ...any) (bool, error) {
	start := time.Now()
	rows, queryErr := c.db.Query(ctx, sqlQuery)
	c.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		c.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return false, queryErr
	}
	defer c.closeRows(ctx, rows)

	if !rows.Next() {
		if iterErr := rows.Err(); iterErr != nil {
			c.logError(ctx, logMsgDBQueryFailed, iterErr, logAttrQuery, sqlQuery)
			return false, iterErr
		}

		return false, nil
	}

	if scanErr := rows.Scan(dest...); scanErr != nil {
		c.logError(ctx, logMsgScanRowFailed, scanErr)
		return false, errors.Join(inventory.ErrScanningRowFailed, scanErr)
	}

	return true, nil
}

// execute runs a statement that returns no rows.
func (c *Counter) execute(ctx context.Context, sqlQuery string, action string) (adapters.DBResult, error) {
	start := time.Now()
	result, execErr := c.db.Exec(ctx, sqlQuery)
	c.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if execErr != nil {
		c.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return nil, execErr
	}

	return result, nil
}

// closeRows safely closes database rows and logs any errors.
func (c *Counter) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		c.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// isUniqueViolation reports whether err is a unique key violation from either pgx or lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateUniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == sqlStateUniqueViolation
	}

	return false
}

var _ inventory.Counter = (*Counter)(nil)
