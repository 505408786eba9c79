package mysqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

const (
	defaultTableName            = "inventories"
	mysqlErrDuplicateEntry      = 1062
	logMsgBuildQueryFailed      = "failed to build query"
	logMsgBeginTxFailed         = "failed to begin transaction"
	logMsgCommitFailed          = "failed to commit transaction"
	logMsgDBQueryFailed         = "database query execution failed"
	logMsgDBExecFailed          = "database execution failed"
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
	logActionCreateTable        = "create_table"
	logActionSeed               = "seed"
	logActionLockRow            = "lock_row"
	logActionPurchase           = "purchase"
	logActionSnapshot           = "snapshot"
	logActionDiscard            = "discard"
	colRunID                    = "run_id"
	colInitialTickets           = "initial_tickets"
	colAvailable                = "available"
	colSold                     = "sold"
	dialectMySQL                = "mysql"
	exprDecrementAvailable      = "available - 1"
	exprIncrementSold           = "sold + 1"
	createTableStatementPattern = "CREATE TABLE IF NOT EXISTS %s (" +
		"run_id CHAR(36) NOT NULL PRIMARY KEY, " +
		"initial_tickets INT NOT NULL, " +
		"available INT NOT NULL, " +
		"sold INT NOT NULL, " +
		"CHECK (initial_tickets >= 0), " +
		"CHECK (available >= 0), " +
		"CHECK (sold >= 0), " +
		"CHECK (available + sold = initial_tickets))"
)

// Counter is an inventory.Counter backed by one MySQL row per sale, locked with SELECT ... FOR UPDATE.
type Counter struct {
	db        *sql.DB
	runID     uuid.UUID
	tableName string
	logger    inventory.Logger
}

// NewCounterFromSQLDB creates a new Counter using a sql.DB opened with the mysql driver.
func NewCounterFromSQLDB(db *sql.DB, runID uuid.UUID, options ...Option) (*Counter, error) {
	if db == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

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

// NewCounterFromSQLX creates a new Counter using a sqlx.DB opened with the mysql driver.
func NewCounterFromSQLX(db *sqlx.DB, runID uuid.UUID, options ...Option) (*Counter, error) {
	if db == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

	return NewCounterFromSQLDB(db.DB, runID, options...)
}

// RunID returns the ID of the sale whose row this Counter operates on.
func (c *Counter) RunID() uuid.UUID {
	return c.runID
}

// CreateTable creates the inventory table if it does not exist yet.
func (c *Counter) CreateTable(ctx context.Context) error {
	sqlQuery := fmt.Sprintf(createTableStatementPattern, quoteIdentifier(c.tableName))

	if err := c.execute(ctx, c.db, sqlQuery, logActionCreateTable); err != nil {
		return errors.Join(inventory.ErrCreatingTableFailed, err)
	}

	c.logOperation(logMsgTableCreated, logAttrTable, c.tableName)

	return nil
}

// quoteIdentifier quotes a table name for use in DDL, doubling embedded backticks.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Seed creates the row for this sale holding initial available and zero sold tickets.
func (c *Counter) Seed(ctx context.Context, initial int) error {
	if err := inventory.ValidateInitialInventory(initial); err != nil {
		return err
	}

	sqlQuery, err := c.toSQL(goqu.Dialect(dialectMySQL).
		Insert(c.tableName).
		Rows(goqu.Record{
			colRunID:          c.runID.String(),
			colInitialTickets: initial,
			colAvailable:      initial,
			colSold:           0,
		}).ToSQL)
	if err != nil {
		return err
	}

	if execErr := c.execute(ctx, c.db, sqlQuery, logActionSeed); execErr != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(execErr, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return errors.Join(inventory.ErrSeedingFailed, inventory.ErrInventoryAlreadyExists, execErr)
		}

		return errors.Join(inventory.ErrSeedingFailed, execErr)
	}

	c.logOperation(logMsgInventorySeeded, logAttrInitial, initial)

	return nil
}

// AttemptPurchase sells one ticket to the buyer if any is left.
// The row stays exclusively locked from the read until the commit.
func (c *Counter) AttemptPurchase(ctx context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	lockQuery, err := c.toSQL(goqu.Dialect(dialectMySQL).
		From(c.tableName).
		Select(colAvailable, colSold).
		Where(goqu.C(colRunID).Eq(c.runID.String())).
		ForUpdate(exp.Wait).ToSQL)
	if err != nil {
		return inventory.PurchaseResult{}, err
	}

	updateQuery, err := c.toSQL(goqu.Dialect(dialectMySQL).
		Update(c.tableName).
		Set(goqu.Record{
			colAvailable: goqu.L(exprDecrementAvailable),
			colSold:      goqu.L(exprIncrementSold),
		}).
		Where(goqu.C(colRunID).Eq(c.runID.String())).ToSQL)
	if err != nil {
		return inventory.PurchaseResult{}, err
	}

	tx, beginErr := c.db.BeginTx(ctx, nil)
	if beginErr != nil {
		c.logError(logMsgBeginTxFailed, beginErr)
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, beginErr)
	}
	defer func() {
		_ = tx.Rollback() // no-op after a successful commit
	}()

	var available, sold int
	if scanErr := c.queryRow(ctx, tx, lockQuery, logActionLockRow, &available, &sold); scanErr != nil {
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, scanErr)
	}

	if available <= 0 {
		if commitErr := c.commit(tx); commitErr != nil {
			return inventory.PurchaseResult{}, commitErr
		}

		return inventory.MissedResult(buyerID), nil
	}

	if execErr := c.execute(ctx, tx, updateQuery, logActionPurchase); execErr != nil {
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, execErr)
	}

	if commitErr := c.commit(tx); commitErr != nil {
		return inventory.PurchaseResult{}, commitErr
	}

	return inventory.BoughtResult(buyerID, available-1), nil
}

// Snapshot reads both counters of this sale from its row.
func (c *Counter) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	sqlQuery, err := c.toSQL(goqu.Dialect(dialectMySQL).
		From(c.tableName).
		Select(colInitialTickets, colAvailable, colSold).
		Where(goqu.C(colRunID).Eq(c.runID.String())).ToSQL)
	if err != nil {
		return inventory.Snapshot{}, err
	}

	var snapshot inventory.Snapshot
	if scanErr := c.queryRow(ctx, c.db, sqlQuery, logActionSnapshot, &snapshot.Initial, &snapshot.Available, &snapshot.Sold); scanErr != nil {
		return inventory.Snapshot{}, errors.Join(inventory.ErrSnapshotFailed, scanErr)
	}

	if !snapshot.Consistent() {
		c.logError(logMsgInconsistentState, inventory.ErrInconsistentState,
			logAttrInitial, snapshot.Initial, colAvailable, snapshot.Available, colSold, snapshot.Sold)

		return inventory.Snapshot{}, inventory.ErrInconsistentState
	}

	return snapshot, nil
}

// Discard deletes the row of this sale.
func (c *Counter) Discard(ctx context.Context) error {
	sqlQuery, err := c.toSQL(goqu.Dialect(dialectMySQL).
		Delete(c.tableName).
		Where(goqu.C(colRunID).Eq(c.runID.String())).ToSQL)
	if err != nil {
		return err
	}

	if execErr := c.execute(ctx, c.db, sqlQuery, logActionDiscard); execErr != nil {
		return errors.Join(inventory.ErrDiscardFailed, execErr)
	}

	c.logOperation(logMsgInventoryDiscarded)

	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryRow executes the query and scans its single row into dest.
// A missing row is reported as inventory.ErrInventoryNotFound.
func (c *Counter) queryRow(ctx context.Context, q queryer, sqlQuery string, action string, dest ...any) error {
	start := time.Now()
	scanErr := q.QueryRowContext(ctx, sqlQuery).Scan(dest...)
	c.logQueryWithDuration(sqlQuery, action, time.Since(start))

	switch {
	case errors.Is(scanErr, sql.ErrNoRows):
		c.logError(logMsgInventoryNotFound, inventory.ErrInventoryNotFound)
		return inventory.ErrInventoryNotFound

	case scanErr != nil:
		c.logError(logMsgDBQueryFailed, scanErr, logAttrQuery, sqlQuery)
		return scanErr
	}

	return nil
}

func (c *Counter) execute(ctx context.Context, q queryer, sqlQuery string, action string) error {
	start := time.Now()
	_, execErr := q.ExecContext(ctx, sqlQuery)
	c.logQueryWithDuration(sqlQuery, action, time.Since(start))

	if execErr != nil {
		c.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return execErr
	}

	return nil
}

func (c *Counter) commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		c.logError(logMsgCommitFailed, err)
		return errors.Join(inventory.ErrPurchaseFailed, err)
	}

	return nil
}

// toSQL renders a goqu statement and logs build failures.
func (c *Counter) toSQL(render func() (string, []any, error)) (string, error) {
	sqlQuery, _, toSQLErr := render()
	if toSQLErr != nil {
		c.logError(logMsgBuildQueryFailed, toSQLErr)
		return "", errors.Join(inventory.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

var _ inventory.Counter = (*Counter)(nil)
