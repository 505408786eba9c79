package inventory

import "errors"

var (
	// ErrNegativeInitialInventory is returned when a counter is seeded with fewer than zero tickets.
	ErrNegativeInitialInventory = errors.New("initial inventory must not be negative")

	// ErrNilDatabaseConnection is returned when a database-backed counter is created without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when an empty table name is supplied.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrEmptyKeyPrefix is returned when an empty key prefix is supplied.
	ErrEmptyKeyPrefix = errors.New("empty key prefix supplied")

	// ErrInventoryNotFound is returned when the storage holds no inventory for the sale.
	ErrInventoryNotFound = errors.New("inventory not found")

	// ErrInventoryAlreadyExists is returned when a sale's inventory is seeded twice.
	ErrInventoryAlreadyExists = errors.New("inventory already exists")

	// ErrInconsistentState is returned when the counter pair read back from storage violates the joint invariant.
	ErrInconsistentState = errors.New("inventory state violates available + sold == initial")

	// ErrBuildingQueryFailed is returned when a SQL statement cannot be built.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrPurchaseFailed is returned when the storage fails during a purchase attempt.
	ErrPurchaseFailed = errors.New("purchase attempt failed")

	// ErrSnapshotFailed is returned when the storage fails while reading the counter pair.
	ErrSnapshotFailed = errors.New("reading the inventory snapshot failed")

	// ErrCreatingTableFailed is returned when the inventory table cannot be created.
	ErrCreatingTableFailed = errors.New("creating the inventory table failed")

	// ErrSeedingFailed is returned when the storage fails while creating the inventory.
	ErrSeedingFailed = errors.New("seeding the inventory failed")

	// ErrDiscardFailed is returned when the storage fails while removing the inventory.
	ErrDiscardFailed = errors.New("discarding the inventory failed")

	// ErrScanningRowFailed is returned when a database row cannot be scanned.
	ErrScanningRowFailed = errors.New("scanning the database row failed")
)
