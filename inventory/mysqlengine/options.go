package mysqlengine

import (
	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// Option defines a functional option for configuring Counter.
type Option func(*Counter) error

// WithTableName sets the table name for the Counter.
func WithTableName(tableName string) Option {
	return func(c *Counter) error {
		if tableName == "" {
			return inventory.ErrEmptyTableName
		}

		c.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Counter.
// SQL statements are logged at debug level with their execution time, failures at error level.
func WithLogger(logger inventory.Logger) Option {
	return func(c *Counter) error {
		c.logger = logger
		return nil
	}
}
