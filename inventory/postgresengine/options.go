package postgresengine

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
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: seeding and discarding of inventories
// Warn level: Non-critical issues like failures when closing rows
// Error level: Critical failures that cause operation failures.
func WithLogger(logger inventory.Logger) Option {
	return func(c *Counter) error {
		c.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Counter.
// When set, it takes precedence over the plain Logger so log records carry trace correlation.
func WithContextualLogger(logger inventory.ContextualLogger) Option {
	return func(c *Counter) error {
		c.contextualLogger = logger
		return nil
	}
}
