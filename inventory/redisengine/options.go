package redisengine

import (
	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// Option defines a functional option for configuring Counter.
type Option func(*Counter) error

// WithKeyPrefix sets the prefix of the hash key; the run ID is appended to it.
func WithKeyPrefix(prefix string) Option {
	return func(c *Counter) error {
		if prefix == "" {
			return inventory.ErrEmptyKeyPrefix
		}

		c.keyPrefix = prefix

		return nil
	}
}

// WithLogger sets the logger for the Counter.
// Script executions are logged at debug level with their duration, failures at error level.
func WithLogger(logger inventory.Logger) Option {
	return func(c *Counter) error {
		c.logger = logger
		return nil
	}
}
