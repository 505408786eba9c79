package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTestConfig creates a *redis.Client for the Redis test server.
func RedisTestConfig() *redis.Client {
	const defaultPoolSize = 50
	const defaultDialTimeout = time.Second * 5

	return redis.NewClient(&redis.Options{
		Addr:        RedisTestAddr(),
		PoolSize:    defaultPoolSize,
		DialTimeout: defaultDialTimeout,
	})
}
