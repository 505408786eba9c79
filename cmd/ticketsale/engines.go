package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/memengine"
	"github.com/AntonStoeckl/ticketsale-go/inventory/mysqlengine"
	"github.com/AntonStoeckl/ticketsale-go/inventory/observable"
	"github.com/AntonStoeckl/ticketsale-go/inventory/postgresengine"
	"github.com/AntonStoeckl/ticketsale-go/inventory/redisengine"
)

const (
	maxConnections  = 50
	maxIdleConns    = 2
	maxConnLifetime = time.Hour
	connectTimeout  = 5 * time.Second
)

// storedCounter is a counter whose inventory lives outside the process for the duration of one run.
type storedCounter interface {
	inventory.Counter
	Seed(ctx context.Context, initial int) error
	Discard(ctx context.Context) error
}

// engine is a seeded counter plus the function that tears it down after the report.
type engine struct {
	counter inventory.Counter
	close   func(ctx context.Context) error
}

// newEngine creates the configured counter holding cfg.Tickets tickets for the given run.
func newEngine(ctx context.Context, cfg Config, runID uuid.UUID, logger *slog.Logger) (engine, error) {
	switch cfg.Engine {
	case engineMutex:
		counter, err := memengine.NewMutexCounter(cfg.Tickets)
		return engine{counter: counter, close: noClose}, err

	case engineAtomic:
		counter, err := memengine.NewAtomicCounter(cfg.Tickets)
		return engine{counter: counter, close: noClose}, err

	case enginePostgres:
		return newPostgresEngine(ctx, cfg, runID, logger)

	case engineMySQL:
		return newMySQLEngine(ctx, cfg, runID, logger)

	case engineRedis:
		return newRedisEngine(ctx, cfg, runID, logger)
	}

	return engine{}, fmt.Errorf("%w: unknown engine %q", errInvalidConfig, cfg.Engine)
}

func newPostgresEngine(ctx context.Context, cfg Config, runID uuid.UUID, logger *slog.Logger) (engine, error) {
	options := []postgresengine.Option{postgresengine.WithLogger(logger)}

	var (
		counter *postgresengine.Counter
		release func()
		err     error
	)

	switch cfg.DBAdapter {
	case adapterSQL, adapterSQLX:
		sqlxDB, openErr := sqlx.Open("postgres", cfg.PostgresDSN)
		if openErr != nil {
			return engine{}, openErr
		}
		configureSQLDB(sqlxDB.DB)
		release = func() { _ = sqlxDB.Close() }

		if pingErr := sqlxDB.PingContext(ctx); pingErr != nil {
			release()
			return engine{}, fmt.Errorf("failed to connect to postgres: %w", pingErr)
		}

		if cfg.DBAdapter == adapterSQL {
			counter, err = postgresengine.NewCounterFromSQLDB(sqlxDB.DB, runID, options...)
		} else {
			counter, err = postgresengine.NewCounterFromSQLX(sqlxDB, runID, options...)
		}

	default:
		poolConfig, parseErr := pgxpool.ParseConfig(cfg.PostgresDSN)
		if parseErr != nil {
			return engine{}, parseErr
		}
		poolConfig.MaxConns = maxConnections
		poolConfig.ConnConfig.ConnectTimeout = connectTimeout

		pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
		if poolErr != nil {
			return engine{}, fmt.Errorf("failed to create pgx pool: %w", poolErr)
		}
		release = pool.Close

		if pingErr := pool.Ping(ctx); pingErr != nil {
			release()
			return engine{}, fmt.Errorf("failed to connect to postgres: %w", pingErr)
		}

		counter, err = postgresengine.NewCounterFromPGXPool(pool, runID, options...)
	}

	if err != nil {
		release()
		return engine{}, err
	}

	if err = counter.CreateTable(ctx); err != nil {
		release()
		return engine{}, err
	}

	return seeded(ctx, counter, cfg.Tickets, release)
}

func newMySQLEngine(ctx context.Context, cfg Config, runID uuid.UUID, logger *slog.Logger) (engine, error) {
	driverConfig, err := mysql.ParseDSN(cfg.MySQLDSN)
	if err != nil {
		return engine{}, err
	}
	driverConfig.Timeout = connectTimeout

	connector, err := mysql.NewConnector(driverConfig)
	if err != nil {
		return engine{}, err
	}

	db := sql.OpenDB(connector)
	configureSQLDB(db)
	release := func() { _ = db.Close() }

	if pingErr := db.PingContext(ctx); pingErr != nil {
		release()
		return engine{}, fmt.Errorf("failed to connect to mysql: %w", pingErr)
	}

	counter, err := mysqlengine.NewCounterFromSQLDB(db, runID, mysqlengine.WithLogger(logger))
	if err != nil {
		release()
		return engine{}, err
	}

	if err = counter.CreateTable(ctx); err != nil {
		release()
		return engine{}, err
	}

	return seeded(ctx, counter, cfg.Tickets, release)
}

func newRedisEngine(ctx context.Context, cfg Config, runID uuid.UUID, logger *slog.Logger) (engine, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		PoolSize:    maxConnections,
		DialTimeout: connectTimeout,
	})
	release := func() { _ = client.Close() }

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		release()
		return engine{}, fmt.Errorf("failed to connect to redis: %w", pingErr)
	}

	counter, err := redisengine.NewCounter(client, runID, redisengine.WithLogger(logger))
	if err != nil {
		release()
		return engine{}, err
	}

	return seeded(ctx, counter, cfg.Tickets, release)
}

// seeded seeds the counter and returns an engine that discards the inventory before releasing connections.
func seeded(ctx context.Context, counter storedCounter, initial int, release func()) (engine, error) {
	if err := counter.Seed(ctx, initial); err != nil {
		release()
		return engine{}, err
	}

	return engine{
		counter: counter,
		close: func(ctx context.Context) error {
			defer release()
			return counter.Discard(ctx)
		},
	}, nil
}

// withObservability wraps the counter with logging, metrics and tracing when observability is enabled.
func withObservability(counter inventory.Counter, engineName string, obs ObservabilityConfig) (inventory.Counter, error) {
	if obs.MetricsCollector == nil && obs.TracingCollector == nil && obs.ContextualLogger == nil {
		return counter, nil
	}

	options := []observable.Option{observable.WithEngineName(engineName)}
	if obs.MetricsCollector != nil {
		options = append(options, observable.WithMetrics(obs.MetricsCollector))
	}
	if obs.TracingCollector != nil {
		options = append(options, observable.WithTracing(obs.TracingCollector))
	}
	if obs.ContextualLogger != nil {
		options = append(options, observable.WithContextualLogging(obs.ContextualLogger))
	}

	wrapper, err := observable.NewCounterWrapper(counter, options...)
	if err != nil {
		return nil, errors.Join(errInvalidConfig, err)
	}

	return wrapper, nil
}

func configureSQLDB(db *sql.DB) {
	db.SetMaxOpenConns(maxConnections)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(maxConnLifetime)
}

func noClose(context.Context) error {
	return nil
}
