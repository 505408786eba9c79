package helper_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // postgres driver
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/testutil/helper"
)

const unreachableHost = "127.0.0.1"

func Test_SkipIfRedisUnavailable_ClosesTheClientOfASkippedTest(t *testing.T) {
	// arrange
	client := redis.NewClient(&redis.Options{
		Addr:        unreachableHost + ":1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})

	// act
	t.Run("unreachable redis", func(t *testing.T) {
		helper.SkipIfRedisUnavailable(t, client)
		t.Fatal("an unreachable redis must skip the test")
	})

	// assert
	assert.ErrorIs(t, client.Ping(context.Background()).Err(), redis.ErrClosed)
}

func Test_SkipIfSQLDBUnavailable_ClosesTheHandleOfASkippedTest(t *testing.T) {
	// arrange
	db, err := sql.Open("postgres", "host="+unreachableHost+" port=1 user=nobody dbname=nothing sslmode=disable connect_timeout=1")
	require.NoError(t, err)

	// act
	t.Run("unreachable database", func(t *testing.T) {
		helper.SkipIfSQLDBUnavailable(t, db)
		t.Fatal("an unreachable database must skip the test")
	})

	// assert
	assert.ErrorContains(t, db.PingContext(context.Background()), "database is closed")
}

func Test_SkipIfPostgresUnavailable_ClosesThePoolOfASkippedTest(t *testing.T) {
	// arrange
	pool, err := pgxpool.New(context.Background(), "postgres://nobody@"+unreachableHost+":1/nothing?connect_timeout=1")
	require.NoError(t, err)

	// act
	t.Run("unreachable postgres", func(t *testing.T) {
		helper.SkipIfPostgresUnavailable(t, pool)
		t.Fatal("an unreachable postgres must skip the test")
	})

	// assert
	assert.ErrorContains(t, pool.Ping(context.Background()), "closed pool")
}
