package redisengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/redisengine"
	"github.com/AntonStoeckl/ticketsale-go/testutil/config"
	"github.com/AntonStoeckl/ticketsale-go/testutil/helper"
)

func givenSeededCounter(t *testing.T, initial int, options ...redisengine.Option) *redisengine.Counter {
	t.Helper()

	client := config.RedisTestConfig()
	helper.SkipIfRedisUnavailable(t, client)

	counter, err := redisengine.NewCounter(client, helper.GivenUniqueRunID(t), options...)
	require.NoError(t, err, "error creating counter")
	require.NoError(t, counter.Seed(context.Background(), initial), "error seeding the inventory")

	t.Cleanup(func() {
		_ = counter.Discard(context.Background()) // nothing to do about a failed cleanup
	})

	return counter
}

func Test_AttemptPurchase_ConcurrentBuyers_ReachTheOnlyPossibleFinalState(t *testing.T) {
	testCases := []struct {
		name    string
		initial int
		buyers  int
	}{
		{name: "default sale", initial: 20, buyers: 30},
		{name: "single ticket stress", initial: 1, buyers: 100},
		{name: "no tickets", initial: 0, buyers: 5},
		{name: "heavy contention", initial: 500, buyers: 1000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			// arrange
			counter := givenSeededCounter(t, tc.initial)

			// act
			results, observed := helper.RaceBuyersObserved(t, ctxWithTimeout, counter, tc.buyers)

			// assert
			expected := inventory.Snapshot{Initial: tc.initial, Available: tc.initial}.ExpectedAfter(tc.buyers)
			bought, missed := helper.CountOutcomes(results)
			assert.Equal(t, expected.Sold, bought, "bought outcomes")
			assert.Equal(t, tc.buyers-expected.Sold, missed, "missed outcomes")
			helper.AssertNoDoubleSale(t, results, tc.initial)
			assert.Positive(t, observed, "snapshots observed during the race")
			helper.AssertFinalState(t, ctxWithTimeout, counter, expected)
		})
	}
}

func Test_AttemptPurchase_SequentialPurchases_ReportTheRemainingTickets(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := givenSeededCounter(t, 2)

	// act
	first, firstErr := counter.AttemptPurchase(ctxWithTimeout, 0)
	second, secondErr := counter.AttemptPurchase(ctxWithTimeout, 1)
	third, thirdErr := counter.AttemptPurchase(ctxWithTimeout, 2)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	require.NoError(t, thirdErr)
	assert.Equal(t, inventory.BoughtResult(0, 1), first)
	assert.Equal(t, inventory.BoughtResult(1, 0), second)
	assert.Equal(t, inventory.MissedResult(2), third)
}

func Test_AttemptPurchase_When_TheInventoryWasDiscarded(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := givenSeededCounter(t, 2)
	require.NoError(t, counter.Discard(ctxWithTimeout))

	// act
	_, purchaseErr := counter.AttemptPurchase(ctxWithTimeout, 0)
	_, snapshotErr := counter.Snapshot(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, purchaseErr, inventory.ErrPurchaseFailed)
	assert.ErrorIs(t, purchaseErr, inventory.ErrInventoryNotFound)
	assert.ErrorIs(t, snapshotErr, inventory.ErrInventoryNotFound)
}

func Test_Seed_When_TheInventoryAlreadyExists(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := givenSeededCounter(t, 2)
	_, err := counter.AttemptPurchase(ctxWithTimeout, 0)
	require.NoError(t, err)

	// act
	seedErr := counter.Seed(ctxWithTimeout, 2)

	// assert
	assert.ErrorIs(t, seedErr, inventory.ErrInventoryAlreadyExists)
	helper.AssertFinalState(t, ctxWithTimeout, counter, inventory.Snapshot{Initial: 2, Available: 1, Sold: 1})
}

func Test_Counter_UsesTheKeyPrefix(t *testing.T) {
	// setup
	logHandler := helper.NewLogHandlerSpy(false)

	// arrange
	counter := givenSeededCounter(t, 1,
		redisengine.WithKeyPrefix("sale-test"),
		redisengine.WithLogger(slog.New(logHandler)))

	// assert
	assert.Equal(t, "sale-test:"+counter.RunID().String(), counter.Key())
	assert.True(t,
		logHandler.HasLogWithMessage(slog.LevelInfo, "inventory operation: inventory seeded").
			WithAttribute("key", counter.Key()).
			Assert(),
		"seeding should be logged with the hash key")
}

func Test_NewCounter_ShouldFail_WithInvalidConfiguration(t *testing.T) {
	// act
	_, nilClientErr := redisengine.NewCounter(nil, helper.GivenUniqueRunID(t))
	_, emptyPrefixErr := redisengine.NewCounter(config.RedisTestConfig(), helper.GivenUniqueRunID(t), redisengine.WithKeyPrefix(""))

	// assert
	assert.ErrorIs(t, nilClientErr, inventory.ErrNilDatabaseConnection)
	assert.ErrorIs(t, emptyPrefixErr, inventory.ErrEmptyKeyPrefix)
}
