package postgresengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/postgresengine"
	"github.com/AntonStoeckl/ticketsale-go/testutil/config"
	"github.com/AntonStoeckl/ticketsale-go/testutil/helper"
	. "github.com/AntonStoeckl/ticketsale-go/testutil/helper/postgreswrapper"
)

func Test_AttemptPurchase_ConcurrentBuyers_ReachTheOnlyPossibleFinalState(t *testing.T) {
	testCases := []struct {
		name    string
		initial int
		buyers  int
	}{
		{name: "default sale", initial: 20, buyers: 30},
		{name: "single ticket stress", initial: 1, buyers: 100},
		{name: "no tickets", initial: 0, buyers: 5},
		{name: "more tickets than buyers", initial: 50, buyers: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			// arrange
			counter := GivenSeededCounter(t, tc.initial)

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
	counter := GivenSeededCounter(t, 2)

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
	helper.AssertFinalState(t, ctxWithTimeout, counter, inventory.Snapshot{Initial: 2, Available: 0, Sold: 2})
}

func Test_AttemptPurchase_When_TheInventoryWasNeverSeeded(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t, helper.GivenUniqueRunID(t))
	defer wrapper.Close()
	counter := wrapper.GetCounter()
	require.NoError(t, counter.CreateTable(ctxWithTimeout))

	// act
	_, err := counter.AttemptPurchase(ctxWithTimeout, 0)

	// assert
	assert.ErrorIs(t, err, inventory.ErrPurchaseFailed)
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)
}

func Test_Snapshot_When_TheInventoryWasDiscarded(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := GivenSeededCounter(t, 3)
	require.NoError(t, counter.Discard(ctxWithTimeout))

	// act
	_, err := counter.Snapshot(ctxWithTimeout)

	// assert
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)
}

func Test_Seed_When_TheInventoryAlreadyExists(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := GivenSeededCounter(t, 3)

	// act
	err := counter.Seed(ctxWithTimeout, 3)

	// assert
	assert.ErrorIs(t, err, inventory.ErrSeedingFailed)
	assert.ErrorIs(t, err, inventory.ErrInventoryAlreadyExists)
}

func Test_Seed_When_TheInitialInventoryIsNegative(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := CreateWrapperWithTestConfig(t, helper.GivenUniqueRunID(t))
	defer wrapper.Close()

	// act
	err := wrapper.GetCounter().Seed(ctxWithTimeout, -1)

	// assert
	assert.ErrorIs(t, err, inventory.ErrNegativeInitialInventory)
}

func Test_AttemptPurchase_When_Context_Is_Cancelled(t *testing.T) {
	// arrange
	counter := GivenSeededCounter(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, err := counter.AttemptPurchase(ctx, 0)

	// assert
	assert.ErrorIs(t, err, inventory.ErrPurchaseFailed)
}

func Test_Counter_LogsExecutedSQL_WithDuration(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logHandler := helper.NewLogHandlerSpy(false)
	logger := slog.New(logHandler)

	// arrange
	counter := GivenSeededCounter(t, 1, postgresengine.WithLogger(logger))

	// act
	_, err := counter.AttemptPurchase(ctxWithTimeout, 0)

	// assert
	require.NoError(t, err)
	assert.True(t,
		logHandler.HasLogWithMessage(slog.LevelDebug, "executed sql for: purchase").WithDurationMS().Assert(),
		"purchase sql should be logged with its duration")
	assert.True(t,
		logHandler.HasLogWithMessage(slog.LevelInfo, "inventory operation: inventory seeded").
			WithAttribute("run_id", counter.RunID().String()).
			Assert(),
		"seeding should be logged with the run id")
}

func Test_Counter_PrefersTheContextualLogger(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	plainHandler := helper.NewLogHandlerSpy(false)
	contextualHandler := helper.NewLogHandlerSpy(false)

	// arrange
	counter := GivenSeededCounter(
		t,
		1,
		postgresengine.WithLogger(slog.New(plainHandler)),
		postgresengine.WithContextualLogger(slog.New(contextualHandler)),
	)

	// act
	_, err := counter.Snapshot(ctxWithTimeout)

	// assert
	require.NoError(t, err)
	assert.Zero(t, plainHandler.GetRecordCount(), "plain logger should stay silent")
	assert.Positive(t, contextualHandler.GetRecordCount(), "contextual logger should receive the records")
}

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	runID := helper.GivenUniqueRunID(t)

	testCases := []struct {
		name        string
		factoryFunc func() (*postgresengine.Counter, error)
	}{
		{
			name: "NewCounterFromPGXPool with nil",
			factoryFunc: func() (*postgresengine.Counter, error) {
				return postgresengine.NewCounterFromPGXPool(nil, runID)
			},
		},
		{
			name: "NewCounterFromSQLDB with nil",
			factoryFunc: func() (*postgresengine.Counter, error) {
				return postgresengine.NewCounterFromSQLDB(nil, runID)
			},
		},
		{
			name: "NewCounterFromSQLX with nil",
			factoryFunc: func() (*postgresengine.Counter, error) {
				return postgresengine.NewCounterFromSQLX(nil, runID)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, inventory.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_ShouldFail_WithEmptyTableName(t *testing.T) {
	// arrange
	db := config.PostgresSQLDBTestConfig()
	defer func() {
		_ = db.Close() // makes no sense to handle this
	}()

	// act
	_, err := postgresengine.NewCounterFromSQLDB(db, helper.GivenUniqueRunID(t), postgresengine.WithTableName(""))

	// assert
	assert.ErrorIs(t, err, inventory.ErrEmptyTableName)
}

func Test_Counter_WithCustomTableName(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// arrange
	counter := GivenSeededCounter(t, 4, postgresengine.WithTableName("inventories_custom"))

	// act
	result, err := counter.AttemptPurchase(ctxWithTimeout, 0)

	// assert
	require.NoError(t, err)
	assert.Equal(t, inventory.BoughtResult(0, 3), result)
	helper.AssertFinalState(t, ctxWithTimeout, counter, inventory.Snapshot{Initial: 4, Available: 3, Sold: 1})
}
