package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/memengine"
	"github.com/AntonStoeckl/ticketsale-go/inventory/observable"
	. "github.com/AntonStoeckl/ticketsale-go/testutil/helper" //nolint:revive
)

var errStorageDown = errors.New("storage down")

type failingCounter struct {
	err error
}

func (c failingCounter) AttemptPurchase(_ context.Context, _ inventory.BuyerID) (inventory.PurchaseResult, error) {
	return inventory.PurchaseResult{}, c.err
}

func (c failingCounter) Snapshot(_ context.Context) (inventory.Snapshot, error) {
	return inventory.Snapshot{}, c.err
}

func Test_CounterWrapper_NewCounterWrapper_Fails_WithNilCounter(t *testing.T) {
	// act
	wrapper, err := observable.NewCounterWrapper(nil)

	// assert
	assert.ErrorIs(t, err, observable.ErrNilCounter)
	assert.Nil(t, wrapper)
}

func Test_CounterWrapper_AttemptPurchase_RecordsOutcomes(t *testing.T) {
	// arrange
	core, err := memengine.NewMutexCounter(1)
	require.NoError(t, err)

	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	logHandler := NewLogHandlerSpy(false)

	wrapper, err := observable.NewCounterWrapper(
		core,
		observable.WithEngineName("mutex"),
		observable.WithMetrics(metricsCollector),
		observable.WithTracing(tracingCollector),
		observable.WithContextualLogging(slog.New(logHandler)),
	)
	require.NoError(t, err)

	ctx := context.Background()

	// act
	first, firstErr := wrapper.AttemptPurchase(ctx, 0)
	second, secondErr := wrapper.AttemptPurchase(ctx, 1)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, inventory.BoughtResult(0, 0), first, "the wrapper must not alter results")
	assert.Equal(t, inventory.MissedResult(1), second, "the wrapper must not alter results")

	assert.Equal(t, 1, metricsCollector.CountCounterRecords(inventory.MetricPurchaseAttempts,
		map[string]string{"engine": "mutex", "outcome": "bought"}))
	assert.Equal(t, 1, metricsCollector.CountCounterRecords(inventory.MetricPurchaseAttempts,
		map[string]string{"engine": "mutex", "outcome": "missed"}))
	assert.True(t, metricsCollector.HasDurationRecord(inventory.MetricPurchaseDuration))
	assert.Len(t, metricsCollector.GetValueRecords(), 1, "remaining tickets are recorded for bought outcomes only")

	assert.Equal(t, 1, tracingCollector.CountSpanRecords(inventory.SpanAttemptPurchase, "bought"))
	assert.Equal(t, 1, tracingCollector.CountSpanRecords(inventory.SpanAttemptPurchase, "missed"))

	assert.Equal(t, 2, logHandler.CountRecords(slog.LevelDebug, observable.LogMsgPurchaseCompleted))
	assert.True(t,
		logHandler.HasLogWithMessage(slog.LevelDebug, observable.LogMsgPurchaseCompleted).WithDurationMS().Assert())
}

func Test_CounterWrapper_AttemptPurchase_RecordsErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
	}{
		{name: "storage error", err: errStorageDown, expectedStatus: inventory.StatusError},
		{name: "canceled", err: errors.Join(inventory.ErrPurchaseFailed, context.Canceled), expectedStatus: inventory.StatusCanceled},
		{name: "timeout", err: errors.Join(inventory.ErrPurchaseFailed, context.DeadlineExceeded), expectedStatus: inventory.StatusTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			metricsCollector := NewMetricsCollectorSpy(true)
			tracingCollector := NewTracingCollectorSpy(true)
			logHandler := NewLogHandlerSpy(false)

			wrapper, err := observable.NewCounterWrapper(
				failingCounter{err: tc.err},
				observable.WithMetrics(metricsCollector),
				observable.WithTracing(tracingCollector),
				observable.WithLogging(slog.New(logHandler)),
			)
			require.NoError(t, err)

			// act
			_, purchaseErr := wrapper.AttemptPurchase(context.Background(), 3)

			// assert
			assert.ErrorIs(t, purchaseErr, tc.err, "the wrapper must pass errors through")
			assert.Equal(t, 1, metricsCollector.CountCounterRecords(inventory.MetricPurchaseErrors,
				map[string]string{"error_type": tc.expectedStatus}))
			assert.Equal(t, 1, tracingCollector.CountSpanRecords(inventory.SpanAttemptPurchase, tc.expectedStatus))
			assert.True(t,
				logHandler.HasLogWithMessage(slog.LevelError, observable.LogMsgPurchaseFailed).
					WithAttribute("buyer_id", "3").
					Assert())
		})
	}
}

func Test_CounterWrapper_WithoutCollectors_StillDelegates(t *testing.T) {
	// arrange
	core, err := memengine.NewAtomicCounter(5)
	require.NoError(t, err)

	wrapper, err := observable.NewCounterWrapper(core)
	require.NoError(t, err)

	// act
	results := RaceBuyers(t, context.Background(), wrapper, 8)

	// assert
	bought, missed := CountOutcomes(results)
	assert.Equal(t, 5, bought)
	assert.Equal(t, 3, missed)
	AssertFinalState(t, context.Background(), wrapper, inventory.Snapshot{Initial: 5, Available: 0, Sold: 5})
	assert.Same(t, core, wrapper.Unwrap())
}
