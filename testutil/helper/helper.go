package helper

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// GivenUniqueRunID returns a fresh UUIDv7 to key one sale's inventory.
func GivenUniqueRunID(t testing.TB) uuid.UUID {
	t.Helper()

	runID, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return runID
}

// RaceBuyers lets the given number of buyers attempt one purchase each, all concurrently,
// and returns their results in buyer order once every buyer has finished.
func RaceBuyers(t testing.TB, ctx context.Context, counter inventory.Counter, buyers int) []inventory.PurchaseResult {
	t.Helper()

	race := raceBuyers(ctx, counter, buyers)

	for i, err := range race.errs {
		require.NoError(t, err, "purchase attempt of buyer %d failed", i)
	}

	return race.results
}

// RaceBuyersObserved works like RaceBuyers while a concurrent observer keeps reading snapshots
// until the last buyer has finished. Every observed snapshot must satisfy the joint invariant
// and the sold count must never decrease between two reads.
// It returns the buyers' results and the number of snapshots the observer took.
func RaceBuyersObserved(
	t testing.TB,
	ctx context.Context,
	counter inventory.Counter,
	buyers int,
) ([]inventory.PurchaseResult, int) {
	t.Helper()

	buyersDone := make(chan struct{})
	observerDone := make(chan struct{})

	var observed []inventory.Snapshot
	var observeErr error

	go func() {
		defer close(observerDone)

		for {
			snapshot, err := counter.Snapshot(ctx)
			if err != nil {
				observeErr = err
				return
			}

			observed = append(observed, snapshot)

			select {
			case <-buyersDone:
				return
			default:
			}
		}
	}()

	results := raceBuyers(ctx, counter, buyers)
	close(buyersDone)
	<-observerDone

	require.NoError(t, observeErr, "reading a snapshot during the race failed")

	for i, err := range results.errs {
		require.NoError(t, err, "purchase attempt of buyer %d failed", i)
	}

	lastSold := 0
	for i, snapshot := range observed {
		assert.True(t, snapshot.Consistent(), "joint invariant violated in snapshot %d: %+v", i, snapshot)
		assert.LessOrEqual(t, snapshot.Sold, snapshot.Initial, "oversold in snapshot %d: %+v", i, snapshot)
		assert.GreaterOrEqual(t, snapshot.Sold, lastSold, "sold count decreased in snapshot %d: %+v", i, snapshot)
		lastSold = snapshot.Sold
	}

	return results.results, len(observed)
}

type raceResults struct {
	results []inventory.PurchaseResult
	errs    []error
}

func raceBuyers(ctx context.Context, counter inventory.Counter, buyers int) raceResults {
	race := raceResults{
		results: make([]inventory.PurchaseResult, buyers),
		errs:    make([]error, buyers),
	}
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyerID int) {
			defer wg.Done()
			<-start
			race.results[buyerID], race.errs[buyerID] = counter.AttemptPurchase(ctx, inventory.BuyerID(buyerID))
		}(i)
	}

	close(start)
	wg.Wait()

	return race
}

// CountOutcomes returns how many results were Bought and how many were Missed.
func CountOutcomes(results []inventory.PurchaseResult) (bought, missed int) {
	for _, result := range results {
		switch result.Outcome {
		case inventory.Bought:
			bought++
		case inventory.Missed:
			missed++
		}
	}

	return bought, missed
}

// AssertNoDoubleSale checks that every successful purchase observed a distinct remaining count.
// With n successful purchases against an initial inventory, the remaining counts must be exactly
// initial-1 down to initial-n; a double sale would produce a duplicate or a negative count.
func AssertNoDoubleSale(t testing.TB, results []inventory.PurchaseResult, initial int) {
	t.Helper()

	remaining := make([]int, 0, len(results))
	for _, result := range results {
		if result.Outcome == inventory.Bought {
			remaining = append(remaining, result.Remaining)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(remaining)))

	expected := make([]int, len(remaining))
	for i := range expected {
		expected[i] = initial - 1 - i
	}

	assert.Equal(t, expected, remaining, "remaining counts of successful purchases")
}

// AssertFinalState checks the counter's snapshot against the expected state and the joint invariant.
func AssertFinalState(t testing.TB, ctx context.Context, counter inventory.Counter, expected inventory.Snapshot) {
	t.Helper()

	snapshot, err := counter.Snapshot(ctx)
	require.NoError(t, err, "reading the snapshot failed")

	assert.True(t, snapshot.Consistent(), "joint invariant violated: %+v", snapshot)
	assert.Equal(t, expected, snapshot, "final inventory state")
}
