package sale_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// faultyCounter delegates to inner but fails or panics for one buyer.
type faultyCounter struct {
	inner   inventory.Counter
	failFor inventory.BuyerID
	fault   error
	panics  bool
}

func (c *faultyCounter) AttemptPurchase(ctx context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	if buyerID == c.failFor {
		if c.panics {
			panic("boom")
		}

		return inventory.PurchaseResult{}, c.fault
	}

	return c.inner.AttemptPurchase(ctx, buyerID)
}

func (c *faultyCounter) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	return c.inner.Snapshot(ctx)
}

// scriptedCounter sells every ticket it is asked for and returns the scripted snapshots in order.
// Once the script is exhausted it returns snapshotErr.
type scriptedCounter struct {
	mu          sync.Mutex
	snapshots   []inventory.Snapshot
	snapshotErr error
	attempts    atomic.Int64
}

func (c *scriptedCounter) AttemptPurchase(_ context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	c.attempts.Add(1)

	return inventory.BoughtResult(buyerID, 0), nil
}

func (c *scriptedCounter) Snapshot(_ context.Context) (inventory.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.snapshots) == 0 {
		return inventory.Snapshot{}, c.snapshotErr
	}

	next := c.snapshots[0]
	c.snapshots = c.snapshots[1:]

	return next, nil
}
