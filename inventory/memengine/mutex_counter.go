package memengine

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// MutexCounter is an inventory.Counter whose two counters share one exclusion lock.
type MutexCounter struct {
	mu        sync.Mutex
	initial   int
	available int
	sold      int
}

// NewMutexCounter creates a MutexCounter seeded with the given number of tickets.
func NewMutexCounter(initial int) (*MutexCounter, error) {
	if err := inventory.ValidateInitialInventory(initial); err != nil {
		return nil, err
	}

	return &MutexCounter{
		initial:   initial,
		available: initial,
	}, nil
}

// AttemptPurchase sells one ticket to the buyer if any is left.
// The whole check-then-act sequence runs under the lock.
func (c *MutexCounter) AttemptPurchase(_ context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snapshotLocked().Consistent() {
		return inventory.PurchaseResult{}, inventory.ErrInconsistentState
	}

	if c.available <= 0 {
		return inventory.MissedResult(buyerID), nil
	}

	c.available--
	c.sold++

	return inventory.BoughtResult(buyerID, c.available), nil
}

// Snapshot returns both counters as read under the lock.
func (c *MutexCounter) Snapshot(_ context.Context) (inventory.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked(), nil
}

// snapshotLocked must only be called while c.mu is held.
func (c *MutexCounter) snapshotLocked() inventory.Snapshot {
	return inventory.Snapshot{
		Initial:   c.initial,
		Available: c.available,
		Sold:      c.sold,
	}
}

var _ inventory.Counter = (*MutexCounter)(nil)
