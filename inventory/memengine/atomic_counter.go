package memengine

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// ErrInitialInventoryTooLarge is returned when the initial inventory does not fit into half of the state word.
var ErrInitialInventoryTooLarge = errors.New("initial inventory does not fit into 32 bits")

const soldMask = uint64(math.MaxUint32)

// AtomicCounter is an inventory.Counter that keeps both counters in one atomically updated word.
type AtomicCounter struct {
	initial    int
	state      atomic.Uint64
	casRetries atomic.Uint64
}

// NewAtomicCounter creates an AtomicCounter seeded with the given number of tickets.
func NewAtomicCounter(initial int) (*AtomicCounter, error) {
	if err := inventory.ValidateInitialInventory(initial); err != nil {
		return nil, err
	}

	if uint64(initial) > soldMask {
		return nil, ErrInitialInventoryTooLarge
	}

	c := &AtomicCounter{initial: initial}
	c.state.Store(pack(uint64(initial), 0))

	return c, nil
}

// AttemptPurchase sells one ticket to the buyer if any is left.
// The decision and both mutations are published by a single CompareAndSwap; a lost race
// reloads the word and decides again.
func (c *AtomicCounter) AttemptPurchase(_ context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	for {
		current := c.state.Load()
		available, sold := unpack(current)

		if available == 0 {
			return inventory.MissedResult(buyerID), nil
		}

		if c.state.CompareAndSwap(current, pack(available-1, sold+1)) {
			return inventory.BoughtResult(buyerID, int(available-1)), nil
		}

		c.casRetries.Add(1)
	}
}

// Snapshot returns both counters decoded from one load of the state word.
func (c *AtomicCounter) Snapshot(_ context.Context) (inventory.Snapshot, error) {
	available, sold := unpack(c.state.Load())

	return inventory.Snapshot{
		Initial:   c.initial,
		Available: int(available),
		Sold:      int(sold),
	}, nil
}

// CASRetries returns how often a CompareAndSwap lost against a concurrent purchase.
func (c *AtomicCounter) CASRetries() uint64 {
	return c.casRetries.Load()
}

func pack(available, sold uint64) uint64 {
	return available<<32 | sold&soldMask
}

func unpack(state uint64) (available, sold uint64) {
	return state >> 32, state & soldMask
}

var _ inventory.Counter = (*AtomicCounter)(nil)
