package inventory

import (
	"context"
	"strconv"
)

// DefaultInitialInventory is the number of tickets a sale starts with when nothing else is configured.
const DefaultInitialInventory = 20

// BuyerID identifies one buyer. It is opaque to the counters and only used for reporting.
type BuyerID int

// String returns the decimal representation of the BuyerID.
func (id BuyerID) String() string {
	return strconv.Itoa(int(id))
}

// Outcome is the business result of one purchase attempt.
type Outcome int

const (
	// Missed means no ticket was available when the attempt entered the critical section.
	Missed Outcome = iota

	// Bought means the attempt decremented available and incremented sold.
	Bought
)

// String provides a string representation of Outcome for logging, metrics labels, and tracing.
func (o Outcome) String() string {
	switch o {
	case Bought:
		return "bought"
	case Missed:
		return "missed"
	default:
		return "unknown"
	}
}

// PurchaseResult is returned by Counter.AttemptPurchase.
//
// Remaining is the value of available right after the successful mutation, read inside the
// same critical section. It is diagnostic output only and is zero for a Missed outcome.
type PurchaseResult struct {
	BuyerID   BuyerID
	Outcome   Outcome
	Remaining int
}

// BoughtResult is a factory method for a successful PurchaseResult.
func BoughtResult(buyerID BuyerID, remaining int) PurchaseResult {
	return PurchaseResult{BuyerID: buyerID, Outcome: Bought, Remaining: remaining}
}

// MissedResult is a factory method for an unsuccessful PurchaseResult.
func MissedResult(buyerID BuyerID) PurchaseResult {
	return PurchaseResult{BuyerID: buyerID, Outcome: Missed}
}

// Counter is the shared inventory counter pair.
//
// AttemptPurchase must be safe to call from any number of goroutines concurrently and must
// perform the zero-check together with both mutations as one critical section.
//
// Snapshot returns a consistent view of both counters, i.e. it never observes a state
// in the middle of a purchase.
type Counter interface {
	AttemptPurchase(ctx context.Context, buyerID BuyerID) (PurchaseResult, error)
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ValidateInitialInventory returns ErrNegativeInitialInventory for a negative number of tickets.
func ValidateInitialInventory(initial int) error {
	if initial < 0 {
		return ErrNegativeInitialInventory
	}

	return nil
}
