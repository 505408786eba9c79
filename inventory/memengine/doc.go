// Package memengine provides in-process implementations of inventory.Counter.
//
// Two strategies are offered, both satisfying the same atomicity contract:
//
//   - MutexCounter guards both counters with one sync.Mutex. The zero-check, the decrement,
//     the increment and the diagnostic read of the remaining tickets all happen while the
//     lock is held.
//   - AtomicCounter packs both counters into a single 64-bit word (available in the upper,
//     sold in the lower 32 bits) and updates it with a compare-and-swap retry loop. Since both
//     counters change with the same CAS, no observer can ever see them drift apart.
//
// Usage:
//
//	counter, _ := memengine.NewMutexCounter(20)
//	result, _ := counter.AttemptPurchase(ctx, inventory.BuyerID(0))
package memengine
