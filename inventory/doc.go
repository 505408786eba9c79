// Package inventory provides the core abstractions for a fixed-inventory ticket sale
// that is contested by many concurrent buyers.
//
// The central abstraction is Counter: a pair of mutually consistent counters
// (available and sold tickets) that exposes exactly one mutating operation,
// AttemptPurchase. Every implementation performs the check-then-act sequence
// (read available, compare to zero, decrement available, increment sold) as one
// indivisible critical section, so that at every externally observable point:
//
//	available + sold == initial
//	available >= 0
//	sold <= initial
//
// Running out of tickets is a normal business outcome (Missed), not an error.
//
// Implementations live in the sub-packages:
//   - memengine: in-process counters (mutex-guarded pair, CAS over a packed state word)
//   - postgresengine: one row per sale, conditional UPDATE ... RETURNING
//   - mysqlengine: one row per sale, SELECT ... FOR UPDATE inside a transaction
//   - redisengine: one hash per sale, Lua script executed atomically by Redis
//
// Common usage pattern:
//
//	counter, err := memengine.NewMutexCounter(inventory.DefaultInitialInventory)
//	if err != nil {
//		// handle error
//	}
//
//	result, err := counter.AttemptPurchase(ctx, inventory.BuyerID(7))
//	if err != nil {
//		// infrastructure fault, fatal for the sale
//	}
//
//	if result.Outcome == inventory.Bought {
//		fmt.Println(result.Remaining)
//	}
package inventory
