// Package postgresengine provides a PostgreSQL implementation of the inventory.Counter interface.
//
// The counter pair of one sale lives in a single row keyed by the sale's run ID.
// A purchase attempt is one conditional statement:
//
//	UPDATE inventories
//	SET available = available - 1, sold = sold + 1
//	WHERE run_id = '...' AND available > 0
//	RETURNING available
//
// The row-level lock taken by the UPDATE serializes concurrent attempts, and the WHERE
// clause re-evaluates available under that lock, so the check and both mutations are one
// critical section. Zero returned rows means the buyer missed the ticket.
//
// The table enforces the joint invariant with CHECK constraints as a second line of defense.
//
// Multiple database adapters are supported:
//   - pgx.Pool (recommended for performance)
//   - database/sql with lib/pq
//   - sqlx.DB
//
// Example usage:
//
//	counter, err := postgresengine.NewCounterFromPGXPool(pool, runID, postgresengine.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	if err := counter.CreateTable(ctx); err != nil { ... }
//	if err := counter.Seed(ctx, 20); err != nil { ... }
//	defer counter.Discard(ctx)
//
//	result, err := counter.AttemptPurchase(ctx, inventory.BuyerID(3))
package postgresengine
