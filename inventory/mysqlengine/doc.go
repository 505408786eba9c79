// Package mysqlengine provides a MySQL implementation of the inventory.Counter interface
// based on pessimistic row locking.
//
// The counter pair of one sale lives in a single row keyed by the sale's run ID.
// A purchase attempt runs inside one transaction:
//
//	BEGIN
//	SELECT available, sold FROM inventories WHERE run_id = '...' FOR UPDATE
//	UPDATE inventories SET available = available - 1, sold = sold + 1 WHERE run_id = '...'  -- only if available > 0
//	COMMIT
//
// The exclusive row lock is held from the SELECT until COMMIT, so concurrent attempts for the
// same sale queue up on it and the check and both mutations form one critical section.
package mysqlengine
