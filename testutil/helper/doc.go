// Package helper provides test helpers shared by the inventory engines and the sale driver:
// buyer fan-out for counter tests, invariant assertions, availability guards for the
// database-backed engines, and spies for the logging, metrics and tracing interfaces.
package helper
