package sale

import "errors"

var (
	// ErrNilCounter is returned when a Sale is created without a counter.
	ErrNilCounter = errors.New("counter must not be nil")

	// ErrNegativeBuyerCount is returned when a negative number of buyers is configured.
	ErrNegativeBuyerCount = errors.New("buyer count must not be negative")

	// ErrNilReportWriter is returned when a nil report writer is configured.
	ErrNilReportWriter = errors.New("report writer must not be nil")

	// ErrEmptyEngineName is returned when an empty engine name is configured.
	ErrEmptyEngineName = errors.New("empty engine name supplied")

	// ErrBuyerFailed is returned when a buyer's purchase attempt failed or panicked.
	ErrBuyerFailed = errors.New("buyer failed")

	// ErrInventoryStateUnavailable is returned when the counter pair cannot be read before or after the race.
	ErrInventoryStateUnavailable = errors.New("reading the inventory state failed")

	// ErrJointInvariantViolated is returned when the final state does not match the outcomes of the buyers.
	ErrJointInvariantViolated = errors.New("final inventory state violates the joint invariant")

	// ErrReportFailed is returned when a report line cannot be written.
	ErrReportFailed = errors.New("writing the report failed")
)
