package sale

import (
	"io"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// Option defines a functional option for configuring a Sale.
type Option func(*Sale) error

// WithBuyerCount sets how many buyers race for the tickets.
func WithBuyerCount(buyers int) Option {
	return func(s *Sale) error {
		if buyers < 0 {
			return ErrNegativeBuyerCount
		}

		s.buyerCount = buyers

		return nil
	}
}

// WithReportWriter sets where the buyer lines and totals are written. Defaults to io.Discard.
func WithReportWriter(w io.Writer) Option {
	return func(s *Sale) error {
		if w == nil {
			return ErrNilReportWriter
		}

		s.reporter = NewReporter(w)

		return nil
	}
}

// WithEngineName sets the engine name carried in the Summary and in metric labels.
func WithEngineName(engine string) Option {
	return func(s *Sale) error {
		if engine == "" {
			return ErrEmptyEngineName
		}

		s.engine = engine

		return nil
	}
}

// WithRunID sets the ID of this run. Defaults to a fresh UUIDv7.
func WithRunID(runID uuid.UUID) Option {
	return func(s *Sale) error {
		s.runID = runID

		return nil
	}
}

// WithLogger sets the logger for run-level messages.
func WithLogger(logger inventory.Logger) Option {
	return func(s *Sale) error {
		s.logger = logger

		return nil
	}
}

// WithContextualLogger sets the contextual logger, which is preferred over the plain logger.
func WithContextualLogger(logger inventory.ContextualLogger) Option {
	return func(s *Sale) error {
		s.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for run-level metrics.
func WithMetrics(collector inventory.MetricsCollector) Option {
	return func(s *Sale) error {
		s.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector. The run span becomes the parent of all purchase spans.
func WithTracing(collector inventory.TracingCollector) Option {
	return func(s *Sale) error {
		s.tracingCollector = collector

		return nil
	}
}
