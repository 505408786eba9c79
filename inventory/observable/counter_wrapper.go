package observable

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// ErrNilCounter is returned when the wrapper is created without a counter to wrap.
var ErrNilCounter = errors.New("counter to wrap must not be nil")

// CounterWrapper provides observability instrumentation for any inventory.Counter.
// It delegates every operation to the wrapped counter and never alters its results.
type CounterWrapper struct {
	core             inventory.Counter
	engine           string
	metricsCollector inventory.MetricsCollector
	tracingCollector inventory.TracingCollector
	contextualLogger inventory.ContextualLogger
	logger           inventory.Logger
}

// Option defines a functional option for configuring CounterWrapper.
type Option func(*CounterWrapper) error

// NewCounterWrapper creates a new observable wrapper around the core counter.
func NewCounterWrapper(core inventory.Counter, opts ...Option) (*CounterWrapper, error) {
	if core == nil {
		return nil, ErrNilCounter
	}

	wrapper := &CounterWrapper{
		core:   core,
		engine: "unknown",
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// WithEngineName sets the engine label attached to metrics, spans, and log records.
func WithEngineName(engine string) Option {
	return func(w *CounterWrapper) error {
		if engine != "" {
			w.engine = engine
		}

		return nil
	}
}

// WithMetrics sets the metrics collector for the CounterWrapper.
func WithMetrics(collector inventory.MetricsCollector) Option {
	return func(w *CounterWrapper) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the CounterWrapper.
func WithTracing(collector inventory.TracingCollector) Option {
	return func(w *CounterWrapper) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the CounterWrapper.
func WithContextualLogging(logger inventory.ContextualLogger) Option {
	return func(w *CounterWrapper) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the CounterWrapper.
func WithLogging(logger inventory.Logger) Option {
	return func(w *CounterWrapper) error {
		w.logger = logger
		return nil
	}
}

// AttemptPurchase delegates to the wrapped counter and records the attempt's outcome.
func (w *CounterWrapper) AttemptPurchase(ctx context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	start := time.Now()
	ctx, span := StartSpan(ctx, w.tracingCollector, inventory.SpanAttemptPurchase, map[string]string{
		inventory.AttrBuyerID: buyerID.String(),
		inventory.AttrEngine:  w.engine,
	})

	result, err := w.core.AttemptPurchase(ctx, buyerID)
	duration := time.Since(start)

	if err != nil {
		w.recordPurchaseError(ctx, buyerID, err, duration, span)
		return result, err
	}

	w.recordPurchaseOutcome(ctx, result, duration, span)

	return result, nil
}

// Snapshot delegates to the wrapped counter.
func (w *CounterWrapper) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	return w.core.Snapshot(ctx)
}

// Unwrap returns the wrapped counter.
func (w *CounterWrapper) Unwrap() inventory.Counter {
	return w.core
}

func (w *CounterWrapper) recordPurchaseOutcome(
	ctx context.Context,
	result inventory.PurchaseResult,
	duration time.Duration,
	span inventory.SpanContext,
) {
	outcome := result.Outcome.String()
	labels := map[string]string{
		inventory.AttrEngine:  w.engine,
		inventory.AttrOutcome: outcome,
	}

	RecordDuration(ctx, w.metricsCollector, inventory.MetricPurchaseDuration, duration, labels)
	IncrementCounter(ctx, w.metricsCollector, inventory.MetricPurchaseAttempts, labels)

	if result.Outcome == inventory.Bought {
		RecordValue(ctx, w.metricsCollector, inventory.MetricTicketsRemaining, float64(result.Remaining),
			map[string]string{inventory.AttrEngine: w.engine})
	}

	if span != nil {
		span.AddAttribute(inventory.AttrOutcome, outcome)
	}
	FinishSpan(w.tracingCollector, span, outcome, duration, nil)

	LogDebug(ctx, w.logger, w.contextualLogger, LogMsgPurchaseCompleted,
		inventory.AttrBuyerID, int(result.BuyerID),
		inventory.AttrEngine, w.engine,
		inventory.AttrOutcome, outcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

func (w *CounterWrapper) recordPurchaseError(
	ctx context.Context,
	buyerID inventory.BuyerID,
	err error,
	duration time.Duration,
	span inventory.SpanContext,
) {
	status := ClassifyError(err)
	labels := map[string]string{
		inventory.AttrEngine:    w.engine,
		inventory.AttrOutcome:   status,
		inventory.AttrErrorType: status,
	}

	RecordDuration(ctx, w.metricsCollector, inventory.MetricPurchaseDuration, duration, labels)
	IncrementCounter(ctx, w.metricsCollector, inventory.MetricPurchaseErrors, labels)
	FinishSpan(w.tracingCollector, span, status, duration, err)
	LogError(ctx, w.logger, w.contextualLogger, LogMsgPurchaseFailed, err,
		inventory.AttrBuyerID, int(buyerID),
		inventory.AttrEngine, w.engine,
	)
}

var _ inventory.Counter = (*CounterWrapper)(nil)
