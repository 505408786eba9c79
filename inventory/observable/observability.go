package observable

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

// Log messages and attribute keys the CounterWrapper writes for each purchase attempt.
const (
	LogMsgPurchaseCompleted = "purchase attempt completed"
	LogMsgPurchaseFailed    = "purchase attempt failed"
	LogAttrDurationMS       = "duration_ms"
	LogAttrError            = "error"
)

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// ClassifyError maps an error to the status used in metric labels and span status.
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return inventory.StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return inventory.StatusTimeout
	default:
		return inventory.StatusError
	}
}

// IncrementCounter increments a counter metric, preferring the context-aware method if available.
func IncrementCounter(ctx context.Context, collector inventory.MetricsCollector, metric string, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(inventory.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// RecordDuration records a duration metric, preferring the context-aware method if available.
func RecordDuration(ctx context.Context, collector inventory.MetricsCollector, metric string, duration time.Duration, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(inventory.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

// RecordValue records a value metric, preferring the context-aware method if available.
func RecordValue(ctx context.Context, collector inventory.MetricsCollector, metric string, value float64, labels map[string]string) {
	if collector == nil {
		return
	}

	if contextualCollector, ok := collector.(inventory.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

// StartSpan starts a tracing span.
// Returns the original context and nil if tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracingCollector inventory.TracingCollector,
	name string,
	attrs map[string]string,
) (context.Context, inventory.SpanContext) {
	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, name, attrs)
}

// FinishSpan completes a tracing span with the operation's status.
func FinishSpan(
	tracingCollector inventory.TracingCollector,
	span inventory.SpanContext,
	status string,
	duration time.Duration,
	err error,
) {
	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		inventory.AttrStatus: status,
		LogAttrDurationMS:    strconv.FormatFloat(ToMilliseconds(duration), 'f', 3, 64),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogDebug logs at debug level, preferring the contextual logger.
func LogDebug(ctx context.Context, logger inventory.Logger, contextualLogger inventory.ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Debug(msg, args...)
	}
}

// LogInfo logs at info level, preferring the contextual logger.
func LogInfo(ctx context.Context, logger inventory.Logger, contextualLogger inventory.ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogError logs at error level, preferring the contextual logger.
func LogError(ctx context.Context, logger inventory.Logger, contextualLogger inventory.ContextualLogger, msg string, err error, args ...any) {
	allArgs := []any{LogAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, allArgs...)
	} else if logger != nil {
		logger.Error(msg, allArgs...)
	}
}
