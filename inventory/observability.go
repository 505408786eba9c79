package inventory

import (
	"context"
	"time"
)

// Logger interface for SQL query logging, operational messages, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// *slog.Logger satisfies it.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting purchase and sale metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for trace correlation.
// It is optional: callers use the context-aware methods when available and fall back to MetricsCollector.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting tracing information from purchase attempts and sale runs.
// It stays dependency-free so any tracing backend can be plugged in.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Metric names shared by the observable counter wrapper and the sale driver.
const (
	MetricPurchaseDuration = "ticketsale_purchase_duration_seconds"
	MetricPurchaseAttempts = "ticketsale_purchase_attempts_total"
	MetricPurchaseErrors   = "ticketsale_purchase_errors_total"
	MetricRunDuration      = "ticketsale_run_duration_seconds"
	MetricTicketsRemaining = "ticketsale_tickets_remaining"
)

// Span names and attribute keys.
const (
	SpanAttemptPurchase = "inventory.attempt_purchase"
	SpanSaleRun         = "sale.run"

	AttrBuyerID   = "buyer_id"
	AttrEngine    = "engine"
	AttrOutcome   = "outcome"
	AttrStatus    = "status"
	AttrErrorType = "error_type"
	AttrRunID     = "run_id"
	AttrBuyers    = "buyers"
	AttrBought    = "bought"
	AttrMissed    = "missed"
)

// Status values for spans and metric labels, in addition to the Outcome strings.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
	StatusTimeout  = "timeout"
)
