// Package observable instruments inventory counters with metrics, tracing, and logging
// while keeping the counters themselves free of those concerns.
//
// The wrapper is applied externally at wiring time:
//
//	counter, err := memengine.NewMutexCounter(20)
//	if err != nil { ... }
//
//	observableCounter, err := observable.NewCounterWrapper(
//		counter,
//		observable.WithEngineName("mutex"),
//		observable.WithMetrics(metricsCollector),
//		observable.WithTracing(tracingCollector),
//		observable.WithContextualLogging(contextualLogger),
//	)
//
// Every purchase attempt then produces one span (inventory.attempt_purchase), one duration and
// one attempts counter record labeled with its outcome, and a debug log record. Failed attempts
// additionally increment the errors counter and are logged at error level.
//
// The helper functions of this package are shared with the sale driver so that both use the
// same fallback rules: context-aware collectors and loggers are preferred when available.
package observable
