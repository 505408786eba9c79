// Package oteladapters provides OpenTelemetry adapters for the inventory observability interfaces.
//
//   - MetricsCollector maps durations to histograms, counters to counters, and values to gauges.
//   - TracingCollector creates one OpenTelemetry span per StartSpan/FinishSpan pair.
//   - SlogBridgeLogger and OTelLogger implement inventory.ContextualLogger with trace correlation.
//
// All adapters are safe for concurrent use by many buyers.
package oteladapters
