package main

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/oteladapters"
)

const (
	serviceName            = "ticketsale"
	metricExportInterval   = 5 * time.Second
	providerShutdownPeriod = 5 * time.Second
)

// ObservabilityConfig holds the observability adapters shared by the counter wrapper and the sale.
type ObservabilityConfig struct {
	ContextualLogger inventory.ContextualLogger
	MetricsCollector inventory.MetricsCollector
	TracingCollector inventory.TracingCollector
	shutdown         func(ctx context.Context) error
}

// Shutdown flushes and stops the OpenTelemetry providers, if any were started.
func (o ObservabilityConfig) Shutdown() error {
	if o.shutdown == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), providerShutdownPeriod)
	defer cancel()

	return o.shutdown(ctx)
}

// newObservabilityConfig starts OTLP exporting providers and builds the OpenTelemetry adapters.
// Endpoints follow the standard OTEL_EXPORTER_OTLP_* environment variables.
func newObservabilityConfig(ctx context.Context) (ObservabilityConfig, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
	)
	if err != nil {
		return ObservabilityConfig{}, err
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure())
	if err != nil {
		return ObservabilityConfig{}, err
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithInsecure())
	if err != nil {
		return ObservabilityConfig{}, errors.Join(err, tracerProvider.Shutdown(ctx))
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportInterval))),
		metric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return ObservabilityConfig{
		ContextualLogger: oteladapters.NewSlogBridgeLogger(serviceName),
		MetricsCollector: oteladapters.NewMetricsCollector(otel.Meter(serviceName)),
		TracingCollector: oteladapters.NewTracingCollector(otel.Tracer(serviceName)),
		shutdown: func(ctx context.Context) error {
			return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
		},
	}, nil
}
