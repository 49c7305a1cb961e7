package observability

import (
	"context"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records backend call measurements through an OpenTelemetry
// meter exported in Prometheus format. A zero value records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	callCounter   otelmetric.Int64Counter
	callDuration  otelmetric.Float64Histogram
}

// New registers the exporter with reg, or with the default registerer when reg is nil.
func New(serviceName string, reg promclient.Registerer) (*Observability, error) {
	opts := []prometheus.Option{}
	if reg != nil {
		opts = append(opts, prometheus.WithRegisterer(reg))
	}
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	callCounter, err := meter.Int64Counter(
		"portal_api_calls",
		otelmetric.WithDescription("Number of backend API calls"),
	)
	if err != nil {
		return &Observability{}, err
	}

	callDuration, err := meter.Float64Histogram(
		"portal_api_duration",
		otelmetric.WithDescription("Backend API call duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{}, err
	}

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		callCounter:   callCounter,
		callDuration:  callDuration,
	}, nil
}

// RecordCall records one backend call for endpoint with the given outcome.
func (o *Observability) RecordCall(ctx context.Context, endpoint, outcome string, d time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	if o.callCounter != nil {
		o.callCounter.Add(ctx, 1, attrs)
	}
	if o.callDuration != nil {
		o.callDuration.Record(ctx, float64(d.Microseconds())/1000.0, attrs)
	}
}

func (o *Observability) Shutdown() error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
