package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	storeOperations  metric.Int64Counter
	cacheLookups     metric.Int64Counter
	reportsGenerated metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
	jobRuns          metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "wasafinance"
	}
	meter := provider.Meter(name)

	storeOperations, err := meter.Int64Counter("wasafinance_store_operations_total")
	if err != nil {
		return nil, err
	}
	cacheLookups, err := meter.Int64Counter("wasafinance_cache_lookups_total")
	if err != nil {
		return nil, err
	}
	reportsGenerated, err := meter.Int64Counter("wasafinance_reports_generated_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("wasafinance_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	jobRuns, err := meter.Int64Counter("wasafinance_scheduler_job_runs_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		storeOperations:  storeOperations,
		cacheLookups:     cacheLookups,
		reportsGenerated: reportsGenerated,
		rateLimitDenied:  rateLimitDenied,
		jobRuns:          jobRuns,
	}, nil
}

// RecordStoreOperation counts a customer/package/expense mutation.
func (m *Metrics) RecordStoreOperation(ctx context.Context, entity, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("entity", strings.TrimSpace(entity)),
		attribute.String("operation", strings.TrimSpace(operation)),
	)
	m.storeOperations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordCacheLookup(ctx context.Context, collection string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	attrs := FilterAttributes(
		attribute.String("collection", strings.TrimSpace(collection)),
		attribute.String("result", result),
	)
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordReportGenerated(ctx context.Context, reportType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("report_type", strings.TrimSpace(reportType)))
	m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordJobRun counts a scheduler job by outcome (ok, error, timeout, skipped).
func (m *Metrics) RecordJobRun(ctx context.Context, job, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("job", strings.TrimSpace(job)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.jobRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"entity":      {},
	"operation":   {},
	"collection":  {},
	"result":      {},
	"report_type": {},
	"endpoint":    {},
	"status_code": {},
	"reason":      {},
	"job":         {},
	"outcome":     {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
