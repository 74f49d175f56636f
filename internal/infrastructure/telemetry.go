package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"lifeexp/internal/config"
)

// InstrumentationName identifies the tracer and meter used by the pipeline
const InstrumentationName = "lifeexp/pipeline"

// Pipeline stage names used as span names and metric labels
const (
	StageLoad    = "load"
	StageReshape = "reshape"
	StageClean   = "clean"
	StageDrop    = "drop"
	StageFilter  = "filter"
	StageWrite   = "write"
)

// Telemetry holds the trace and metric providers for one process.
// Metrics are collected into a private prometheus registry and written
// to a textfile on Shutdown when a metrics file is configured.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Metrics        *PipelineMetrics

	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// PipelineMetrics are the instruments recorded by each run
type PipelineMetrics struct {
	RowsTotal     metric.Int64Counter
	StageDuration metric.Float64Histogram
	RunsTotal     metric.Int64Counter
}

// InitializeTelemetry builds tracing and metrics from configuration.
// Providers are kept local to the returned value and never installed
// globally, so tests can create as many as they need.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// NewNoopTelemetry returns telemetry that records spans and metrics in
// memory but exports nothing
func NewNoopTelemetry() *Telemetry {
	t, err := InitializeTelemetry(config.TelemetryConfig{
		ServiceName:   config.AppName,
		TraceExporter: "none",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		// Only exporter construction can fail and none are configured
		panic(err)
	}
	return t
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case "file":
		f, err := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file %s: %w", cfg.TraceFile, err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceOut = f
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case "none", "":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.TracerProvider = sdktrace.NewTracerProvider(opts...)
	t.Tracer = t.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	meter := t.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))
	t.Metrics, err = createPipelineMetrics(meter)
	return err
}

func createPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsTotal, err := meter.Int64Counter(
		"pipeline_rows",
		metric.WithDescription("Rows leaving each pipeline stage"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runsTotal, err := meter.Int64Counter(
		"pipeline_runs",
		metric.WithDescription("Pipeline runs by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsTotal:     rowsTotal,
		StageDuration: stageDuration,
		RunsTotal:     runsTotal,
	}, nil
}

// StartStage opens a span for a pipeline stage
func (t *Telemetry) StartStage(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("stage", stage))
	if runID := GetTraceID(ctx); runID != "" {
		attrs = append(attrs, attribute.String("run_id", runID))
	}
	return t.Tracer.Start(ctx, stage, trace.WithAttributes(attrs...))
}

// EndStage records the stage outcome on the span and in the metrics
func (t *Telemetry) EndStage(ctx context.Context, span trace.Span, stage string, started time.Time, rows int, err error) {
	stageAttr := metric.WithAttributes(attribute.String("stage", stage))

	t.Metrics.StageDuration.Record(ctx, time.Since(started).Seconds(), stageAttr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		t.Metrics.RowsTotal.Add(ctx, int64(rows), stageAttr)
		span.SetAttributes(attribute.Int("rows", rows))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRows counts rows attributed to a stage outside of EndStage,
// such as rows dropped or filtered out while cleaning
func (t *Telemetry) RecordRows(ctx context.Context, stage string, rows int) {
	t.Metrics.RowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordRun counts a finished run by outcome
func (t *Telemetry) RecordRun(ctx context.Context, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	t.Metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// Shutdown flushes spans, writes the metrics textfile and releases
// exporters. It is safe to call on a nil receiver.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
	}

	if t.metricsFile != "" {
		if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		} else {
			t.logger.Debug("Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
	}

	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
		t.traceOut = nil
	}

	return errors.Join(errs...)
}
