package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lifeexp/internal/config"
	"lifeexp/internal/dataprocessing"
	"lifeexp/internal/exporter"
	"lifeexp/internal/infrastructure"
	"lifeexp/internal/validation"
	"lifeexp/pkg/contracts/domain"
)

// Application represents the pipeline container
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry

	// NewProcessor builds the cleaning stage for a region
	NewProcessor func(region string) dataprocessing.Processor
}

// RunOptions selects the files and region for one run
type RunOptions struct {
	InputPath    string
	OutputPath   string
	RegionFilter string
}

// RunResult summarises a completed run
type RunResult struct {
	RunID       string
	InputPath   string
	OutputPath  string
	Region      string
	RawRows     int
	YearColumns int
	LongRows    int
	Cleaning    dataprocessing.CleaningStatistics
	Duration    time.Duration
}

// New creates an application. A nil logger uses slog.Default and nil
// telemetry records nothing.
func New(cfg *config.Config, logger *slog.Logger, tel *infrastructure.Telemetry) *Application {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tel == nil {
		tel = infrastructure.NewNoopTelemetry()
	}
	return &Application{
		Config:       cfg,
		Logger:       logger,
		Telemetry:    tel,
		NewProcessor: func(region string) dataprocessing.Processor {
			return dataprocessing.NewRegionCleaner(region)
		},
	}
}

// Run executes load, reshape, clean and write once. Any error aborts the
// run and no output file is left behind.
func (a *Application) Run(ctx context.Context, opts RunOptions) (result *RunResult, err error) {
	started := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)

	result = &RunResult{
		RunID:      infrastructure.GetTraceID(ctx),
		InputPath:  opts.InputPath,
		OutputPath: opts.OutputPath,
		Region:     opts.RegionFilter,
	}

	ctx, span := a.Telemetry.Tracer.Start(ctx, "pipeline.run")
	span.SetAttributes(
		attribute.String("run_id", result.RunID),
		attribute.String("region", opts.RegionFilter),
		attribute.String("input", opts.InputPath),
		attribute.String("output", opts.OutputPath),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		a.Telemetry.RecordRun(ctx, err)
	}()

	a.Logger.InfoContext(ctx, "Pipeline run starting",
		slog.String("input", opts.InputPath),
		slog.String("output", opts.OutputPath),
		slog.String("region", opts.RegionFilter))

	if err = config.ValidateRegion(opts.RegionFilter); err != nil {
		return nil, err
	}
	// Collaborators log without a context, so bind the run ID up front
	runLogger := infrastructure.LoggerWithContext(ctx, a.Logger)

	validator := validation.NewFileValidator(infrastructure.WithComponent(runLogger, "validation"))
	if err = validator.ValidateInputFile(opts.InputPath); err != nil {
		return nil, err
	}
	if err = validator.ValidateOutputDirectory(opts.OutputPath); err != nil {
		return nil, err
	}

	var table *domain.RawTable
	err = a.stage(ctx, infrastructure.StageLoad, func(ctx context.Context) (int, error) {
		var err error
		table, err = dataprocessing.LoadFile(opts.InputPath)
		if err != nil {
			return 0, err
		}
		result.RawRows = len(table.Rows)
		result.YearColumns = len(table.YearColumns())
		return result.RawRows, nil
	})
	if err != nil {
		return nil, err
	}

	var long []domain.LongRow
	err = a.stage(ctx, infrastructure.StageReshape, func(ctx context.Context) (int, error) {
		var err error
		long, err = dataprocessing.ToLongFormat(table)
		result.LongRows = len(long)
		return len(long), err
	})
	if err != nil {
		return nil, err
	}

	var rows []domain.CleanRow
	err = a.stage(ctx, infrastructure.StageClean, func(ctx context.Context) (int, error) {
		var err error
		rows, result.Cleaning, err = a.NewProcessor(opts.RegionFilter).ProcessWithStats(long)
		if err != nil {
			return 0, err
		}
		a.Logger.DebugContext(ctx, "Rows cleaned",
			slog.Int("input_rows", result.Cleaning.InputRows),
			slog.Int("dropped_invalid", result.Cleaning.DroppedInvalid),
			slog.Int("filtered_out", result.Cleaning.FilteredOut),
			slog.Int("output_rows", result.Cleaning.OutputRows))
		a.Telemetry.RecordRows(ctx, infrastructure.StageDrop, result.Cleaning.DroppedInvalid)
		a.Telemetry.RecordRows(ctx, infrastructure.StageFilter, result.Cleaning.FilteredOut)
		return len(rows), nil
	})
	if err != nil {
		return nil, err
	}

	err = a.stage(ctx, infrastructure.StageWrite, func(ctx context.Context) (int, error) {
		writer := exporter.NewTableWriter(opts.OutputPath, infrastructure.WithComponent(runLogger, "exporter"))
		if err := writer.WriteCleanTable(opts.OutputPath, rows); err != nil {
			return 0, err
		}
		return len(rows), nil
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(started)

	a.Logger.InfoContext(ctx, "Pipeline run complete",
		slog.Int("raw_rows", result.RawRows),
		slog.Int("year_columns", result.YearColumns),
		slog.Int("long_rows", result.LongRows),
		slog.Int("dropped_invalid", result.Cleaning.DroppedInvalid),
		slog.Int("filtered_out", result.Cleaning.FilteredOut),
		slog.Int("rows_written", result.Cleaning.OutputRows),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// stage wraps fn in a span and records its row count and duration
func (a *Application) stage(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	started := time.Now()
	ctx, span := a.Telemetry.StartStage(ctx, name)

	rows, err := fn(ctx)
	a.Telemetry.EndStage(ctx, span, name, started, rows, err)

	if err != nil {
		infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Pipeline stage failed",
			slog.String("stage", name))
		return err
	}
	a.Logger.DebugContext(ctx, "Pipeline stage complete",
		slog.String("stage", name),
		slog.Int("rows", rows),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}
