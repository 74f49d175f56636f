// Package app wires the pipeline stages together for a single run.
//
// # Run Flow
//
//	1. Check the region filter and preflight the input file and output directory
//	2. Load the wide table
//	3. Reshape it to long format
//	4. Coerce, drop and filter rows
//	5. Write the clean table
//
// Each stage runs inside its own span and reports its row count to the
// pipeline metrics. Every log line of a run carries the same trace_id,
// which is also returned as RunResult.RunID.
//
// # Usage
//
//	application := app.New(cfg, logger, telemetry)
//	result, err := application.Run(ctx, app.RunOptions{
//	    InputPath:    paths.InputFile,
//	    OutputPath:   paths.OutputFile,
//	    RegionFilter: "PT",
//	})
//
// # Error Handling
//
// Errors are returned unchanged so callers can classify them with the
// internal/errors predicates. The package never calls os.Exit.
package app
