// Command lifeexp reshapes the Eurostat life expectancy table into a clean
// long-format file for one region.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lifeexp/internal/app"
	"lifeexp/internal/config"
	"lifeexp/internal/infrastructure"
	"lifeexp/pkg/contracts"
)

const regionFlag = "region_filter"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

// run loads configuration, executes the command and returns the exit code
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting lifeexp", slog.String("version", contracts.GetFullVersionString()))

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	paths, err := config.GetPaths(cfg)
	if err != nil {
		logger.Error("Failed to resolve paths", slog.String("error", err.Error()))
		return 1
	}
	paths.LogPathResolution(logger)

	application := app.New(cfg, logger, telemetry)

	cmd := newRootCmd(cfg.Pipeline.DefaultRegion, func(cmd *cobra.Command, region string) error {
		_, err := application.Run(cmd.Context(), app.RunOptions{
			InputPath:    paths.InputFile,
			OutputPath:   paths.OutputFile,
			RegionFilter: region,
		})
		return err
	})
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Error("Pipeline failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newRootCmd builds the lifeexp command. runE receives the region filter.
// --region_filter is the only flag besides cobra's --help.
func newRootCmd(defaultRegion string, runE func(cmd *cobra.Command, region string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Reshape and clean the EU life expectancy table for one region",
		Long: `lifeexp reads the wide Eurostat life expectancy table, unpivots the
year columns, drops observations whose year or value cannot be parsed and
writes the rows for a single region as unit,sex,age,region,year,value.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			region, err := regionFilter(cmd.Flags())
			if err != nil {
				return err
			}
			return runE(cmd, region)
		},
	}

	cmd.Flags().String(regionFlag, defaultRegion, "region code to keep (exact, case-sensitive match)")

	return cmd
}

// regionFilter reads the region flag from a parsed flag set
func regionFilter(flags *pflag.FlagSet) (string, error) {
	region, err := flags.GetString(regionFlag)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s: %w", regionFlag, err)
	}
	return region, nil
}
