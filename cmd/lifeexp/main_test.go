package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/infrastructure"
	"lifeexp/internal/shared/testutil"
)

func TestNewRootCmd_RegionFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", nil, "PT"},
		{"underscore flag", []string{"--region_filter", "DE"}, "DE"},
		{"equals form", []string{"--region_filter=FR"}, "FR"},
		{"empty value", []string{"--region_filter="}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			cmd := newRootCmd("PT", func(_ *cobra.Command, region string) error {
				got = region
				return nil
			})
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRootCmd_RejectsPositionalArgs(t *testing.T) {
	called := false
	cmd := newRootCmd("PT", func(*cobra.Command, string) error {
		called = true
		return nil
	})
	cmd.SetArgs([]string{"data/input.tsv"})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
	assert.False(t, called)
}

func TestNewRootCmd_OnlyRegionFlag(t *testing.T) {
	for _, args := range [][]string{
		{"--version"},
		{"--region-filter", "ES"},
		{"--input", "x.tsv"},
	} {
		t.Run(args[0], func(t *testing.T) {
			called := false
			cmd := newRootCmd("PT", func(*cobra.Command, string) error {
				called = true
				return nil
			})
			cmd.SetArgs(args)
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown flag")
			assert.False(t, called)
		})
	}

	cmd := newRootCmd("PT", func(*cobra.Command, string) error { return nil })
	var names []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
	assert.Equal(t, []string{regionFlag}, names)
}

func TestRegionFilter(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String(regionFlag, "PT", "")
	require.NoError(t, flags.Parse([]string{"--region_filter", "DE"}))

	region, err := regionFilter(flags)
	require.NoError(t, err)
	assert.Equal(t, "DE", region)

	_, err = regionFilter(pflag.NewFlagSet("empty", pflag.ContinueOnError))
	assert.Error(t, err)
}

// setupDataDir points the process configuration at a temp data directory
func setupDataDir(t *testing.T, input string) string {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	dir := t.TempDir()
	if input != "" {
		testutil.WriteWideTable(t, dir, input)
	}
	t.Setenv("LIFEEXP_CONFIG_FILE", "")
	t.Setenv("LIFEEXP_PATHS_DATA_DIR", dir)
	t.Setenv("LIFEEXP_LOGGING_OUTPUT", "file")
	t.Setenv("LIFEEXP_LOGGING_FILE_PATH", filepath.Join(t.TempDir(), "lifeexp.log"))
	return dir
}

func TestRun_ExitCodes(t *testing.T) {
	input := testutil.ScenarioTable

	t.Run("success writes output", func(t *testing.T) {
		dir := setupDataDir(t, input)

		var stderr bytes.Buffer
		code := run(context.Background(), nil, &stderr)
		assert.Equal(t, 0, code, stderr.String())

		content, err := os.ReadFile(filepath.Join(dir, "pt_life_expectancy.csv"))
		require.NoError(t, err)
		assert.Equal(t, "unit,sex,age,region,year,value\nYR,F,Y1,PT,2019,78.5\n", string(content))
	})

	t.Run("other region writes header only", func(t *testing.T) {
		dir := setupDataDir(t, input)

		var stderr bytes.Buffer
		code := run(context.Background(), []string{"--region_filter", "DE"}, &stderr)
		assert.Equal(t, 0, code, stderr.String())

		content, err := os.ReadFile(filepath.Join(dir, "pt_life_expectancy.csv"))
		require.NoError(t, err)
		assert.Equal(t, "unit,sex,age,region,year,value\n", string(content))
	})

	t.Run("missing input exits 1", func(t *testing.T) {
		setupDataDir(t, "")

		var stderr bytes.Buffer
		assert.Equal(t, 1, run(context.Background(), nil, &stderr))
		assert.Contains(t, stderr.String(), "does not exist")
	})

	t.Run("empty region writes header only", func(t *testing.T) {
		dir := setupDataDir(t, input)

		var stderr bytes.Buffer
		code := run(context.Background(), []string{"--region_filter="}, &stderr)
		assert.Equal(t, 0, code, stderr.String())

		content, err := os.ReadFile(filepath.Join(dir, "pt_life_expectancy.csv"))
		require.NoError(t, err)
		assert.Equal(t, "unit,sex,age,region,year,value\n", string(content))
	})

	t.Run("control character region exits 1", func(t *testing.T) {
		setupDataDir(t, input)

		var stderr bytes.Buffer
		assert.Equal(t, 1, run(context.Background(), []string{"--region_filter=P\tT"}, &stderr))
		assert.Contains(t, stderr.String(), "invalid region filter")
	})

	t.Run("version flag exits 1", func(t *testing.T) {
		setupDataDir(t, input)

		var stderr bytes.Buffer
		assert.Equal(t, 1, run(context.Background(), []string{"--version"}, &stderr))
		assert.Contains(t, stderr.String(), "unknown flag")
	})

	t.Run("invalid config exits 1", func(t *testing.T) {
		setupDataDir(t, input)
		t.Setenv("LIFEEXP_LOGGING_LEVEL", "loud")

		var stderr bytes.Buffer
		assert.Equal(t, 1, run(context.Background(), nil, &stderr))
		assert.Contains(t, stderr.String(), "failed to load config")
	})
}
