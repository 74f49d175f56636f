package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lifeexp/internal/errors"
)

// clearEnv unsets every LIFEEXP_* variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LOGGING_LEVEL", "LOGGING_FORMAT", "LOGGING_OUTPUT", "LOGGING_FILE_PATH",
		"PATHS_DATA_DIR", "PATHS_INPUT_FILE", "PATHS_OUTPUT_FILE",
		"PIPELINE_DEFAULT_REGION",
		"TELEMETRY_SERVICE_NAME", "TELEMETRY_TRACE_EXPORTER", "TELEMETRY_TRACE_FILE", "TELEMETRY_METRICS_FILE",
		"CONFIG_FILE",
	}
	for _, k := range keys {
		key := EnvPrefix + "_" + k
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name:     "default configuration with no env vars",
			setupEnv: func(t *testing.T) {},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("LIFEEXP_LOGGING_LEVEL", "debug")
				t.Setenv("LIFEEXP_LOGGING_FORMAT", "text")
				t.Setenv("LIFEEXP_PATHS_DATA_DIR", "/srv/eurostat")
				t.Setenv("LIFEEXP_PIPELINE_DEFAULT_REGION", "DE")
				t.Setenv("LIFEEXP_TELEMETRY_METRICS_FILE", "/tmp/lifeexp.prom")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "/srv/eurostat", cfg.Paths.DataDir)
				assert.Equal(t, "DE", cfg.Pipeline.DefaultRegion)
				assert.Equal(t, "/tmp/lifeexp.prom", cfg.Telemetry.MetricsFile)
				assert.Equal(t, "eu_life_expectancy_raw.tsv", cfg.Paths.InputFile)
			},
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				t.Setenv("LIFEEXP_LOGGING_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "file output without a path",
			setupEnv: func(t *testing.T) {
				t.Setenv("LIFEEXP_LOGGING_OUTPUT", "file")
				t.Setenv("LIFEEXP_LOGGING_FILE_PATH", "")
			},
			wantErr: true,
		},
		{
			name: "file trace exporter requires trace file",
			setupEnv: func(t *testing.T) {
				t.Setenv("LIFEEXP_TELEMETRY_TRACE_EXPORTER", "file")
			},
			wantErr: true,
		},
		{
			name: "unknown trace exporter",
			setupEnv: func(t *testing.T) {
				t.Setenv("LIFEEXP_TELEMETRY_TRACE_EXPORTER", "otlp")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsConfigError(err), "expected CONFIG error, got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_FileMergedUnderEnv(t *testing.T) {
	clearEnv(t)

	configFile := filepath.Join(t.TempDir(), "lifeexp.yaml")
	content := `
logging:
  level: warn
paths:
  data_dir: /from/file
  output_file: de_life_expectancy.csv
pipeline:
  default_region: DE
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	t.Setenv("LIFEEXP_CONFIG_FILE", configFile)
	t.Setenv("LIFEEXP_LOGGING_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level, "env wins over file")
	assert.Equal(t, "/from/file", cfg.Paths.DataDir)
	assert.Equal(t, "de_life_expectancy.csv", cfg.Paths.OutputFile)
	assert.Equal(t, "eu_life_expectancy_raw.tsv", cfg.Paths.InputFile, "unset file values keep defaults")
	assert.Equal(t, "DE", cfg.Pipeline.DefaultRegion)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)

	configFile := filepath.Join(t.TempDir(), "lifeexp.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging: [unterminated"), 0644))
	t.Setenv("LIFEEXP_CONFIG_FILE", configFile)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_ReportsAllFailures(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Paths.InputFile = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Format")
	assert.Contains(t, err.Error(), "Paths.InputFile is required")
}

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		region  string
		wantErr bool
	}{
		{"PT", false},
		{"DE", false},
		{"pt", false},
		{"EU27_2020", false},
		{"", false},
		{"P\tT", true},
		{"\x00", true},
		{string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		err := ValidateRegion(tt.region)
		if tt.wantErr {
			assert.Error(t, err, "region %q", tt.region)
		} else {
			assert.NoError(t, err, "region %q", tt.region)
		}
	}
}

func TestValidate_DefaultRegion(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.DefaultRegion = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pipeline.DefaultRegion is required")

	cfg.Pipeline.DefaultRegion = "P\nT"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid region code")
}

func TestGetPaths(t *testing.T) {
	t.Run("relative names land in data dir", func(t *testing.T) {
		dir := t.TempDir()
		cfg := Default()
		cfg.Paths.DataDir = dir

		paths, err := GetPaths(cfg)
		require.NoError(t, err)

		assert.Equal(t, dir, paths.DataDir)
		assert.Equal(t, filepath.Join(dir, "eu_life_expectancy_raw.tsv"), paths.InputFile)
		assert.Equal(t, filepath.Join(dir, "pt_life_expectancy.csv"), paths.OutputFile)
	})

	t.Run("absolute file names are kept", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.InputFile = "/abs/in.tsv"

		paths, err := GetPaths(cfg)
		require.NoError(t, err)
		assert.Equal(t, "/abs/in.tsv", paths.InputFile)
		assert.True(t, filepath.IsAbs(paths.DataDir))
	})
}
