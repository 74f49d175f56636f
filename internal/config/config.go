package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "LIFEEXP"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/lifeexp.log" validate:"required_unless=Output console"`
}

// PathsConfig contains the data directory and the file names inside it
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE" default:"eu_life_expectancy_raw.tsv" validate:"required"`
	OutputFile string `yaml:"output_file" envconfig:"OUTPUT_FILE" default:"pt_life_expectancy.csv" validate:"required"`
}

// PipelineConfig contains the cleaning defaults
type PipelineConfig struct {
	DefaultRegion string `yaml:"default_region" envconfig:"DEFAULT_REGION" default:"PT" validate:"required,region"`
}

// TelemetryConfig controls trace and metric export. Both are off by default.
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"lifeexp" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout file"`
	TraceFile     string `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=TraceExporter file"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Defaults and environment first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A value set in the
// environment wins; otherwise a non-empty file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merge := func(key string, dst *string, fileVal string) {
		if _, set := os.LookupEnv(EnvPrefix + "_" + key); set || fileVal == "" {
			return
		}
		*dst = fileVal
	}

	merge("LOGGING_LEVEL", &envConfig.Logging.Level, fileConfig.Logging.Level)
	merge("LOGGING_FORMAT", &envConfig.Logging.Format, fileConfig.Logging.Format)
	merge("LOGGING_OUTPUT", &envConfig.Logging.Output, fileConfig.Logging.Output)
	merge("LOGGING_FILE_PATH", &envConfig.Logging.FilePath, fileConfig.Logging.FilePath)

	merge("PATHS_DATA_DIR", &envConfig.Paths.DataDir, fileConfig.Paths.DataDir)
	merge("PATHS_INPUT_FILE", &envConfig.Paths.InputFile, fileConfig.Paths.InputFile)
	merge("PATHS_OUTPUT_FILE", &envConfig.Paths.OutputFile, fileConfig.Paths.OutputFile)

	merge("PIPELINE_DEFAULT_REGION", &envConfig.Pipeline.DefaultRegion, fileConfig.Pipeline.DefaultRegion)

	merge("TELEMETRY_SERVICE_NAME", &envConfig.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName)
	merge("TELEMETRY_TRACE_EXPORTER", &envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)
	merge("TELEMETRY_TRACE_FILE", &envConfig.Telemetry.TraceFile, fileConfig.Telemetry.TraceFile)
	merge("TELEMETRY_METRICS_FILE", &envConfig.Telemetry.MetricsFile, fileConfig.Telemetry.MetricsFile)

	return envConfig
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"lifeexp.yaml",
		"configs/lifeexp.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/lifeexp.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			InputFile:  "eu_life_expectancy_raw.tsv",
			OutputFile: "pt_life_expectancy.csv",
		},
		Pipeline: PipelineConfig{
			DefaultRegion: DefaultRegionFilter,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
	}
}
