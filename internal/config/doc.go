// Package config provides centralized configuration management for lifeexp.
// It loads configuration from the environment and an optional YAML file,
// validates it, and resolves the input and output paths of a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (lifeexp.yaml, configs/lifeexp.yaml or $LIFEEXP_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LIFEEXP_<SECTION>_<FIELD>:
//
//	LIFEEXP_LOGGING_LEVEL=debug
//	LIFEEXP_PATHS_DATA_DIR=/srv/eurostat
//	LIFEEXP_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/lifeexp.prom
//
// These settings are operational only. The region filter used by a run comes
// from the --region_filter flag; Pipeline.DefaultRegion only supplies its default.
//
// # Validation
//
// Every section is validated with go-playground/validator at load time and
// all failures are reported together as a single CONFIG error.
package config
