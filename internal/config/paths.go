package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved input and output locations for one run.
// This is the single source of truth for file paths in the application.
type Paths struct {
	DataDir    string
	InputFile  string
	OutputFile string
	LogFile    string
}

// GetPaths resolves the configured paths. A relative DataDir is taken from
// the working directory; relative file names are placed inside DataDir.
func GetPaths(cfg *Config) (*Paths, error) {
	dataDir := cfg.Paths.DataDir
	if !filepath.IsAbs(dataDir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dataDir = filepath.Join(wd, dataDir)
	}

	return &Paths{
		DataDir:    dataDir,
		InputFile:  resolveIn(dataDir, cfg.Paths.InputFile),
		OutputFile: resolveIn(dataDir, cfg.Paths.OutputFile),
		LogFile:    cfg.Logging.FilePath,
	}, nil
}

func resolveIn(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.String("data_dir", p.DataDir),
		slog.String("input_file", p.InputFile),
		slog.Bool("input_exists", FileExists(p.InputFile)),
		slog.String("output_file", p.OutputFile))
}
