package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "lifeexp/internal/errors"
)

// SupportedInputExtensions lists the input formats the loader understands.
// Anything not .xlsx is read as delimited text, so the list is advisory.
var SupportedInputExtensions = []string{".tsv", ".csv", ".txt", ".xlsx"}

// FileValidator runs preflight checks on the pipeline's input and output
// locations so a run fails before any data is processed
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path exists, is a regular file and is
// readable. Failures are LOAD errors.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apperrors.NewLoadError(fmt.Sprintf("input file %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewLoadError(fmt.Sprintf("failed to stat input file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewLoadError(fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewLoadError(fmt.Sprintf("input file %s is not readable", path), err)
	}
	file.Close()

	if !isSupportedInput(path) {
		v.logger.Warn("Unrecognised input extension, reading as delimited text",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory checks that the directory holding path exists
// and accepts new files. It never creates directories. Failures are
// WRITE errors.
func (v *FileValidator) ValidateOutputDirectory(path string) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Output directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewWriteError(fmt.Sprintf("output directory %s does not exist", dir), apperrors.ErrMissingParent)
	}
	if err != nil {
		v.logger.Error("Failed to stat output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(fmt.Sprintf("failed to stat output directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Output parent is not a directory",
			slog.String("path", dir))
		return apperrors.NewWriteError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewWriteError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

func isSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedInputExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
