package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "lifeexp/internal/errors"
	"lifeexp/pkg/contracts/domain"
)

// TableWriter persists a clean long-format table
type TableWriter interface {
	WriteCleanTable(path string, rows []domain.CleanRow) error
}

// NewTableWriter picks the writer for path by extension: .xlsx gets a
// workbook, everything else CSV
func NewTableWriter(path string, logger *slog.Logger) TableWriter {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXWriter(logger)
	}
	return NewCSVWriter(logger)
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCleanTable writes rows under the unit,sex,age,region,year,value
// header. An existing file is replaced.
func (w *CSVWriter) WriteCleanTable(path string, rows []domain.CleanRow) error {
	return w.WriteCSV(path, WriteOptions{
		Headers: domain.LongColumns,
		Records: tableRecords(rows),
	})
}

// WriteCSV writes data to a sibling temp file and renames it over
// filePath, so readers never see a partial file. The parent directory
// must already exist.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	return replaceFile(filePath, func(file *os.File) error {
		writer := csv.NewWriter(file)

		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}

		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}

		writer.Flush()
		return writer.Error()
	})
}

// checkParent verifies the destination directory exists
func checkParent(filePath string) error {
	dir := filepath.Dir(filePath)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return apperrors.NewWriteError("output directory does not exist", apperrors.ErrMissingParent).
			WithContext("dir", dir)
	}
	if err != nil {
		return apperrors.NewWriteError("cannot access output directory", err).WithContext("dir", dir)
	}
	if !info.IsDir() {
		return apperrors.NewWriteError("output parent is not a directory", nil).WithContext("dir", dir)
	}
	return nil
}

// replaceFile runs fill against a temp file next to filePath and renames
// it into place on success. The temp file is removed on any failure.
func replaceFile(filePath string, fill func(*os.File) error) (err error) {
	if err := checkParent(filePath); err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*"+filepath.Ext(filePath))
	if err != nil {
		return apperrors.NewWriteError("cannot create file in output directory", err).WithContext("dir", dir)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = fill(tmp); err != nil {
		return apperrors.NewWriteError("failed to write output", err).WithContext("path", filePath)
	}
	if err = tmp.Chmod(0644); err != nil {
		return apperrors.NewWriteError("failed to set output permissions", err).WithContext("path", filePath)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewWriteError("failed to close output", err).WithContext("path", filePath)
	}
	if err = os.Rename(tmpName, filePath); err != nil {
		return apperrors.NewWriteError("failed to move output into place", err).WithContext("path", filePath)
	}
	return nil
}
