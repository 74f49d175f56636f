package exporter

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"lifeexp/pkg/contracts/domain"
)

// SheetName is the worksheet holding the long-format table
const SheetName = "life_expectancy"

// XLSXWriter writes the clean table as a single-sheet workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteCleanTable writes the header on row 1 and one row per CleanRow.
// Year and value are stored as numeric cells.
func (w *XLSXWriter) WriteCleanTable(path string, rows []domain.CleanRow) error {
	w.logger.Info("Writing workbook",
		slog.String("file_path", path),
		slog.Int("record_count", len(rows)))

	return replaceFile(path, func(tmp *os.File) error {
		f := excelize.NewFile()
		defer f.Close()

		if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}

		sw, err := f.NewStreamWriter(SheetName)
		if err != nil {
			return fmt.Errorf("failed to create stream writer: %w", err)
		}
		if err := sw.SetRow("A1", headerRow()); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := sw.SetRow(cell, workbookRow(row)); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}
		if err := sw.Flush(); err != nil {
			return fmt.Errorf("failed to flush sheet: %w", err)
		}

		_, err = f.WriteTo(tmp)
		return err
	})
}
