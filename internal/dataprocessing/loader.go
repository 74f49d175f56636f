package dataprocessing

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "lifeexp/internal/errors"
	"lifeexp/pkg/contracts/domain"
)

// fieldDelimiter splits a line on either a tab or a comma. Both are accepted
// in the same file because the source mixes them: the identifier block is
// comma-joined and year columns are tab-separated.
var fieldDelimiter = regexp.MustCompile(`[\t,]`)

const utf8BOM = "\uFEFF"

// LoadFile reads a wide table from path. Files ending in .xlsx are read
// from their first sheet; anything else is treated as delimited text.
// No cell is trimmed or coerced.
func LoadFile(path string) (*domain.RawTable, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(path)
	}
	return loadDelimited(path)
}

func loadDelimited(path string) (*domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open input", err).WithContext("path", path)
	}
	defer f.Close()

	var records [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if len(records) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if line == "" {
			continue
		}
		records = append(records, fieldDelimiter.Split(line, -1))
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewLoadError("failed to read input", err).WithContext("path", path)
	}

	return buildTable(path, records)
}

func loadWorkbook(path string) (*domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewLoadError("workbook has no sheets", apperrors.ErrEmptyInput).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}

	// GetRows already omits trailing empty cells; fully empty rows are blank lines
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		records = append(records, row)
	}

	return buildTable(path, records)
}

// buildTable checks the table shape and pads short rows
func buildTable(path string, records [][]string) (*domain.RawTable, error) {
	if len(records) == 0 {
		return nil, apperrors.NewLoadError("input is empty", apperrors.ErrEmptyInput).WithContext("path", path)
	}

	header := records[0]
	if len(header) < domain.IdentifierColumnCount {
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("header has %d columns, need at least %d", len(header), domain.IdentifierColumnCount),
			apperrors.ErrMalformedHeader,
		).WithContext("path", path)
	}

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		switch {
		case len(rec) > len(header):
			return nil, apperrors.NewLoadError(
				fmt.Sprintf("data row %d has %d fields, header has %d", i+1, len(rec), len(header)), nil,
			).WithContext("path", path)
		case len(rec) < len(header):
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}

	return &domain.RawTable{Columns: header, Rows: rows}, nil
}
