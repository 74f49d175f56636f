package domain

import (
	"strconv"
	"strings"
)

// Identifier column names of the long-format schema
const (
	ColumnUnit   = "unit"
	ColumnSex    = "sex"
	ColumnAge    = "age"
	ColumnRegion = "region"
	ColumnYear   = "year"
	ColumnValue  = "value"
)

// IdentifierColumnCount is the number of leading identifier columns in a wide table
const IdentifierColumnCount = 4

// LongColumns is the fixed column order of the long-format table
var LongColumns = []string{ColumnUnit, ColumnSex, ColumnAge, ColumnRegion, ColumnYear, ColumnValue}

// RawTable is a wide table as read from disk: identifier columns followed by
// one column per year label. Cells are kept exactly as read.
type RawTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// YearColumns returns the year labels following the identifier columns
func (t *RawTable) YearColumns() []string {
	if len(t.Columns) <= IdentifierColumnCount {
		return nil
	}
	return t.Columns[IdentifierColumnCount:]
}

// Cell returns the raw cell at row r, column c, or "" when the row is short
func (t *RawTable) Cell(r, c int) string {
	row := t.Rows[r]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// LongRow is one (identifiers, year, value) observation before coercion
type LongRow struct {
	Unit   string `json:"unit"`
	Sex    string `json:"sex"`
	Age    string `json:"age"`
	Region string `json:"region"`
	Year   string `json:"year"`
	Value  string `json:"value"`
}

// CleanRow is a LongRow whose year and value were coerced successfully
type CleanRow struct {
	Unit   string  `json:"unit"`
	Sex    string  `json:"sex"`
	Age    string  `json:"age"`
	Region string  `json:"region"`
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
}

// Record renders the row in LongColumns order. Years print as integers and
// values always carry a fractional part ("80.0", "78.5").
func (r CleanRow) Record() []string {
	return []string{r.Unit, r.Sex, r.Age, r.Region, strconv.Itoa(r.Year), FormatValue(r.Value)}
}

// Long converts the row back to its untyped form
func (r CleanRow) Long() LongRow {
	rec := r.Record()
	return LongRow{Unit: rec[0], Sex: rec[1], Age: rec[2], Region: rec[3], Year: rec[4], Value: rec[5]}
}

// FormatValue formats v with the fewest digits that round-trip, keeping at
// least one decimal place.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
