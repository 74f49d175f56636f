package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// InputFileName is the default raw table name inside the data directory
const InputFileName = "eu_life_expectancy_raw.tsv"

// ScenarioTable has one Portuguese row with a flagged 2019 value and a
// missing 2020 value
const ScenarioTable = "unit,sex,age,geo\\time\t2019\t2020\nYR,F,Y1,PT\t78.5 b\t:\n"

// MixedTable covers several regions, footnote flags and missing cells
const MixedTable = "unit,sex,age,geo\\time\t2021 \t2020 \t2019 \n" +
	"YR,F,Y1,PT\t81.7 \t81.0 e\t78.5 b\n" +
	"YR,M,Y1,PT\t: \t75.3\t75.1\n" +
	"YR,F,Y1,DE\t83.1\t83.4\t83.7\n"

// WideTable builds a raw table in the source layout: comma-joined
// identifiers, then tab-separated year cells
func WideTable(years []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString("unit,sex,age,geo\\time")
	for _, y := range years {
		b.WriteString("\t" + y)
	}
	b.WriteString("\n")
	for _, row := range rows {
		if len(row) < 4 {
			b.WriteString(strings.Join(row, ",") + "\n")
			continue
		}
		b.WriteString(strings.Join(row[:4], ","))
		for _, cell := range row[4:] {
			b.WriteString("\t" + cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteWideTable writes content to dir/InputFileName and returns the path
func WriteWideTable(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, InputFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
