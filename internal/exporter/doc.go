// Package exporter writes the clean long-format table to disk.
//
// CSVWriter produces comma-separated text with the header
// unit,sex,age,region,year,value and no index column. XLSXWriter produces a
// one-sheet workbook with numeric year and value cells. Both write to a
// temporary sibling file and rename it over the destination, and both fail
// with a WRITE error when the destination directory is missing.
//
// Example usage:
//
//	w := exporter.NewTableWriter("data/pt_life_expectancy.csv", logger)
//	if err := w.WriteCleanTable("data/pt_life_expectancy.csv", rows); err != nil {
//	    return err
//	}
package exporter
