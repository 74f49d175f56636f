// Package dataprocessing turns a wide life expectancy table into typed,
// region-filtered long rows.
//
// # Stages
//
//  1. LoadFile reads a delimited or .xlsx table into a domain.RawTable
//  2. ToLongFormat unpivots the year columns into domain.LongRow values
//  3. Clean coerces year and value, drops unparseable rows, casts the
//     survivors and keeps only the requested region
//
// # Usage
//
//	table, err := dataprocessing.LoadFile("data/eu_life_expectancy_raw.tsv")
//	if err != nil {
//	    return err
//	}
//	long, err := dataprocessing.ToLongFormat(table)
//	if err != nil {
//	    return err
//	}
//	rows, stats, err := dataprocessing.Clean(long, "PT")
//
// # Errors
//
// Structural problems with the input are LOAD errors. A row that fails
// coercion is dropped silently and only counted in CleaningStatistics.
// A cast failure after the drop step is a TYPE_COERCION error.
package dataprocessing
