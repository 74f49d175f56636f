package exporter

import (
	"lifeexp/pkg/contracts/domain"
)

// tableRecords renders clean rows as text records in domain.LongColumns order
func tableRecords(rows []domain.CleanRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = row.Record()
	}
	return records
}

// workbookRow keeps year and value typed so spreadsheet cells stay numeric
func workbookRow(row domain.CleanRow) []interface{} {
	return []interface{}{row.Unit, row.Sex, row.Age, row.Region, row.Year, row.Value}
}

// headerRow converts the long-format header for excelize
func headerRow() []interface{} {
	out := make([]interface{}, len(domain.LongColumns))
	for i, c := range domain.LongColumns {
		out[i] = c
	}
	return out
}
