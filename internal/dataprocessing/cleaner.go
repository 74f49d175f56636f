package dataprocessing

import (
	"fmt"
	"math"

	apperrors "lifeexp/internal/errors"
	"lifeexp/pkg/contracts/domain"
)

// DropInvalid coerces year and value of every row and drops rows where
// either coercion failed. Order is preserved.
func DropInvalid(rows []domain.LongRow) []CoercedRow {
	out := make([]CoercedRow, 0, len(rows))
	for _, row := range rows {
		year, ok := CoerceYear(row.Year)
		if !ok {
			continue
		}
		value, ok := CoerceValue(row.Value)
		if !ok {
			continue
		}
		out = append(out, CoercedRow{
			Unit:   row.Unit,
			Sex:    row.Sex,
			Age:    row.Age,
			Region: row.Region,
			Year:   year,
			Value:  value,
		})
	}
	return out
}

// FinalizeTypes casts year to int and checks value is a finite float64.
// A failure here is fatal for the run.
func FinalizeTypes(rows []CoercedRow) ([]domain.CleanRow, error) {
	out := make([]domain.CleanRow, 0, len(rows))
	for i, row := range rows {
		if row.Year != math.Trunc(row.Year) || row.Year < math.MinInt32 || row.Year > math.MaxInt32 {
			return nil, apperrors.NewTypeCoercionError(
				fmt.Sprintf("year %v is not a valid integer year", row.Year), nil,
			).WithContext("row", i).WithContext("region", row.Region)
		}
		if math.IsInf(row.Value, 0) || math.IsNaN(row.Value) {
			return nil, apperrors.NewTypeCoercionError(
				"value is outside the float64 range", nil,
			).WithContext("row", i).WithContext("region", row.Region)
		}
		out = append(out, domain.CleanRow{
			Unit:   row.Unit,
			Sex:    row.Sex,
			Age:    row.Age,
			Region: row.Region,
			Year:   int(row.Year),
			Value:  row.Value,
		})
	}
	return out, nil
}

// FilterRegion keeps rows whose Region equals region exactly
func FilterRegion(rows []domain.CleanRow, region string) []domain.CleanRow {
	out := make([]domain.CleanRow, 0)
	for _, row := range rows {
		if row.Region == region {
			out = append(out, row)
		}
	}
	return out
}
