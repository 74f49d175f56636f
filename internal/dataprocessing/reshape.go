package dataprocessing

import (
	"fmt"

	apperrors "lifeexp/internal/errors"
	"lifeexp/pkg/contracts/domain"
)

// ToLongFormat unpivots a wide table into one LongRow per (row, year column).
// Rows are emitted year column by year column, left to right, and within a
// column in input row order. The four identifier columns are taken by
// position, so the composite "geo\time" header always lands in Region.
func ToLongFormat(table *domain.RawTable) ([]domain.LongRow, error) {
	if table == nil || len(table.Columns) < domain.IdentifierColumnCount {
		n := 0
		if table != nil {
			n = len(table.Columns)
		}
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("cannot reshape table with %d columns", n),
			apperrors.ErrMalformedHeader,
		)
	}

	years := table.YearColumns()
	out := make([]domain.LongRow, 0, len(years)*len(table.Rows))

	for yi, year := range years {
		col := domain.IdentifierColumnCount + yi
		for r := range table.Rows {
			out = append(out, domain.LongRow{
				Unit:   table.Cell(r, 0),
				Sex:    table.Cell(r, 1),
				Age:    table.Cell(r, 2),
				Region: table.Cell(r, 3),
				Year:   year,
				Value:  table.Cell(r, col),
			})
		}
	}

	return out, nil
}
