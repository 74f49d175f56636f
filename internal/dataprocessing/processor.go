package dataprocessing

import (
	"lifeexp/pkg/contracts/domain"
)

// RegionCleaner coerces, drops and filters long rows for a single region
type RegionCleaner struct {
	Region string
}

var _ Processor = (*RegionCleaner)(nil)

// NewRegionCleaner creates a cleaner for region
func NewRegionCleaner(region string) *RegionCleaner {
	return &RegionCleaner{Region: region}
}

// Process implements Processor
func (c *RegionCleaner) Process(rows []domain.LongRow) ([]domain.CleanRow, error) {
	out, _, err := Clean(rows, c.Region)
	return out, err
}

// ProcessWithStats cleans rows and returns statistics
func (c *RegionCleaner) ProcessWithStats(rows []domain.LongRow) ([]domain.CleanRow, CleaningStatistics, error) {
	return Clean(rows, c.Region)
}

// Clean runs DropInvalid, FinalizeTypes and FilterRegion in that order.
// Types are finalized before filtering, so a cast failure in any region
// fails the run.
func Clean(rows []domain.LongRow, region string) ([]domain.CleanRow, CleaningStatistics, error) {
	stats := CleaningStatistics{InputRows: len(rows)}

	coerced := DropInvalid(rows)
	stats.DroppedInvalid = len(rows) - len(coerced)

	typed, err := FinalizeTypes(coerced)
	if err != nil {
		return nil, stats, err
	}

	filtered := FilterRegion(typed, region)
	stats.FilteredOut = len(typed) - len(filtered)
	stats.OutputRows = len(filtered)

	return filtered, stats, nil
}
