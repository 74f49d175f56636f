package dataprocessing

import (
	"lifeexp/pkg/contracts/domain"
)

// Processor defines the interface for the cleaning stage
type Processor interface {
	// Process takes reshaped rows and returns typed rows for one region
	Process(rows []domain.LongRow) ([]domain.CleanRow, error)
	// ProcessWithStats is Process plus per-step row counts
	ProcessWithStats(rows []domain.LongRow) ([]domain.CleanRow, CleaningStatistics, error)
}

// CoercedRow is a LongRow whose year and value both parsed as numbers but
// have not yet been cast to their final types
type CoercedRow struct {
	Unit   string
	Sex    string
	Age    string
	Region string
	Year   float64
	Value  float64
}

// CleaningStatistics counts rows through the cleaning stage
type CleaningStatistics struct {
	InputRows      int
	DroppedInvalid int
	FilteredOut    int
	OutputRows     int
}
