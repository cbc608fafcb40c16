// Package stats computes descriptive statistics over a partitioned dataset:
// size and percentage summaries, uniqueness counts over field combinations,
// pairwise duplicate detection and the top-frequency name ranking. The
// engine only reads the included collection; it never mutates partitioned
// data.
package stats

import (
	"context"
	"log/slog"
	"math"

	"cleanse/pkg/contracts/domain"
)

// Engine derives summary statistics from a partition result.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a statistics engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger.With(slog.String("component", "stats")),
	}
}

// Summarize builds the full summary snapshot for one partition. originalCount
// is the caller-supplied size of the raw input; percentages are defined as
// zero when it is zero.
func (e *Engine) Summarize(ctx context.Context, included []domain.Record, excluded []domain.ExcludedRecord, originalCount int) domain.SummaryStats {
	summary := domain.SummaryStats{
		DatasetSizes: datasetSizes(len(included), len(excluded), originalCount),
		Uniqueness:   uniqueness(included),
		Duplicates:   e.FindDuplicates(ctx, included),
	}

	e.logger.InfoContext(ctx, "summary computed",
		slog.Int("original_count", originalCount),
		slog.Int("included_count", len(included)),
		slog.Int("excluded_count", len(excluded)),
		slog.Int("duplicate_groups", summary.Duplicates.TotalDuplicateGroups))

	return summary
}

func datasetSizes(includedCount, excludedCount, originalCount int) domain.DatasetSizes {
	sizes := domain.DatasetSizes{
		OriginalRowCount: originalCount,
		IncludedRowCount: includedCount,
		ExcludedRowCount: excludedCount,
	}

	if originalCount > 0 {
		sizes.PctIncluded = round2(float64(includedCount) / float64(originalCount) * 100)
		sizes.PctExcluded = round2(float64(excludedCount) / float64(originalCount) * 100)
	}

	return sizes
}

func uniqueness(included []domain.Record) domain.Uniqueness {
	type nameInt struct {
		name  string
		value int
	}
	type dateTriple struct {
		day, month, year int
	}

	names := make(map[string]struct{})
	birthdays := make(map[dateTriple]struct{})
	nameYear := make(map[nameInt]struct{})
	nameMonth := make(map[nameInt]struct{})
	nameDay := make(map[nameInt]struct{})

	for _, r := range included {
		names[r.Name] = struct{}{}
		birthdays[dateTriple{r.BirthDay, r.BirthMonth, r.BirthYear}] = struct{}{}
		nameYear[nameInt{r.Name, r.BirthYear}] = struct{}{}
		nameMonth[nameInt{r.Name, r.BirthMonth}] = struct{}{}
		nameDay[nameInt{r.Name, r.BirthDay}] = struct{}{}
	}

	return domain.Uniqueness{
		TotalUniqueNames:            len(names),
		UniqueBirthdayCombinations:  len(birthdays),
		UniqueNameYearCombinations:  len(nameYear),
		UniqueNameMonthCombinations: len(nameMonth),
		UniqueNameDayCombinations:   len(nameDay),
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
