// Package cleaner implements the record validation and partitioning engine.
// It consumes raw uploaded rows, assigns each a unique row ID, applies the
// fixed validation rule set and splits the rows into an included collection
// of normalized records and an excluded collection carrying the original
// values plus every failed rule.
package cleaner

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"cleanse/pkg/contracts/domain"
)

// ErrStructuralInput marks input that is not a well-formed record
// collection at all, as opposed to rows that merely fail validation.
// Row-level problems never surface as errors; structural ones always do.
var ErrStructuralInput = errors.New("input is not a record collection")

// Result is the outcome of one partitioning pass. Relative input order is
// preserved within each list, and every input row lands in exactly one of
// the two.
type Result struct {
	Included      []domain.Record
	Excluded      []domain.ExcludedRecord
	OriginalCount int
}

// Cleaner partitions raw records. It is stateless across calls: each
// Partition invocation works purely on its input and returns a fresh
// result.
type Cleaner struct {
	logger *slog.Logger
}

// New creates a partitioning cleaner.
func New(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger: logger.With(slog.String("component", "cleaner")),
	}
}

// Partition validates every raw record and splits the set. Each record
// receives a freshly generated UUID row ID before classification,
// independent of whether it turns out valid. Valid rows are normalized
// (trimmed name, integer date fields); invalid rows keep their original
// values and accumulate one reason per failed rule, joined by "; ".
func (c *Cleaner) Partition(ctx context.Context, records []domain.RawRecord) Result {
	result := Result{
		Included:      make([]domain.Record, 0, len(records)),
		Excluded:      make([]domain.ExcludedRecord, 0),
		OriginalCount: len(records),
	}

	for _, raw := range records {
		rowID := uuid.New().String()
		verdict := validateRecord(raw)

		if verdict.valid() {
			result.Included = append(result.Included, domain.Record{
				RowID:      rowID,
				Name:       verdict.name,
				BirthDay:   verdict.day,
				BirthMonth: verdict.month,
				BirthYear:  verdict.year,
			})
			continue
		}

		result.Excluded = append(result.Excluded, domain.ExcludedRecord{
			RowID:           rowID,
			Name:            raw.Name.Display(),
			BirthDay:        raw.BirthDay.Display(),
			BirthMonth:      raw.BirthMonth.Display(),
			BirthYear:       raw.BirthYear.Display(),
			ExclusionReason: strings.Join(verdict.reasons, "; "),
		})
	}

	c.logger.InfoContext(ctx, "partitioned records",
		slog.Int("original_count", result.OriginalCount),
		slog.Int("included_count", len(result.Included)),
		slog.Int("excluded_count", len(result.Excluded)))

	return result
}
