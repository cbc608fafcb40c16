package stats

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"cleanse/pkg/contracts/domain"
)

const (
	fieldName  = "name"
	fieldDay   = "birth_day"
	fieldMonth = "birth_month"
	fieldYear  = "birth_year"
)

// fieldPairs is the fixed enumeration order of the six unordered field
// combinations. When two pairs select the same set of rows the
// first-encountered pair wins, so this order is part of the contract.
var fieldPairs = [6][2]string{
	{fieldName, fieldDay},
	{fieldName, fieldMonth},
	{fieldName, fieldYear},
	{fieldDay, fieldMonth},
	{fieldDay, fieldYear},
	{fieldMonth, fieldYear},
}

// FindDuplicates groups the included rows by each two-field combination and
// reports every group of two or more rows. Candidate groups whose exact
// row-ID set was already emitted by an earlier pair are skipped, so one
// physical cluster never appears twice; overlapping but non-identical
// groups are kept separate and only de-duplicated in the record total.
func (e *Engine) FindDuplicates(ctx context.Context, included []domain.Record) domain.DuplicateReport {
	report := domain.DuplicateReport{
		DuplicateGroups: []domain.DuplicateGroup{},
	}
	if len(included) == 0 {
		return report
	}

	// Group per pair concurrently; the groupings are independent and only
	// the merge below is order-sensitive.
	var candidates [len(fieldPairs)][]domain.DuplicateGroup
	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range fieldPairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = groupByPair(included, pair)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.WarnContext(ctx, "duplicate grouping cancelled",
			slog.String("error", err.Error()))
		return report
	}

	// Merge in the fixed pair order, de-duplicating by exact row-ID set.
	seen := make(map[string]struct{})
	involved := make(map[string]struct{})
	for _, groups := range candidates {
		for _, group := range groups {
			key := rowSetKey(group.RowIDs)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			report.DuplicateGroups = append(report.DuplicateGroups, group)
			for _, id := range group.RowIDs {
				involved[id] = struct{}{}
			}
		}
	}

	report.TotalDuplicateGroups = len(report.DuplicateGroups)
	report.TotalDuplicateRecords = len(involved)
	return report
}

// groupByPair buckets records by the joint value of one field pair and
// returns the buckets of size two or more, in first-seen key order.
func groupByPair(included []domain.Record, pair [2]string) []domain.DuplicateGroup {
	type bucket struct {
		rowIDs []string
		first  domain.Record
	}

	buckets := make(map[[2]string]*bucket)
	order := make([][2]string, 0)

	for _, r := range included {
		key := [2]string{fieldKey(r, pair[0]), fieldKey(r, pair[1])}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{first: r}
			buckets[key] = b
			order = append(order, key)
		}
		b.rowIDs = append(b.rowIDs, r.RowID)
	}

	var groups []domain.DuplicateGroup
	for _, key := range order {
		b := buckets[key]
		if len(b.rowIDs) < 2 {
			continue
		}
		groups = append(groups, domain.DuplicateGroup{
			MatchingFields: []string{pair[0], pair[1]},
			MatchingValues: map[string]any{
				pair[0]: fieldValue(b.first, pair[0]),
				pair[1]: fieldValue(b.first, pair[1]),
			},
			Count:  len(b.rowIDs),
			RowIDs: b.rowIDs,
		})
	}
	return groups
}

// fieldKey renders a record field as a grouping key.
func fieldKey(r domain.Record, field string) string {
	switch field {
	case fieldName:
		return r.Name
	case fieldDay:
		return strconv.Itoa(r.BirthDay)
	case fieldMonth:
		return strconv.Itoa(r.BirthMonth)
	default:
		return strconv.Itoa(r.BirthYear)
	}
}

// fieldValue returns the typed field value for the matching_values map.
func fieldValue(r domain.Record, field string) any {
	switch field {
	case fieldName:
		return r.Name
	case fieldDay:
		return r.BirthDay
	case fieldMonth:
		return r.BirthMonth
	default:
		return r.BirthYear
	}
}

// rowSetKey builds an order-insensitive identity for a set of row IDs.
func rowSetKey(rowIDs []string) string {
	ids := make([]string, len(rowIDs))
	copy(ids, rowIDs)
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}
