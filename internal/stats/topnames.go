package stats

import (
	"context"
	"log/slog"
	"sort"

	"cleanse/pkg/contracts/domain"
)

// topNamesShare is the cumulative share of included rows the ranking
// prefix must reach.
const topNamesShare = 80.0

// TopNames ranks distinct names by descending frequency and returns the
// minimal prefix whose cumulative share of all included rows reaches at
// least 80%. Ties break by first appearance in the included collection, so
// the ranking is deterministic for a given partition.
func (e *Engine) TopNames(ctx context.Context, included []domain.Record) domain.TopNamesReport {
	report := domain.TopNamesReport{
		TopNames: []domain.TopName{},
	}
	if len(included) == 0 {
		return report
	}

	frequencies := make(map[string]int)
	order := make([]string, 0)
	for _, r := range included {
		if _, ok := frequencies[r.Name]; !ok {
			order = append(order, r.Name)
		}
		frequencies[r.Name]++
	}

	// Stable sort keeps first-seen order among equal frequencies.
	sort.SliceStable(order, func(i, j int) bool {
		return frequencies[order[i]] > frequencies[order[j]]
	})

	total := len(included)
	cumulative := 0
	for _, name := range order {
		freq := frequencies[name]
		cumulative += freq
		report.TopNames = append(report.TopNames, domain.TopName{
			Name:       name,
			Frequency:  freq,
			Percentage: round2(float64(freq) / float64(total) * 100),
		})
		if float64(cumulative)/float64(total)*100 >= topNamesShare {
			break
		}
	}

	e.logger.DebugContext(ctx, "top names ranked",
		slog.Int("distinct_names", len(order)),
		slog.Int("ranked_names", len(report.TopNames)))

	return report
}
