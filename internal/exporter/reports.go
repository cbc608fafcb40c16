package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cleanse/pkg/contracts/domain"
)

const (
	includedFilename = "data_included.csv"
	excludedFilename = "data_excluded.csv"
	summaryFilename  = "summary_stats.json"
)

// ReportWriter persists the full cleaning report for a dataset: included
// and excluded CSVs plus the summary statistics JSON, one directory per
// dataset under the reports root.
type ReportWriter struct {
	dir    string
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportWriter creates a report writer rooted at dir.
func NewReportWriter(dir string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		dir:    dir,
		csv:    NewCSVWriter(logger),
		logger: logger.With(slog.String("component", "reports")),
	}
}

// WriteAll writes the three report files for one dataset and returns the
// dataset's report directory.
func (w *ReportWriter) WriteAll(ctx context.Context, datasetID string, included []domain.Record, excluded []domain.ExcludedRecord, summary domain.SummaryStats) (string, error) {
	dir := filepath.Join(w.dir, datasetID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	if err := w.csv.WriteIncludedFile(filepath.Join(dir, includedFilename), included); err != nil {
		return "", fmt.Errorf("write included rows: %w", err)
	}
	if err := w.csv.WriteExcludedFile(filepath.Join(dir, excludedFilename), excluded); err != nil {
		return "", fmt.Errorf("write excluded rows: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, summaryFilename), data, 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	w.logger.InfoContext(ctx, "report files written",
		slog.String("dataset_id", datasetID),
		slog.String("dir", dir),
		slog.Int("included_count", len(included)),
		slog.Int("excluded_count", len(excluded)))

	return dir, nil
}
