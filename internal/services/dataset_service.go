package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"cleanse/internal/cleaner"
	"cleanse/internal/exporter"
	"cleanse/internal/infrastructure"
	"cleanse/internal/ingest"
	"cleanse/internal/registry"
	"cleanse/internal/stats"
	"cleanse/pkg/contracts/domain"
)

// DatasetService processes uploaded datasets and serves their results.
type DatasetService struct {
	registry *registry.Registry
	cleaner  *cleaner.Cleaner
	stats    *stats.Engine
	reader   *ingest.Reader
	reports  *exporter.ReportWriter
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewDatasetService creates a dataset service. reports and metrics may be
// nil to disable report files and instrumentation.
func NewDatasetService(reg *registry.Registry, reports *exporter.ReportWriter, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		registry: reg,
		cleaner:  cleaner.New(logger),
		stats:    stats.NewEngine(logger),
		reader:   ingest.NewReader(logger),
		reports:  reports,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "dataset_service")),
	}
}

// Process ingests one uploaded file, partitions it, computes the summary
// and registers the result as the current dataset. Report files are
// written best-effort; a report failure never fails the upload.
func (s *DatasetService) Process(ctx context.Context, filename string, src io.Reader) (*registry.Dataset, error) {
	start := time.Now()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	records, err := s.readRecords(ctx, format, src)
	if err != nil {
		infrastructure.RecordProcessingError(ctx, s.metrics, format)
		return nil, err
	}

	result := s.cleaner.Partition(ctx, records)
	summary := s.stats.Summarize(ctx, result.Included, result.Excluded, result.OriginalCount)

	dataset := s.registry.Create(ctx, registry.Dataset{
		Filename:      filename,
		OriginalCount: result.OriginalCount,
		Included:      result.Included,
		Excluded:      result.Excluded,
		Summary:       summary,
	})

	if s.reports != nil {
		if _, err := s.reports.WriteAll(ctx, dataset.ID, dataset.Included, dataset.Excluded, dataset.Summary); err != nil {
			s.logger.WarnContext(ctx, "failed to write report files",
				slog.String("dataset_id", dataset.ID),
				slog.String("error", err.Error()))
		}
	}

	infrastructure.RecordDatasetMetrics(ctx, s.metrics, format, time.Since(start),
		len(dataset.Included), len(dataset.Excluded), summary.Duplicates.TotalDuplicateGroups)

	s.logger.InfoContext(ctx, "dataset processed",
		slog.String("dataset_id", dataset.ID),
		slog.String("filename", filename),
		slog.Duration("duration", time.Since(start)))

	return dataset, nil
}

func (s *DatasetService) readRecords(ctx context.Context, format string, src io.Reader) ([]domain.RawRecord, error) {
	var (
		records []domain.RawRecord
		err     error
	)
	switch format {
	case "csv":
		records, err = s.reader.ReadCSV(ctx, src)
	case "xlsx", "xlsm":
		records, err = s.reader.ReadXLSX(ctx, src)
	default:
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		if errors.Is(err, cleaner.ErrStructuralInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		return nil, fmt.Errorf("reading %s input: %w", format, err)
	}
	return records, nil
}

// List returns metadata for all stored datasets in upload order.
func (s *DatasetService) List(ctx context.Context) []registry.Metadata {
	return s.registry.List()
}

// Get returns one stored dataset by ID.
func (s *DatasetService) Get(ctx context.Context, id string) (*registry.Dataset, error) {
	d, err := s.registry.Get(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, err
	}
	return d, nil
}

// Current returns the most recently processed dataset.
func (s *DatasetService) Current(ctx context.Context) (*registry.Dataset, error) {
	d, err := s.registry.Current()
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrNoCurrentDataset
		}
		return nil, err
	}
	return d, nil
}

// Delete removes a stored dataset.
func (s *DatasetService) Delete(ctx context.Context, id string) error {
	if err := s.registry.Delete(ctx, id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return ErrDatasetNotFound
		}
		return err
	}
	return nil
}

// Summary returns the stored summary statistics for a dataset.
func (s *DatasetService) Summary(ctx context.Context, id string) (domain.SummaryStats, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.SummaryStats{}, err
	}
	return d.Summary, nil
}

// TopNames computes the top-frequency name ranking for a dataset.
func (s *DatasetService) TopNames(ctx context.Context, id string) (domain.TopNamesReport, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return domain.TopNamesReport{}, err
	}
	return s.stats.TopNames(ctx, d.Included), nil
}

// Page describes one page of a record listing.
type Page struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalRows  int `json:"total_rows"`
	TotalPages int `json:"total_pages"`
}

// Included returns one page of a dataset's included records.
func (s *DatasetService) Included(ctx context.Context, id string, page, perPage int) ([]domain.Record, Page, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, Page{}, err
	}
	lo, hi, meta := paginate(len(d.Included), page, perPage)
	return d.Included[lo:hi], meta, nil
}

// Excluded returns one page of a dataset's excluded records.
func (s *DatasetService) Excluded(ctx context.Context, id string, page, perPage int) ([]domain.ExcludedRecord, Page, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, Page{}, err
	}
	lo, hi, meta := paginate(len(d.Excluded), page, perPage)
	return d.Excluded[lo:hi], meta, nil
}

// paginate clamps a 1-based page request against a collection length and
// returns the slice bounds plus the page metadata. Out-of-range pages
// yield an empty window, not an error.
func paginate(total, page, perPage int) (int, int, Page) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	totalPages := (total + perPage - 1) / perPage

	lo := (page - 1) * perPage
	if lo > total {
		lo = total
	}
	hi := lo + perPage
	if hi > total {
		hi = total
	}

	return lo, hi, Page{
		Page:       page,
		PerPage:    perPage,
		TotalRows:  total,
		TotalPages: totalPages,
	}
}
