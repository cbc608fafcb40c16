package http

import (
	"context"
	"io"

	"cleanse/internal/registry"
	"cleanse/internal/services"
	"cleanse/pkg/contracts/domain"
)

// DatasetServiceInterface defines the dataset operations the handlers need
type DatasetServiceInterface interface {
	Process(ctx context.Context, filename string, src io.Reader) (*registry.Dataset, error)
	List(ctx context.Context) []registry.Metadata
	Get(ctx context.Context, id string) (*registry.Dataset, error)
	Current(ctx context.Context) (*registry.Dataset, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, id string) (domain.SummaryStats, error)
	TopNames(ctx context.Context, id string) (domain.TopNamesReport, error)
	Included(ctx context.Context, id string, page, perPage int) ([]domain.Record, services.Page, error)
	Excluded(ctx context.Context, id string, page, perPage int) ([]domain.ExcludedRecord, services.Page, error)
}
