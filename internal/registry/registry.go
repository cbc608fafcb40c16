// Package registry keeps processed datasets keyed by ID. It replaces
// ambient session state with an explicit repository object: the web layer
// gets create/list/get/delete plus a tracked "current" dataset pointer,
// while the cleaning core stays call-scoped and stateless. Rows live in
// memory only; a JSON metadata cache on disk lets the dataset list survive
// restarts.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cleanse/pkg/contracts/domain"
)

// ErrNotFound is returned when no dataset exists under the requested ID.
var ErrNotFound = errors.New("dataset not found")

// Dataset is one processed upload: its partition, its summary and a little
// bookkeeping. The summary is recomputed by the caller whenever the
// partition changes; the registry never mutates stored data.
type Dataset struct {
	ID            string
	Filename      string
	UploadedAt    time.Time
	OriginalCount int
	Included      []domain.Record
	Excluded      []domain.ExcludedRecord
	Summary       domain.SummaryStats
}

// Metadata is the persistent, row-free view of a dataset.
type Metadata struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	UploadedAt    time.Time `json:"uploaded_at"`
	OriginalCount int       `json:"original_count"`
	IncludedCount int       `json:"included_count"`
	ExcludedCount int       `json:"excluded_count"`
}

func (d *Dataset) metadata() Metadata {
	return Metadata{
		ID:            d.ID,
		Filename:      d.Filename,
		UploadedAt:    d.UploadedAt,
		OriginalCount: d.OriginalCount,
		IncludedCount: len(d.Included),
		ExcludedCount: len(d.Excluded),
	}
}

// Registry is a concurrency-safe in-memory dataset store.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
	order    []string
	current  string
	cache    *Cache
	logger   *slog.Logger
}

// New creates a registry. cache may be nil to disable metadata
// persistence.
func New(cache *Cache, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		datasets: make(map[string]*Dataset),
		cache:    cache,
		logger:   logger.With(slog.String("component", "registry")),
	}
}

// Create stores a new dataset, assigns it an ID and makes it current.
func (r *Registry) Create(ctx context.Context, d Dataset) *Dataset {
	d.ID = uuid.New().String()
	d.UploadedAt = time.Now().UTC()

	r.mu.Lock()
	r.datasets[d.ID] = &d
	r.order = append(r.order, d.ID)
	r.current = d.ID
	r.mu.Unlock()

	r.persist(ctx)

	r.logger.InfoContext(ctx, "dataset registered",
		slog.String("dataset_id", d.ID),
		slog.String("filename", d.Filename),
		slog.Int("included_count", len(d.Included)),
		slog.Int("excluded_count", len(d.Excluded)))

	return &d
}

// Get returns the dataset stored under id.
func (r *Registry) Get(id string) (*Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.datasets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// Current returns the most recently created dataset, if any.
func (r *Registry) Current() (*Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == "" {
		return nil, ErrNotFound
	}
	d, ok := r.datasets[r.current]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

// SetCurrent moves the current pointer to an existing dataset.
func (r *Registry) SetCurrent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.datasets[id]; !ok {
		return ErrNotFound
	}
	r.current = id
	return nil
}

// List returns metadata for every stored dataset in creation order.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Metadata, 0, len(r.order))
	for _, id := range r.order {
		if d, ok := r.datasets[id]; ok {
			list = append(list, d.metadata())
		}
	}
	return list
}

// Delete removes a dataset. Deleting the current dataset clears the
// current pointer.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.datasets[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.datasets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.current == id {
		r.current = ""
	}
	r.mu.Unlock()

	r.persist(ctx)

	r.logger.InfoContext(ctx, "dataset deleted", slog.String("dataset_id", id))
	return nil
}

// persist writes the current metadata list through the cache. Failures are
// logged and otherwise ignored; the cache is a convenience, not a store of
// record.
func (r *Registry) persist(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Save(r.List()); err != nil {
		r.logger.WarnContext(ctx, "failed to persist dataset metadata",
			slog.String("error", err.Error()))
	}
}
