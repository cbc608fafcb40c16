package registry

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanse/pkg/contracts/domain"
)

func testDataset(filename string) Dataset {
	return Dataset{
		Filename:      filename,
		OriginalCount: 2,
		Included: []domain.Record{
			{RowID: "r1", Name: "John Smith", BirthDay: 1, BirthMonth: 2, BirthYear: 1950},
		},
		Excluded: []domain.ExcludedRecord{
			{RowID: "r2", ExclusionReason: "missing name"},
		},
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := New(nil, slog.Default())

	created := r.Create(context.Background(), testDataset("people.csv"))
	require.NotEmpty(t, created.ID)
	assert.False(t, created.UploadedAt.IsZero())

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "people.csv", got.Filename)
	assert.Len(t, got.Included, 1)
}

func TestRegistry_GetUnknownID(t *testing.T) {
	r := New(nil, slog.Default())

	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_CurrentTracksLatestUpload(t *testing.T) {
	r := New(nil, slog.Default())

	_, err := r.Current()
	assert.ErrorIs(t, err, ErrNotFound)

	first := r.Create(context.Background(), testDataset("first.csv"))
	second := r.Create(context.Background(), testDataset("second.csv"))

	current, err := r.Current()
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	require.NoError(t, r.SetCurrent(first.ID))
	current, err = r.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)

	assert.ErrorIs(t, r.SetCurrent("nope"), ErrNotFound)
}

func TestRegistry_ListPreservesCreationOrder(t *testing.T) {
	r := New(nil, slog.Default())

	a := r.Create(context.Background(), testDataset("a.csv"))
	b := r.Create(context.Background(), testDataset("b.csv"))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, 1, list[0].IncludedCount)
	assert.Equal(t, 1, list[0].ExcludedCount)
}

func TestRegistry_Delete(t *testing.T) {
	r := New(nil, slog.Default())

	d := r.Create(context.Background(), testDataset("a.csv"))
	require.NoError(t, r.Delete(context.Background(), d.ID))

	_, err := r.Get(d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Current()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, r.List())

	assert.ErrorIs(t, r.Delete(context.Background(), d.ID), ErrNotFound)
}

func TestCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.json")
	c := NewCache(path)

	// Missing file loads as empty.
	list, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, list)

	r := New(c, slog.Default())
	d := r.Create(context.Background(), testDataset("cached.csv"))

	list, err = c.Load()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, d.ID, list[0].ID)
	assert.Equal(t, "cached.csv", list[0].Filename)

	require.NoError(t, r.Delete(context.Background(), d.ID))
	list, err = c.Load()
	require.NoError(t, err)
	assert.Empty(t, list)
}
