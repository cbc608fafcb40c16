package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanse/pkg/contracts/domain"
)

var testIncluded = []domain.Record{
	{RowID: "r1", Name: "John Smith", BirthDay: 5, BirthMonth: 11, BirthYear: 1987},
	{RowID: "r2", Name: "Jane Doe", BirthDay: 1, BirthMonth: 2, BirthYear: 1950},
}

var testExcluded = []domain.ExcludedRecord{
	{RowID: "r3", Name: "A1", BirthDay: "45", BirthMonth: "", BirthYear: "1900",
		ExclusionReason: "name too short; invalid day (not 1-31); missing birth_month; Birth year older than 1940"},
}

func TestCSVWriter_WriteIncluded(t *testing.T) {
	w := NewCSVWriter(slog.Default())

	var buf bytes.Buffer
	require.NoError(t, w.WriteIncluded(&buf, testIncluded))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"row_id", "name", "birth_day", "birth_month", "birth_year"}, rows[0])
	assert.Equal(t, []string{"r1", "John Smith", "5", "11", "1987"}, rows[1])
}

func TestCSVWriter_WriteExcluded(t *testing.T) {
	w := NewCSVWriter(slog.Default())

	var buf bytes.Buffer
	require.NoError(t, w.WriteExcluded(&buf, testExcluded))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "exclusion_reason", rows[0][5])
	// Original malformed values survive verbatim, absent fields as blanks.
	assert.Equal(t, []string{"r3", "A1", "45", "", "1900",
		"name too short; invalid day (not 1-31); missing birth_month; Birth year older than 1940"}, rows[1])
}

func TestCSVWriter_FileHasBOM(t *testing.T) {
	w := NewCSVWriter(slog.Default())
	path := filepath.Join(t.TempDir(), "included.csv")

	require.NoError(t, w.WriteIncludedFile(path, testIncluded))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestReportWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWriter(dir, slog.Default())

	summary := domain.SummaryStats{
		DatasetSizes: domain.DatasetSizes{
			OriginalRowCount: 3,
			IncludedRowCount: 2,
			ExcludedRowCount: 1,
			PctIncluded:      66.67,
			PctExcluded:      33.33,
		},
	}

	reportDir, err := w.WriteAll(context.Background(), "ds-1", testIncluded, testExcluded, summary)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ds-1"), reportDir)

	for _, name := range []string{"data_included.csv", "data_excluded.csv", "summary_stats.json"} {
		_, err := os.Stat(filepath.Join(reportDir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}

	data, err := os.ReadFile(filepath.Join(reportDir, "summary_stats.json"))
	require.NoError(t, err)

	var decoded domain.SummaryStats
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.DatasetSizes, decoded.DatasetSizes)
}
