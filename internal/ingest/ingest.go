// Package ingest turns uploaded tabular files into raw records for the
// cleaning engine. It normalizes column headers, distinguishes absent from
// present field values and shields the core from encoding quirks. Files
// that are not record-shaped at all surface as structural errors; malformed
// rows do not.
package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"cleanse/internal/cleaner"
	"cleanse/pkg/contracts/domain"
)

// columnIndexes maps the four canonical fields to their column positions
// in the source header, or -1 when the column is missing entirely.
type columnIndexes struct {
	name  int
	day   int
	month int
	year  int
}

// Reader parses uploaded datasets.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates an ingest reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		logger: logger.With(slog.String("component", "ingest")),
	}
}

// normalizeHeader maps a source column name to a canonical field name.
// Both the upload aliases (FirstName, BirthDay, ...) and the canonical
// names are accepted, case-insensitively.
func normalizeHeader(header string) string {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), "_", "") {
	case "name", "firstname":
		return "name"
	case "birthday":
		return "birth_day"
	case "birthmonth":
		return "birth_month"
	case "birthyear":
		return "birth_year"
	default:
		return ""
	}
}

// mapColumns resolves the header row into column positions. At least one
// recognizable column is required; otherwise the input is not
// record-shaped and the whole call fails structurally.
func mapColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{name: -1, day: -1, month: -1, year: -1}
	found := false

	for i, h := range header {
		switch normalizeHeader(h) {
		case "name":
			cols.name, found = i, true
		case "birth_day":
			cols.day, found = i, true
		case "birth_month":
			cols.month, found = i, true
		case "birth_year":
			cols.year, found = i, true
		}
	}

	if !found {
		return cols, fmt.Errorf("%w: no recognizable columns in header %v", cleaner.ErrStructuralInput, header)
	}
	return cols, nil
}

// cellAt extracts one field from a row. Columns missing from the header,
// cells beyond the row length and blank cells all count as absent; the
// validators report them as missing values rather than structural errors.
func cellAt(row []string, index int) domain.Field {
	if index < 0 || index >= len(row) {
		return domain.Absent()
	}
	if strings.TrimSpace(row[index]) == "" {
		return domain.Absent()
	}
	return domain.Present(row[index])
}

// rowsToRecords converts data rows into raw records using the resolved
// column mapping.
func rowsToRecords(rows [][]string, cols columnIndexes) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.RawRecord{
			Name:       cellAt(row, cols.name),
			BirthDay:   cellAt(row, cols.day),
			BirthMonth: cellAt(row, cols.month),
			BirthYear:  cellAt(row, cols.year),
		})
	}
	return records
}
