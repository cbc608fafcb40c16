// Package exporter writes cleaning results to files and HTTP responses:
// the included/excluded row CSVs and the summary statistics JSON produced
// for every processed dataset.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"cleanse/pkg/contracts/domain"
)

var includedHeaders = []string{"row_id", "name", "birth_day", "birth_month", "birth_year"}

var excludedHeaders = []string{"row_id", "name", "birth_day", "birth_month", "birth_year", "exclusion_reason"}

// CSVWriter exports partitioned rows as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// WriteIncluded streams the included rows as CSV.
func (w *CSVWriter) WriteIncluded(dst io.Writer, records []domain.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.RowID,
			r.Name,
			strconv.Itoa(r.BirthDay),
			strconv.Itoa(r.BirthMonth),
			strconv.Itoa(r.BirthYear),
		})
	}
	return writeCSV(dst, includedHeaders, rows)
}

// WriteExcluded streams the excluded rows as CSV, original values and the
// accumulated exclusion reasons included.
func (w *CSVWriter) WriteExcluded(dst io.Writer, records []domain.ExcludedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.RowID,
			r.Name,
			r.BirthDay,
			r.BirthMonth,
			r.BirthYear,
			r.ExclusionReason,
		})
	}
	return writeCSV(dst, excludedHeaders, rows)
}

// WriteIncludedFile writes the included rows to a BOM-prefixed CSV file.
func (w *CSVWriter) WriteIncludedFile(path string, records []domain.Record) error {
	return w.writeFile(path, func(f io.Writer) error {
		return w.WriteIncluded(f, records)
	})
}

// WriteExcludedFile writes the excluded rows to a BOM-prefixed CSV file.
func (w *CSVWriter) WriteExcludedFile(path string, records []domain.ExcludedRecord) error {
	return w.writeFile(path, func(f io.Writer) error {
		return w.WriteExcluded(f, records)
	})
}

func (w *CSVWriter) writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel opens the file with the right encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	if err := write(file); err != nil {
		return err
	}

	w.logger.Info("wrote CSV file", slog.String("path", path))
	return nil
}

func writeCSV(dst io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(dst)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return writer.Error()
}
