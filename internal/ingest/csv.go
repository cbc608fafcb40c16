package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"cleanse/internal/cleaner"
	"cleanse/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a CSV upload into raw records. The first row is the
// header; rows may be ragged (missing trailing cells become absent
// fields). Input that cannot be parsed as CSV at all is a structural
// error.
func (r *Reader) ReadCSV(ctx context.Context, src io.Reader) ([]domain.RawRecord, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	data, encoding := decodeBytes(data)
	r.logger.DebugContext(ctx, "decoded CSV upload",
		slog.String("encoding", encoding),
		slog.Int("bytes", len(data)))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", cleaner.ErrStructuralInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", cleaner.ErrStructuralInput)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := rowsToRecords(rows[1:], cols)
	r.logger.InfoContext(ctx, "parsed CSV upload",
		slog.Int("row_count", len(records)),
		slog.String("encoding", encoding))
	return records, nil
}

// decodeBytes strips a UTF-8 BOM and falls back to Latin-1 when the bytes
// are not valid UTF-8. Latin-1 decodes any byte sequence, which mirrors
// the permissive behavior expected of user-supplied spreadsheets.
func decodeBytes(data []byte) ([]byte, string) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, "utf-8"
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Latin-1 decoding cannot fail; keep the original bytes if it
		// somehow does.
		return data, "unknown"
	}
	return decoded, "latin-1"
}
