package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"cleanse/internal/cleaner"
	"cleanse/pkg/contracts/domain"
)

// ReadXLSX parses an Excel upload into raw records. The first sheet is
// used; its first row is the header. A workbook that cannot be opened or
// has no usable sheet is a structural error.
func (r *Reader) ReadXLSX(ctx context.Context, src io.Reader) ([]domain.RawRecord, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable workbook: %v", cleaner.ErrStructuralInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", cleaner.ErrStructuralInput)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", cleaner.ErrStructuralInput, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", cleaner.ErrStructuralInput, sheets[0])
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := rowsToRecords(rows[1:], cols)
	r.logger.InfoContext(ctx, "parsed XLSX upload",
		slog.String("sheet", sheets[0]),
		slog.Int("row_count", len(records)))
	return records, nil
}
