package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cleanse/internal/cleaner"
	"cleanse/pkg/contracts/domain"
)

func TestReadCSV_UploadHeaderAliases(t *testing.T) {
	r := NewReader(slog.Default())

	input := "FirstName,BirthDay,BirthMonth,BirthYear\nJohn Smith,5,11,1987\n"

	records, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, domain.Present("John Smith"), records[0].Name)
	assert.Equal(t, domain.Present("5"), records[0].BirthDay)
	assert.Equal(t, domain.Present("11"), records[0].BirthMonth)
	assert.Equal(t, domain.Present("1987"), records[0].BirthYear)
}

func TestReadCSV_CanonicalHeaders(t *testing.T) {
	r := NewReader(slog.Default())

	input := "name,birth_day,birth_month,birth_year\nJane Doe,1,2,1950\n"

	records, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Present("Jane Doe"), records[0].Name)
}

func TestReadCSV_BlankAndMissingCellsAreAbsent(t *testing.T) {
	r := NewReader(slog.Default())

	input := "name,birth_day,birth_month,birth_year\n,  ,3\n"

	records, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, domain.Absent(), records[0].Name)
	assert.Equal(t, domain.Absent(), records[0].BirthDay)
	assert.Equal(t, domain.Present("3"), records[0].BirthMonth)
	// Short row: the year cell does not exist at all.
	assert.Equal(t, domain.Absent(), records[0].BirthYear)
}

func TestReadCSV_MissingColumnStaysAbsent(t *testing.T) {
	r := NewReader(slog.Default())

	input := "name,birth_day\nJohn Smith,5\n"

	records, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Absent(), records[0].BirthMonth)
	assert.Equal(t, domain.Absent(), records[0].BirthYear)
}

func TestReadCSV_UTF8BOMStripped(t *testing.T) {
	r := NewReader(slog.Default())

	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,birth_day,birth_month,birth_year\nAnn Lee,1,1,1990\n")...)

	records, err := r.ReadCSV(context.Background(), bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Present("Ann Lee"), records[0].Name)
}

func TestReadCSV_Latin1Fallback(t *testing.T) {
	r := NewReader(slog.Default())

	// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
	input := append([]byte("name,birth_day,birth_month,birth_year\nJos"), 0xE9)
	input = append(input, []byte(",1,1,1990\n")...)

	records, err := r.ReadCSV(context.Background(), bytes.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Present("José"), records[0].Name)
}

func TestReadCSV_NoRecognizableColumnsIsStructural(t *testing.T) {
	r := NewReader(slog.Default())

	input := "foo,bar\n1,2\n"

	_, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, cleaner.ErrStructuralInput)
}

func TestReadCSV_EmptyFileIsStructural(t *testing.T) {
	r := NewReader(slog.Default())

	_, err := r.ReadCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, cleaner.ErrStructuralInput)
}

func TestReadCSV_MalformedCSVIsStructural(t *testing.T) {
	r := NewReader(slog.Default())

	input := "name,birth_day\n\"unterminated,1\n"

	_, err := r.ReadCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, cleaner.ErrStructuralInput)
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	r := NewReader(slog.Default())

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"FirstName", "BirthDay", "BirthMonth", "BirthYear"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"John Smith", "5", "11", "1987"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	records, err := r.ReadXLSX(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Present("John Smith"), records[0].Name)
	assert.Equal(t, domain.Present("1987"), records[0].BirthYear)
}

func TestReadXLSX_GarbageIsStructural(t *testing.T) {
	r := NewReader(slog.Default())

	_, err := r.ReadXLSX(context.Background(), strings.NewReader("not a workbook"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cleaner.ErrStructuralInput)
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FirstName", "name"},
		{"  name ", "name"},
		{"BIRTH_DAY", "birth_day"},
		{"BirthMonth", "birth_month"},
		{"birth_year", "birth_year"},
		{"address", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeHeader(tt.in), "header %q", tt.in)
	}
}
