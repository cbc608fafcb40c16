package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cleanse/pkg/contracts/domain"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name       string
		field      domain.Field
		wantOK     bool
		wantReason string
	}{
		{
			name:   "valid name",
			field:  domain.Present("John Smith"),
			wantOK: true,
		},
		{
			name:   "valid name with surrounding spaces",
			field:  domain.Present("  Ada Lovelace  "),
			wantOK: true,
		},
		{
			name:       "absent field",
			field:      domain.Absent(),
			wantOK:     false,
			wantReason: "missing name",
		},
		{
			name:       "blank after trim",
			field:      domain.Present("   "),
			wantOK:     false,
			wantReason: "missing name",
		},
		{
			name:       "too short",
			field:      domain.Present("Al"),
			wantOK:     false,
			wantReason: "name too short",
		},
		{
			name:       "exactly three letters",
			field:      domain.Present("Ann"),
			wantOK:     true,
			wantReason: "",
		},
		{
			name:       "digit in name",
			field:      domain.Present("John3"),
			wantOK:     false,
			wantReason: "special character in name",
		},
		{
			name:       "hyphenated name rejected",
			field:      domain.Present("Mary-Jane"),
			wantOK:     false,
			wantReason: "special character in name",
		},
		{
			name:       "non-ascii letters rejected",
			field:      domain.Present("José"),
			wantOK:     false,
			wantReason: "special character in name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := validateName(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestValidateDay(t *testing.T) {
	tests := []struct {
		name       string
		field      domain.Field
		wantDay    int
		wantOK     bool
		wantReason string
	}{
		{name: "plain integer", field: domain.Present("15"), wantDay: 15, wantOK: true},
		{name: "float with zero fraction", field: domain.Present("31.0"), wantDay: 31, wantOK: true},
		{name: "float with fraction", field: domain.Present("31.5"), wantOK: false, wantReason: "invalid birth_day (not integer)"},
		{name: "absent", field: domain.Absent(), wantOK: false, wantReason: "missing birth_day"},
		{name: "non numeric", field: domain.Present("abc"), wantOK: false, wantReason: "invalid birth_day (not numeric)"},
		{name: "zero out of range", field: domain.Present("0"), wantOK: false, wantReason: "invalid day (not 1-31)"},
		{name: "thirty two out of range", field: domain.Present("32"), wantOK: false, wantReason: "invalid day (not 1-31)"},
		{name: "negative", field: domain.Present("-1"), wantOK: false, wantReason: "invalid day (not 1-31)"},
		{name: "whitespace padded", field: domain.Present(" 7 "), wantDay: 7, wantOK: true},
		{name: "nan rejected", field: domain.Present("NaN"), wantOK: false, wantReason: "invalid birth_day (not numeric)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok, reason := validateDay(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantOK {
				assert.Equal(t, tt.wantDay, day)
			}
		})
	}
}

func TestValidateMonth(t *testing.T) {
	tests := []struct {
		name       string
		field      domain.Field
		wantOK     bool
		wantReason string
	}{
		{name: "valid", field: domain.Present("12"), wantOK: true},
		{name: "thirteen out of range", field: domain.Present("13"), wantOK: false, wantReason: "invalid month (not 1-12)"},
		{name: "absent", field: domain.Absent(), wantOK: false, wantReason: "missing birth_month"},
		{name: "fractional", field: domain.Present("6.5"), wantOK: false, wantReason: "invalid birth_month (not integer)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, reason := validateMonth(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		name       string
		field      domain.Field
		wantYear   int
		wantOK     bool
		wantReason string
	}{
		{name: "boundary year included", field: domain.Present("1940"), wantYear: 1940, wantOK: true},
		{name: "year before cutoff", field: domain.Present("1939"), wantOK: false, wantReason: "Birth year older than 1940"},
		{name: "recent year", field: domain.Present("1995"), wantYear: 1995, wantOK: true},
		{name: "float year", field: domain.Present("1950.0"), wantYear: 1950, wantOK: true},
		{name: "absent", field: domain.Absent(), wantOK: false, wantReason: "missing birth_year"},
		{name: "not numeric", field: domain.Present("nineteen"), wantOK: false, wantReason: "invalid birth_year (not numeric)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok, reason := validateYear(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantOK {
				assert.Equal(t, tt.wantYear, year)
			}
		})
	}
}

func TestValidateRecord_ReasonAccumulation(t *testing.T) {
	// Every rule runs even when an earlier one fails; reasons keep the
	// fixed name, day, month, year order.
	raw := domain.RawRecord{
		Name:       domain.Present("A1"),
		BirthDay:   domain.Present("45"),
		BirthMonth: domain.Present("abc"),
		BirthYear:  domain.Present("1900"),
	}

	verdict := validateRecord(raw)

	assert.False(t, verdict.valid())
	assert.Equal(t, []string{
		"name too short",
		"invalid day (not 1-31)",
		"invalid birth_month (not numeric)",
		"Birth year older than 1940",
	}, verdict.reasons)
}

func TestValidateRecord_AllAbsent(t *testing.T) {
	verdict := validateRecord(domain.RawRecord{})

	assert.Equal(t, []string{
		"missing name",
		"missing birth_day",
		"missing birth_month",
		"missing birth_year",
	}, verdict.reasons)
}

func TestValidateRecord_Valid(t *testing.T) {
	raw := domain.RawRecord{
		Name:       domain.Present(" John Smith "),
		BirthDay:   domain.Present("5.0"),
		BirthMonth: domain.Present("11"),
		BirthYear:  domain.Present("1987"),
	}

	verdict := validateRecord(raw)

	assert.True(t, verdict.valid())
	assert.Equal(t, "John Smith", verdict.name)
	assert.Equal(t, 5, verdict.day)
	assert.Equal(t, 11, verdict.month)
	assert.Equal(t, 1987, verdict.year)
}
