package cleaner

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"cleanse/pkg/contracts/domain"
)

// namePattern accepts ASCII letters and spaces only, over the whole string.
var namePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

const minNameLength = 3

// validateName checks presence, minimum length and character set, in that
// priority order. Only the first failure is reported.
func validateName(f domain.Field) (bool, string) {
	if !f.Present || strings.TrimSpace(f.Value) == "" {
		return false, "missing name"
	}

	name := strings.TrimSpace(f.Value)

	if len(name) < minNameLength {
		return false, "name too short"
	}

	if !namePattern.MatchString(name) {
		return false, "special character in name"
	}

	return true, ""
}

// validateNumericField checks that a field holds an integer-valued number.
// The value is parsed as a float and required to have a zero fractional
// part, so "5.0" passes and "5.5" does not. Very large integer-like strings
// therefore follow float64 semantics; that imprecision is a documented
// property of the rule, not something to tighten here.
func validateNumericField(f domain.Field, fieldName string) (float64, bool, string) {
	if !f.Present {
		return 0, false, "missing " + fieldName
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, "invalid " + fieldName + " (not numeric)"
	}

	if value != math.Trunc(value) {
		return 0, false, "invalid " + fieldName + " (not integer)"
	}

	return value, true, ""
}

// validateDay checks birth_day is numeric and in range 1-31.
func validateDay(f domain.Field) (int, bool, string) {
	value, ok, reason := validateNumericField(f, "birth_day")
	if !ok {
		return 0, false, reason
	}

	day := int(value)
	if day < 1 || day > 31 {
		return 0, false, "invalid day (not 1-31)"
	}

	return day, true, ""
}

// validateMonth checks birth_month is numeric and in range 1-12.
func validateMonth(f domain.Field) (int, bool, string) {
	value, ok, reason := validateNumericField(f, "birth_month")
	if !ok {
		return 0, false, reason
	}

	month := int(value)
	if month < 1 || month > 12 {
		return 0, false, "invalid month (not 1-12)"
	}

	return month, true, ""
}

// validateYear checks birth_year is numeric and not before 1940.
func validateYear(f domain.Field) (int, bool, string) {
	value, ok, reason := validateNumericField(f, "birth_year")
	if !ok {
		return 0, false, reason
	}

	year := int(value)
	if year < 1940 {
		return 0, false, "Birth year older than 1940"
	}

	return year, true, ""
}

// rowVerdict holds the outcome of validating one raw record. All four
// checks always run; reasons accumulate in name, day, month, year order.
type rowVerdict struct {
	reasons []string
	name    string
	day     int
	month   int
	year    int
}

func (v rowVerdict) valid() bool {
	return len(v.reasons) == 0
}

// validateRecord runs every rule against a raw record. No check
// short-circuits the others: a record missing its name still gets its
// numeric fields checked so the exclusion reason is complete.
func validateRecord(raw domain.RawRecord) rowVerdict {
	var v rowVerdict

	if ok, reason := validateName(raw.Name); !ok {
		v.reasons = append(v.reasons, reason)
	} else {
		v.name = strings.TrimSpace(raw.Name.Value)
	}

	if day, ok, reason := validateDay(raw.BirthDay); !ok {
		v.reasons = append(v.reasons, reason)
	} else {
		v.day = day
	}

	if month, ok, reason := validateMonth(raw.BirthMonth); !ok {
		v.reasons = append(v.reasons, reason)
	} else {
		v.month = month
	}

	if year, ok, reason := validateYear(raw.BirthYear); !ok {
		v.reasons = append(v.reasons, reason)
	} else {
		v.year = year
	}

	return v
}
