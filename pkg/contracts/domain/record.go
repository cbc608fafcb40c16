package domain

// Field is an optional raw value as it arrived in the upload. A field is
// either present with its original string value, or absent entirely.
// Blank cells are treated as absent, matching how missing values surface
// from tabular sources.
type Field struct {
	Value   string
	Present bool
}

// Present wraps a value that exists in the source row.
func Present(value string) Field {
	return Field{Value: value, Present: true}
}

// Absent returns the missing-field marker.
func Absent() Field {
	return Field{}
}

// Display returns the original value for present fields and the empty
// string for absent ones. Used when excluded rows echo back their input.
func (f Field) Display() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// RawRecord is one as-uploaded row before any validation. Field values are
// untyped and may be malformed; the partitioner decides what to do with them.
type RawRecord struct {
	Name       Field
	BirthDay   Field
	BirthMonth Field
	BirthYear  Field
}

// Record is a validated, normalized row. Every field is guaranteed present
// and well-typed: name is trimmed letters and spaces, day is 1-31, month is
// 1-12 and year is 1940 or later.
type Record struct {
	RowID      string `json:"row_id"`
	Name       string `json:"name"`
	BirthDay   int    `json:"birth_day"`
	BirthMonth int    `json:"birth_month"`
	BirthYear  int    `json:"birth_year"`
}

// ExcludedRecord is a row that failed at least one validation rule. Field
// values are echoed back verbatim (empty string for absent fields) so the
// caller can show the offending input, and ExclusionReason lists every
// failed rule joined by "; " in name, day, month, year order.
type ExcludedRecord struct {
	RowID           string `json:"row_id"`
	Name            string `json:"name"`
	BirthDay        string `json:"birth_day"`
	BirthMonth      string `json:"birth_month"`
	BirthYear       string `json:"birth_year"`
	ExclusionReason string `json:"exclusion_reason"`
}
