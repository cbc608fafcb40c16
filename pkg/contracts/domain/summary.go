package domain

// DatasetSizes describes how the partition split the uploaded rows.
// Percentages are rounded to two decimals and defined as zero for an
// empty upload.
type DatasetSizes struct {
	OriginalRowCount int     `json:"original_row_count"`
	IncludedRowCount int     `json:"included_row_count"`
	ExcludedRowCount int     `json:"excluded_row_count"`
	PctIncluded      float64 `json:"pct_included_vs_original"`
	PctExcluded      float64 `json:"pct_excluded_vs_original"`
}

// Uniqueness holds distinct-value counts over the included rows.
type Uniqueness struct {
	TotalUniqueNames            int `json:"total_unique_names"`
	UniqueBirthdayCombinations  int `json:"unique_birthday_combinations"`
	UniqueNameYearCombinations  int `json:"unique_name_year_combinations"`
	UniqueNameMonthCombinations int `json:"unique_name_month_combinations"`
	UniqueNameDayCombinations   int `json:"unique_name_day_combinations"`
}

// DuplicateGroup is one maximal cluster of included rows sharing identical
// values on a specific two-field combination.
type DuplicateGroup struct {
	MatchingFields []string       `json:"matching_fields"`
	MatchingValues map[string]any `json:"matching_values"`
	Count          int            `json:"count"`
	RowIDs         []string       `json:"row_ids"`
}

// DuplicateReport is the result of the pairwise duplicate analysis.
// TotalDuplicateRecords counts each row once even when it appears in
// several overlapping groups.
type DuplicateReport struct {
	TotalDuplicateGroups  int              `json:"total_duplicate_groups"`
	TotalDuplicateRecords int              `json:"total_duplicate_records"`
	DuplicateGroups       []DuplicateGroup `json:"duplicate_groups"`
}

// SummaryStats is an immutable snapshot of descriptive statistics tied to
// one partition. It is recomputed from scratch whenever the partition
// changes and serializes to JSON without loss.
type SummaryStats struct {
	DatasetSizes DatasetSizes    `json:"dataset_sizes"`
	Uniqueness   Uniqueness      `json:"uniqueness"`
	Duplicates   DuplicateReport `json:"duplicates"`
}

// TopName is one entry of the top-frequency name ranking.
type TopName struct {
	Name       string  `json:"name"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"`
}

// TopNamesReport is the minimal prefix of the descending frequency ranking
// whose cumulative share of all included rows reaches at least 80%.
type TopNamesReport struct {
	TopNames []TopName `json:"top_names"`
}
