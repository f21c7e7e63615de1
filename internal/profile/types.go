package profile

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SemanticType is the inferred high-level category of a column's content.
type SemanticType uint8

const (
	TypeUnknown SemanticType = iota
	TypeNumeric
	TypeDatetime
	TypeBoolean
	TypeCategorical
	TypeText
)

func (s SemanticType) String() string {
	switch s {
	case TypeNumeric:
		return "numeric"
	case TypeDatetime:
		return "datetime"
	case TypeBoolean:
		return "boolean"
	case TypeCategorical:
		return "categorical"
	case TypeText:
		return "text"
	}
	return "unknown"
}

func (s SemanticType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SemanticType) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch strings.ToLower(v) {
	case "numeric":
		*s = TypeNumeric
	case "datetime":
		*s = TypeDatetime
	case "boolean":
		*s = TypeBoolean
	case "categorical":
		*s = TypeCategorical
	case "text":
		*s = TypeText
	default:
		*s = TypeUnknown
	}
	return nil
}

// Severity of a quality flag.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// FlagCode identifies a quality rule. The string values are a stable contract
// for downstream consumers.
type FlagCode string

const (
	FlagHighMissing                FlagCode = "HIGH_MISSING"
	FlagConstantColumn             FlagCode = "CONSTANT_COLUMN"
	FlagDominantValue              FlagCode = "DOMINANT_VALUE"
	FlagHighCardinalityCategorical FlagCode = "HIGH_CARDINALITY_CATEGORICAL"
	FlagPotentialIDColumn          FlagCode = "POTENTIAL_ID_COLUMN"
	FlagMixedTypes                 FlagCode = "MIXED_TYPES"
	FlagSkewedDistribution         FlagCode = "SKEWED_DISTRIBUTION"
	FlagContainsZeros              FlagCode = "CONTAINS_ZEROS"
	FlagContainsNegatives          FlagCode = "CONTAINS_NEGATIVES"
	FlagFutureDates                FlagCode = "FUTURE_DATES"
	FlagWhitespaceIssues           FlagCode = "WHITESPACE_ISSUES"
	FlagPlaceholderValues          FlagCode = "PLACEHOLDER_VALUES"
	FlagInconsistentCasing         FlagCode = "INCONSISTENT_CASING"
	FlagSpecialCharacters          FlagCode = "SPECIAL_CHARACTERS"
	FlagDuplicateRows              FlagCode = "DUPLICATE_ROWS"
)

// FlagCodes lists the full flag vocabulary.
var FlagCodes = []FlagCode{
	FlagHighMissing,
	FlagConstantColumn,
	FlagDominantValue,
	FlagHighCardinalityCategorical,
	FlagPotentialIDColumn,
	FlagMixedTypes,
	FlagSkewedDistribution,
	FlagContainsZeros,
	FlagContainsNegatives,
	FlagFutureDates,
	FlagWhitespaceIssues,
	FlagPlaceholderValues,
	FlagInconsistentCasing,
	FlagSpecialCharacters,
	FlagDuplicateRows,
}

// Example is one concrete offending cell or row.
type Example struct {
	Row    int    `json:"row"`
	Value  string `json:"value"`
	IsNull bool   `json:"is_null,omitempty"`
}

// QualityFlag is a severity-tagged diagnostic produced by a rule.
type QualityFlag struct {
	Code     FlagCode  `json:"code"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Count    *int      `json:"count,omitempty"`
	Examples []Example `json:"examples,omitempty"`
}

// TopValue is one entry of a column's frequency table. Pct is relative to
// the total row count.
type TopValue struct {
	Value  string  `json:"value"`
	Count  int     `json:"count"`
	Pct    float64 `json:"pct"`
	IsNull bool    `json:"is_null,omitempty"`

	key string
}

// NumericStats describes a numeric column. Std is the sample deviation and is
// nil below two values; Skewness is also nil when the values have no spread.
type NumericStats struct {
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	Mean          float64  `json:"mean"`
	Median        float64  `json:"median"`
	Std           *float64 `json:"std"`
	P25           float64  `json:"p25"`
	P50           float64  `json:"p50"`
	P75           float64  `json:"p75"`
	Skewness      *float64 `json:"skewness"`
	ZeroCount     int      `json:"zero_count"`
	ZeroPct       float64  `json:"zero_pct"`
	NegativeCount int      `json:"negative_count"`
	NegativePct   float64  `json:"negative_pct"`
}

// DatetimeStats describes a datetime column. FuturePct is relative to
// ValidCount.
type DatetimeStats struct {
	Min         string  `json:"min"`
	Max         string  `json:"max"`
	ValidCount  int     `json:"valid_count"`
	FutureCount int     `json:"future_count"`
	FuturePct   float64 `json:"future_pct"`
	MaxFuture   string  `json:"max_future,omitempty"`
}

// StringQualityStats holds hygiene metrics for text-like columns. All counts
// and percentages are relative to SampleSize, which is smaller than the
// non-null count when Sampled is set.
type StringQualityStats struct {
	SampleSize           int      `json:"sample_size"`
	Sampled              bool     `json:"sampled"`
	WhitespaceCount      int      `json:"whitespace_count"`
	WhitespacePct        float64  `json:"whitespace_pct"`
	PlaceholderCount     int      `json:"placeholder_count"`
	PlaceholderPct       float64  `json:"placeholder_pct"`
	PlaceholderValues    []string `json:"placeholder_values"`
	CasingIssues         bool     `json:"casing_issues"`
	CasingIssueCount     int      `json:"casing_issue_count"`
	SpecialCharCount     int      `json:"special_char_count"`
	SpecialCharPct       float64  `json:"special_char_pct"`
	FoldableSpecialCount int      `json:"foldable_special_count"`
}

// KindCount counts sampled values of one runtime kind.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// MixedTypes is the runtime-kind diagnostic for generic-storage columns.
type MixedTypes struct {
	HasMixedTypes bool        `json:"has_mixed_types"`
	TypeCounts    []KindCount `json:"type_counts"`
	MajorityKind  string      `json:"majority_kind"`
	MixedTypePct  float64     `json:"mixed_type_pct"`
}

// ColumnProfile is the profile of a single column.
type ColumnProfile struct {
	Name          string              `json:"name"`
	StorageType   string              `json:"storage_type"`
	InferredType  SemanticType        `json:"inferred_type"`
	NonNullCount  int                 `json:"non_null_count"`
	NullCount     int                 `json:"null_count"`
	MissingPct    float64             `json:"missing_pct"`
	UniqueCount   int                 `json:"unique_count"`
	TopValues     []TopValue          `json:"top_values"`
	NumericStats  *NumericStats       `json:"numeric_stats"`
	DatetimeStats *DatetimeStats      `json:"datetime_stats"`
	StringQuality *StringQualityStats `json:"string_quality"`
	MixedTypes    *MixedTypes         `json:"mixed_types_info"`
	QualityFlags  []QualityFlag       `json:"quality_flags"`
	// Error records a failure recovered while profiling this column.
	Error string `json:"error,omitempty"`
}

// HasFlag reports whether a flag with code fired.
func (c *ColumnProfile) HasFlag(code FlagCode) bool { return c.Flag(code) != nil }

// Flag returns the flag with code, or nil.
func (c *ColumnProfile) Flag(code FlagCode) *QualityFlag {
	return findFlag(c.QualityFlags, code)
}

// Cell is one named value of a rendered row.
type Cell struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// DuplicateSet is a group of identical rows.
type DuplicateSet struct {
	Row        []Cell `json:"row"`
	Count      int    `json:"count"`
	RowIndices []int  `json:"row_indices"`
}

// DuplicateAnalysis summarizes exact duplicate rows. When detection is not
// computable, UniqueRows and DuplicateRows are -1 and Error explains why.
type DuplicateAnalysis struct {
	TotalRows     int            `json:"total_rows"`
	UniqueRows    int            `json:"unique_rows"`
	DuplicateRows int            `json:"duplicate_rows"`
	DuplicatePct  float64        `json:"duplicate_pct"`
	Sets          []DuplicateSet `json:"duplicate_sets"`
	Error         string         `json:"error,omitempty"`
}

// OK reports whether duplicate detection succeeded.
func (d DuplicateAnalysis) OK() bool { return d.Error == "" }

// DatasetSummary is the dataset-level part of a report.
type DatasetSummary struct {
	Name              string            `json:"name,omitempty"`
	NRows             int               `json:"n_rows"`
	NColumns          int               `json:"n_columns"`
	MemoryUsageBytes  int64             `json:"memory_usage_bytes"`
	DuplicateAnalysis DuplicateAnalysis `json:"duplicate_analysis"`
	QualityFlags      []QualityFlag     `json:"quality_flags"`
}

// Report is the result of one profiling run. It is built once and not
// modified afterwards.
type Report struct {
	Dataset DatasetSummary
	Columns []ColumnProfile
}

// Column returns the profile of the named column, or nil.
func (r *Report) Column(name string) *ColumnProfile {
	for i := range r.Columns {
		if r.Columns[i].Name == name {
			return &r.Columns[i]
		}
	}
	return nil
}

// MarshalJSON renders {"dataset": ..., "columns": {name: profile}} keeping
// the table's column order.
func (r Report) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	ds, err := json.Marshal(r.Dataset)
	if err != nil {
		return nil, err
	}
	b.WriteString(`{"dataset":`)
	b.Write(ds)
	b.WriteString(`,"columns":{`)
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteString("}}")
	return b.Bytes(), nil
}

func findFlag(flags []QualityFlag, code FlagCode) *QualityFlag {
	for i := range flags {
		if flags[i].Code == code {
			return &flags[i]
		}
	}
	return nil
}
