package profile

// Thresholds configure the quality rules.
type Thresholds struct {
	// HighMissingPct fires HIGH_MISSING at missing% >= this value.
	HighMissingPct float64
	// DominantValuePct fires DOMINANT_VALUE when the top value's share is >= this.
	DominantValuePct float64
	// HighCardinality fires HIGH_CARDINALITY_CATEGORICAL above this unique count.
	HighCardinality int
	// IDUniquenessRatio is the unique/rows ratio above which an id-like column is flagged.
	IDUniquenessRatio float64
	// MixedTypesPct is the minimum minority-kind share for MIXED_TYPES.
	MixedTypesPct float64
	// SkewnessAbs fires SKEWED_DISTRIBUTION above |skewness|.
	SkewnessAbs float64
	ZeroPct     float64
	// WhitespacePct and SpecialCharPct fire above these shares of the sample.
	WhitespacePct  float64
	SpecialCharPct float64
	// PlaceholderWarningPct escalates PLACEHOLDER_VALUES to warning.
	PlaceholderWarningPct float64
	// DuplicateWarningPct escalates DUPLICATE_ROWS to warning.
	DuplicateWarningPct float64
}

// DefaultThresholds returns the stable rule defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighMissingPct:        30,
		DominantValuePct:      95,
		HighCardinality:       1000,
		IDUniquenessRatio:     0.9,
		MixedTypesPct:         10,
		SkewnessAbs:           2.0,
		ZeroPct:               10,
		WhitespacePct:         1,
		SpecialCharPct:        0.5,
		PlaceholderWarningPct: 10,
		DuplicateWarningPct:   5,
	}
}

// Options controls a profiling run.
type Options struct {
	Thresholds Thresholds
	// TopN is the length of each column's top-values list.
	TopN int
	// TypeSampleSize caps the non-null values sampled for datetime detection
	// and the mixed-type diagnostic.
	TypeSampleSize int
	// StringSampleSize caps the values analyzed for string quality.
	StringSampleSize int
	// StringSampleSeed seeds the string-quality sampler.
	StringSampleSeed int64
	// ExampleCap caps examples per flag.
	ExampleCap int
	// DuplicateSetCap caps the duplicate sets reported; DuplicateExampleCap
	// caps the row indices listed per set.
	DuplicateSetCap     int
	DuplicateExampleCap int
}

// DefaultOptions returns the profiling defaults.
func DefaultOptions() Options {
	return Options{
		Thresholds:          DefaultThresholds(),
		TopN:                5,
		TypeSampleSize:      100,
		StringSampleSize:    1000,
		StringSampleSeed:    42,
		ExampleCap:          5,
		DuplicateSetCap:     5,
		DuplicateExampleCap: 3,
	}
}

// withDefaults fills unset caps. Thresholds are taken as given.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.TypeSampleSize <= 0 {
		o.TypeSampleSize = d.TypeSampleSize
	}
	if o.StringSampleSize <= 0 {
		o.StringSampleSize = d.StringSampleSize
	}
	if o.ExampleCap <= 0 {
		o.ExampleCap = d.ExampleCap
	}
	if o.DuplicateSetCap <= 0 {
		o.DuplicateSetCap = d.DuplicateSetCap
	}
	if o.DuplicateExampleCap <= 0 {
		o.DuplicateExampleCap = d.DuplicateExampleCap
	}
	return o
}
