package profile

import "github.com/KaramelBytes/dataprof-cli/internal/table"

// categoricalRatio is the unique/rows ratio under which generic text is
// categorical.
const categoricalRatio = 0.05

// InferType classifies a column. Native storage decides directly; generic
// storage is probed for datetimes on the first sampleSize non-null values,
// then split into categorical or text by uniqueness over all rows.
func InferType(col *table.Column, uniqueCount, sampleSize int) SemanticType {
	if col.Storage.IsNumeric() {
		return TypeNumeric
	}
	switch col.Storage {
	case table.StorageDatetime:
		return TypeDatetime
	case table.StorageBool:
		return TypeBoolean
	}

	sample := nonNullHead(col.Values, sampleSize)
	if len(sample) == 0 {
		return TypeUnknown
	}
	parsed := 0
	for _, v := range sample {
		if _, ok := asTime(v); ok {
			parsed++
		}
	}
	if parsed*2 > len(sample) {
		return TypeDatetime
	}
	rows := len(col.Values)
	if rows == 0 {
		return TypeUnknown
	}
	if float64(uniqueCount)/float64(rows) < categoricalRatio {
		return TypeCategorical
	}
	return TypeText
}

// nonNullHead returns up to n non-null values in encounter order.
func nonNullHead(values []any, n int) []any {
	out := make([]any, 0, min(n, len(values)))
	for _, v := range values {
		if len(out) == n {
			break
		}
		if !table.IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}
