package profile

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

// AttachColumnExamples re-scans the source column and fills up to limit
// examples on each fired flag. Predicates test raw values, never the
// aggregates or samples the firing pass used.
func AttachColumnExamples(flags []QualityFlag, col *table.Column, cp *ColumnProfile, now time.Time, limit int) {
	for i := range flags {
		match := columnPredicate(flags[i].Code, col, cp, now)
		if match == nil {
			continue
		}
		var ex []Example
		for row, v := range col.Values {
			if len(ex) == limit {
				break
			}
			if match(v) {
				ex = append(ex, Example{Row: row, Value: table.Format(v), IsNull: table.IsNull(v)})
			}
		}
		flags[i].Examples = ex
	}
}

// AttachDatasetExamples fills DUPLICATE_ROWS examples with the rows that
// repeat an earlier row.
func AttachDatasetExamples(flags []QualityFlag, t *table.Table, limit int) {
	for i := range flags {
		if flags[i].Code != FlagDuplicateRows {
			continue
		}
		seen := map[string]struct{}{}
		var ex []Example
		var sb strings.Builder
		for row := 0; row < t.NumRows() && len(ex) < limit; row++ {
			k, err := rowKey(t, row, &sb)
			if err != nil {
				break
			}
			if _, dup := seen[k]; dup {
				ex = append(ex, Example{Row: row, Value: formatRow(t, row)})
				continue
			}
			seen[k] = struct{}{}
		}
		flags[i].Examples = ex
	}
}

func columnPredicate(code FlagCode, col *table.Column, cp *ColumnProfile, now time.Time) func(any) bool {
	notNull := func(v any) bool { return !table.IsNull(v) }
	text := func(test func(string) bool) func(any) bool {
		return func(v any) bool { return !table.IsNull(v) && test(table.Format(v)) }
	}
	number := func(test func(float64) bool) func(any) bool {
		return func(v any) bool {
			f, ok := table.Float(v)
			return ok && test(f)
		}
	}

	switch code {
	case FlagHighMissing:
		return table.IsNull
	case FlagConstantColumn, FlagPotentialIDColumn:
		return notNull
	case FlagDominantValue:
		if len(cp.TopValues) == 0 {
			return nil
		}
		top := cp.TopValues[0].key
		return func(v any) bool { return cellKey(v) == top }
	case FlagHighCardinalityCategorical:
		seen := map[string]struct{}{}
		return func(v any) bool {
			if table.IsNull(v) {
				return false
			}
			k := cellKey(v)
			if _, ok := seen[k]; ok {
				return false
			}
			seen[k] = struct{}{}
			return true
		}
	case FlagMixedTypes:
		if cp.MixedTypes == nil {
			return nil
		}
		major := cp.MixedTypes.MajorityKind
		return func(v any) bool { return !table.IsNull(v) && table.KindName(v) != major }
	case FlagSkewedDistribution:
		ns := cp.NumericStats
		if ns == nil || ns.Skewness == nil {
			return nil
		}
		iqr := ns.P75 - ns.P25
		if *ns.Skewness > 0 {
			hi := ns.P75 + 1.5*iqr
			return number(func(f float64) bool { return f > hi })
		}
		lo := ns.P25 - 1.5*iqr
		return number(func(f float64) bool { return f < lo })
	case FlagContainsZeros:
		return number(func(f float64) bool { return f == 0 })
	case FlagContainsNegatives:
		return number(func(f float64) bool { return f < 0 })
	case FlagFutureDates:
		return func(v any) bool {
			t, ok := asTime(v)
			return ok && t.After(now)
		}
	case FlagWhitespaceIssues:
		return text(hasWhitespaceIssue)
	case FlagPlaceholderValues:
		return text(isPlaceholder)
	case FlagInconsistentCasing:
		var all []string
		for _, v := range col.Values {
			if !table.IsNull(v) {
				all = append(all, table.Format(v))
			}
		}
		groups := casingGroups(all)
		fold := cases.Fold()
		return text(func(s string) bool { return groups[fold.String(s)] > 1 })
	case FlagSpecialCharacters:
		return text(hasSpecialChar)
	}
	return nil
}
