package profile

import (
	"fmt"
	"math"
	"strings"
)

// amountKeywords mark columns where negative values are suspicious.
var amountKeywords = []string{"amount", "price", "cost", "quantity", "count", "total"}

// IsIDLikeName reports whether a column name looks like an identifier:
// "id", anything ending in "_id", or anything ending in "id" at all. The last
// clause also matches words such as "valid" or "paid".
func IsIDLikeName(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return n == "id" || strings.HasSuffix(n, "_id") || strings.HasSuffix(n, "id")
}

func isAmountLike(name string) bool {
	n := strings.ToLower(name)
	for _, k := range amountKeywords {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}

func intp(n int) *int { return &n }

// EvaluateColumn runs every column rule against a finished profile and
// returns the flags that fire, in rule order. It reads only the profile.
func EvaluateColumn(cp *ColumnProfile, totalRows int, th Thresholds) []QualityFlag {
	flags := []QualityFlag{}
	add := func(code FlagCode, sev Severity, count *int, format string, args ...any) {
		flags = append(flags, QualityFlag{
			Code:     code,
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
			Count:    count,
		})
	}

	if cp.MissingPct >= th.HighMissingPct {
		add(FlagHighMissing, SeverityWarning, intp(cp.NullCount),
			"High missing rate: %.1f%% of values are null", cp.MissingPct)
	}
	if cp.UniqueCount == 1 {
		add(FlagConstantColumn, SeverityInfo, nil, "Column has a single unique value")
	}
	if len(cp.TopValues) > 0 && cp.TopValues[0].Pct >= th.DominantValuePct {
		add(FlagDominantValue, SeverityInfo, intp(cp.TopValues[0].Count),
			"One value represents %.1f%% of rows", cp.TopValues[0].Pct)
	}
	if (cp.InferredType == TypeCategorical || cp.InferredType == TypeText) && cp.UniqueCount > th.HighCardinality {
		add(FlagHighCardinalityCategorical, SeverityWarning, intp(cp.UniqueCount),
			"High cardinality categorical/text column (%d unique values)", cp.UniqueCount)
	}
	if totalRows > 0 && float64(cp.UniqueCount)/float64(totalRows) > th.IDUniquenessRatio && IsIDLikeName(cp.Name) {
		add(FlagPotentialIDColumn, SeverityInfo, nil, "Column looks like a unique identifier")
	}
	if mt := cp.MixedTypes; mt != nil && mt.HasMixedTypes && mt.MixedTypePct >= th.MixedTypesPct {
		kinds := make([]string, len(mt.TypeCounts))
		for i, kc := range mt.TypeCounts {
			kinds[i] = kc.Kind
		}
		add(FlagMixedTypes, SeverityWarning, nil,
			"Column contains mixed data types: %s", strings.Join(kinds, ", "))
	}

	if ns := cp.NumericStats; ns != nil {
		if ns.Skewness != nil && math.Abs(*ns.Skewness) > th.SkewnessAbs {
			dir := "right"
			if *ns.Skewness < 0 {
				dir = "left"
			}
			add(FlagSkewedDistribution, SeverityInfo, nil,
				"Distribution is heavily %s-skewed (skewness %.2f)", dir, *ns.Skewness)
		}
		if ns.ZeroPct > th.ZeroPct {
			add(FlagContainsZeros, SeverityInfo, intp(ns.ZeroCount),
				"%.1f%% of values are zero", ns.ZeroPct)
		}
		if ns.NegativeCount > 0 && isAmountLike(cp.Name) {
			add(FlagContainsNegatives, SeverityWarning, intp(ns.NegativeCount),
				"%d negative values in an amount-like column", ns.NegativeCount)
		}
	}

	if ds := cp.DatetimeStats; ds != nil && ds.FutureCount > 0 {
		add(FlagFutureDates, SeverityWarning, intp(ds.FutureCount),
			"%d dates are in the future (latest %s)", ds.FutureCount, ds.MaxFuture)
	}

	if sq := cp.StringQuality; sq != nil {
		if sq.WhitespacePct > th.WhitespacePct {
			add(FlagWhitespaceIssues, SeverityWarning, intp(sq.WhitespaceCount),
				"%.1f%% of sampled values have leading or trailing whitespace", sq.WhitespacePct)
		}
		if sq.PlaceholderPct > 0 {
			sev := SeverityInfo
			if sq.PlaceholderPct >= th.PlaceholderWarningPct {
				sev = SeverityWarning
			}
			add(FlagPlaceholderValues, sev, intp(sq.PlaceholderCount),
				"%.1f%% of sampled values are placeholders (%s)",
				sq.PlaceholderPct, strings.Join(sq.PlaceholderValues, ", "))
		}
		if sq.CasingIssues {
			add(FlagInconsistentCasing, SeverityInfo, intp(sq.CasingIssueCount),
				"%d value groups differ only by casing", sq.CasingIssueCount)
		}
		if sq.SpecialCharPct > th.SpecialCharPct {
			add(FlagSpecialCharacters, SeverityInfo, intp(sq.SpecialCharCount),
				"%.1f%% of sampled values contain non-printable or non-ASCII characters", sq.SpecialCharPct)
		}
	}
	return flags
}

// EvaluateDataset runs the dataset-level rules. A failed duplicate analysis
// never fires.
func EvaluateDataset(da DuplicateAnalysis, th Thresholds) []QualityFlag {
	flags := []QualityFlag{}
	if da.OK() && da.DuplicatePct > 0 {
		sev := SeverityInfo
		if da.DuplicatePct >= th.DuplicateWarningPct {
			sev = SeverityWarning
		}
		flags = append(flags, QualityFlag{
			Code:     FlagDuplicateRows,
			Severity: sev,
			Message: fmt.Sprintf("%d duplicate rows (%.1f%% of rows)",
				da.DuplicateRows, da.DuplicatePct),
			Count: intp(da.DuplicateRows),
		})
	}
	return flags
}
