package profile

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

// maxPlaceholderValues caps the distinct placeholders listed per column.
const maxPlaceholderValues = 10

// placeholders are matched against the trimmed, case-folded value.
var placeholders = map[string]struct{}{
	"n/a": {}, "na": {}, "null": {}, "none": {}, "unknown": {}, "tbd": {},
	"pending": {}, "not available": {}, "not applicable": {}, "#n/a": {},
	"nan": {}, "nil": {}, "": {}, "--": {}, "?": {}, "missing": {},
	"n.a.": {}, "n.a": {}, `n\a`: {},
}

func isPlaceholder(s string) bool {
	_, ok := placeholders[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func hasWhitespaceIssue(s string) bool {
	return len(strings.TrimSpace(s)) != len(s)
}

// isPrintable reports whether r is printable ASCII or common whitespace.
func isPrintable(r rune) bool {
	if r >= 0x20 && r <= 0x7e {
		return true
	}
	switch r {
	case '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func hasSpecialChar(s string) bool {
	for _, r := range s {
		if !isPrintable(r) {
			return true
		}
	}
	return false
}

// foldable reports whether every special rune in s transliterates to ASCII.
func foldable(s string) bool {
	for _, r := range s {
		if isPrintable(r) {
			continue
		}
		if strings.TrimSpace(unidecode.Unidecode(string(r))) == "" {
			return false
		}
	}
	return true
}

// casingGroups maps each case-folded form to the number of distinct
// original spellings seen for it.
func casingGroups(values []string) map[string]int {
	fold := cases.Fold()
	variants := map[string]map[string]struct{}{}
	for _, s := range values {
		k := fold.String(s)
		set, ok := variants[k]
		if !ok {
			set = map[string]struct{}{}
			variants[k] = set
		}
		set[s] = struct{}{}
	}
	out := make(map[string]int, len(variants))
	for k, set := range variants {
		out[k] = len(set)
	}
	return out
}

// AnalyzeStrings computes hygiene metrics over the non-null values of a
// text-like column. Above sampleCap values, a seeded uniform sample without
// replacement is analyzed instead and every metric is relative to it. It
// returns nil when the column has no non-null values.
func AnalyzeStrings(values []any, sampleCap int, seed int64) *StringQualityStats {
	all := make([]string, 0, len(values))
	for _, v := range values {
		if !table.IsNull(v) {
			all = append(all, table.Format(v))
		}
	}
	if len(all) == 0 {
		return nil
	}
	sample, sampled := sampleStrings(all, sampleCap, seed)

	sq := &StringQualityStats{
		SampleSize:        len(sample),
		Sampled:           sampled,
		PlaceholderValues: []string{},
	}
	seenPlaceholder := map[string]struct{}{}
	for _, s := range sample {
		if hasWhitespaceIssue(s) {
			sq.WhitespaceCount++
		}
		if isPlaceholder(s) {
			sq.PlaceholderCount++
			if _, ok := seenPlaceholder[s]; !ok && len(sq.PlaceholderValues) < maxPlaceholderValues {
				seenPlaceholder[s] = struct{}{}
				sq.PlaceholderValues = append(sq.PlaceholderValues, s)
			}
		}
		if hasSpecialChar(s) {
			sq.SpecialCharCount++
			if foldable(s) {
				sq.FoldableSpecialCount++
			}
		}
	}
	for _, n := range casingGroups(sample) {
		if n > 1 {
			sq.CasingIssueCount++
		}
	}
	sq.CasingIssues = sq.CasingIssueCount > 0
	sq.WhitespacePct = pct(sq.WhitespaceCount, sq.SampleSize)
	sq.PlaceholderPct = pct(sq.PlaceholderCount, sq.SampleSize)
	sq.SpecialCharPct = pct(sq.SpecialCharCount, sq.SampleSize)
	return sq
}

// sampleStrings draws n values without replacement, preserving their
// original order. The same seed always selects the same positions.
func sampleStrings(all []string, n int, seed int64) ([]string, bool) {
	if n <= 0 || len(all) <= n {
		return all, false
	}
	r := rand.New(rand.NewSource(seed))
	idx := r.Perm(len(all))[:n]
	sort.Ints(idx)
	out := make([]string, n)
	for i, j := range idx {
		out[i] = all[j]
	}
	return out, true
}
