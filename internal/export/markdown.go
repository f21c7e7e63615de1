package export

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataprof-cli/internal/profile"
)

// Markdown renders a plain-text report in sections: dataset summary,
// duplicates, schema and quality flags.
func Markdown(r *profile.Report) string {
	var b strings.Builder
	ds := r.Dataset

	b.WriteString("[DATASET SUMMARY]\n")
	if ds.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", ds.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", ds.NRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", ds.NColumns))
	b.WriteString(fmt.Sprintf("Memory: %.2f MB\n\n", bytesToMB(ds.MemoryUsageBytes)))

	b.WriteString("[DUPLICATES]\n")
	da := ds.DuplicateAnalysis
	if !da.OK() {
		b.WriteString(fmt.Sprintf("Unavailable: %s\n", da.Error))
	} else {
		b.WriteString(fmt.Sprintf("Unique rows: %d, duplicate rows: %d (%.1f%%)\n",
			da.UniqueRows, da.DuplicateRows, da.DuplicatePct))
		for _, set := range da.Sets {
			vals := make([]string, len(set.Row))
			for i, c := range set.Row {
				vals[i] = fmt.Sprintf("%s=%s", safeName(c.Column), safeVal(c.Value))
			}
			b.WriteString(fmt.Sprintf("- %d× {%s} rows %s\n", set.Count, strings.Join(vals, ", "), joinInts(set.RowIndices)))
		}
	}
	b.WriteString("\n")

	b.WriteString("[SCHEMA]\n")
	for i := range r.Columns {
		writeColumn(&b, &r.Columns[i])
	}

	b.WriteString("\n[QUALITY FLAGS]\n")
	n := 0
	for _, f := range ds.QualityFlags {
		writeFlag(&b, "dataset", f)
		n++
	}
	for _, c := range r.Columns {
		for _, f := range c.QualityFlags {
			writeFlag(&b, safeName(c.Name), f)
			n++
		}
	}
	if n == 0 {
		b.WriteString("No quality issues detected.\n")
	}
	return b.String()
}

func writeColumn(b *strings.Builder, c *profile.ColumnProfile) {
	b.WriteString(fmt.Sprintf("- %s: %s [%s] (non-null %d, missing %.1f%%, unique %d)",
		safeName(c.Name), c.InferredType, c.StorageType, c.NonNullCount, c.MissingPct, c.UniqueCount))
	if ns := c.NumericStats; ns != nil {
		b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g", ns.Min, ns.Max, ns.Mean, ns.Median))
		if ns.Std != nil {
			b.WriteString(fmt.Sprintf(", std %.4g", *ns.Std))
		}
		b.WriteString(fmt.Sprintf("; p25 %.4g, p75 %.4g", ns.P25, ns.P75))
		if ns.Skewness != nil {
			b.WriteString(fmt.Sprintf("; skew %.2f", *ns.Skewness))
		}
	}
	if s := formatDatetime(c.DatetimeStats); s != "" {
		b.WriteString(" — " + s)
	}
	if len(c.TopValues) > 0 {
		b.WriteString(" — top: ")
		for i, tv := range c.TopValues {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s(%d)", safeVal(tv.Value), tv.Count))
		}
	}
	if s := formatStringQuality(c.StringQuality); s != "" {
		b.WriteString(" — " + s)
	}
	if c.Error != "" {
		b.WriteString(fmt.Sprintf(" — ⚠ profiling failed: %s", safeVal(c.Error)))
	}
	b.WriteString("\n")
}

func writeFlag(b *strings.Builder, scope string, f profile.QualityFlag) {
	b.WriteString(fmt.Sprintf("- %s: [%s] %s: %s\n", scope, strings.ToUpper(string(f.Severity)), f.Code, f.Message))
	for _, ex := range f.Examples {
		b.WriteString(fmt.Sprintf("  • row %d: %s\n", ex.Row, safeVal(ex.Value)))
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
