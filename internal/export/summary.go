// Package export renders profiling reports for people and downstream tools.
//
// String-quality percentages are relative to the analyzed sample, which is
// smaller than the column when sampling applied; every renderer marks it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/dataprof-cli/internal/profile"
)

const (
	maxTopDisplay  = 3
	maxValueLength = 20
)

// SummaryHeader names the SummaryRow fields in CSV order.
var SummaryHeader = []string{
	"Column", "Type", "Storage Type", "Missing %", "Null Count", "Non-Null Count",
	"Unique Count", "Top Values", "Numeric Stats", "Datetime Range", "String Quality",
	"Quality Flags",
}

// SummaryRow is one column of a report flattened for tabular output.
type SummaryRow struct {
	Column        string
	Type          string
	StorageType   string
	MissingPct    float64
	NullCount     int
	NonNullCount  int
	UniqueCount   int
	TopValues     string
	NumericStats  string
	DatetimeRange string
	StringQuality string
	QualityFlags  string
}

// Strings returns the row in SummaryHeader order.
func (s SummaryRow) Strings() []string {
	return []string{
		s.Column, s.Type, s.StorageType,
		strconv.FormatFloat(s.MissingPct, 'f', -1, 64),
		strconv.Itoa(s.NullCount), strconv.Itoa(s.NonNullCount), strconv.Itoa(s.UniqueCount),
		s.TopValues, s.NumericStats, s.DatetimeRange, s.StringQuality, s.QualityFlags,
	}
}

// SummaryRows flattens every column profile in report order.
func SummaryRows(r *profile.Report) []SummaryRow {
	rows := make([]SummaryRow, 0, len(r.Columns))
	for i := range r.Columns {
		c := &r.Columns[i]
		rows = append(rows, SummaryRow{
			Column:        c.Name,
			Type:          c.InferredType.String(),
			StorageType:   c.StorageType,
			MissingPct:    c.MissingPct,
			NullCount:     c.NullCount,
			NonNullCount:  c.NonNullCount,
			UniqueCount:   c.UniqueCount,
			TopValues:     formatTopValues(c.TopValues),
			NumericStats:  formatNumeric(c.NumericStats),
			DatetimeRange: formatDatetime(c.DatetimeStats),
			StringQuality: formatStringQuality(c.StringQuality),
			QualityFlags:  formatFlagCodes(c.QualityFlags),
		})
	}
	return rows
}

// WriteSummaryCSV writes a header line and one record per row.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("write csv row %q: %w", row.Column, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DatasetRow is the dataset-level summary for export.
type DatasetRow struct {
	TotalRows     int
	TotalColumns  int
	MemoryMB      float64
	UniqueRows    int
	DuplicateRows int
	DuplicatePct  float64
}

// DatasetSummary extracts the dataset-level export row.
func DatasetSummary(r *profile.Report) DatasetRow {
	da := r.Dataset.DuplicateAnalysis
	return DatasetRow{
		TotalRows:     r.Dataset.NRows,
		TotalColumns:  r.Dataset.NColumns,
		MemoryMB:      bytesToMB(r.Dataset.MemoryUsageBytes),
		UniqueRows:    da.UniqueRows,
		DuplicateRows: da.DuplicateRows,
		DuplicatePct:  da.DuplicatePct,
	}
}

func bytesToMB(n int64) float64 {
	mb := float64(n) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}

func formatTopValues(top []profile.TopValue) string {
	if len(top) == 0 {
		return ""
	}
	parts := make([]string, 0, maxTopDisplay)
	for i, tv := range top {
		if i == maxTopDisplay {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", truncate(tv.Value), tv.Pct))
	}
	out := strings.Join(parts, ", ")
	if len(top) > maxTopDisplay {
		out += "..."
	}
	return out
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxValueLength {
		return string(r[:maxValueLength-3]) + "..."
	}
	return s
}

func formatNumeric(ns *profile.NumericStats) string {
	if ns == nil {
		return ""
	}
	parts := []string{
		fmt.Sprintf("min: %.2f", ns.Min),
		fmt.Sprintf("max: %.2f", ns.Max),
		fmt.Sprintf("mean: %.2f", ns.Mean),
	}
	if ns.Skewness != nil {
		parts = append(parts, fmt.Sprintf("skew: %.2f", *ns.Skewness))
	}
	if ns.ZeroPct > 0 {
		parts = append(parts, fmt.Sprintf("zeros: %.1f%%", ns.ZeroPct))
	}
	if ns.NegativePct > 0 {
		parts = append(parts, fmt.Sprintf("negatives: %.1f%%", ns.NegativePct))
	}
	return strings.Join(parts, ", ")
}

func datePart(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

func formatDatetime(ds *profile.DatetimeStats) string {
	if ds == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("%s to %s", datePart(ds.Min), datePart(ds.Max))}
	if ds.FutureCount > 0 {
		parts = append(parts, fmt.Sprintf("⚠ %d future dates", ds.FutureCount))
	}
	return strings.Join(parts, "; ")
}

func formatStringQuality(sq *profile.StringQualityStats) string {
	if sq == nil {
		return ""
	}
	var parts []string
	if sq.WhitespacePct > 0 {
		parts = append(parts, fmt.Sprintf("whitespace: %.1f%%", sq.WhitespacePct))
	}
	if sq.PlaceholderPct > 0 {
		parts = append(parts, fmt.Sprintf("placeholders: %.1f%%", sq.PlaceholderPct))
	}
	if sq.CasingIssues {
		parts = append(parts, "casing issues")
	}
	if sq.SpecialCharPct > 0 {
		parts = append(parts, fmt.Sprintf("special chars: %.1f%%", sq.SpecialCharPct))
	}
	if len(parts) > 0 && sq.Sampled {
		parts = append(parts, fmt.Sprintf("sample of %d", sq.SampleSize))
	}
	return strings.Join(parts, "; ")
}

// flagTitle turns HIGH_MISSING into "High Missing".
func flagTitle(code profile.FlagCode) string {
	s := strings.ToLower(strings.ReplaceAll(string(code), "_", " "))
	return cases.Title(language.English).String(s)
}

func formatFlagCodes(flags []profile.QualityFlag) string {
	if len(flags) == 0 {
		return ""
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = flagTitle(f.Code)
	}
	return strings.Join(parts, "; ")
}
