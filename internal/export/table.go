package export

import (
	"fmt"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/KaramelBytes/dataprof-cli/internal/profile"
)

// Table renders the dataset summary and one line per column as terminal
// tables.
func Table(r *profile.Report) string {
	d := DatasetSummary(r)
	ds := prettytable.NewWriter()
	ds.SetTitle(r.Dataset.Name)
	ds.AppendHeader(prettytable.Row{"Rows", "Columns", "Memory (MB)", "Unique Rows", "Duplicate Rows", "Duplicate %"})
	dupRows, dupPct := fmt.Sprint(d.DuplicateRows), fmt.Sprintf("%.2f", d.DuplicatePct)
	uniq := fmt.Sprint(d.UniqueRows)
	if !r.Dataset.DuplicateAnalysis.OK() {
		uniq, dupRows, dupPct = "n/a", "n/a", "n/a"
	}
	ds.AppendRow(prettytable.Row{d.TotalRows, d.TotalColumns, fmt.Sprintf("%.2f", d.MemoryMB), uniq, dupRows, dupPct})
	ds.SetStyle(prettytable.StyleLight)

	cols := prettytable.NewWriter()
	cols.AppendHeader(prettytable.Row{"Column", "Type", "Storage", "Missing %", "Unique", "Top Values", "Quality Flags"})
	for _, s := range SummaryRows(r) {
		cols.AppendRow(prettytable.Row{
			s.Column, s.Type, s.StorageType, fmt.Sprintf("%.2f", s.MissingPct),
			s.UniqueCount, s.TopValues, s.QualityFlags,
		})
	}
	cols.SetStyle(prettytable.StyleLight)

	return ds.Render() + "\n" + cols.Render() + "\n"
}
