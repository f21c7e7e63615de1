package profile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

type dupGroup struct {
	rows []int
}

// rowKey builds a collision-free key for row i by length-prefixing each
// cell key. It fails when a cell cannot be compared for equality.
func rowKey(t *table.Table, i int, b *strings.Builder) (string, error) {
	b.Reset()
	for _, c := range t.Columns {
		k, ok := table.Key(c.Values[i])
		if !ok {
			return "", fmt.Errorf("column %q row %d holds an unhashable %s value",
				c.Name, i, table.KindName(c.Values[i]))
		}
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String(), nil
}

func duplicatesUnavailable(n int, err error) DuplicateAnalysis {
	return DuplicateAnalysis{
		TotalRows:     n,
		UniqueRows:    -1,
		DuplicateRows: -1,
		Sets:          []DuplicateSet{},
		Error:         "duplicate detection unavailable: " + err.Error(),
	}
}

// DetectDuplicates counts exact duplicate rows over all columns. Null equals
// null. Duplicate sets are ordered by size, largest first, then by first
// occurrence; at most setCap sets are kept with up to exampleCap row indices
// each. When any cell is unhashable, or the columns differ in length, the
// analysis carries an error and -1 counts instead of failing the run.
func DetectDuplicates(t *table.Table, setCap, exampleCap int) DuplicateAnalysis {
	n := t.NumRows()
	if err := t.Validate(); err != nil {
		return duplicatesUnavailable(n, err)
	}
	da := DuplicateAnalysis{TotalRows: n, Sets: []DuplicateSet{}}

	index := map[string]int{}
	var groups []*dupGroup
	var b strings.Builder
	for i := 0; i < n; i++ {
		k, err := rowKey(t, i, &b)
		if err != nil {
			return duplicatesUnavailable(n, err)
		}
		if gi, ok := index[k]; ok {
			groups[gi].rows = append(groups[gi].rows, i)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, &dupGroup{rows: []int{i}})
	}

	da.UniqueRows = len(groups)
	da.DuplicateRows = n - da.UniqueRows
	da.DuplicatePct = pct(da.DuplicateRows, n)

	var dups []*dupGroup
	for _, g := range groups {
		if len(g.rows) > 1 {
			dups = append(dups, g)
		}
	}
	// Groups are in first-occurrence order; a stable sort keeps it for ties.
	sort.SliceStable(dups, func(a, b int) bool { return len(dups[a].rows) > len(dups[b].rows) })
	if len(dups) > setCap {
		dups = dups[:setCap]
	}
	for _, g := range dups {
		first := g.rows[0]
		cells := make([]Cell, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = Cell{Column: c.Name, Value: table.Format(c.Values[first])}
		}
		idx := g.rows
		if len(idx) > exampleCap {
			idx = idx[:exampleCap]
		}
		da.Sets = append(da.Sets, DuplicateSet{
			Row:        cells,
			Count:      len(g.rows),
			RowIndices: append([]int(nil), idx...),
		})
	}
	return da
}

// formatRow renders row i as "a | b | c".
func formatRow(t *table.Table, i int) string {
	parts := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		parts[j] = table.Format(c.Values[i])
	}
	return strings.Join(parts, " | ")
}
