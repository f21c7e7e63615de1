// Package table holds the column-oriented input model consumed by the
// profiler, and the loaders that build it from CSV, XLSX and JSON Lines files.
package table

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StorageType is the declared storage representation of a column.
type StorageType uint8

const (
	// StorageObject is generic storage; cells may hold any kind.
	StorageObject StorageType = iota
	StorageInt64
	StorageFloat64
	StorageBool
	StorageDatetime
)

func (s StorageType) String() string {
	switch s {
	case StorageInt64:
		return "int64"
	case StorageFloat64:
		return "float64"
	case StorageBool:
		return "bool"
	case StorageDatetime:
		return "datetime"
	}
	return "object"
}

// IsNumeric reports whether s is a native numeric kind.
func (s StorageType) IsNumeric() bool { return s == StorageInt64 || s == StorageFloat64 }

func (s StorageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Column is a named, ordered sequence of nullable cells.
type Column struct {
	Name    string
	Storage StorageType
	Values  []any
}

// Table is a column-oriented dataset snapshot.
type Table struct {
	Name    string
	Columns []*Column
	// SourceRows counts the data rows seen at the source. It exceeds NumRows
	// when a loader stopped at its row cap.
	SourceRows int
}

var (
	// ErrEmpty is returned when a source has no data rows.
	ErrEmpty = errors.New("table has no data rows")
	// ErrUnsupported indicates a file format the loaders cannot read.
	ErrUnsupported = errors.New("unsupported table format")
)

// New builds a table, checking that column names are unique and that every
// column has the same length.
func New(name string, cols ...*Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	n := -1
	for _, c := range cols {
		if c == nil {
			return nil, errors.New("nil column")
		}
		if _, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if n >= 0 && len(c.Values) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), n)
		}
		n = len(c.Values)
	}
	if n < 0 {
		n = 0
	}
	return &Table{Name: name, Columns: cols, SourceRows: n}, nil
}

// NumRows returns the number of loaded rows, taken from the first column.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 || t.Columns[0] == nil {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Validate checks that every column is present and holds NumRows values.
// Tables built with New always pass.
func (t *Table) Validate() error {
	n := t.NumRows()
	for i, c := range t.Columns {
		if c == nil {
			return fmt.Errorf("column %d is nil", i)
		}
		if len(c.Values) != n {
			return fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), n)
		}
	}
	return nil
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Column looks a column up by name.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Truncated reports whether rows were dropped at ingestion.
func (t *Table) Truncated() bool { return t.SourceRows > t.NumRows() }

// Per-cell sizes used by EstimateMemory.
const (
	ifaceBytes  = 16
	scalarBytes = 8
	stringHdr   = 16
	timeBytes   = 24
	nestedBytes = 64
)

// EstimateMemory approximates the in-memory footprint of the table in bytes:
// an interface header per cell plus the boxed payload.
func (t *Table) EstimateMemory() int64 {
	var total int64
	for _, c := range t.Columns {
		if c == nil {
			continue
		}
		total += int64(len(c.Name))
		for _, v := range c.Values {
			total += ifaceBytes
			switch KindOf(v) {
			case KindNull:
				if v != nil {
					total += scalarBytes
				}
			case KindInt, KindFloat, KindBool:
				total += scalarBytes
			case KindString:
				total += stringHdr + int64(len(v.(string)))
			case KindTime:
				total += timeBytes
			default:
				total += nestedBytes
			}
		}
	}
	return total
}
