package table

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadOptions controls ingestion.
type LoadOptions struct {
	// Delimiter for CSV. If 0, sniffed from the file extension.
	Delimiter rune
	// MaxRows caps loaded rows; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
	// NullTokens are raw cell texts read as null in CSV files. The empty
	// string is always null.
	NullTokens []string
}

// DefaultLoadOptions returns the ingestion defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000, SheetIndex: 1}
}

// Load reads a table from path, choosing the loader by extension.
func Load(path string, opt LoadOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return ReadCSV(path, opt)
	case ".xlsx":
		return ReadXLSX(path, opt)
	case ".jsonl", ".ndjson":
		return ReadJSONLines(path, opt)
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func maxRows(opt LoadOptions) int {
	if opt.MaxRows <= 0 {
		return int(^uint(0) >> 1)
	}
	return opt.MaxRows
}

func nullSet(tokens []string) map[string]struct{} {
	m := map[string]struct{}{"": {}}
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// typeStrings picks a storage type for a column of raw text cells and
// converts them. Every non-null cell must parse for a typed storage to win.
func typeStrings(raw []string, nulls map[string]struct{}) (StorageType, []any) {
	isInt, isFloat, isBool := true, true, true
	nonNull := 0
	for _, s := range raw {
		if _, ok := nulls[s]; ok {
			continue
		}
		nonNull++
		v := strings.TrimSpace(s)
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			l := strings.ToLower(v)
			if l != "true" && l != "false" {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}
	storage := StorageObject
	switch {
	case nonNull == 0:
	case isInt:
		storage = StorageInt64
	case isFloat:
		storage = StorageFloat64
	case isBool:
		storage = StorageBool
	}

	out := make([]any, len(raw))
	for i, s := range raw {
		if _, ok := nulls[s]; ok {
			continue
		}
		v := strings.TrimSpace(s)
		switch storage {
		case StorageInt64:
			out[i], _ = strconv.ParseInt(v, 10, 64)
		case StorageFloat64:
			out[i], _ = strconv.ParseFloat(v, 64)
		case StorageBool:
			out[i] = strings.EqualFold(v, "true")
		default:
			out[i] = s
		}
	}
	return storage, out
}

// uniqueNames fills blank headers and suffixes repeated ones so that column
// names stay unique. A generated name skips any name already taken.
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	taken := map[string]bool{}
	next := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if taken[name] {
			base := name
			n := max(next[base], 1)
			for taken[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}
		taken[name] = true
		out[i] = name
	}
	return out
}
