package table

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads one sheet of a workbook. Native cell types decide the cell
// values: numbers become int64 or float64 (time.Time when the cell carries a
// date number format), booleans bool, ISO dates time.Time, everything else
// string. A column whose cells share one kind gets
// the matching storage type; mixed columns are object storage.
func ReadXLSX(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), path, opt)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmpty)
	}

	names := uniqueNames(rows[0])
	data := rows[1:]
	if limit := maxRows(opt); len(data) > limit {
		data = data[:limit]
	}
	dates := dateStyles{f: f}
	cols := make([]*Column, len(names))
	for j, name := range names {
		values := make([]any, len(data))
		for i, row := range data {
			if j >= len(row) || row[j] == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			ct, err := f.GetCellType(sheet, cell)
			if err != nil {
				ct = excelize.CellTypeUnset
			}
			values[i] = xlsxValue(ct, row[j], dates.isDate(sheet, cell))
		}
		cols[j] = &Column{Name: name, Storage: settleStorage(values), Values: values}
	}

	t, err := New(filepath.Base(path), cols...)
	if err != nil {
		return nil, err
	}
	t.SourceRows = len(rows) - 1
	return t, nil
}

func pickSheet(sheets []string, path string, opt LoadOptions) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range: workbook '%s' has %d sheets",
			idx, filepath.Base(path), len(sheets))
	}
	return sheets[idx-1], nil
}

func xlsxValue(ct excelize.CellType, raw string, date bool) any {
	switch ct {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Numbers are usually written without a type attribute.
		if date {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				if t, err := excelize.ExcelDateToTime(f, false); err == nil {
					return t
				}
			}
		}
		if !strings.ContainsAny(raw, ".eE") {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return i
			}
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return raw
}

// dateStyles remembers which cell style ids carry a date number format.
type dateStyles struct {
	f    *excelize.File
	seen map[int]bool
}

func (d *dateStyles) isDate(sheet, cell string) bool {
	idx, err := d.f.GetCellStyle(sheet, cell)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.seen[idx]; ok {
		return v
	}
	if d.seen == nil {
		d.seen = map[int]bool{}
	}
	st, err := d.f.GetStyle(idx)
	v := err == nil && st != nil && isDateFormat(st.NumFmt, st.CustomNumFmt)
	d.seen[idx] = v
	return v
}

// isDateFormat reports whether a built-in id or custom format code renders
// dates.
func isDateFormat(id int, custom *string) bool {
	if custom != nil {
		code := strings.ToLower(*custom)
		return strings.Contains(code, "yy") || strings.Contains(code, "dd") || strings.Contains(code, "h:mm")
	}
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// settleStorage derives a storage type from the kinds present, widening int
// columns that also hold floats.
func settleStorage(values []any) StorageType {
	kinds := map[Kind]int{}
	for _, v := range values {
		if k := KindOf(v); k != KindNull {
			kinds[k]++
		}
	}
	if len(kinds) == 2 && kinds[KindInt] > 0 && kinds[KindFloat] > 0 {
		for i, v := range values {
			if n, ok := v.(int64); ok {
				values[i] = float64(n)
			}
		}
		return StorageFloat64
	}
	if len(kinds) != 1 {
		return StorageObject
	}
	for k := range kinds {
		switch k {
		case KindInt:
			return StorageInt64
		case KindFloat:
			return StorageFloat64
		case KindBool:
			return StorageBool
		case KindTime:
			return StorageDatetime
		}
	}
	return StorageObject
}
