package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ReadJSONLines loads one JSON object per line. Columns appear in first-seen
// key order; a key absent from a record is null. Nested objects and arrays
// are kept as map[string]any / []any cells.
func ReadJSONLines(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()
	return readJSONLines(f, filepath.Base(path), opt)
}

func readJSONLines(src io.Reader, name string, opt LoadOptions) (*Table, error) {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)

	var order []string
	index := map[string]int{}
	var records []map[string]any
	limit := maxRows(opt)
	seen := 0
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("line %d: invalid json", line)
		}
		obj := gjson.Parse(text)
		if !obj.IsObject() {
			return nil, fmt.Errorf("line %d: expected a json object", line)
		}
		seen++
		if seen > limit {
			continue
		}
		rec := map[string]any{}
		obj.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, ok := index[k]; !ok {
				index[k] = len(order)
				order = append(order, k)
			}
			rec[k] = jsonValue(value)
			return true
		})
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read jsonl: %w", err)
	}
	if seen == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	cols := make([]*Column, len(order))
	for j, k := range order {
		values := make([]any, len(records))
		for i, rec := range records {
			values[i] = rec[k]
		}
		cols[j] = &Column{Name: k, Storage: settleStorage(values), Values: values}
	}
	t, err := New(name, cols...)
	if err != nil {
		return nil, err
	}
	t.SourceRows = seen
	return t, nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return v.Str
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
				return i
			}
		}
		return v.Float()
	}
	// Objects and arrays.
	return v.Value()
}
