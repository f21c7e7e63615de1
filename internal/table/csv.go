package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// ReadCSV loads a delimited text file. The first record is the header.
func ReadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return readCSV(f, filepath.Base(path), delim, opt)
}

func readCSV(src io.Reader, name string, delim rune, opt LoadOptions) (*Table, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	names := uniqueNames(header)
	ncol := len(names)
	raw := make([][]string, ncol)

	limit := maxRows(opt)
	seen := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", seen+1, err)
		}
		seen++
		if seen > limit {
			continue
		}
		// Short rows are padded with nulls; extra fields are dropped.
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = rec[j]
			}
			raw[j] = append(raw[j], v)
		}
	}
	if seen == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	nulls := nullSet(opt.NullTokens)
	cols := make([]*Column, ncol)
	for j := range names {
		storage, values := typeStrings(raw[j], nulls)
		cols[j] = &Column{Name: names[j], Storage: storage, Values: values}
	}
	t, err := New(name, cols...)
	if err != nil {
		return nil, err
	}
	t.SourceRows = seen
	return t, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Filename heuristic only; the file is read once.
	return ','
}
