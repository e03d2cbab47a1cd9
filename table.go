package vepbench

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// Table is a fully materialized delimited text file. Header names are
// normalized (surrounding whitespace and a leading '#' stripped, lowercased)
// so that headers like "#CHROM" and "chrom" address the same column. Rows
// holds the data rows in file order.
type Table struct {
	Path   string
	Header map[string]int
	Rows   [][]string
}

// ReadTable loads path into memory, inferring the delimiter from the file
// extension. It returns EmptyDatasetError when the file holds no rows at
// all, but a header-only file is returned with zero Rows; callers decide
// whether that is fatal.
func ReadTable(path string) (*Table, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := DelimiterForPath(path, bytes.NewReader(fileBytes))

	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	entries, err := cr.ReadAll()
	if err != nil {
		return nil, SchemaError{File: path, Reason: "unparseable delimited text", Err: err}
	}

	if len(entries) == 0 {
		return nil, EmptyDatasetError{File: path}
	}

	t := &Table{
		Path:   path,
		Header: make(map[string]int),
		Rows:   entries[1:],
	}

	for i, name := range entries[0] {
		t.Header[normalizeColumn(name)] = i
	}

	return t, nil
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.Header[name]
	return i, ok
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if _, ok := t.Header[name]; !ok {
			return false
		}
	}
	return true
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
}
