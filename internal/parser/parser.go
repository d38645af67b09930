package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Row maps a column name to its raw cell value. Null cells are nil.
type Row map[string]any

// Table is one tabular source: named columns and opaque rows.
type Table struct {
	Name    string
	Path    string
	Columns []string
	Rows    []Row
	// Encoding records which text encoding decoded a delimited source.
	Encoding string
	// Sheet records which worksheet a spreadsheet source was read from.
	Sheet string
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Options controls how sources are decoded.
type Options struct {
	// Encodings are tried in order for delimited text. Empty means utf-8, latin1, windows-1252.
	Encodings []string
	// Delimiter for delimited text. If 0, sniffed from the header line.
	Delimiter rune
	// SheetName selects a worksheet. Empty reads the first sheet.
	SheetName string
}

// DefaultOptions returns the encoding fallback chain and automatic delimiter.
func DefaultOptions() Options {
	return Options{Encodings: []string{EncUTF8, EncLatin1, EncWindows1252}}
}

// Reader reads one tabular file format.
type Reader interface {
	CanRead(path string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ReadFile selects a reader based on filename and returns the parsed table.
func ReadFile(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			t, err := r.Read(path, opt)
			if err != nil {
				return nil, err
			}
			if t.Name == "" {
				t.Name = filepath.Base(path)
			}
			t.Path = path
			return t, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
}

// ColumnUnion returns every column name seen across tables, in first-seen order.
func ColumnUnion(tables []*Table) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported source format")

// nullTokens mirrors the usual spreadsheet-tool NA markers.
var nullTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true, "n/a": true, "nan": true, "null": true,
}

// cell converts a raw text cell to nil when it is a null marker.
func cell(s string) any {
	if nullTokens[strings.TrimSpace(s)] {
		return nil
	}
	return s
}

func buildRows(header []string, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = cell(rec[i])
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func cleanHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
