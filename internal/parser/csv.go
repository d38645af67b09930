package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Supported text encodings for delimited sources.
const (
	EncUTF8        = "utf-8"
	EncLatin1      = "latin1"
	EncWindows1252 = "windows-1252"
)

// ErrUndecodable is returned when no configured encoding can decode a source.
var ErrUndecodable = errors.New("no configured encoding could decode source")

type csvReader struct{}

func (csvReader) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvReader) Read(path string, opt Options) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	text, enc, err := decode(raw, opt.Encodings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path, text)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Encoding: enc}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	cols := cleanHeader(header)
	return &Table{Columns: cols, Rows: buildRows(cols, records), Encoding: enc}, nil
}

// decode tries each encoding in order. UTF-8 is accepted only when the bytes are valid UTF-8.
func decode(raw []byte, encodings []string) (string, string, error) {
	if len(encodings) == 0 {
		encodings = DefaultOptions().Encodings
	}
	for _, enc := range encodings {
		switch strings.ToLower(enc) {
		case EncUTF8, "utf8":
			if utf8.Valid(raw) {
				return string(bytes.TrimPrefix(raw, []byte("\xEF\xBB\xBF"))), EncUTF8, nil
			}
		case EncLatin1, "iso-8859-1":
			if s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
				return string(s), EncLatin1, nil
			}
		case EncWindows1252, "cp1252":
			if s, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
				return string(s), EncWindows1252, nil
			}
		}
	}
	return "", "", ErrUndecodable
}

// sniffDelimiter picks the most frequent candidate delimiter in the header line.
func sniffDelimiter(path, text string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// DelimiterFromName maps a configured delimiter name to its rune.
func DelimiterFromName(name string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", name)
	}
}
