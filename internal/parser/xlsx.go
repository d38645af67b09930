package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// Read loads the selected (or first) worksheet from stored cell values.
// Numbers come back as float64, booleans as bool, and numbers under a
// date or time format as "HH:MM:SS" text.
func (xlsxReader) Read(path string, opt Options) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := opt.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{Sheet: sheet}, nil
	}
	cols := cleanHeader(rows[0])
	sc := &sheetCells{f: f, sheet: sheet, timeStyle: map[int]bool{}}
	out := make([]Row, 0, len(rows)-1)
	for r, rec := range rows[1:] {
		row := make(Row, len(cols))
		for c, col := range cols {
			if c >= len(rec) {
				row[col] = nil
				continue
			}
			v, err := sc.value(c+1, r+2, rec[c])
			if err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return &Table{Columns: cols, Rows: out, Sheet: sheet}, nil
}

type sheetCells struct {
	f     *excelize.File
	sheet string
	// style index -> date/time number format
	timeStyle map[int]bool
}

// value types one raw cell at 1-based (col, row).
func (s *sheetCells) value(col, row int, raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := s.f.GetCellType(s.sheet, name)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return cell(raw), nil
		}
		isTime, err := s.isTime(name)
		if err != nil {
			return nil, err
		}
		if isTime {
			return dayFractionText(n), nil
		}
		return n, nil
	default:
		return cell(raw), nil
	}
}

func (s *sheetCells) isTime(name string) (bool, error) {
	idx, err := s.f.GetCellStyle(s.sheet, name)
	if err != nil {
		return false, err
	}
	if v, ok := s.timeStyle[idx]; ok {
		return v, nil
	}
	st, err := s.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	var v bool
	if st.CustomNumFmt != nil {
		v = isTimeFormatCode(*st.CustomNumFmt)
	} else {
		v = builtinTimeFormats[st.NumFmt]
	}
	s.timeStyle[idx] = v
	return v, nil
}

// Built-in number formats that render dates or times.
var builtinTimeFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

var (
	reQuoted  = regexp.MustCompile(`"[^"]*"|\\.`)
	reBracket = regexp.MustCompile(`\[[^\]]*\]`)
	reElapsed = regexp.MustCompile(`^\[[hms]+\]$`)
)

// isTimeFormatCode reports whether a custom number format shows a date or time.
func isTimeFormatCode(code string) bool {
	code = reQuoted.ReplaceAllString(strings.ToLower(code), "")
	code = reBracket.ReplaceAllStringFunc(code, func(b string) string {
		if reElapsed.MatchString(b) {
			return b
		}
		return ""
	})
	return strings.ContainsAny(code, "hsdy")
}

// dayFractionText renders a serial day value as elapsed "HH:MM:SS[.fff]".
func dayFractionText(days float64) any {
	secs := math.Round(days*86400*1000) / 1000
	if secs < 0 {
		return secs
	}
	whole := math.Floor(secs)
	n := int64(whole)
	text := fmt.Sprintf("%02d:%02d:%02d", n/3600, n%3600/60, n%60)
	if frac := math.Round((secs-whole)*1000) / 1000; frac > 0 {
		text += strings.TrimPrefix(strconv.FormatFloat(frac, 'f', -1, 64), "0")
	}
	return text
}
