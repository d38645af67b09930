package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/timestudy-cli/internal/records"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes pivot and report side by side, separated by one blank column,
// prefixed with a UTF-8 BOM for Excel.
func WriteCSV(w io.Writer, pivot, report *Table) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	width := pivot.Width() + 1 + report.Width()
	n := len(pivot.Rows)
	if len(report.Rows) > n {
		n = len(report.Rows)
	}
	line := make([]string, width)
	fill := func(off int, cells []any, ncols int) {
		for i := 0; i < ncols; i++ {
			line[off+i] = ""
			if i < len(cells) {
				line[off+i] = cellText(cells[i])
			}
		}
	}
	headerRow := func(h []string) []any {
		out := make([]any, len(h))
		for i, s := range h {
			out[i] = s
		}
		return out
	}
	for r := -1; r < n; r++ {
		var left, right []any
		if r < 0 {
			left, right = headerRow(pivot.Header), headerRow(report.Header)
		} else {
			if r < len(pivot.Rows) {
				left = pivot.Rows[r]
			}
			if r < len(report.Rows) {
				right = report.Rows[r]
			}
		}
		fill(0, left, pivot.Width())
		line[pivot.Width()] = ""
		fill(pivot.Width()+1, right, report.Width())
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes the processed records as Activity,Seconds rows.
func WriteRecordsCSV(w io.Writer, recs []records.Record) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Activity", "Seconds"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{r.Activity, strconv.FormatFloat(r.Seconds, 'f', -1, 64)}); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
