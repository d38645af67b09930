package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Time format labels reported by DetectTimeFormat.
const (
	FormatHMS     = "HH:MM:SS"
	FormatMS      = "MM:SS"
	FormatNumeric = "numeric"
	FormatUnknown = "unknown"
)

var (
	reHMS = regexp.MustCompile(`^\d+:\d{1,2}:\d{1,2}(\.\d+)?$`)
	reMS  = regexp.MustCompile(`^\d+:\d{1,2}(\.\d+)?$`)
)

// DetectTimeFormat classifies a raw time cell for diagnostics.
func DetectTimeFormat(v any) string {
	switch x := v.(type) {
	case nil:
		return FormatUnknown
	case float64, float32, int, int64:
		return FormatNumeric
	case string:
		s := strings.TrimSpace(x)
		switch {
		case reHMS.MatchString(s):
			return FormatHMS
		case reMS.MatchString(s):
			return FormatMS
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
			return FormatNumeric
		}
	}
	return FormatUnknown
}

// ColumnProfile summarizes one selected column of a source.
type ColumnProfile struct {
	Name     string
	Role     string // activity|time|rework
	Present  bool
	NonNull  int
	Examples []string
	// Formats counts detected time formats (time role only).
	Formats map[string]int
	// Distinct values (rework role only).
	Distinct []string
}

// Profile is a diagnostic view of one source for choosing a column mapping.
type Profile struct {
	Name     string
	Rows     int
	Columns  []string
	Encoding string
	Sheet    string
	Selected []ColumnProfile
}

// Inspect profiles the activity, time and rework columns of t. Empty names are skipped.
func Inspect(t *Table, activity, timeCol, rework string) *Profile {
	p := &Profile{Name: t.Name, Rows: len(t.Rows), Columns: t.Columns, Encoding: t.Encoding, Sheet: t.Sheet}
	for _, sel := range []struct{ name, role string }{{activity, "activity"}, {timeCol, "time"}, {rework, "rework"}} {
		if sel.name == "" {
			continue
		}
		cp := ColumnProfile{Name: sel.name, Role: sel.role, Present: t.HasColumn(sel.name)}
		if !cp.Present {
			p.Selected = append(p.Selected, cp)
			continue
		}
		if sel.role == "time" {
			cp.Formats = map[string]int{}
		}
		distinct := map[string]bool{}
		for _, row := range t.Rows {
			v := row[sel.name]
			if v == nil {
				continue
			}
			cp.NonNull++
			s := fmt.Sprint(v)
			if len(cp.Examples) < 3 {
				cp.Examples = append(cp.Examples, s)
			}
			switch sel.role {
			case "time":
				cp.Formats[DetectTimeFormat(v)]++
			case "rework":
				distinct[strings.TrimSpace(s)] = true
			}
		}
		for v := range distinct {
			cp.Distinct = append(cp.Distinct, v)
		}
		sort.Strings(cp.Distinct)
		p.Selected = append(p.Selected, cp)
	}
	return p
}

// Markdown renders a compact diagnostic report.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[SOURCE SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	if p.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", p.Sheet))
	}
	if p.Encoding != "" {
		b.WriteString(fmt.Sprintf("Encoding: %s\n", p.Encoding))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", p.Rows, len(p.Columns)))

	b.WriteString("[COLUMNS]\n")
	for _, c := range p.Columns {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	if len(p.Selected) == 0 {
		return b.String()
	}
	b.WriteString("\n[SELECTED]\n")
	for _, c := range p.Selected {
		if !c.Present {
			b.WriteString(fmt.Sprintf("- %s (%s): missing\n", c.Name, c.Role))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s (%s): non-null %d", c.Name, c.Role, c.NonNull))
		if len(c.Examples) > 0 {
			b.WriteString(", e.g. ")
			b.WriteString(strings.Join(c.Examples, " | "))
		}
		b.WriteString("\n")
		if len(c.Formats) > 0 {
			keys := make([]string, 0, len(c.Formats))
			for k := range c.Formats {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%d", k, c.Formats[k]))
			}
			b.WriteString("  formats: " + strings.Join(parts, ", ") + "\n")
		}
		if len(c.Distinct) > 0 {
			b.WriteString("  values: " + strings.Join(c.Distinct, ", ") + "\n")
		}
	}
	return b.String()
}
