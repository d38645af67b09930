package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
)

// Indent prefixes report labels once per tree level below the top.
const Indent = "    "

// ReportHeader lists the report columns after the label.
var ReportHeader = []string{
	"Activity/Group", "N", "Std Dev", "Min", "Max", "Median", "Q1", "Q3", "IQR",
	"Lower Fence", "Upper Fence", "Outliers", "Within Fences", "Mean (All)",
	"Mean (No Outliers)", "Non-Normalized (min)", "Normalized (min)",
}

// Table is a rectangular block of cells. Nil cells are blank.
type Table struct {
	Header []string
	Rows   [][]any
}

// Width returns the column count.
func (t *Table) Width() int { return len(t.Header) }

// SampleColumn names the i-th (1-based) sample column.
func SampleColumn(i int) string { return fmt.Sprintf("Sample %d", i) }

// FormatPivot lays out one row per activity: group, blank code, activity, then
// its samples in record order. Grouped activities without records still get a
// row. Rows are sorted by group then activity; ungrouped rows sort first.
func FormatPivot(c *records.Collection, reg *groups.Registry) *Table {
	byAct := c.ByActivity()
	membership := map[string]string{}
	if reg != nil {
		membership = reg.Membership()
	}
	names := make([]string, 0, len(byAct)+len(membership))
	for a := range byAct {
		names = append(names, a)
	}
	for a := range membership {
		if _, ok := byAct[a]; !ok {
			names = append(names, a)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		gi, gj := membership[names[i]], membership[names[j]]
		if gi != gj {
			return gi < gj
		}
		return names[i] < names[j]
	})

	maxSamples := 0
	for _, v := range byAct {
		if len(v) > maxSamples {
			maxSamples = len(v)
		}
	}
	t := &Table{Header: []string{"Group", "Code", "Activity"}}
	for i := 1; i <= maxSamples; i++ {
		t.Header = append(t.Header, SampleColumn(i))
	}
	for _, a := range names {
		row := make([]any, len(t.Header))
		row[0] = membership[a]
		row[1] = ""
		row[2] = a
		for i, v := range byAct[a] {
			row[3+i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatReport flattens the result tree depth first, indenting labels by depth.
// Nodes without statistics (the ungrouped wrapper) leave the statistic cells blank.
func FormatReport(root *analysis.Node) *Table {
	t := &Table{Header: ReportHeader}
	root.Walk(func(n *analysis.Node, depth int) {
		if depth == 0 {
			return
		}
		row := make([]any, len(ReportHeader))
		row[0] = strings.Repeat(Indent, depth-1) + n.Label
		if s := n.Stats; s != nil {
			copy(row[1:], []any{
				s.N,
				analysis.FormatHMS(s.StdDev),
				analysis.FormatHMS(s.Min),
				analysis.FormatHMS(s.Max),
				analysis.FormatHMS(s.Median),
				analysis.FormatHMS(s.Q1),
				analysis.FormatHMS(s.Q3),
				analysis.FormatHMS(s.IQR),
				analysis.FormatHMS(s.LowerFence),
				analysis.FormatHMS(s.UpperFence),
				s.OutlierCount,
				s.NonOutlierCount,
				analysis.FormatHMS(s.MeanAll),
				analysis.FormatHMS(s.MeanNoOutliers),
				analysis.FormatMinutes(s.NonNormalizedMinutes),
				analysis.FormatMinutes(s.NormalizedMinutes),
			})
		}
		t.Rows = append(t.Rows, row)
	})
	return t
}

// FormatMapping lists original -> canonical names, sorted by original.
func FormatMapping(mapping map[string]string) *Table {
	t := &Table{Header: []string{"Original", "Canonical"}}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.Rows = append(t.Rows, []any{k, mapping[k]})
	}
	return t
}
