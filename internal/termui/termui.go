package termui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/export"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
	"github.com/KaramelBytes/timestudy-cli/internal/similarity"
)

func newWriter() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func count(n int) string { return humanize.Comma(int64(n)) }

// Swatch renders a colored block for a #RRGGBB color. Invalid colors render as a plain marker.
func Swatch(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return "■"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return "■"
	}
	return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)).Sprint("■")
}

// IngestTable renders per-source counts with a total footer.
func IngestTable(rep *ingest.Report) string {
	tbl := newWriter()
	tbl.AppendHeader(table.Row{"Source", "Read", "Rework excluded", "Dropped", "Valid", "Rework filter"})
	for _, s := range rep.Sources {
		if s.Skipped {
			tbl.AppendRow(table.Row{s.Name, "-", "-", "-", "-", color.YellowString("skipped: %s", s.SkipReason)})
			continue
		}
		tbl.AppendRow(table.Row{s.Name, count(s.RowsRead), count(s.ReworkExcluded), count(s.DroppedInvalid), count(s.Valid), string(s.Rework)})
	}
	tbl.AppendFooter(table.Row{"Total", count(rep.RowsRead), count(rep.ReworkExcluded), count(rep.DroppedInvalid), count(rep.Valid), ""})
	return tbl.Render()
}

// CandidatesTable lists candidates with their 1-based index. Pending-only
// views still show the original index so it can be passed to unify.
func CandidatesTable(cands []similarity.Candidate, all bool) string {
	tbl := newWriter()
	tbl.AppendHeader(table.Row{"#", "A", "B", "Score", "Diff", "Status"})
	shown := 0
	for i, c := range cands {
		if !all && c.Status != similarity.Pending {
			continue
		}
		shown++
		status := c.Status.String()
		switch c.Status {
		case similarity.Unified:
			status = color.GreenString(status)
		case similarity.Skipped:
			status = color.HiBlackString(status)
		}
		tbl.AppendRow(table.Row{i + 1, c.A, c.B, fmt.Sprintf("%.2f", c.Score), similarity.DiffMarkup(c.A, c.B), status})
	}
	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d shown", shown)})
	return tbl.Render()
}

// ActivitiesTable lists activities with record counts and their group, if any.
func ActivitiesTable(names []string, counts map[string]int, membership map[string]string) string {
	tbl := newWriter()
	tbl.AppendHeader(table.Row{"Activity", "Records", "Group"})
	for _, n := range names {
		tbl.AppendRow(table.Row{n, count(counts[n]), membership[n]})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d activities", len(names))})
	return tbl.Render()
}

// GroupsTable lists groups in creation order with a color swatch.
func GroupsTable(reg *groups.Registry, counts map[string]int) string {
	tbl := newWriter()
	tbl.AppendHeader(table.Row{"", "Group", "Color", "Activities", "Records"})
	for _, g := range reg.Groups {
		n := 0
		for _, a := range g.Activities {
			n += counts[a]
		}
		tbl.AppendRow(table.Row{Swatch(g.Color), g.Name, g.Color, strings.Join(g.Activities, ", "), count(n)})
	}
	return tbl.Render()
}

// TreeTable renders the result tree with indented labels.
func TreeTable(root *analysis.Node) string {
	tbl := newWriter()
	tbl.AppendHeader(table.Row{"Item", "N", "Mean", "Std dev", "Min", "Median", "Max", "Outliers", "Normalized", "Non-normalized"})
	for _, top := range root.Children {
		top.Walk(func(n *analysis.Node, depth int) {
			label := strings.Repeat(export.Indent, depth) + n.Label
			if n.Kind == analysis.KindGroup {
				label = Swatch(n.Color) + " " + color.New(color.Bold).Sprint(label)
			}
			if n.Stats == nil {
				tbl.AppendRow(table.Row{label})
				return
			}
			s := n.Stats
			tbl.AppendRow(table.Row{
				label,
				count(s.N),
				analysis.FormatHMS(s.Mean),
				analysis.FormatHMS(s.StdDev),
				analysis.FormatHMS(s.Min),
				analysis.FormatHMS(s.Median),
				analysis.FormatHMS(s.Max),
				s.OutlierCount,
				analysis.FormatMinutes(s.NormalizedMinutes),
				analysis.FormatMinutes(s.NonNormalizedMinutes),
			})
		})
	}
	return tbl.Render()
}
