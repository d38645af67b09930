package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
)

const chartHeight = "560px"

// BoxPlot draws min/q1/median/q3/max for every node of the result tree that
// has statistics, in tree order. Values are minutes.
func BoxPlot(root *analysis.Node, title string) (*charts.BoxPlot, int) {
	var labels []string
	var data []opts.BoxPlotData
	root.Walk(func(n *analysis.Node, _ int) {
		s := n.Stats
		if s == nil {
			return
		}
		label := n.Label
		if n.Kind == analysis.KindGroup {
			label = "[" + n.Label + "]"
		}
		labels = append(labels, label)
		data = append(data, opts.BoxPlotData{
			Name:  label,
			Value: []float64{s.Min / 60, s.Q1 / 60, s.Median / 60, s.Q3 / 60, s.Max / 60},
		})
	})

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d series, minutes", len(labels))}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "min"}),
	)
	bp.SetXAxis(labels).AddSeries("Elapsed time", data)
	return bp, len(labels)
}

// Render writes the box plot page as HTML.
func Render(w io.Writer, root *analysis.Node, title string) (int, error) {
	bp, n := BoxPlot(root, title)
	if n == 0 {
		return 0, analysis.ErrNoData
	}
	if err := bp.Render(w); err != nil {
		return 0, fmt.Errorf("render chart: %w", err)
	}
	return n, nil
}
