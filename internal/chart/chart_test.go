package chart

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
)

func tree(t *testing.T) *analysis.Node {
	t.Helper()
	c := records.NewCollection([]records.Record{
		{Activity: "Pack", Seconds: 60}, {Activity: "Pack", Seconds: 120}, {Activity: "Ship", Seconds: 30},
	})
	reg := groups.NewRegistry(nil)
	_, err := reg.Create("Out", "")
	require.NoError(t, err)
	_, err = reg.Assign("Out", []string{"Pack"})
	require.NoError(t, err)
	return analysis.BuildTree(c, reg)
}

func TestBoxPlotSeries(t *testing.T) {
	t.Parallel()
	bp, n := BoxPlot(tree(t), "Study")
	// Out, Pack, Ship; the ungrouped wrapper has no stats
	assert.Equal(t, 3, n)

	var buf bytes.Buffer
	require.NoError(t, render.NewChartRender(bp).Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "boxplot")
	assert.Contains(t, out, "[Out]")
	assert.Contains(t, out, "Ship")
}

func TestRenderNoData(t *testing.T) {
	t.Parallel()
	root := analysis.BuildTree(records.NewCollection(nil), groups.NewRegistry(nil))
	var buf bytes.Buffer
	_, err := Render(&buf, root, "Empty")
	assert.ErrorIs(t, err, analysis.ErrNoData)
}

func TestRenderWritesHTML(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	n, err := Render(&buf, tree(t), "Study")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, buf.String(), "<html")
}
