package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixture(t *testing.T) (*records.Collection, *groups.Registry) {
	t.Helper()
	c := records.NewCollection([]records.Record{
		{Activity: "Pack", Seconds: 10},
		{Activity: "Ship", Seconds: 30},
		{Activity: "Pack", Seconds: 12.5},
		{Activity: "Label", Seconds: 4},
		{Activity: "Pack", Seconds: 11},
		{Activity: "Ship", Seconds: 31},
	})
	reg := groups.NewRegistry(nil)
	_, err := reg.Create("Outbound", "")
	require.NoError(t, err)
	_, err = reg.Assign("Outbound", []string{"Ship", "Pack", "Retired"})
	require.NoError(t, err)
	return c, reg
}

func TestFormatPivotLayout(t *testing.T) {
	c, reg := fixture(t)
	p := FormatPivot(c, reg)
	assert.Equal(t, []string{"Group", "Code", "Activity", "Sample 1", "Sample 2", "Sample 3"}, p.Header)
	require.Len(t, p.Rows, 4)
	// ungrouped first, then grouped sorted by activity
	assert.Equal(t, []any{"", "", "Label", 4.0, nil, nil}, p.Rows[0])
	assert.Equal(t, []any{"Outbound", "", "Pack", 10.0, 12.5, 11.0}, p.Rows[1])
	assert.Equal(t, []any{"Outbound", "", "Retired", nil, nil, nil}, p.Rows[2])
	assert.Equal(t, "Ship", p.Rows[3][2])
}

func TestFormatPivotRoundTrip(t *testing.T) {
	c, _ := fixture(t)
	p := FormatPivot(c, groups.NewRegistry(nil))
	byAct := c.ByActivity()
	assert.Len(t, p.Rows, len(byAct))
	assert.Equal(t, 3+3, p.Width())
	for _, row := range p.Rows {
		var got []float64
		for _, v := range row[3:] {
			if v != nil {
				got = append(got, v.(float64))
			}
		}
		want := append([]float64(nil), byAct[row[2].(string)]...)
		sort.Float64s(got)
		sort.Float64s(want)
		assert.Equal(t, want, got)
	}
}

func TestFormatReportIndentsChildren(t *testing.T) {
	c, reg := fixture(t)
	rep := FormatReport(analysis.BuildTree(c, reg))
	var labels []string
	for _, r := range rep.Rows {
		labels = append(labels, r[0].(string))
	}
	assert.Equal(t, []string{"Outbound", Indent + "Ship", Indent + "Pack", analysis.UngroupedLabel, Indent + "Label"}, labels)
	assert.Equal(t, 5, rep.Rows[0][1])
	assert.Nil(t, rep.Rows[3][1], "wrapper row has blank stats")
	assert.Equal(t, "0.07 min", rep.Rows[4][15])
	assert.Equal(t, "00:00:04", rep.Rows[4][3])
	assert.Len(t, rep.Rows[1], len(ReportHeader))
}

func TestWriteXLSXSiblingRegions(t *testing.T) {
	c, reg := fixture(t)
	pivot := FormatPivot(c, reg)
	report := FormatReport(analysis.BuildTree(c, reg))
	require.NoError(t, c.Unify("Label", "Labels", "Label"))
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, pivot, report, FormatMapping(c.Mapping)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetName, MappingSheet}, f.GetSheetList())

	a1, _ := f.GetCellValue(SheetName, "A1")
	assert.Equal(t, "Group", a1)
	gap, _ := excelize.CoordinatesToCellName(pivot.Width()+1, 1)
	v, _ := f.GetCellValue(SheetName, gap)
	assert.Empty(t, v)
	start, _ := excelize.CoordinatesToCellName(pivot.Width()+2, 1)
	v, _ = f.GetCellValue(SheetName, start)
	assert.Equal(t, "Activity/Group", v)

	// samples read back as numbers
	s1, _ := excelize.CoordinatesToCellName(4, 3)
	v, _ = f.GetCellValue(SheetName, s1)
	got, err := strconv.ParseFloat(v, 64)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	m, _ := f.GetCellValue(MappingSheet, "B2")
	assert.Equal(t, "Label", m)
}

func TestWriteCSVSideBySide(t *testing.T) {
	c, reg := fixture(t)
	pivot := FormatPivot(c, reg)
	report := FormatReport(analysis.BuildTree(c, reg))
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, pivot, report))
	require.True(t, bytes.HasPrefix(buf.Bytes(), bom))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(bom):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+len(report.Rows))
	width := pivot.Width() + 1 + report.Width()
	for _, r := range rows {
		assert.Len(t, r, width)
	}
	assert.Equal(t, "Group", rows[0][0])
	assert.Equal(t, "", rows[0][pivot.Width()])
	assert.Equal(t, "Activity/Group", rows[0][pivot.Width()+1])
	assert.Equal(t, "12.5", rows[2][4])
	// report is longer than pivot: trailing pivot cells are blank
	assert.Equal(t, "", rows[5][0])
	assert.Equal(t, Indent+"Label", rows[5][pivot.Width()+1])
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, []records.Record{{Activity: "A", Seconds: 1.5}, {Activity: "B, C", Seconds: 60}}))
	out := string(buf.Bytes()[len(bom):])
	assert.Equal(t, "Activity,Seconds\nA,1.5\n\"B, C\",60\n", out)
}

func TestFormatMappingSorted(t *testing.T) {
	m := FormatMapping(map[string]string{"b": "x", "a": "x"})
	assert.Equal(t, [][]any{{"a", "x"}, {"b", "x"}}, m.Rows)
}
