package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/KaramelBytes/timestudy-cli/internal/parser"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts() Options {
	return Options{ActivityColumn: "Atividade", TimeColumn: "Tempo", Workers: 2}
}

func table(name string, cols []string, rows ...parser.Row) *parser.Table {
	return &parser.Table{Name: name, Columns: cols, Rows: rows}
}

func TestReworkFilter(t *testing.T) {
	t.Parallel()
	tbl := table("a", []string{"Atividade", "Tempo", "R"},
		parser.Row{"Atividade": "x", "Tempo": "1", "R": "1"},
		parser.Row{"Atividade": "x", "Tempo": "2", "R": "0"},
		parser.Row{"Atividade": "x", "Tempo": "3", "R": "True"},
		parser.Row{"Atividade": "x", "Tempo": "4", "R": nil},
		parser.Row{"Atividade": "x", "Tempo": "5", "R": " 1.0 "},
	)
	o := opts()
	o.ReworkColumn = "R"
	recs, res := Table(tbl, o)
	assert.Equal(t, 3, res.ReworkExcluded)
	assert.Equal(t, ReworkApplied, res.Rework)
	require.Len(t, recs, 2)
	assert.Equal(t, 2.0, recs[0].Seconds)
	assert.Equal(t, 4.0, recs[1].Seconds)
}

func TestReworkExcludedBeforeCleanup(t *testing.T) {
	t.Parallel()
	tbl := table("a", []string{"Atividade", "Tempo", "R"},
		parser.Row{"Atividade": nil, "Tempo": nil, "R": "TRUE"},
		parser.Row{"Atividade": "y", "Tempo": 1.0, "R": 1.0},
		parser.Row{"Atividade": "y", "Tempo": 1.0, "R": true},
	)
	o := opts()
	o.ReworkColumn = "R"
	_, res := Table(tbl, o)
	assert.Equal(t, 3, res.ReworkExcluded)
	assert.Equal(t, 0, res.DroppedInvalid)
}

func TestReworkAbsentAndNotConfigured(t *testing.T) {
	t.Parallel()
	tbl := table("a", []string{"Atividade", "Tempo"}, parser.Row{"Atividade": "x", "Tempo": "1"})
	o := opts()
	recs, res := Table(tbl, o)
	assert.Equal(t, ReworkNotConfigured, res.Rework)
	assert.Len(t, recs, 1)

	o.ReworkColumn = "R"
	recs, res = Table(tbl, o)
	assert.Equal(t, ReworkAbsent, res.Rework)
	assert.Equal(t, 0, res.ReworkExcluded)
	assert.Len(t, recs, 1)
}

func TestCleanupDropsInvalidRows(t *testing.T) {
	t.Parallel()
	tbl := table("a", []string{"Atividade", "Tempo"},
		parser.Row{"Atividade": " Pack ", "Tempo": "00:01:00"},
		parser.Row{"Atividade": "   ", "Tempo": "5"},
		parser.Row{"Atividade": nil, "Tempo": "5"},
		parser.Row{"Atividade": "Pack", "Tempo": nil},
		parser.Row{"Atividade": "Pack", "Tempo": "abc"},
		parser.Row{"Atividade": "Pack", "Tempo": "0"},
		parser.Row{"Atividade": "Pack", "Tempo": "-3"},
		parser.Row{"Atividade": 12.0, "Tempo": "2,5"},
	)
	recs, res := Table(tbl, opts())
	assert.Equal(t, 8, res.RowsRead)
	assert.Equal(t, 6, res.DroppedInvalid)
	assert.Equal(t, 2, res.Valid)
	assert.Equal(t, []records.Record{{Activity: "Pack", Seconds: 60}, {Activity: "12.0", Seconds: 2.5}}, recs)
}

func TestTablesSkipsSourcesMissingColumns(t *testing.T) {
	t.Parallel()
	good := table("good", []string{"Atividade", "Tempo"}, parser.Row{"Atividade": "x", "Tempo": "1"})
	bad := table("bad", []string{"Task", "Tempo"}, parser.Row{"Task": "x", "Tempo": "1"}, parser.Row{"Task": "y", "Tempo": "2"})
	recs, rep, err := Tables([]*parser.Table{bad, good}, opts())
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 3, rep.RowsRead)
	require.Len(t, rep.Skipped(), 1)
	assert.Equal(t, "bad", rep.Skipped()[0].Name)
	assert.ErrorIs(t, rep.Skipped()[0].Err, ErrMissingColumns)
	assert.Contains(t, rep.Skipped()[0].SkipReason, "Atividade")
}

func TestTablesEmptyResult(t *testing.T) {
	t.Parallel()
	bad := table("bad", []string{"Atividade", "Tempo"}, parser.Row{"Atividade": "x", "Tempo": "nope"})
	recs, rep, err := Tables([]*parser.Table{bad}, opts())
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Nil(t, recs)
	require.NotNil(t, rep)
	assert.Equal(t, 1, rep.DroppedInvalid)
}

func TestColumnMappingRequired(t *testing.T) {
	t.Parallel()
	_, _, err := Tables(nil, Options{ActivityColumn: "A"})
	assert.ErrorIs(t, err, ErrColumnMapping)
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func multiset(recs []records.Record) []records.Record {
	out := append([]records.Record(nil), recs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Activity != out[j].Activity {
			return out[i].Activity < out[j].Activity
		}
		return out[i].Seconds < out[j].Seconds
	})
	return out
}

func TestFilesIsRepeatableAndOrdered(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "Atividade,Tempo\nPack,01:00\nShip,30\n")
	b := writeCSV(t, dir, "b.csv", "Atividade;Tempo\nPack;12,5\n")
	missing := filepath.Join(dir, "missing.csv")

	first, rep, err := Files(context.Background(), []string{a, missing, b}, opts())
	require.NoError(t, err)
	require.Len(t, rep.Sources, 3)
	assert.True(t, rep.Sources[1].Skipped)
	assert.Contains(t, rep.Sources[1].SkipReason, "read failed")
	assert.Equal(t, []records.Record{{Activity: "Pack", Seconds: 60}, {Activity: "Ship", Seconds: 30}, {Activity: "Pack", Seconds: 12.5}}, first)

	second, _, err := Files(context.Background(), []string{a, missing, b}, opts())
	require.NoError(t, err)
	assert.Equal(t, multiset(first), multiset(second))
}

func TestFilesHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "Atividade,Tempo\nPack,1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Files(ctx, []string{a}, opts())
	assert.ErrorIs(t, err, context.Canceled)
}
