package termui

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
	"github.com/KaramelBytes/timestudy-cli/internal/similarity"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSwatch(t *testing.T) {
	assert.Equal(t, "■", Swatch("#3B82F6"))
	assert.Equal(t, "■", Swatch("nope"))
}

func TestIngestTable(t *testing.T) {
	out := IngestTable(&ingest.Report{
		RowsRead: 1200, Valid: 1199, DroppedInvalid: 1,
		Sources: []ingest.SourceResult{
			{Name: "a.csv", RowsRead: 1200, Valid: 1199, DroppedInvalid: 1, Rework: ingest.ReworkNotConfigured},
			{Name: "b.csv", Skipped: true, SkipReason: "required column missing"},
		},
	})
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "1,199")
	assert.Contains(t, out, "skipped: required column missing")
	assert.Contains(t, out, "not-configured")
}

func TestCandidatesTableFiltersButKeepsIndex(t *testing.T) {
	cands := []similarity.Candidate{
		{A: "Pack box", B: "Pack boxes", Score: 0.89, Status: similarity.Skipped},
		{A: "Ship", B: "Shipp", Score: 0.89},
	}
	out := CandidatesTable(cands, false)
	assert.NotContains(t, out, "Pack boxes")
	assert.Contains(t, out, "Shipp")
	assert.Contains(t, out, "{+p+}")
	assert.Contains(t, out, "1 shown")

	all := CandidatesTable(cands, true)
	assert.Contains(t, all, "Pack boxes")
	assert.Contains(t, all, "skipped")
}

func TestTreeAndGroupTables(t *testing.T) {
	c := records.NewCollection([]records.Record{
		{Activity: "Cut", Seconds: 60}, {Activity: "Cut", Seconds: 120},
		{Activity: "Glue", Seconds: 30}, {Activity: "Ship", Seconds: 3600},
	})
	reg := groups.NewRegistry([]string{"#3B82F6"})
	_, err := reg.Create("Prep", "")
	require.NoError(t, err)
	_, err = reg.Assign("Prep", []string{"Cut", "Glue"})
	require.NoError(t, err)

	out := TreeTable(analysis.BuildTree(c, reg))
	assert.Contains(t, out, "Prep")
	assert.Contains(t, out, "    Cut")
	assert.Contains(t, out, "    Ship")
	assert.Contains(t, out, "01:00:00")
	assert.Contains(t, out, "1.50 min")

	g := GroupsTable(reg, c.Counts())
	assert.Contains(t, g, "Cut, Glue")
	assert.Contains(t, g, "#3B82F6")

	a := ActivitiesTable(c.Activities(), c.Counts(), reg.Membership())
	assert.Contains(t, a, "3 activities")
}
