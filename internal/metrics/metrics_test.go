package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
)

func TestObserveIngest(t *testing.T) {
	r := New()
	r.ObserveIngest(&ingest.Report{
		RowsRead: 10, ReworkExcluded: 2, DroppedInvalid: 1, Valid: 7,
		Sources: []ingest.SourceResult{{Name: "a"}, {Name: "b", Skipped: true}},
	})
	r.ObserveIngest(nil)

	assert.Equal(t, 10.0, testutil.ToFloat64(r.rows.WithLabelValues("read")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rows.WithLabelValues("rework_excluded")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.rows.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sources.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sources.WithLabelValues("ok")))
}

func TestWriteFile(t *testing.T) {
	r := New()
	r.SetPending(3)
	r.Unified()
	r.Exported("xlsx")

	require.NoError(t, r.WriteFile(""))

	path := filepath.Join(t.TempDir(), "timestudy.prom")
	require.NoError(t, r.WriteFile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, "timestudy_review_pending_candidates 3")
	assert.Contains(t, body, "timestudy_review_unifications_total 1")
	assert.Contains(t, body, `timestudy_export_files_total{format="xlsx"} 1`)
}
