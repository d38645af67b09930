package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
)

const namespace = "timestudy"

// Recorder holds the counters for one CLI invocation.
type Recorder struct {
	reg *prometheus.Registry

	rows         *prometheus.CounterVec
	sources      *prometheus.CounterVec
	candidates   prometheus.Gauge
	unifications prometheus.Counter
	exports      *prometheus.CounterVec
}

// New builds a Recorder on a private registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Rows seen during ingestion by outcome.",
		}, []string{"outcome"}),
		sources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "sources_total",
			Help:      "Sources read, split by whether they were skipped.",
		}, []string{"status"}),
		candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "pending_candidates",
			Help:      "Similarity candidates still awaiting review.",
		}),
		unifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "review",
			Name:      "unifications_total",
			Help:      "Activity name merges applied.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "files_total",
			Help:      "Files written by format.",
		}, []string{"format"}),
	}
	r.reg.MustRegister(r.rows, r.sources, r.candidates, r.unifications, r.exports)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveIngest adds the counts of an ingestion report.
func (r *Recorder) ObserveIngest(rep *ingest.Report) {
	if rep == nil {
		return
	}
	r.rows.WithLabelValues("read").Add(float64(rep.RowsRead))
	r.rows.WithLabelValues("rework_excluded").Add(float64(rep.ReworkExcluded))
	r.rows.WithLabelValues("dropped_invalid").Add(float64(rep.DroppedInvalid))
	r.rows.WithLabelValues("valid").Add(float64(rep.Valid))
	for _, s := range rep.Sources {
		status := "ok"
		if s.Skipped {
			status = "skipped"
		}
		r.sources.WithLabelValues(status).Inc()
	}
}

// SetPending records the number of unreviewed candidates.
func (r *Recorder) SetPending(n int) { r.candidates.Set(float64(n)) }

// Unified counts one merge.
func (r *Recorder) Unified() { r.unifications.Inc() }

// Exported counts one written file of the given format (xlsx, csv, html).
func (r *Recorder) Exported(format string) { r.exports.WithLabelValues(format).Inc() }

// WriteFile dumps the registry in the node_exporter textfile format.
func (r *Recorder) WriteFile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
