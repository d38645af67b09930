package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/timestudy-cli/internal/parser"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoRecords means no valid record survived ingestion. The report is still returned.
	ErrNoRecords = errors.New("no valid records")
	// ErrMissingColumns marks a source lacking the activity or time column.
	ErrMissingColumns = errors.New("required column missing")
	// ErrColumnMapping is a configuration error: activity or time column not chosen.
	ErrColumnMapping = errors.New("activity and time columns are required")
)

// reworkTokens are the trimmed values that flag a row as rework.
var reworkTokens = map[string]bool{"1": true, "1.0": true, "True": true, "true": true, "TRUE": true}

// ReworkState describes how the rework filter applied to a source.
type ReworkState string

const (
	ReworkNotConfigured ReworkState = "not-configured"
	ReworkApplied       ReworkState = "applied"
	ReworkAbsent        ReworkState = "absent"
)

// Options selects columns and controls reading.
type Options struct {
	ActivityColumn string
	TimeColumn     string
	// ReworkColumn is optional. Empty disables the rework filter.
	ReworkColumn string
	Parser       parser.Options
	// Workers bounds concurrent source reads. Values below 1 mean 1.
	Workers int
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// SourceResult is the per-source part of a Report.
type SourceResult struct {
	Name           string      `json:"name"`
	Path           string      `json:"path,omitempty"`
	RowsRead       int         `json:"rows_read"`
	ReworkExcluded int         `json:"rework_excluded"`
	DroppedInvalid int         `json:"dropped_invalid"`
	Valid          int         `json:"valid"`
	Rework         ReworkState `json:"rework"`
	Skipped        bool        `json:"skipped"`
	SkipReason     string      `json:"skip_reason,omitempty"`
	Err            error       `json:"-"`
}

// Report aggregates ingestion counts across sources.
type Report struct {
	RowsRead       int            `json:"rows_read"`
	ReworkExcluded int            `json:"rework_excluded"`
	DroppedInvalid int            `json:"dropped_invalid"`
	Valid          int            `json:"valid"`
	Sources        []SourceResult `json:"sources"`
}

// Skipped returns the sources that contributed no rows.
func (r *Report) Skipped() []SourceResult {
	var out []SourceResult
	for _, s := range r.Sources {
		if s.Skipped {
			out = append(out, s)
		}
	}
	return out
}

func (r *Report) add(s SourceResult) {
	r.RowsRead += s.RowsRead
	r.ReworkExcluded += s.ReworkExcluded
	r.DroppedInvalid += s.DroppedInvalid
	r.Valid += s.Valid
	r.Sources = append(r.Sources, s)
}

// Files reads paths concurrently and ingests them in the given order.
// Unreadable sources are skipped and reported.
func Files(ctx context.Context, paths []string, opt Options) ([]records.Record, *Report, error) {
	if err := checkMapping(opt); err != nil {
		return nil, nil, err
	}
	tables := make([]*parser.Table, len(paths))
	readErrs := make([]error, len(paths))
	workers := opt.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := parser.ReadFile(p, opt.Parser)
			if err != nil {
				readErrs[i] = err
				return nil
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("read sources: %w", err)
	}

	log := opt.logger()
	rep := &Report{}
	var out []records.Record
	for i, p := range paths {
		if readErrs[i] != nil {
			log.Warn("source unreadable", slog.String("path", p), slog.Any("error", readErrs[i]))
			rep.add(SourceResult{Name: p, Path: p, Skipped: true, SkipReason: "read failed: " + readErrs[i].Error(), Err: readErrs[i]})
			continue
		}
		recs, res := Table(tables[i], opt)
		out = append(out, recs...)
		rep.add(res)
	}
	return finish(out, rep, log)
}

// Tables ingests already-read sources in order.
func Tables(tables []*parser.Table, opt Options) ([]records.Record, *Report, error) {
	if err := checkMapping(opt); err != nil {
		return nil, nil, err
	}
	rep := &Report{}
	var out []records.Record
	for _, t := range tables {
		recs, res := Table(t, opt)
		out = append(out, recs...)
		rep.add(res)
	}
	return finish(out, rep, opt.logger())
}

func checkMapping(opt Options) error {
	if strings.TrimSpace(opt.ActivityColumn) == "" || strings.TrimSpace(opt.TimeColumn) == "" {
		return ErrColumnMapping
	}
	return nil
}

func finish(out []records.Record, rep *Report, log *slog.Logger) ([]records.Record, *Report, error) {
	log.Info("ingest complete",
		slog.Int("sources", len(rep.Sources)),
		slog.Int("rows_read", rep.RowsRead),
		slog.Int("rework_excluded", rep.ReworkExcluded),
		slog.Int("dropped_invalid", rep.DroppedInvalid),
		slog.Int("valid", rep.Valid))
	if len(out) == 0 {
		return nil, rep, ErrNoRecords
	}
	return out, rep, nil
}

// Table projects one source onto records. Rows flagged as rework are excluded
// first, then rows with a blank activity or an unparseable or non-positive time
// are dropped.
func Table(t *parser.Table, opt Options) ([]records.Record, SourceResult) {
	res := SourceResult{Name: t.Name, Path: t.Path, RowsRead: len(t.Rows), Rework: ReworkNotConfigured}
	log := opt.logger().With(slog.String("source", t.Name))

	var missing []string
	for _, col := range []string{opt.ActivityColumn, opt.TimeColumn} {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		res.Skipped = true
		res.Err = fmt.Errorf("%s: %s: %w", t.Name, strings.Join(missing, ", "), ErrMissingColumns)
		res.SkipReason = "missing columns: " + strings.Join(missing, ", ")
		log.Warn("source skipped", slog.String("reason", res.SkipReason))
		return nil, res
	}
	applyRework := false
	if opt.ReworkColumn != "" {
		if t.HasColumn(opt.ReworkColumn) {
			res.Rework = ReworkApplied
			applyRework = true
		} else {
			res.Rework = ReworkAbsent
			log.Debug("rework column absent, no rows filtered", slog.String("column", opt.ReworkColumn))
		}
	}

	out := make([]records.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		if applyRework && reworkTokens[strings.TrimSpace(stringify(row[opt.ReworkColumn]))] {
			res.ReworkExcluded++
			continue
		}
		act, raw := row[opt.ActivityColumn], row[opt.TimeColumn]
		if act == nil || raw == nil {
			res.DroppedInvalid++
			continue
		}
		name := strings.TrimSpace(stringify(act))
		if name == "" {
			res.DroppedInvalid++
			continue
		}
		secs, err := ParseSeconds(raw)
		if err != nil || secs <= 0 {
			res.DroppedInvalid++
			continue
		}
		out = append(out, records.Record{Activity: name, Seconds: secs})
	}
	res.Valid = len(out)
	log.Debug("source ingested",
		slog.Int("rows", res.RowsRead),
		slog.Int("valid", res.Valid),
		slog.String("rework", string(res.Rework)))
	return out, res
}

// stringify renders a parser cell (string, float64 or bool) the way it would
// read in a spreadsheet: whole floats keep one decimal ("1.0"), booleans are capitalized.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e16 {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
