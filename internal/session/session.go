package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/timestudy-cli/internal/analysis"
	"github.com/KaramelBytes/timestudy-cli/internal/export"
	"github.com/KaramelBytes/timestudy-cli/internal/groups"
	"github.com/KaramelBytes/timestudy-cli/internal/ingest"
	"github.com/KaramelBytes/timestudy-cli/internal/records"
	"github.com/KaramelBytes/timestudy-cli/internal/similarity"
	"github.com/KaramelBytes/timestudy-cli/internal/utils"
)

// FileName is the session file inside a session directory.
const FileName = "session.json"

var (
	ErrNotFound          = errors.New("session not found")
	ErrUnknownActivity   = errors.New("unknown activity")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrNoRecords         = errors.New("session has no records; run ingest first")
)

// Columns is the column mapping used by the last successful ingest.
type Columns struct {
	Activity string `json:"activity"`
	Time     string `json:"time"`
	Rework   string `json:"rework,omitempty"`
}

// Source describes one file fed to the last ingest.
type Source struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Valid   int       `json:"valid"`
	Skipped bool      `json:"skipped"`
	Reason  string    `json:"reason,omitempty"`
	ReadAt  time.Time `json:"read_at"`
}

// Session is the operator state: records, merges, groups and review progress.
type Session struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Records    *records.Collection    `json:"records"`
	Groups     *groups.Registry       `json:"groups"`
	Candidates []similarity.Candidate `json:"candidates"`
	Sources    []Source               `json:"sources"`
	Columns    Columns                `json:"columns"`
	LastReport *ingest.Report         `json:"last_report,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`

	// Not serialized: on-disk location of session.json
	rootDir string
}

// New constructs an empty in-memory session. Call Save to persist.
func New(name, rootDir string, palette []string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Records:   records.NewCollection(nil),
		Groups:    groups.NewRegistry(palette),
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   rootDir,
	}
}

// Load reads session.json from dir.
func Load(dir string, palette []string) (*Session, error) {
	path := filepath.Join(dir, FileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	s, err := Decode(b, palette)
	if err != nil {
		return nil, err
	}
	s.rootDir = dir
	return s, nil
}

// Decode parses a serialized session and restores defaults for missing parts.
func Decode(b []byte, palette []string) (*Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	s.normalize(palette)
	return &s, nil
}

func (s *Session) normalize(palette []string) {
	if s.Records == nil {
		s.Records = records.NewCollection(nil)
	}
	if s.Records.Mapping == nil {
		s.Records.Mapping = map[string]string{}
	}
	if s.Groups == nil {
		s.Groups = groups.NewRegistry(palette)
	}
	s.Groups.SetPalette(palette)
}

// Restore re-attaches the palette after decoding by another store.
func (s *Session) Restore(palette []string) { s.normalize(palette) }

// RootDir returns the on-disk session directory.
func (s *Session) RootDir() string { return s.rootDir }

// SetRootDir sets where Save writes.
func (s *Session) SetRootDir(dir string) { s.rootDir = dir }

// Save writes session.json using atomic write.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.Touch()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, FileName), data)
}

// Touch bumps UpdatedAt.
func (s *Session) Touch() { s.UpdatedAt = time.Now() }

// Ingest reads paths and, when at least one valid record results, replaces the
// session's records. Merges are replayed; groups are kept. On failure the
// session is unchanged and the report, if any, is still returned.
func (s *Session) Ingest(ctx context.Context, paths []string, opt ingest.Options) (*ingest.Report, error) {
	recs, rep, err := ingest.Files(ctx, paths, opt)
	if err != nil {
		return rep, err
	}
	s.Records.Replace(recs)
	s.Columns = Columns{Activity: opt.ActivityColumn, Time: opt.TimeColumn, Rework: opt.ReworkColumn}
	s.LastReport = rep
	now := time.Now()
	s.Sources = s.Sources[:0]
	for _, src := range rep.Sources {
		s.Sources = append(s.Sources, Source{
			ID:      uuid.NewString(),
			Path:    src.Path,
			Name:    src.Name,
			Valid:   src.Valid,
			Skipped: src.Skipped,
			Reason:  src.SkipReason,
			ReadAt:  now,
		})
	}
	return rep, nil
}

// RefreshCandidates rescans the current activity names. Pairs skipped earlier stay skipped.
func (s *Session) RefreshCandidates(threshold float64) []similarity.Candidate {
	next := similarity.FindCandidates(s.Records.Activities(), threshold)
	s.Candidates = similarity.Carry(s.Candidates, next)
	return s.Candidates
}

// Candidate returns the 1-based i-th candidate.
func (s *Session) Candidate(i int) (similarity.Candidate, error) {
	if i < 1 || i > len(s.Candidates) {
		return similarity.Candidate{}, fmt.Errorf("#%d of %d: %w", i, len(s.Candidates), ErrCandidateNotFound)
	}
	return s.Candidates[i-1], nil
}

// Unify merges a and b into chosen. At least one of the names must still label records.
func (s *Session) Unify(a, b, chosen string) error {
	if !s.Records.Has(a) && !s.Records.Has(b) {
		return fmt.Errorf("%q, %q: %w", a, b, ErrUnknownActivity)
	}
	if err := s.Records.Unify(a, b, chosen); err != nil {
		return err
	}
	s.mark(a, b, similarity.Unified)
	return nil
}

// Skip marks the candidate pair (a, b) as reviewed and rejected.
func (s *Session) Skip(a, b string) error {
	if !s.mark(a, b, similarity.Skipped) {
		return fmt.Errorf("%q, %q: %w", a, b, ErrCandidateNotFound)
	}
	return nil
}

func (s *Session) mark(a, b string, st similarity.Status) bool {
	probe := similarity.Candidate{A: a, B: b}
	found := false
	for i := range s.Candidates {
		if s.Candidates[i].Same(probe) {
			s.Candidates[i].Status = st
			found = true
		}
	}
	return found
}

// CreateGroup adds a named group.
func (s *Session) CreateGroup(name, color string) (*groups.Group, error) {
	return s.Groups.Create(name, color)
}

// AssignGroup moves activities into a group. Every name must label records or
// already belong to a group.
func (s *Session) AssignGroup(group string, activities []string) (groups.AssignResult, error) {
	if _, ok := s.Groups.Get(group); !ok {
		return groups.AssignResult{}, fmt.Errorf("%q: %w", group, groups.ErrNotFound)
	}
	for _, a := range activities {
		if _, grouped := s.Groups.GroupOf(a); !grouped && !s.Records.Has(a) {
			return groups.AssignResult{}, fmt.Errorf("%q: %w", a, ErrUnknownActivity)
		}
	}
	return s.Groups.Assign(group, activities)
}

// Available lists activities not yet in any group, sorted.
func (s *Session) Available() []string {
	return s.Groups.Available(s.Records.Activities())
}

// Tree builds the result tree from current state.
func (s *Session) Tree() (*analysis.Node, error) {
	if s.Records.Len() == 0 {
		return nil, ErrNoRecords
	}
	return analysis.BuildTree(s.Records, s.Groups), nil
}

// Tables returns the pivot, report and mapping tables for export.
func (s *Session) Tables() (pivot, report, mapping *export.Table, err error) {
	root, err := s.Tree()
	if err != nil {
		return nil, nil, nil, err
	}
	return export.FormatPivot(s.Records, s.Groups), export.FormatReport(root), export.FormatMapping(s.Records.Mapping), nil
}

// Clear resets groups and/or unification history. Records keep their labels.
func (s *Session) Clear(clearGroups, clearUnifications bool) {
	if clearGroups {
		s.Groups.Clear()
	}
	if clearUnifications {
		s.Records.ClearUnifications()
		s.Candidates = nil
	}
}
