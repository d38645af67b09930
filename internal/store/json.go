package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
	"github.com/KaramelBytes/timestudy-cli/internal/utils"
)

// JSONStore keeps each session as <dir>/<name>/session.json.
type JSONStore struct {
	dir     string
	palette []string
}

// NewJSONStore creates dir if needed.
func NewJSONStore(dir string, palette []string) (*JSONStore, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure sessions dir: %w", err)
	}
	return &JSONStore{dir: dir, palette: palette}, nil
}

func (s *JSONStore) path(name string) string { return filepath.Join(s.dir, name) }

func (s *JSONStore) Load(name string) (*session.Session, error) {
	if name == "" {
		return nil, errors.New("session name is required")
	}
	return session.Load(s.path(name), s.palette)
}

func (s *JSONStore) Save(sess *session.Session) error {
	if sess.RootDir() == "" {
		sess.SetRootDir(s.path(sess.Name))
	}
	return sess.Save()
}

func (s *JSONStore) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.path(name), session.FileName))
	return err == nil
}

func (s *JSONStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && s.Exists(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *JSONStore) Close() error { return nil }
