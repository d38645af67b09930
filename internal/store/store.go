package store

import (
	"fmt"

	"github.com/KaramelBytes/timestudy-cli/internal/session"
)

// Store persists sessions by name.
type Store interface {
	Load(name string) (*session.Session, error)
	Save(s *session.Session) error
	Exists(name string) bool
	List() ([]string, error)
	Close() error
}

// Open returns the backend named by kind ("json" or "sqlite") rooted at dir.
func Open(kind, dir string, palette []string) (Store, error) {
	switch kind {
	case "", "json":
		return NewJSONStore(dir, palette)
	case "sqlite":
		return NewSQLiteStore(dir, palette)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
