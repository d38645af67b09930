package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/KaramelBytes/timestudy-cli/internal/session"
)

// DBFileName is the database file inside the sessions directory.
const DBFileName = "sessions.db"

// SQLiteStore snapshots each session into a state table as JSON blobs, one row
// per (session, bucket), replaced in a single transaction on every save.
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.Mutex
	palette []string
}

var sqliteBuckets = []string{"meta", "records", "groups", "candidates", "sources"}

// NewSQLiteStore opens (or creates) <dir>/sessions.db.
func NewSQLiteStore(dir string, palette []string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		session TEXT NOT NULL,
		bucket TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (session, bucket)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteStore{db: db, palette: palette}, nil
}

func (s *SQLiteStore) Load(name string) (*session.Session, error) {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state WHERE session = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	doc := map[string]json.RawMessage{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		doc[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%s: %w", name, session.ErrNotFound)
	}
	// Rebuild the session document from its buckets.
	var m map[string]json.RawMessage
	if err := json.Unmarshal(doc["meta"], &m); err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	for _, b := range sqliteBuckets[1:] {
		if raw, ok := doc[b]; ok {
			m[b] = raw
		}
	}
	full, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return session.Decode(full, s.palette)
}

func (s *SQLiteStore) Save(sess *session.Session) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Touch()
	whole, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(whole, &parts); err != nil {
		return err
	}
	m := maps.Clone(parts)
	// everything outside the named buckets goes to meta
	for _, b := range sqliteBuckets[1:] {
		delete(m, b)
	}
	metaBlob, err := json.Marshal(m)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		data := parts[bucket]
		if bucket == "meta" {
			data = metaBlob
		}
		if data == nil {
			data = json.RawMessage("null")
		}
		if _, err := tx.Exec(`INSERT INTO state(session, bucket, payload) VALUES(?, ?, ?)
			ON CONFLICT(session, bucket) DO UPDATE SET payload=excluded.payload`, sess.Name, bucket, []byte(data)); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Exists(name string) bool {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM state WHERE session = ?`, name).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT session FROM state ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
