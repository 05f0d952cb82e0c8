package db

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Options controls store initialization.
type Options struct {
	// Seed inserts a few sample prompts when the library is empty.
	Seed bool
}

// Store is the single owner of the prompt library database. Every exported
// method holds mu for its whole duration, so callers observe a linear history.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	now  func() time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NewStore opens (or creates) the database at path, migrates it to the
// current schema and optionally seeds it. The store is returned only after
// initialization has completed.
func NewStore(path string, opts Options) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &Error{Kind: ErrIO, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, storageErr("open", "", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("open", "", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, path: path, now: time.Now}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, storageErr("migrate", "", err)
	}
	if opts.Seed {
		if err := s.seedIfEmpty(); err != nil {
			db.Close()
			return nil, storageErr("seed", "", err)
		}
	}

	slog.Debug("prompt store ready", "path", path)
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countPrompts(s.db)
}

func countPrompts(q queryer) (int, error) {
	var count int
	if err := q.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&count); err != nil {
		return 0, storageErr("count", "", err)
	}
	return count, nil
}

// Categories returns every non-empty category with the number of prompts in it.
func (s *Store) Categories() ([]CategoryCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT category, COUNT(*) FROM prompts
		WHERE category IS NOT NULL AND category != ''
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return nil, storageErr("categories", "", err)
	}
	defer rows.Close()

	categories := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, storageErr("categories", "", err)
		}
		categories = append(categories, c)
	}
	return categories, storageErr("categories", "", rows.Err())
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func newID() string {
	return uuid.NewString()
}
