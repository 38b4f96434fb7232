// Package history archives generated prompts in a local SQLite database so
// earlier results can be listed and re-read.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/josephgoksu/PromptWing/types"
)

// Record is one archived generation.
type Record struct {
	ID          string
	CreatedAt   time.Time
	Framework   string
	FrameworkEn string
	Request     string
	Prompt      string
}

// Store is a SQLite-backed prompt archive.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the archive at dbPath. ":memory:" is accepted
// for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		framework TEXT NOT NULL,
		framework_en TEXT,
		request TEXT NOT NULL,
		prompt TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save archives one generated prompt and returns its id.
func (s *Store) Save(framework, frameworkEn, request, prompt string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO prompts (id, created_at, framework, framework_en, request, prompt) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), framework, frameworkEn, request, prompt,
	)
	if err != nil {
		return "", fmt.Errorf("save prompt: %w", err)
	}
	return id, nil
}

// List returns the most recent records, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, framework, framework_en, request, prompt FROM prompts ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one record by id.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, framework, framework_en, request, prompt FROM prompts WHERE id = ?`, id,
	)
	r, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.ErrNotFound, fmt.Sprintf("no history record %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	return &r, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var r Record
	var created string
	if err := scan(&r.ID, &created, &r.Framework, &r.FrameworkEn, &r.Request, &r.Prompt); err != nil {
		return Record{}, err
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}
