package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no file exists for a reference id.
var ErrNotFound = errors.New("file not found")

// File is the metadata handed back for an uploaded blob. The ID is the
// reference clients embed in room message payloads.
type File struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store persists uploaded media blobs on disk and indexes them in SQLite.
type Store struct {
	db  *sql.DB
	dir string
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size         INTEGER NOT NULL,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewStore opens the SQLite index at dbPath and ensures dir exists for blobs.
func NewStore(dbPath, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db, dir: dir}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the blob to disk under a fresh reference id and records its
// metadata. The blob file is removed again if the index insert fails.
func (s *Store) Save(ctx context.Context, name, contentType string, r io.Reader) (*File, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create blob: %w", err)
	}

	size, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write blob: %w", err)
	}

	f := &File{
		ID:          id,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO files (id, name, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, f.ID, f.Name, f.ContentType, f.Size, f.CreatedAt); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("insert file: %w", err)
	}

	return f, nil
}

// Open returns the metadata and blob contents for a reference id.
// The caller closes the reader.
func (s *Store) Open(ctx context.Context, id string) (*File, io.ReadCloser, error) {
	query := `
		SELECT id, name, content_type, size, created_at
		FROM files
		WHERE id = ?
	`
	var f File
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.ContentType,
		&f.Size,
		&f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("query file: %w", err)
	}

	blob, err := os.Open(filepath.Join(s.dir, f.ID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}

	return &f, blob, nil
}
