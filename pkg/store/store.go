// Package store keeps named chunks in a SQLite database.
//
// Chunks are stored as images together with the content hash used by the
// wire package, so a stored chunk can be sealed into an envelope without
// re-encoding.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/loxbc/pkg/bytecode"
)

// ErrNotFound indicates the requested chunk doesn't exist.
var ErrNotFound = errors.New("chunk not found")

var log = commonlog.GetLogger("loxbc.store")

const schema = `CREATE TABLE IF NOT EXISTS chunks (
	name        TEXT PRIMARY KEY,
	hash        BLOB NOT NULL,
	image       BLOB NOT NULL,
	code_len    INTEGER NOT NULL,
	const_count INTEGER NOT NULL,
	run_count   INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// Entry describes a stored chunk without decoding it.
type Entry struct {
	Name       string
	Hash       [32]byte
	CodeLen    int
	ConstCount int
	RunCount   int
	UpdatedAt  time.Time
}

// Store is a SQLite-backed chunk store. It is safe for concurrent use; every
// Get decodes a fresh chunk, so callers never share one.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the store at path. The special path ":memory:"
// opens a private in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Debugf("opened chunk store %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Put stores c under name, replacing any chunk already stored there.
func (s *Store) Put(ctx context.Context, name string, c *bytecode.Chunk) (Entry, error) {
	if name == "" {
		return Entry{}, fmt.Errorf("put: empty chunk name")
	}
	image, err := c.MarshalBinary()
	if err != nil {
		return Entry{}, fmt.Errorf("put %q: %w", name, err)
	}
	e := Entry{
		Name:       name,
		Hash:       sha256.Sum256(image),
		CodeLen:    c.Len(),
		ConstCount: c.ConstantCount(),
		RunCount:   c.Lines().RunCount(),
		UpdatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO chunks
		(name, hash, image, code_len, const_count, run_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			hash = excluded.hash,
			image = excluded.image,
			code_len = excluded.code_len,
			const_count = excluded.const_count,
			run_count = excluded.run_count,
			updated_at = excluded.updated_at`,
		e.Name, e.Hash[:], image, e.CodeLen, e.ConstCount, e.RunCount, e.UpdatedAt.Unix())
	if err != nil {
		return Entry{}, fmt.Errorf("put %q: %w", name, err)
	}
	log.Infof("stored chunk %q (%d bytes of code, %d constants, %d line runs)",
		name, e.CodeLen, e.ConstCount, e.RunCount)
	return e, nil
}

// Get loads and decodes the chunk stored under name.
func (s *Store) Get(ctx context.Context, name string) (*bytecode.Chunk, error) {
	image, err := s.Image(ctx, name)
	if err != nil {
		return nil, err
	}
	c, err := bytecode.Deserialize(image)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return c, nil
}

// Image returns the raw chunk image stored under name.
func (s *Store) Image(ctx context.Context, name string) ([]byte, error) {
	var image []byte
	err := s.db.QueryRowContext(ctx, "SELECT image FROM chunks WHERE name = ?", name).Scan(&image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return image, nil
}

// Stat returns the entry for name.
func (s *Store) Stat(ctx context.Context, name string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, hash, code_len, const_count, run_count, updated_at
		FROM chunks WHERE name = ?`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("stat %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("stat %q: %w", name, err)
	}
	return e, nil
}

// List returns every entry, ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, hash, code_len, const_count, run_count, updated_at
		FROM chunks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return entries, nil
}

// Delete removes the chunk stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	log.Infof("deleted chunk %q", name)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		hash    []byte
		updated int64
	)
	if err := row.Scan(&e.Name, &hash, &e.CodeLen, &e.ConstCount, &e.RunCount, &updated); err != nil {
		return Entry{}, err
	}
	if len(hash) != len(e.Hash) {
		return Entry{}, fmt.Errorf("chunk %q: hash is %d bytes", e.Name, len(hash))
	}
	copy(e.Hash[:], hash)
	e.UpdatedAt = time.Unix(updated, 0).UTC()
	return e, nil
}
