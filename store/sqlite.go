package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps every collection as one row of a single table, keyed by
// bucket name. The payload is the same JSON array a FileBackend writes.
type SQLite struct {
	db   *sql.DB
	path string

	loadStmt *sql.Stmt
	saveStmt *sql.Stmt
}

// OpenSQLite opens (or creates) the database at path, applies the schema,
// and prepares the load/save statements.
func OpenSQLite(path string) (*SQLite, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, path: path}
	if err := s.prepareStatements(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases prepared statements and closes the DB.
func (s *SQLite) Close() error {
	if s.loadStmt != nil {
		s.loadStmt.Close()
	}
	if s.saveStmt != nil {
		s.saveStmt.Close()
	}
	return s.db.Close()
}

// Bucket returns a Backend reading and writing the named bucket.
func (s *SQLite) Bucket(name string) Backend {
	return &sqliteBucket{db: s, name: name}
}

func applySchema(db *sql.DB) error {
	// WAL keeps readers off the writer's back.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		bucket  TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	);`); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *SQLite) prepareStatements() error {
	var err error
	if s.loadStmt, err = s.db.Prepare(`SELECT payload FROM records WHERE bucket=?`); err != nil {
		return err
	}
	if s.saveStmt, err = s.db.Prepare(`INSERT INTO records(bucket,payload) VALUES(?,?)
		ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`); err != nil {
		return err
	}
	return nil
}

type sqliteBucket struct {
	db   *SQLite
	name string
}

func (b *sqliteBucket) Location() string {
	return fmt.Sprintf("%s#%s", b.db.path, b.name)
}

func (b *sqliteBucket) Load() ([]byte, error) {
	var payload []byte
	err := b.db.loadStmt.QueryRow(b.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bucket %s: %w", b.name, ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *sqliteBucket) Save(data []byte) error {
	_, err := b.db.saveStmt.Exec(b.name, data)
	return err
}
