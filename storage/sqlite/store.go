package sqlite

import (
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store provides a SQLite-backed key-value store.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the key-value database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NotValidf("empty storage path")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path)
	}
	dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "open sqlite db")
	}
	// A single connection keeps ":memory:" databases shared.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Annotate(err, "ping sqlite db")
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Annotate(err, "create kv table")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Has(key string) bool {
	if s == nil || s.sqlDB == nil {
		return false
	}
	var one int
	err := s.sqlDB.QueryRow(`SELECT 1 FROM kv WHERE key = ?`, key).Scan(&one)
	return err == nil
}

func (s *Store) GetString(key string) (string, error) {
	if s == nil || s.sqlDB == nil {
		return "", errors.New("storage is not configured")
	}
	var value string
	err := s.sqlDB.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.NotFoundf("key %q", key)
	}
	if err != nil {
		return "", errors.Annotatef(err, "get %q", key)
	}
	return value, nil
}

func (s *Store) PutString(key, value string) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	_, err := s.sqlDB.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return errors.Annotatef(err, "put %q", key)
}

func (s *Store) Remove(key string) error {
	if s == nil || s.sqlDB == nil {
		return errors.New("storage is not configured")
	}
	_, err := s.sqlDB.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return errors.Annotatef(err, "remove %q", key)
}
