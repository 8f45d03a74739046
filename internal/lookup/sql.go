package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL driver flavor.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS opening_moves (
	turn   INTEGER NOT NULL,
	hex    TEXT    NOT NULL,
	roll   INTEGER NOT NULL,
	height INTEGER NOT NULL,
	moves  TEXT    NOT NULL,
	PRIMARY KEY (turn, hex, roll, height)
)`

// ConnectPostgres opens a connection pool to the PostgreSQL database.
func ConnectPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// ConnectSQLite opens a SQLite database file, or ":memory:". SQLite allows a
// single writer, so the pool holds one connection.
func ConnectSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

// SQLStore keeps opening moves in the opening_moves table.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps db and creates the table when missing.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create opening_moves: %w", err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

// rebind turns $n placeholders into ? for SQLite.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectSQLite {
		return query
	}
	for i := 9; i >= 1; i-- {
		query = strings.ReplaceAll(query, "$"+strconv.Itoa(i), "?")
	}
	return query
}

func (s *SQLStore) Lookup(ctx context.Context, key Key) ([]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT moves FROM opening_moves WHERE turn = $1 AND hex = $2 AND roll = $3 AND height = $4`),
		key.Turn, key.Hex, key.Roll, key.Height,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select opening %s: %w", key, err)
	}
	var hexes []string
	if err := json.Unmarshal([]byte(raw), &hexes); err != nil {
		return nil, fmt.Errorf("decode opening %s: %w", key, err)
	}
	return hexes, nil
}

func (s *SQLStore) Store(ctx context.Context, key Key, hexes []string) error {
	data, err := json.Marshal(hexes)
	if err != nil {
		return fmt.Errorf("encode opening %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO opening_moves (turn, hex, roll, height, moves) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (turn, hex, roll, height) DO UPDATE SET moves = excluded.moves`),
		key.Turn, key.Hex, key.Roll, key.Height, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert opening %s: %w", key, err)
	}
	return nil
}

// Close closes the database pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
