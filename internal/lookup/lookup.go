// Package lookup stores ranked opening moves keyed by the masterboard
// situation they answer, so early-turn decisions can skip the search.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no moves are stored for a key.
var ErrNotFound = errors.New("lookup: not found")

// Key identifies an opening situation: the turn, the legion's hex, the
// movement roll and the legion height.
type Key struct {
	Turn   int
	Hex    string
	Roll   int
	Height int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s:%d:%d", k.Turn, k.Hex, k.Roll, k.Height)
}

// Service reads and writes ordered candidate destination hexes.
type Service interface {
	Lookup(ctx context.Context, key Key) ([]string, error)
	Store(ctx context.Context, key Key, hexes []string) error
	Close() error
}

// Open picks a Service by URL scheme: memory://, redis:// (or rediss://),
// postgres:// (or postgresql://) and sqlite://<path>.
func Open(url string) (Service, error) {
	switch {
	case url == "" || strings.HasPrefix(url, "memory://"):
		return NewMemory(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedis(url)
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		db, err := ConnectPostgres(url)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(context.Background(), db, DialectPostgres)
	case strings.HasPrefix(url, "sqlite://"):
		db, err := ConnectSQLite(strings.TrimPrefix(url, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return NewSQLStore(context.Background(), db, DialectSQLite)
	}
	return nil, fmt.Errorf("lookup: unsupported URL %q", url)
}
