package storage

import (
	"context"
	"fmt"
	"strings"
)

// Open picks a backend from databaseURL: postgres:// or postgresql:// uses
// Postgres, sqlite://path or a path ending in .db uses SQLite. An empty URL
// returns (nil, nil) and the bot runs without persistence.
func Open(ctx context.Context, databaseURL string) (GameStore, error) {
	switch {
	case databaseURL == "":
		return nil, nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		s, err := NewStore(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return s, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return openSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasSuffix(databaseURL, ".db"):
		return openSQLite(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", redact(databaseURL))
	}
}

func openSQLite(ctx context.Context, path string) (GameStore, error) {
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	if len(url) > 8 {
		return url[:8] + "..."
	}
	return url
}
