package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS game (
		game_id     TEXT PRIMARY KEY,
		opponent_id TEXT NOT NULL,
		started_at  INTEGER NOT NULL,
		ended_at    INTEGER,
		result      TEXT,
		rounds      INTEGER NOT NULL DEFAULT 0,
		error       TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS round (
		id            TEXT PRIMARY KEY,
		game_id       TEXT NOT NULL,
		opponent_move INTEGER NOT NULL,
		move_x        INTEGER,
		move_y        INTEGER,
		created_at    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_round_game_id ON round(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_game_started_at ON game(started_at DESC)`,
}

// SQLiteStore records games in a local SQLite file. Timestamps are stored as
// Unix milliseconds. A nil *SQLiteStore is valid and does nothing.
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// OpenSQLite opens (or creates) the database at path and creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	for _, q := range sqliteSchema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	slog.Info("opened SQLite store", "tag", "storage", "path", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() {
	if s != nil && s.db != nil {
		_ = s.db.Close()
	}
}

// InsertGame records a new game. Inserting the same game twice is a no-op.
func (s *SQLiteStore) InsertGame(ctx context.Context, gameID, opponentID string, startedAt time.Time) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game (game_id, opponent_id, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT (game_id) DO NOTHING`,
		gameID, opponentID, toMillis(startedAt))
	return err
}

// InsertRound records one shot.
func (s *SQLiteStore) InsertRound(ctx context.Context, r RoundRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO round (id, game_id, opponent_move, move_x, move_y, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), r.GameID, r.OpponentMove, r.MoveX, r.MoveY, toMillis(time.Now()))
	return err
}

// FinishGame stores the outcome and counts the bot's own shots as rounds.
func (s *SQLiteStore) FinishGame(ctx context.Context, r GameResult) error {
	if s == nil || s.db == nil {
		return nil
	}
	var errMsg *string
	if r.Error != "" {
		errMsg = &r.Error
	}
	ended := toMillis(r.EndedAt)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game (game_id, opponent_id, started_at, ended_at, result, error, rounds)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COUNT(*) FROM round WHERE game_id = ? AND opponent_move = 0))
		ON CONFLICT (game_id) DO UPDATE
		SET ended_at = excluded.ended_at, result = excluded.result, error = excluded.error, rounds = excluded.rounds`,
		r.GameID, r.OpponentID, ended, ended, string(r.Result), errMsg, r.GameID)
	return err
}

// ListGames returns games ordered by started_at DESC, with optional limit and offset.
func (s *SQLiteStore) ListGames(ctx context.Context, limit, offset int) ([]GameRecord, error) {
	if s == nil || s.db == nil {
		return []GameRecord{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, opponent_id, started_at, ended_at, COALESCE(result, ''), rounds, COALESCE(error, '')
		FROM game
		ORDER BY started_at DESC, game_id
		LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		var startedAt int64
		var endedAt sql.NullInt64
		if err := rows.Scan(&r.GameID, &r.OpponentID, &startedAt, &endedAt, &r.Result, &r.Rounds, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt = fromMillis(startedAt).Format(time.RFC3339)
		if endedAt.Valid {
			e := fromMillis(endedAt.Int64).Format(time.RFC3339)
			r.EndedAt = &e
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetStats aggregates outcomes over all games.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	if s == nil || s.db == nil {
		return &Stats{}, nil
	}
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'loss' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result = 'tie' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN result IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(CASE WHEN result IS NOT NULL THEN rounds END), 0.0)
		FROM game`).Scan(&st.Games, &st.Wins, &st.Losses, &st.Ties, &st.Running, &st.AvgRounds)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
