package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game (
	game_id     TEXT PRIMARY KEY,
	opponent_id TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	ended_at    TIMESTAMPTZ,
	result      TEXT,
	rounds      INT NOT NULL DEFAULT 0,
	error       TEXT
);
CREATE TABLE IF NOT EXISTS round (
	id            UUID PRIMARY KEY,
	game_id       TEXT NOT NULL,
	opponent_move BOOLEAN NOT NULL,
	move_x        SMALLINT,
	move_y        SMALLINT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_round_game_id ON round(game_id);
CREATE INDEX IF NOT EXISTS idx_game_started_at ON game(started_at DESC);
`

// Store records games in Postgres. A nil *Store is valid and does nothing.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and creates the schema. An empty URL returns (nil, nil).
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertGame records a new game. Inserting the same game twice is a no-op.
func (s *Store) InsertGame(ctx context.Context, gameID, opponentID string, startedAt time.Time) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game (game_id, opponent_id, started_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id) DO NOTHING`,
		gameID, opponentID, startedAt.UTC())
	return err
}

// InsertRound records one shot.
func (s *Store) InsertRound(ctx context.Context, r RoundRecord) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO round (id, game_id, opponent_move, move_x, move_y)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), r.GameID, r.OpponentMove, r.MoveX, r.MoveY)
	return err
}

// FinishGame stores the outcome and counts the bot's own shots as rounds.
func (s *Store) FinishGame(ctx context.Context, r GameResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	var errMsg *string
	if r.Error != "" {
		errMsg = &r.Error
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game (game_id, opponent_id, ended_at, result, error, rounds)
		VALUES ($1, $2, $3, $4, $5, (SELECT COUNT(*) FROM round WHERE game_id = $1 AND NOT opponent_move))
		ON CONFLICT (game_id) DO UPDATE
		SET ended_at = EXCLUDED.ended_at, result = EXCLUDED.result, error = EXCLUDED.error, rounds = EXCLUDED.rounds`,
		r.GameID, r.OpponentID, r.EndedAt.UTC(), string(r.Result), errMsg)
	return err
}

// ListGames returns games ordered by started_at DESC, with optional limit and offset.
func (s *Store) ListGames(ctx context.Context, limit, offset int) ([]GameRecord, error) {
	if s == nil || s.pool == nil {
		return []GameRecord{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.pool.Query(ctx, `
		SELECT game_id, opponent_id, started_at, ended_at, COALESCE(result, ''), rounds, COALESCE(error, '')
		FROM game
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var r GameRecord
		var startedAt time.Time
		var endedAt *time.Time
		if err := rows.Scan(&r.GameID, &r.OpponentID, &startedAt, &endedAt, &r.Result, &r.Rounds, &r.Error); err != nil {
			return nil, err
		}
		r.StartedAt = startedAt.UTC().Format(time.RFC3339)
		if endedAt != nil {
			e := endedAt.UTC().Format(time.RFC3339)
			r.EndedAt = &e
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetStats aggregates outcomes over all games.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	if s == nil || s.pool == nil {
		return &Stats{}, nil
	}
	var st Stats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE result = 'win'),
			COUNT(*) FILTER (WHERE result = 'loss'),
			COUNT(*) FILTER (WHERE result = 'tie'),
			COUNT(*) FILTER (WHERE result IS NULL),
			COALESCE(AVG(rounds) FILTER (WHERE result IS NOT NULL), 0)::float8
		FROM game`).Scan(&st.Games, &st.Wins, &st.Losses, &st.Ties, &st.Running, &st.AvgRounds)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
