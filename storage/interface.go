package storage

import (
	"context"
	"time"
)

// Result is the outcome of a finished game from the bot's point of view.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultTie  Result = "tie"
)

// RoundRecord is one shot, ours or the opponent's. A nil move means the
// player did not shoot (e.g. timed out).
type RoundRecord struct {
	GameID       string
	OpponentMove bool
	MoveX        *int
	MoveY        *int
}

// GameResult closes a game row. OpponentID and EndedAt also seed the row
// when the game was never inserted (bot restarted mid-game).
type GameResult struct {
	GameID     string
	OpponentID string
	Result     Result
	Error      string
	EndedAt    time.Time
}

// GameRecord is a single row returned for the status API.
type GameRecord struct {
	GameID     string  `json:"game_id"`
	OpponentID string  `json:"opponent_id"`
	StartedAt  string  `json:"started_at"`         // ISO8601
	EndedAt    *string `json:"ended_at,omitempty"` // ISO8601, nil while running
	Result     string  `json:"result,omitempty"`
	Rounds     int     `json:"rounds"`
	Error      string  `json:"error,omitempty"`
}

// Stats aggregates every recorded game.
type Stats struct {
	Games     int     `json:"games"`
	Wins      int     `json:"wins"`
	Losses    int     `json:"losses"`
	Ties      int     `json:"ties"`
	Running   int     `json:"running"`
	AvgRounds float64 `json:"avg_rounds"` // over finished games
}

// GameStore abstracts persistence for played games and their rounds.
// Implementations can be swapped for testing or different backends.
type GameStore interface {
	// Write
	InsertGame(ctx context.Context, gameID, opponentID string, startedAt time.Time) error
	InsertRound(ctx context.Context, r RoundRecord) error
	FinishGame(ctx context.Context, r GameResult) error

	// Read
	ListGames(ctx context.Context, limit, offset int) ([]GameRecord, error)
	GetStats(ctx context.Context) (*Stats, error)

	// Lifecycle
	Close()
}

// Ensure both backends implement GameStore at compile time.
var (
	_ GameStore = (*Store)(nil)
	_ GameStore = (*SQLiteStore)(nil)
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
