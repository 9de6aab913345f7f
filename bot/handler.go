package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"battleship-bot/ai"
	"battleship-bot/boterrors"
	"battleship-bot/game"
	"battleship-bot/loghandler"
	"battleship-bot/storage"
)

// Handler answers game events for any number of concurrent games.
// Every decision is derived from the event itself; the only state kept
// between events is the spectated game id.
type Handler struct {
	store     storage.GameStore // nil disables persistence
	spectator Spectator

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	now func() time.Time
}

// NewHandler creates a Handler. store may be nil.
func NewHandler(store storage.GameStore, rng *rand.Rand) *Handler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Handler{store: store, rng: rng, now: time.Now}
}

// HandleEvent returns a game.Placement for SET, a game.Position for ROUND and
// nil for INIT and RESULT.
func (h *Handler) HandleEvent(ctx context.Context, ev game.Event) (any, error) {
	switch ev := ev.(type) {
	case *game.InitEvent:
		return nil, h.handleInit(ctx, ev)
	case *game.SetEvent:
		placement, err := h.handleSet(ev)
		if err != nil {
			return nil, err
		}
		return placement, nil
	case *game.RoundEvent:
		pos, err := h.handleRound(ctx, ev)
		if err != nil {
			return nil, err
		}
		return pos, nil
	case *game.ResultEvent:
		return nil, h.handleResult(ctx, ev)
	default:
		return nil, fmt.Errorf("%w: %T", boterrors.ErrUnknownEventType, ev)
	}
}

func (h *Handler) handleInit(ctx context.Context, ev *game.InitEvent) error {
	opp, err := ev.OpponentPlayer()
	if err != nil {
		return err
	}
	slog.Info("started game", "tag", "bot", "game", ev.ID, "opponent", opp.ID)
	if h.spectator.Watch(ev.ID) {
		slog.Info("spectating game", "tag", "bot", "game", ev.ID)
	}

	if h.store != nil {
		if err := h.store.InsertGame(ctx, ev.ID, opp.ID, h.now()); err != nil {
			slog.Warn("failed to record game", "tag", "bot", "game", ev.ID, "error", err)
		}
	}
	return nil
}

func (h *Handler) handleSet(ev *game.SetEvent) (game.Placement, error) {
	if _, err := ev.SelfIndex(); err != nil {
		return game.Placement{}, err
	}
	h.mu.Lock()
	placement := game.RandomPlacement(h.rng)
	h.mu.Unlock()

	if h.spectator.Watching(ev.ID) {
		slog.Info("placing ships", "tag", "bot", "game", ev.ID)
		slog.Debug("own fleet\n"+placement.Board().String(), "tag", "bot", "game", ev.ID)
	}
	return placement, nil
}

func (h *Handler) handleRound(ctx context.Context, ev *game.RoundEvent) (game.Position, error) {
	opp, err := ev.OpponentPlayer()
	if err != nil {
		return game.Position{}, err
	}
	target, err := ev.OpponentBoard()
	if err != nil {
		return game.Position{}, err
	}
	own, err := ev.SelfBoard()
	if err != nil {
		return game.Position{}, err
	}
	h.recordOpponentMoves(ctx, ev.Details(), opp.ID)

	spectated := h.spectator.Watching(ev.ID)
	if spectated {
		slog.Debug("own board\n"+own.String(), "tag", "bot", "game", ev.ID)
		slog.Debug("opponent board\n"+target.String(), "tag", "bot", "game", ev.ID)
	}

	decision, err := ai.ChooseAttack(target)
	if err != nil {
		return game.Position{}, fmt.Errorf("game %s: %w", ev.ID, err)
	}
	if spectated {
		slog.Info("shooting", "tag", "bot", "game", ev.ID, "target", decision.Target, "tier", decision.Tier, "weight", decision.Weight)
	}

	x, y := decision.Target.X, decision.Target.Y
	h.insertRound(ctx, storage.RoundRecord{GameID: ev.ID, MoveX: &x, MoveY: &y})
	return decision.Target, nil
}

// recordOpponentMoves stores the opponent's log entries since our previous move.
func (h *Handler) recordOpponentMoves(ctx context.Context, d *game.GameDetails, opponentID string) {
	start := len(d.Log)
	for start > 0 && d.Log[start-1].Player == opponentID {
		start--
	}
	for _, entry := range d.Log[start:] {
		rec := storage.RoundRecord{GameID: d.ID, OpponentMove: true}
		if entry.Move != nil {
			x, y := entry.Move.X, entry.Move.Y
			rec.MoveX, rec.MoveY = &x, &y
			slog.Log(ctx, loghandler.LevelTrace, "opponent move", "tag", "bot", "game", d.ID, "move", *entry.Move)
		} else {
			slog.Log(ctx, loghandler.LevelTrace, "opponent skipped", "tag", "bot", "game", d.ID, "error", entry.Error)
		}
		h.insertRound(ctx, rec)
	}
}

func (h *Handler) insertRound(ctx context.Context, rec storage.RoundRecord) {
	if h.store == nil {
		return
	}
	if err := h.store.InsertRound(ctx, rec); err != nil {
		slog.Warn("failed to record round", "tag", "bot", "game", rec.GameID, "error", err)
	}
}

func (h *Handler) handleResult(ctx context.Context, ev *game.ResultEvent) error {
	self, err := ev.SelfPlayer()
	if err != nil {
		return err
	}
	opp, err := ev.OpponentPlayer()
	if err != nil {
		return err
	}
	result := ResultFor(self.Score, opp.Score)

	var lastErr string
	if n := len(ev.Log); n > 0 {
		lastErr = ev.Log[n-1].Error
	}

	attrs := []any{"tag", "bot", "game", ev.ID, "opponent", opp.ID, "result", result,
		"score", fmt.Sprintf("%d:%d", self.Score, opp.Score), "moves", len(ev.Log)}
	if result == storage.ResultLoss && lastErr != "" {
		slog.Error("lost game with error", append(attrs, "error", lastErr)...)
	} else {
		slog.Info("finished game", attrs...)
	}

	if h.spectator.Release(ev.ID) {
		if board, err := ev.OpponentBoard(); err == nil {
			slog.Debug("opponent fleet\n"+board.String(), "tag", "bot", "game", ev.ID)
		} else if !errors.Is(err, boterrors.ErrBoardWithheld) {
			return err
		}
		if result == storage.ResultWin {
			slog.Info("won game", "tag", "bot", "game", ev.ID)
		} else {
			slog.Info("lost game", "tag", "bot", "game", ev.ID)
		}
	}

	if h.store != nil {
		err := h.store.FinishGame(ctx, storage.GameResult{
			GameID:     ev.ID,
			OpponentID: opp.ID,
			Result:     result,
			Error:      lastErr,
			EndedAt:    h.now(),
		})
		if err != nil {
			slog.Warn("failed to record result", "tag", "bot", "game", ev.ID, "error", err)
		}
	}
	return nil
}

// ResultFor compares final scores from our side.
func ResultFor(selfScore, opponentScore int) storage.Result {
	switch {
	case selfScore > opponentScore:
		return storage.ResultWin
	case selfScore < opponentScore:
		return storage.ResultLoss
	default:
		return storage.ResultTie
	}
}
