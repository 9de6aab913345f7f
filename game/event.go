package game

import (
	"fmt"

	"battleship-bot/boterrors"
)

// Player is one seat in a game as reported by the server.
type Player struct {
	ID     string `json:"id"`
	Score  int    `json:"score"`
	Symbol string `json:"symbol,omitempty"`
}

// LogEntry is one past move. Move is nil when the player did not shoot (e.g. timeout).
type LogEntry struct {
	Player string    `json:"player"`
	Move   *Position `json:"move,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// GameDetails is the metadata carried by every event.
type GameDetails struct {
	ID      string     `json:"id"`
	Players []Player   `json:"players"`
	Self    string     `json:"self"`
	Log     []LogEntry `json:"log"`
}

// SelfIndex returns the seat of the player whose id is Self.
// Exactly one player must match and exactly one must not.
func (d *GameDetails) SelfIndex() (int, error) {
	selfIdx := -1
	others := 0
	for i, p := range d.Players {
		if p.ID != d.Self {
			others++
			continue
		}
		if selfIdx >= 0 {
			return -1, fmt.Errorf("%w: id %q appears twice in game %s", boterrors.ErrAmbiguousPlayers, d.Self, d.ID)
		}
		selfIdx = i
	}
	if selfIdx < 0 {
		return -1, fmt.Errorf("%w: id %q in game %s", boterrors.ErrSelfNotFound, d.Self, d.ID)
	}
	if others != 1 {
		return -1, fmt.Errorf("%w: %d opponents in game %s", boterrors.ErrAmbiguousPlayers, others, d.ID)
	}
	return selfIdx, nil
}

// OpponentIndex returns the seat that is not Self.
func (d *GameDetails) OpponentIndex() (int, error) {
	selfIdx, err := d.SelfIndex()
	if err != nil {
		return -1, err
	}
	for i := range d.Players {
		if i != selfIdx {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no opponent in game %s", boterrors.ErrAmbiguousPlayers, d.ID)
}

// SelfPlayer returns our own player entry.
func (d *GameDetails) SelfPlayer() (Player, error) {
	i, err := d.SelfIndex()
	if err != nil {
		return Player{}, err
	}
	return d.Players[i], nil
}

// OpponentPlayer returns the opponent's player entry.
func (d *GameDetails) OpponentPlayer() (Player, error) {
	i, err := d.OpponentIndex()
	if err != nil {
		return Player{}, err
	}
	return d.Players[i], nil
}

// Event is one of *InitEvent, *SetEvent, *RoundEvent or *ResultEvent.
type Event interface {
	Details() *GameDetails
	Kind() string
}

// InitEvent announces a new game.
type InitEvent struct {
	GameDetails
}

// SetEvent asks for a fleet placement.
type SetEvent struct {
	GameDetails
}

// RoundEvent asks for an attack. Boards are indexed by player seat.
type RoundEvent struct {
	GameDetails
	Boards [2]Board `json:"boards"`
}

// ResultEvent reports the end of a game. Either board may be withheld.
type ResultEvent struct {
	GameDetails
	Boards [2]BoardOrBool `json:"boards"`
}

func (e *InitEvent) Details() *GameDetails   { return &e.GameDetails }
func (e *SetEvent) Details() *GameDetails    { return &e.GameDetails }
func (e *RoundEvent) Details() *GameDetails  { return &e.GameDetails }
func (e *ResultEvent) Details() *GameDetails { return &e.GameDetails }

func (e *InitEvent) Kind() string   { return "INIT" }
func (e *SetEvent) Kind() string    { return "SET" }
func (e *RoundEvent) Kind() string  { return "ROUND" }
func (e *ResultEvent) Kind() string { return "RESULT" }

// SelfBoard returns our own board.
func (e *RoundEvent) SelfBoard() (*Board, error) {
	i, err := e.SelfIndex()
	if err != nil {
		return nil, err
	}
	return &e.Boards[i], nil
}

// OpponentBoard returns the board we are attacking.
func (e *RoundEvent) OpponentBoard() (*Board, error) {
	i, err := e.OpponentIndex()
	if err != nil {
		return nil, err
	}
	return &e.Boards[i], nil
}

// SelfBoard returns our own revealed board, or ErrBoardWithheld.
func (e *ResultEvent) SelfBoard() (*Board, error) {
	i, err := e.SelfIndex()
	if err != nil {
		return nil, err
	}
	return e.revealed(i)
}

// OpponentBoard returns the opponent's revealed board, or ErrBoardWithheld.
func (e *ResultEvent) OpponentBoard() (*Board, error) {
	i, err := e.OpponentIndex()
	if err != nil {
		return nil, err
	}
	return e.revealed(i)
}

func (e *ResultEvent) revealed(i int) (*Board, error) {
	if e.Boards[i].Board == nil {
		return nil, boterrors.ErrBoardWithheld
	}
	return e.Boards[i].Board, nil
}
