package heuristic

import (
	"slices"

	"battleship-bot/game"
)

// CandidateFunc returns the cells a tier would attack on the given opponent board.
// An empty result means the tier does not apply and the next one is tried.
type CandidateFunc func(board *game.Board) []game.Position

// Tier is a registered targeting rule. Lower ranks are tried first.
type Tier struct {
	Name       string
	Rank       int
	Candidates CandidateFunc
}

var registry = make(map[string]Tier)

// Register adds or overwrites the tier called name.
func Register(name string, rank int, fn CandidateFunc) {
	registry[name] = Tier{Name: name, Rank: rank, Candidates: fn}
}

// Tiers returns every registered tier ordered by rank, then name.
func Tiers() []Tier {
	out := make([]Tier, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Tier) int {
		if a.Rank != b.Rank {
			return a.Rank - b.Rank
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}

// Candidates runs the tier called name, or returns nil if it is not registered.
func Candidates(name string, board *game.Board) []game.Position {
	t, ok := registry[name]
	if !ok || t.Candidates == nil {
		return nil
	}
	return t.Candidates(board)
}

// unknownOnly keeps the positions of cells that are still Unknown.
func unknownOnly(board *game.Board, positions []game.Position) []game.Position {
	var out []game.Position
	for _, p := range positions {
		if board.Matches(p, game.Unknown) {
			out = append(out, p)
		}
	}
	return out
}
