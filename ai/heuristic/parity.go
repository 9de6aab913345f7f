package heuristic

import (
	"battleship-bot/game"
)

func init() {
	Register("parity", 3, parity)
}

// parity: checkerboard search. Every ship is at least two cells long, so the
// cells with even x+y are enough to find each one. Cells touching a known
// ship are skipped since ships never touch.
func parity(board *game.Board) []game.Position {
	return board.FindAll([]game.CellState{game.Unknown}, func(p game.Position) bool {
		return (p.X+p.Y)%2 == 0 && !board.IsAdjacentToOccupied(p)
	})
}
