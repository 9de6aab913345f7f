package heuristic

import (
	"battleship-bot/game"
)

func init() {
	Register("finish_line", 1, finishLine)
}

// finishLine: with two or more hits on an unsunk ship, shoot just past either
// end of the run. First and last are taken in scan order.
func finishLine(board *game.Board) []game.Position {
	damaged := board.FindAll([]game.CellState{game.Damaged}, nil)
	if len(damaged) < 2 {
		return nil
	}
	first, last := damaged[0], damaged[len(damaged)-1]
	if first.X == last.X {
		return unknownOnly(board, []game.Position{first.Add(0, -1), last.Add(0, 1)})
	}
	return unknownOnly(board, []game.Position{first.Add(-1, 0), last.Add(1, 0)})
}
