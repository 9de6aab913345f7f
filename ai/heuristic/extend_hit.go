package heuristic

import (
	"battleship-bot/game"
)

func init() {
	Register("extend_hit", 2, extendHit)
}

// extendHit: shoot the orthogonal neighbours of the first hit in scan order.
// Reached with several hits only when finish_line found nothing to shoot.
func extendHit(board *game.Board) []game.Position {
	hit, ok := board.FindFirst([]game.CellState{game.Damaged}, nil)
	if !ok {
		return nil
	}
	return unknownOnly(board, hit.Orthogonal())
}
