package ai

import (
	"errors"
	"fmt"
	"slices"

	"battleship-bot/game"
)

// ErrInconsistentBoard is returned when the observed ships cannot be part of any
// legal fleet. It means the board snapshot itself is malformed.
var ErrInconsistentBoard = errors.New("board is inconsistent with the fleet")

// DetectPlacements reconstructs every placement consistent with board.
// Ships whose cells are all Intact or Destroyed are claimed first; the first
// Damaged run is then resolved into every position it could still have.
// The result is never empty.
func DetectPlacements(board *game.Board) ([]game.Placement, error) {
	base, err := detectCompleteShips(board)
	if err != nil {
		return nil, err
	}
	if candidates := detectDamagedShip(board, base); len(candidates) > 0 {
		return candidates, nil
	}
	return []game.Placement{base}, nil
}

func detectCompleteShips(board *game.Board) (game.Placement, error) {
	var p game.Placement
	for {
		start, ok := board.FindFirst([]game.CellState{game.Intact, game.Destroyed}, func(pos game.Position) bool {
			return !p.IsClaimed(pos)
		})
		if !ok {
			return p, nil
		}

		missing := p.MissingSizes()
		if len(missing) == 0 {
			return p, fmt.Errorf("%w: unclaimed ship at %s with full fleet", ErrInconsistentBoard, start)
		}
		dirs := detectDirections(board, start)
		if len(dirs) == 0 {
			return p, fmt.Errorf("%w: no direction fits ship at %s", ErrInconsistentBoard, start)
		}

		ship := game.Ship{
			Start:     start,
			Size:      detectSize(board, start, dirs[0], missing[0]),
			Direction: dirs[0],
		}
		if err := p.AddShip(ship); err != nil {
			return p, fmt.Errorf("%w: %w", ErrInconsistentBoard, err)
		}
	}
}

func detectDamagedShip(board *game.Board, base game.Placement) []game.Placement {
	sizes := slices.Compact(base.MissingSizes())
	if len(sizes) == 0 {
		return nil
	}
	maxSize := sizes[0]

	start, ok := board.FindFirst([]game.CellState{game.Damaged}, nil)
	if !ok {
		return nil
	}

	var out []game.Placement
	for _, dir := range detectDirections(board, start) {
		detected := detectSize(board, start, dir, maxSize)
		unknownEnd := unknownRun(board, start.Step(dir, detected), dir, 1, maxSize-detected)
		unknownStart := unknownRun(board, start.Step(dir, -1), dir, -1, maxSize-detected)

		for _, size := range sizes {
			if size <= detected {
				continue
			}
			missing := size - detected
			for off := max(0, missing-unknownEnd); off <= min(missing, unknownStart); off++ {
				candidate := base.Clone()
				ship := game.Ship{Start: start.Step(dir, -off), Size: size, Direction: dir}
				if candidate.AddShip(ship) == nil {
					out = append(out, candidate)
				}
			}
		}
	}
	return out
}

// detectDirections returns the directions a ship through start can run in.
// An occupied cell right of or below start settles it; otherwise every axis
// with an Unknown cell on either side of start remains possible.
func detectDirections(board *game.Board, start game.Position) []game.Direction {
	if board.Matches(start.Step(game.Horizontal, 1), game.OccupiedStates...) {
		return []game.Direction{game.Horizontal}
	}
	if board.Matches(start.Step(game.Vertical, 1), game.OccupiedStates...) {
		return []game.Direction{game.Vertical}
	}

	var dirs []game.Direction
	for _, d := range game.Directions {
		if board.Matches(start.Step(d, 1), game.Unknown) || board.Matches(start.Step(d, -1), game.Unknown) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// detectSize counts occupied cells from start along dir, at most maxSize.
func detectSize(board *game.Board, start game.Position, dir game.Direction, maxSize int) int {
	n := 1
	for n < maxSize && board.Matches(start.Step(dir, n), game.OccupiedStates...) {
		n++
	}
	return n
}

// unknownRun counts consecutive Unknown cells from from, stepping sign cells
// along dir each time, at most limit.
func unknownRun(board *game.Board, from game.Position, dir game.Direction, sign, limit int) int {
	n := 0
	for n < limit && board.Matches(from.Step(dir, sign*n), game.Unknown) {
		n++
	}
	return n
}
