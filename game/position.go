package game

import (
	"encoding/json"
	"fmt"
)

// GridSize is the width and height of every board.
const GridSize = 10

// Position is a cell coordinate. Arithmetic may produce values outside the grid;
// reading such a cell yields Empty and writing it is a no-op.
type Position struct {
	X int
	Y int
}

// Bounded is implemented by anything that occupies an axis-aligned box of cells.
// The box includes the one-cell margin around the occupied cells.
type Bounded interface {
	Bounds() (Position, Position)
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns p moved n cells along d. Negative n moves backwards.
func (p Position) Step(d Direction, n int) Position {
	u := d.Unit()
	return Position{X: p.X + u.X*n, Y: p.Y + u.Y*n}
}

// InGrid reports whether p lies on the board.
func (p Position) InGrid() bool {
	return p.X >= 0 && p.Y >= 0 && p.X < GridSize && p.Y < GridSize
}

// Bounds returns the corners of the 3x3 neighbourhood centred on p.
func (p Position) Bounds() (Position, Position) {
	return p.Add(-1, -1), p.Add(1, 1)
}

// Neighbors returns the eight surrounding cells, some of which may be off the grid.
func (p Position) Neighbors() []Position {
	return []Position{
		p.Add(-1, -1), p.Add(0, -1), p.Add(1, -1),
		p.Add(-1, 0), p.Add(1, 0),
		p.Add(-1, 1), p.Add(0, 1), p.Add(1, 1),
	}
}

// Orthogonal returns the four edge-sharing neighbours in the order left, right, up, down.
func (p Position) Orthogonal() []Position {
	return []Position{p.Add(-1, 0), p.Add(1, 0), p.Add(0, -1), p.Add(0, 1)}
}

// String returns the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// MarshalJSON encodes the position as a two-element array [x,y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element array [x,y].
func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("position: expected 2 coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}
