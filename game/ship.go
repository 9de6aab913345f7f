package game

import "fmt"

// Ship is a straight run of Size cells starting at Start.
type Ship struct {
	Start     Position  `json:"start"`
	Size      int       `json:"size"`
	Direction Direction `json:"direction"`
}

// Cells returns the occupied cells from Start to End.
func (s Ship) Cells() []Position {
	cells := make([]Position, 0, s.Size)
	for i := 0; i < s.Size; i++ {
		cells = append(cells, s.Start.Step(s.Direction, i))
	}
	return cells
}

// End returns the last occupied cell.
func (s Ship) End() Position {
	return s.Start.Step(s.Direction, s.Size-1)
}

// InGrid reports whether every cell of the ship is on the board.
func (s Ship) InGrid() bool {
	return s.Start.InGrid() && s.End().InGrid()
}

// Bounds returns the start cell's 3x3 bounds stretched by Size-1 along Direction.
func (s Ship) Bounds() (Position, Position) {
	lo, hi := s.Start.Bounds()
	return lo, hi.Step(s.Direction, s.Size-1)
}

// CollidesWith reports whether the bounding boxes of s and other overlap.
// Both boxes carry a one-cell margin, so touching ships (including diagonally)
// collide while ships separated by one cell of water do not.
func (s Ship) CollidesWith(other Bounded) bool {
	lo, hi := s.Bounds()
	olo, ohi := other.Bounds()
	return lo.X < ohi.X && hi.X > olo.X && lo.Y < ohi.Y && hi.Y > olo.Y
}

// String returns a compact description, e.g. "5h@(0,0)".
func (s Ship) String() string {
	return fmt.Sprintf("%d%s@%s", s.Size, s.Direction, s.Start)
}
