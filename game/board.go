package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"
)

// Board is a 10x10 observation grid indexed [x][y]. On the wire the outer
// array is the x axis. The zero Board is entirely Unknown.
type Board [GridSize][GridSize]CellState

// NewBoard returns a board with every cell set to state.
func NewBoard(state CellState) *Board {
	var b Board
	for x := range b {
		for y := range b[x] {
			b[x][y] = state
		}
	}
	return &b
}

// Get returns the state at pos. Positions off the grid read as Empty.
func (b *Board) Get(pos Position) CellState {
	if !pos.InGrid() {
		return Empty
	}
	return b[pos.X][pos.Y]
}

// Set stores state at pos. Positions off the grid are ignored.
func (b *Board) Set(pos Position, state CellState) {
	if !pos.InGrid() {
		return
	}
	b[pos.X][pos.Y] = state
}

// Matches reports whether the cell at pos is in any of states.
func (b *Board) Matches(pos Position, states ...CellState) bool {
	return slices.Contains(states, b.Get(pos))
}

// IsAdjacentToOccupied reports whether any of the eight cells around pos holds a ship.
func (b *Board) IsAdjacentToOccupied(pos Position) bool {
	for _, n := range pos.Neighbors() {
		if b.Matches(n, OccupiedStates...) {
			return true
		}
	}
	return false
}

// FindAll returns every position whose state is in states and for which keep
// returns true, in scan order (x outer, y inner). A nil keep accepts everything.
func (b *Board) FindAll(states []CellState, keep func(Position) bool) []Position {
	var out []Position
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			pos := Position{X: x, Y: y}
			if !slices.Contains(states, b[x][y]) {
				continue
			}
			if keep != nil && !keep(pos) {
				continue
			}
			out = append(out, pos)
		}
	}
	return out
}

// FindFirst returns the first match in scan order.
func (b *Board) FindFirst(states []CellState, keep func(Position) bool) (Position, bool) {
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			pos := Position{X: x, Y: y}
			if !slices.Contains(states, b[x][y]) {
				continue
			}
			if keep != nil && !keep(pos) {
				continue
			}
			return pos, true
		}
	}
	return Position{}, false
}

// Count returns how many cells are in any of states.
func (b *Board) Count(states ...CellState) int {
	n := 0
	for x := range b {
		for y := range b[x] {
			if slices.Contains(states, b[x][y]) {
				n++
			}
		}
	}
	return n
}

// MarshalJSON encodes the board as a 10x10 array of cell codes.
func (b Board) MarshalJSON() ([]byte, error) {
	codes := make([][]string, GridSize)
	for x := range b {
		codes[x] = make([]string, GridSize)
		for y := range b[x] {
			codes[x][y] = b[x][y].Code()
		}
	}
	return json.Marshal(codes)
}

// UnmarshalJSON decodes a 10x10 array of cell codes.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells [][]CellState
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(cells) != GridSize {
		return fmt.Errorf("board: expected %d columns, got %d", GridSize, len(cells))
	}
	for x, col := range cells {
		if len(col) != GridSize {
			return fmt.Errorf("board: column %d has %d cells, expected %d", x, len(col), GridSize)
		}
		copy(b[x][:], col)
	}
	return nil
}

// String renders the board with y as rows and x as columns.
func (b *Board) String() string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 2, 0, 1, ' ', 0)

	fmt.Fprint(tw, "\t")
	for x := 0; x < GridSize; x++ {
		fmt.Fprint(tw, strconv.Itoa(x)+"\t")
	}
	fmt.Fprint(tw, "\n")

	for y := 0; y < GridSize; y++ {
		fmt.Fprint(tw, strconv.Itoa(y)+"\t")
		for x := 0; x < GridSize; x++ {
			code := b[x][y].Code()
			if code == "" {
				code = "~"
			}
			fmt.Fprint(tw, code+"\t")
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	return buf.String()
}

// BoardOrBool is a board that the server may withhold, sending a boolean instead.
type BoardOrBool struct {
	Board    *Board
	Withheld bool
}

// UnmarshalJSON accepts either a board or a JSON boolean.
func (bb *BoardOrBool) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		bb.Board = nil
		bb.Withheld = true
		return nil
	}
	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		return err
	}
	bb.Board = &board
	bb.Withheld = false
	return nil
}

// MarshalJSON encodes a withheld board as false.
func (bb BoardOrBool) MarshalJSON() ([]byte, error) {
	if bb.Board == nil {
		return json.Marshal(false)
	}
	return json.Marshal(bb.Board)
}
