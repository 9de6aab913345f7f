package ai

import (
	"bytes"
	"fmt"
	"sync"
	"text/tabwriter"

	"battleship-bot/game"
)

const (
	minShipSize = 2
	maxShipSize = 5
)

// universes caches, per grid size, every ship that fits inside the grid.
// Entries are built once and never mutated.
var universes sync.Map // int -> []game.Ship

// shipUniverse returns all ships of size 2..5 in both directions whose cells
// lie inside a size x size grid, in scan order of their start cell.
func shipUniverse(size int) []game.Ship {
	if v, ok := universes.Load(size); ok {
		return v.([]game.Ship)
	}
	var ships []game.Ship
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			for n := minShipSize; n <= maxShipSize; n++ {
				for _, d := range game.Directions {
					s := game.Ship{Start: game.Position{X: x, Y: y}, Size: n, Direction: d}
					end := s.End()
					if end.X >= size || end.Y >= size {
						continue
					}
					ships = append(ships, s)
				}
			}
		}
	}
	v, _ := universes.LoadOrStore(size, ships)
	return v.([]game.Ship)
}

// Heatmap holds, per cell, how many placement hypotheses put a ship there.
type Heatmap [game.GridSize][game.GridSize]int

// NewHeatmap builds the heatmap for an opponent board.
//
// When the board resolves to a single placement, every universe ship that
// avoids known water is tried as one extra ship on top of it; extensions that
// the placement rejects are dropped. When the damaged ship is ambiguous the
// candidate placements are counted as they are.
func NewHeatmap(board *game.Board) (*Heatmap, error) {
	placements, err := DetectPlacements(board)
	if err != nil {
		return nil, err
	}

	if len(placements) == 1 {
		base := placements[0]
		for _, s := range possibleShips(board) {
			ext := base.Clone()
			if ext.AddShip(s) == nil {
				placements = append(placements, ext)
			}
		}
	}

	counts := make(map[game.Ship]int)
	for _, p := range placements {
		for _, s := range p.Ships {
			counts[s]++
		}
	}

	var h Heatmap
	for s, n := range counts {
		for _, c := range s.Cells() {
			h[c.X][c.Y] += n
		}
	}
	return &h, nil
}

// possibleShips returns the universe ships with no cell on known water.
func possibleShips(board *game.Board) []game.Ship {
	var out []game.Ship
	for _, s := range shipUniverse(game.GridSize) {
		if !touchesWater(board, s) {
			out = append(out, s)
		}
	}
	return out
}

func touchesWater(board *game.Board, s game.Ship) bool {
	for _, c := range s.Cells() {
		if board.Matches(c, game.Empty) {
			return true
		}
	}
	return false
}

// At returns the weight of pos, or 0 off the grid.
func (h *Heatmap) At(pos game.Position) int {
	if !pos.InGrid() {
		return 0
	}
	return h[pos.X][pos.Y]
}

// Total returns the sum of all weights.
func (h *Heatmap) Total() int {
	total := 0
	for x := range h {
		for y := range h[x] {
			total += h[x][y]
		}
	}
	return total
}

// String renders the weights with y as rows, for debug logs.
func (h *Heatmap) String() string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 3, 0, 1, ' ', tabwriter.AlignRight)
	for y := 0; y < game.GridSize; y++ {
		for x := 0; x < game.GridSize; x++ {
			fmt.Fprintf(tw, "%d\t", h[x][y])
		}
		fmt.Fprint(tw, "\n")
	}
	tw.Flush()
	return buf.String()
}
