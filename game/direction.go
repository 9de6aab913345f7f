package game

import (
	"encoding/json"
	"fmt"
)

// Direction is the axis a ship extends along from its start cell.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Directions lists both directions in detection order.
var Directions = []Direction{Horizontal, Vertical}

// Unit returns the one-cell step along d.
func (d Direction) Unit() Position {
	if d == Vertical {
		return Position{X: 0, Y: 1}
	}
	return Position{X: 1, Y: 0}
}

// String returns the protocol string for a Direction.
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "h"
	case Vertical:
		return "v"
	default:
		return "?"
	}
}

// MarshalJSON encodes the direction as "h" or "v".
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "h" or "v".
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("direction: %w", err)
	}
	switch s {
	case "h":
		*d = Horizontal
	case "v":
		*d = Vertical
	default:
		return fmt.Errorf("direction: unknown value %q", s)
	}
	return nil
}
