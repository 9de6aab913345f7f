package game

import (
	"encoding/json"
	"fmt"
)

// CellState is what is known about a single cell.
type CellState int

const (
	Unknown   CellState = iota // not yet observed
	Empty                      // water, or outside the grid
	Intact                     // own ship, not hit
	Damaged                    // hit, ship not sunk yet
	Destroyed                  // hit, ship sunk
)

// OccupiedStates are the states that mean a ship is present.
var OccupiedStates = []CellState{Intact, Damaged, Destroyed}

// String returns the name of a CellState.
func (cs CellState) String() string {
	switch cs {
	case Unknown:
		return "unknown"
	case Empty:
		return "empty"
	case Intact:
		return "ship"
	case Damaged:
		return "damaged"
	case Destroyed:
		return "destroyed"
	default:
		return "invalid"
	}
}

// Code returns the one-character wire code. Unknown is the empty string.
func (cs CellState) Code() string {
	switch cs {
	case Empty:
		return "."
	case Intact:
		return "O"
	case Damaged:
		return "x"
	case Destroyed:
		return "X"
	default:
		return ""
	}
}

// ParseCellState maps a wire code to a CellState.
func ParseCellState(code string) (CellState, error) {
	switch code {
	case "":
		return Unknown, nil
	case ".":
		return Empty, nil
	case "O":
		return Intact, nil
	case "x":
		return Damaged, nil
	case "X":
		return Destroyed, nil
	default:
		return Unknown, fmt.Errorf("unknown cell code %q", code)
	}
}

// MarshalJSON encodes the state as its wire code.
func (cs CellState) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.Code())
}

// UnmarshalJSON decodes a wire code.
func (cs *CellState) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("cell state: %w", err)
	}
	parsed, err := ParseCellState(code)
	if err != nil {
		return err
	}
	*cs = parsed
	return nil
}
