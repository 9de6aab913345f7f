package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// Fleet is the multiset of ship sizes every placement draws from, largest first.
var Fleet = []int{5, 4, 3, 3, 2}

// Placement rejection reasons returned by AddShip.
var (
	ErrFleetFull   = errors.New("cannot add more than 5 ships")
	ErrInvalidSize = errors.New("ship size not left in fleet")
	ErrCollision   = errors.New("ship collides with other ship")
	ErrOutOfBounds = errors.New("ship is out of bounds")
)

// Placement is a set of ships that respects the fleet rules. Build it with AddShip;
// the zero value is an empty placement.
type Placement struct {
	Ships []Ship
}

// MissingSizes returns the fleet sizes not yet placed, largest first.
func (p *Placement) MissingSizes() []int {
	missing := slices.Clone(Fleet)
	for _, s := range p.Ships {
		if i := slices.Index(missing, s.Size); i >= 0 {
			missing = slices.Delete(missing, i, i+1)
		}
	}
	return missing
}

// AddShip appends s if it keeps every placement invariant. On error p is unchanged.
func (p *Placement) AddShip(s Ship) error {
	if len(p.Ships) >= len(Fleet) {
		return ErrFleetFull
	}
	if !slices.Contains(p.MissingSizes(), s.Size) {
		return fmt.Errorf("%w: %d", ErrInvalidSize, s.Size)
	}
	for _, other := range p.Ships {
		if other.CollidesWith(s) {
			return fmt.Errorf("%w: %s and %s", ErrCollision, s, other)
		}
	}
	if !s.InGrid() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, s)
	}
	p.Ships = append(p.Ships, s)
	return nil
}

// AllShipsPlaced reports whether the whole fleet is placed.
func (p *Placement) AllShipsPlaced() bool {
	return len(p.Ships) == len(Fleet)
}

// IsClaimed reports whether pos lies inside the bounds of a placed ship,
// that is on the ship or directly next to it.
func (p *Placement) IsClaimed(pos Position) bool {
	for _, s := range p.Ships {
		if s.CollidesWith(pos) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (p Placement) Clone() Placement {
	return Placement{Ships: slices.Clone(p.Ships)}
}

// Board renders the placement as an own board: ship cells are Intact, the rest Empty.
func (p *Placement) Board() *Board {
	b := NewBoard(Empty)
	for _, s := range p.Ships {
		for _, c := range s.Cells() {
			b.Set(c, Intact)
		}
	}
	return b
}

// MarshalJSON encodes the placement as a bare array of ships.
func (p Placement) MarshalJSON() ([]byte, error) {
	ships := p.Ships
	if ships == nil {
		ships = []Ship{}
	}
	return json.Marshal(ships)
}

// UnmarshalJSON decodes a bare array of ships without re-validating them.
func (p *Placement) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &p.Ships)
}

// RandomPlacement places the full fleet by rejection sampling: for each size it
// draws a uniform start and direction until AddShip accepts the ship.
func RandomPlacement(rng *rand.Rand) Placement {
	var p Placement
	for _, size := range Fleet {
		for {
			s := Ship{
				Start:     Position{X: rng.Intn(GridSize), Y: rng.Intn(GridSize)},
				Size:      size,
				Direction: Directions[rng.Intn(len(Directions))],
			}
			if p.AddShip(s) == nil {
				break
			}
		}
	}
	return p
}
