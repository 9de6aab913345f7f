package ai

import (
	"math/rand"
	"testing"

	"battleship-bot/game"
)

func TestShipUniverse(t *testing.T) {
	ships := shipUniverse(game.GridSize)
	// Per size n: (11-n)*10 starts in each direction.
	if len(ships) != 600 {
		t.Fatalf("expected 600 ships, got %d", len(ships))
	}
	for _, s := range ships {
		if !s.InGrid() {
			t.Errorf("%v leaves the grid", s)
		}
	}
	again := shipUniverse(game.GridSize)
	if &again[0] != &ships[0] {
		t.Error("expected the universe to be built once and shared")
	}
	if small := shipUniverse(3); len(small) != 18 {
		t.Errorf("expected 18 ships on a 3x3 grid, got %d", len(small))
	}
}

func TestHeatmap_UnknownBoard(t *testing.T) {
	h, err := NewHeatmap(game.NewBoard(game.Unknown))
	if err != nil {
		t.Fatalf("NewHeatmap: %v", err)
	}
	want := 0
	for _, s := range shipUniverse(game.GridSize) {
		want += s.Size
	}
	if h.Total() != want {
		t.Errorf("Total() = %d, want %d", h.Total(), want)
	}
	corner := h.At(game.Position{X: 0, Y: 0})
	centre := h.At(game.Position{X: 4, Y: 4})
	if corner <= 0 || centre <= corner {
		t.Errorf("expected centre (%d) to outweigh corner (%d)", centre, corner)
	}
	if h.At(game.Position{X: 0, Y: 0}) != h.At(game.Position{X: 9, Y: 9}) {
		t.Error("expected symmetric weights on an unknown board")
	}
	if h.At(game.Position{X: -1, Y: 0}) != 0 {
		t.Error("off-grid weight should be 0")
	}
}

func TestHeatmap_WaterHasNoWeight(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 0, Y: 0}, game.Empty)
	b.Set(game.Position{X: 5, Y: 5}, game.Empty)

	h, err := NewHeatmap(b)
	if err != nil {
		t.Fatalf("NewHeatmap: %v", err)
	}
	for _, p := range []game.Position{{X: 0, Y: 0}, {X: 5, Y: 5}} {
		if h.At(p) != 0 {
			t.Errorf("water at %v has weight %d", p, h.At(p))
		}
	}
}

func TestHeatmap_FullyResolved(t *testing.T) {
	b := boardWith(game.Empty, game.Destroyed, canonicalFleet()...)
	h, err := NewHeatmap(b)
	if err != nil {
		t.Fatalf("NewHeatmap: %v", err)
	}
	if h.Total() != 17 {
		t.Errorf("Total() = %d, want 17", h.Total())
	}
	for x := 0; x < game.GridSize; x++ {
		for y := 0; y < game.GridSize; y++ {
			p := game.Position{X: x, Y: y}
			want := 0
			if b.Get(p) == game.Destroyed {
				want = 1
			}
			if h.At(p) != want {
				t.Errorf("weight at %v = %d, want %d", p, h.At(p), want)
			}
		}
	}
}

func TestHeatmap_AmbiguousHitSumsShipSizes(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 5, Y: 5}, game.Damaged)

	placements, err := DetectPlacements(b)
	if err != nil {
		t.Fatalf("DetectPlacements: %v", err)
	}
	want := 0
	for _, p := range placements {
		for _, s := range p.Ships {
			want += s.Size
		}
	}

	h, err := NewHeatmap(b)
	if err != nil {
		t.Fatalf("NewHeatmap: %v", err)
	}
	if h.Total() != want {
		t.Errorf("Total() = %d, want %d", h.Total(), want)
	}
	if h.At(game.Position{X: 5, Y: 5}) != len(placements) {
		t.Errorf("hit cell weight = %d, want one per candidate (%d)", h.At(game.Position{X: 5, Y: 5}), len(placements))
	}
	if h.At(game.Position{X: 6, Y: 6}) != 0 {
		t.Error("diagonal of a hit cannot hold the same ship")
	}
}

func TestHeatmap_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		p := game.RandomPlacement(rng)
		b := boardWith(game.Unknown, game.Destroyed, p.Ships[:rng.Intn(len(p.Ships))]...)
		h, err := NewHeatmap(b)
		if err != nil {
			t.Fatalf("trial %d: %v\n%s", trial, err, b)
		}
		for x := range h {
			for y := range h[x] {
				if h[x][y] < 0 {
					t.Fatalf("trial %d: negative weight at (%d,%d)", trial, x, y)
				}
			}
		}
	}
}
