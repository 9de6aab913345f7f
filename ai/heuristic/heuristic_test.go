package heuristic

import (
	"slices"
	"testing"

	"battleship-bot/game"
)

func TestTiersOrderedByRank(t *testing.T) {
	tiers := Tiers()
	var names []string
	for _, tier := range tiers {
		names = append(names, tier.Name)
	}
	want := []string{"finish_line", "extend_hit", "parity"}
	if !slices.Equal(names, want) {
		t.Errorf("Tiers() = %v, want %v", names, want)
	}
}

func TestCandidates_Unregistered(t *testing.T) {
	if got := Candidates("nope", game.NewBoard(game.Unknown)); got != nil {
		t.Errorf("expected nil for unregistered tier, got %v", got)
	}
}

func TestFinishLine_Vertical(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 3, Y: 3}, game.Damaged)
	b.Set(game.Position{X: 3, Y: 4}, game.Damaged)

	got := Candidates("finish_line", b)
	want := []game.Position{{X: 3, Y: 2}, {X: 3, Y: 5}}
	if !slices.Equal(got, want) {
		t.Errorf("finish_line = %v, want %v", got, want)
	}
}

func TestFinishLine_HorizontalKeepsUnknownOnly(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 0, Y: 6}, game.Damaged)
	b.Set(game.Position{X: 1, Y: 6}, game.Damaged)
	b.Set(game.Position{X: 2, Y: 6}, game.Empty)

	if got := Candidates("finish_line", b); len(got) != 0 {
		t.Errorf("expected no targets when both ends are closed, got %v", got)
	}

	b.Set(game.Position{X: 2, Y: 6}, game.Unknown)
	got := Candidates("finish_line", b)
	want := []game.Position{{X: 2, Y: 6}}
	if !slices.Equal(got, want) {
		t.Errorf("finish_line = %v, want %v", got, want)
	}
}

func TestFinishLine_SingleHitDoesNotApply(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 5, Y: 5}, game.Damaged)
	if got := Candidates("finish_line", b); len(got) != 0 {
		t.Errorf("expected nothing for a single hit, got %v", got)
	}
}

func TestExtendHit(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 5, Y: 5}, game.Damaged)
	b.Set(game.Position{X: 5, Y: 4}, game.Empty)

	got := Candidates("extend_hit", b)
	want := []game.Position{{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 6}}
	if !slices.Equal(got, want) {
		t.Errorf("extend_hit = %v, want %v", got, want)
	}
}

func TestExtendHit_Corner(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 0, Y: 0}, game.Damaged)

	got := Candidates("extend_hit", b)
	want := []game.Position{{X: 1, Y: 0}, {X: 0, Y: 1}}
	if !slices.Equal(got, want) {
		t.Errorf("extend_hit = %v, want %v", got, want)
	}
}

func TestParity_SkipsCellsNextToShips(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 4, Y: 4}, game.Destroyed)
	b.Set(game.Position{X: 5, Y: 4}, game.Destroyed)

	got := Candidates("parity", b)
	if len(got) == 0 {
		t.Fatal("expected parity targets")
	}
	for _, p := range got {
		if (p.X+p.Y)%2 != 0 {
			t.Errorf("%v has odd parity", p)
		}
		if b.Get(p) != game.Unknown {
			t.Errorf("%v is not unknown", p)
		}
		for _, n := range p.Neighbors() {
			if b.Matches(n, game.OccupiedStates...) {
				t.Errorf("%v touches occupied cell %v", p, n)
			}
		}
	}
}

func TestParity_EmptyBoard(t *testing.T) {
	b := game.NewBoard(game.Unknown)
	got := Candidates("parity", b)
	if len(got) != game.GridSize*game.GridSize/2 {
		t.Errorf("expected %d parity cells, got %d", game.GridSize*game.GridSize/2, len(got))
	}
	if got[0] != (game.Position{X: 0, Y: 0}) {
		t.Errorf("first parity cell = %v, want (0,0)", got[0])
	}
}

func TestParity_ExhaustedBoard(t *testing.T) {
	b := game.NewBoard(game.Empty)
	if got := Candidates("parity", b); len(got) != 0 {
		t.Errorf("expected no targets on a fully known board, got %v", got)
	}
}

func TestExtendHit_FallsBackWhenLineIsClosed(t *testing.T) {
	// Two hits on different ships; both line ends are off-grid or water.
	b := game.NewBoard(game.Unknown)
	b.Set(game.Position{X: 0, Y: 0}, game.Damaged)
	b.Set(game.Position{X: 5, Y: 7}, game.Damaged)
	b.Set(game.Position{X: 6, Y: 7}, game.Empty)

	if got := Candidates("finish_line", b); len(got) != 0 {
		t.Fatalf("finish_line = %v, want none", got)
	}
	got := Candidates("extend_hit", b)
	want := []game.Position{{X: 0, Y: 1}, {X: 1, Y: 0}}
	slices.SortFunc(got, func(a, b game.Position) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	if !slices.Equal(got, want) {
		t.Errorf("extend_hit = %v, want neighbours of the first hit %v", got, want)
	}
}
