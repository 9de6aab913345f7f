package ai

import (
	"errors"
	"log/slog"
	"slices"

	"battleship-bot/ai/heuristic"
	"battleship-bot/game"
)

// ErrNoTarget is returned when no tier can name a cell to attack.
// A well-formed board with Unknown cells left never produces it.
var ErrNoTarget = errors.New("no strategy returned a target")

// Decision is the chosen attack together with the tier that produced it.
type Decision struct {
	Target game.Position
	Tier   string
	Weight int
}

// ChooseAttack picks the next cell to shoot on the opponent board. Tiers are
// tried in rank order; the first one with candidates wins and its candidate
// with the highest heatmap weight is returned. Ties keep the tier's order.
func ChooseAttack(board *game.Board) (Decision, error) {
	heat, err := NewHeatmap(board)
	if err != nil {
		return Decision{}, err
	}
	return chooseWithHeatmap(board, heat)
}

func chooseWithHeatmap(board *game.Board, heat *Heatmap) (Decision, error) {
	for _, tier := range heuristic.Tiers() {
		candidates := tier.Candidates(board)
		if len(candidates) == 0 {
			continue
		}
		slices.SortStableFunc(candidates, func(a, b game.Position) int {
			return heat.At(b) - heat.At(a)
		})
		d := Decision{Target: candidates[0], Tier: tier.Name, Weight: heat.At(candidates[0])}
		slog.Debug("chose attack", "tag", "ai", "tier", d.Tier, "target", d.Target, "weight", d.Weight, "candidates", len(candidates))
		return d, nil
	}
	return Decision{}, ErrNoTarget
}
