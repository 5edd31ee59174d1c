package bandit

import (
	"fmt"

	"github.com/vocabtutor/amas/internal/domain"
)

// difficultyCode maps the three difficulty levels onto a dense scalar
// so a strategy can be bucketed without string comparisons.
func difficultyCode(d domain.DifficultyLevel) float64 {
	switch d {
	case domain.DifficultyEasy:
		return 0.3
	case domain.DifficultyHard:
		return 0.9
	default:
		return 0.6
	}
}

// StrategyToFeature encodes a candidate strategy into the dense 5-vector
// used to bucket it into an arm: [difficulty_code, new_ratio,
// batch_size/20, interval_scale, hint_level/2].
func StrategyToFeature(sp domain.StrategyParams) []float64 {
	return []float64{
		difficultyCode(sp.Difficulty),
		sp.NewRatio,
		float64(sp.BatchSize) / 20.0,
		sp.IntervalScale,
		float64(sp.HintLevel) / 2.0,
	}
}

// ArmKey derives a stable string identifier for the strategy bucket a
// candidate falls into, used to key both learners' per-arm posteriors.
func ArmKey(sp domain.StrategyParams) string {
	f := StrategyToFeature(sp)
	return fmt.Sprintf("%.1f|%.1f|%.2f|%.1f|%.1f", f[0], f[1], f[2], f[3], f[4])
}
