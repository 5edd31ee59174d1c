// Package ensemble merges per-algorithm decision candidates into one
// strategy, tracks each algorithm's attributed performance, and applies
// the safety post-filter before a strategy reaches the caller.
package ensemble

import "github.com/vocabtutor/amas/internal/domain"

var (
	difficultyLadder = [3]domain.DifficultyLevel{domain.DifficultyEasy, domain.DifficultyMid, domain.DifficultyHard}
	newRatioGrid     = [4]float64{0.1, 0.2, 0.3, 0.4}
	batchSizeGrid    = [4]int{5, 8, 12, 16}
	hintLevelGrid    = [3]int{0, 1, 2}
)

// Sweep produces the fixed 19-candidate set the bandits choose from:
// 3 difficulties × 4 new-ratios (12, holding batch/interval/hint at
// current) + 4 batch-size variants (holding everything else at
// current) + 3 hint-level variants (holding everything else at
// current).
func Sweep(current domain.StrategyParams) []domain.StrategyParams {
	out := make([]domain.StrategyParams, 0, 19)

	for _, d := range difficultyLadder {
		for _, nr := range newRatioGrid {
			c := current
			c.Difficulty = d
			c.NewRatio = nr
			c.SWDRecommendation = nil
			out = append(out, c)
		}
	}
	for _, bs := range batchSizeGrid {
		c := current
		c.BatchSize = bs
		c.SWDRecommendation = nil
		out = append(out, c)
	}
	for _, hl := range hintLevelGrid {
		c := current
		c.HintLevel = hl
		c.SWDRecommendation = nil
		out = append(out, c)
	}
	return out
}

// HeuristicSuggestion derives the cold-start-safe suggestion directly
// from the current cognitive/attention/fatigue snapshot, independent of
// the bandit-scored sweep: harder when accuracy and attention are high
// and fatigue is low, easier when accuracy is low or fatigue is high,
// and unchanged in between, with the new-word ratio and hint level
// following the same signal.
func HeuristicSuggestion(current domain.StrategyParams, state domain.UserState, recentAccuracy *float64) domain.StrategyParams {
	out := current
	acc := 0.6
	if recentAccuracy != nil {
		acc = *recentAccuracy
	}
	fatigue := state.Fatigue
	if state.FusedFatigue != nil {
		fatigue = *state.FusedFatigue
	}

	switch {
	case acc > 0.85 && state.Attention > 0.6 && fatigue < 0.4:
		out.Difficulty = current.Difficulty.Harder()
		out.NewRatio = snapNewRatio(current.NewRatio + 0.1)
		out.HintLevel = maxInt(current.HintLevel-1, 0)
	case acc < 0.6 || fatigue > 0.6:
		out.Difficulty = current.Difficulty.Easier()
		out.NewRatio = snapNewRatio(current.NewRatio - 0.1)
		out.HintLevel = minInt(current.HintLevel+1, 2)
	}
	out.BatchSize = snapBatchSize(current.BatchSize)
	out.IntervalScale = snapIntervalScale(current.IntervalScale)
	out.SWDRecommendation = nil
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
