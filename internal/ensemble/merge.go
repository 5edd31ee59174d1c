package ensemble

import (
	"github.com/vocabtutor/amas/internal/domain"
)

const minEffectiveMass = 1e-6

// WithWeights stamps each candidate's Weight field from the dynamic
// per-source ensemble weights, returning a new slice (the input is left
// untouched).
func WithWeights(candidates []domain.DecisionCandidate, weights map[domain.CandidateSource]float64) []domain.DecisionCandidate {
	out := make([]domain.DecisionCandidate, len(candidates))
	for i, c := range candidates {
		c.Weight = weights[c.Source]
		out[i] = c
	}
	return out
}

// Merge combines DecisionCandidates by weight×confidence into one
// StrategyParams. Each candidate's Weight field must already carry its
// source's dynamic ensemble weight (WithWeights does this). An empty
// list yields the mid-range default; a total effective mass below
// minEffectiveMass returns the first candidate unchanged (there is no
// information to merge against).
func Merge(candidates []domain.DecisionCandidate) domain.StrategyParams {
	if len(candidates) == 0 {
		return domain.DefaultStrategyParams()
	}

	var totalMass float64
	for _, c := range candidates {
		totalMass += c.Weight * c.Confidence
	}
	if totalMass < minEffectiveMass {
		return candidates[0].Strategy
	}

	var intervalSum, ratioSum, hintSum float64
	var batchSum float64
	difficultyMass := map[domain.DifficultyLevel]float64{}

	for _, c := range candidates {
		eff := c.Weight * c.Confidence
		intervalSum += eff * c.Strategy.IntervalScale
		ratioSum += eff * c.Strategy.NewRatio
		batchSum += eff * float64(c.Strategy.BatchSize)
		hintSum += eff * float64(c.Strategy.HintLevel)
		difficultyMass[c.Strategy.Difficulty] += eff
	}

	merged := domain.StrategyParams{
		IntervalScale: snapIntervalScale(intervalSum / totalMass),
		NewRatio:      snapNewRatio(ratioSum / totalMass),
		BatchSize:     snapBatchSize(int(batchSum / totalMass)),
		HintLevel:     snapHintLevel(hintSum / totalMass),
		Difficulty:    voteDifficulty(difficultyMass),
	}
	return merged
}

// voteDifficulty picks hard if it strictly has the highest mass, else
// easy if it strictly beats mid, else mid — a deterministic tie-break
// that never lets a tie promote away from the middle.
func voteDifficulty(mass map[domain.DifficultyLevel]float64) domain.DifficultyLevel {
	hard, mid, easy := mass[domain.DifficultyHard], mass[domain.DifficultyMid], mass[domain.DifficultyEasy]

	if hard > mid && hard > easy {
		return domain.DifficultyHard
	}
	if easy > mid {
		return domain.DifficultyEasy
	}
	return domain.DifficultyMid
}
