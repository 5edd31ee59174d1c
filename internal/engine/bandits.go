package engine

import (
	"github.com/vocabtutor/amas/internal/bandit"
	"github.com/vocabtutor/amas/internal/domain"
)

// pickLinUCB scores every sweep candidate against the shared user
// context and returns the arg-max as an IGE candidate, using the
// LinUCB model's configured alpha unchanged. Returns false if the sweep
// is empty.
func pickLinUCB(lu *bandit.LinUCB, context domain.FeatureVector, sweep []domain.StrategyParams) (domain.DecisionCandidate, bool) {
	if len(sweep) == 0 {
		return domain.DecisionCandidate{}, false
	}
	bestIdx := -1
	bestScore := 0.0
	for i, sp := range sweep {
		key := bandit.ArmKey(sp)
		score := lu.Score(key, context.Values)
		if bestIdx == -1 || score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return domain.DecisionCandidate{
		Source:     domain.SourceIGE,
		Strategy:   sweep[bestIdx],
		Confidence: clampf(bestScore, 0, 1),
	}, true
}

// pickThompson draws one sample per candidate's arm and returns the
// arg-max draw as an SWD candidate.
func pickThompson(ts *bandit.Thompson, sweep []domain.StrategyParams) (domain.DecisionCandidate, bool) {
	if len(sweep) == 0 {
		return domain.DecisionCandidate{}, false
	}
	bestIdx := -1
	bestDraw := 0.0
	for i, sp := range sweep {
		key := bandit.ArmKey(sp)
		draw := ts.Sample(key)
		if bestIdx == -1 || draw > bestDraw {
			bestIdx, bestDraw = i, draw
		}
	}
	return domain.DecisionCandidate{
		Source:     domain.SourceSWD,
		Strategy:   sweep[bestIdx],
		Confidence: bestDraw,
	}, true
}
