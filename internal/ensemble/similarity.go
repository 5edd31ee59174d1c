package ensemble

import (
	"math"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// Similarity measures how close a candidate strategy is to the final
// emitted strategy, used to attribute reward proportionally across
// contributing algorithms.
func Similarity(a, b domain.StrategyParams, w config.StrategySimilarityWeights) float64 {
	difficultyMatch := 0.0
	if a.Difficulty == b.Difficulty {
		difficultyMatch = 1.0
	}
	newRatioMatch := 1 - math.Abs(a.NewRatio-b.NewRatio)
	batchMatch := 1 - math.Abs(float64(a.BatchSize-b.BatchSize))/15.0
	intervalMatch := 1 - math.Abs(a.IntervalScale-b.IntervalScale)

	sum := w.Difficulty*difficultyMatch + w.NewRatio*newRatioMatch + w.BatchSize*batchMatch + w.IntervalScale*intervalMatch
	return clampf(sum, 0, 1)
}
