package ensemble

import (
	"testing"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

func testSimWeights() config.StrategySimilarityWeights {
	return config.StrategySimilarityWeights{Difficulty: 0.25, NewRatio: 0.25, BatchSize: 0.25, IntervalScale: 0.25}
}

func TestSimilarityIdenticalStrategiesScoreOne(t *testing.T) {
	a := domain.DefaultStrategyParams()
	if got := Similarity(a, a, testSimWeights()); got < 0.999 {
		t.Errorf("identical strategies should score ~1, got %v", got)
	}
}

func TestSimilarityDifficultyMismatchLowersScore(t *testing.T) {
	a := domain.DefaultStrategyParams()
	b := a
	b.Difficulty = domain.DifficultyHard
	if a.Difficulty == b.Difficulty {
		t.Fatal("test fixture must use distinct difficulties")
	}

	same := Similarity(a, a, testSimWeights())
	diff := Similarity(a, b, testSimWeights())
	if diff >= same {
		t.Errorf("mismatched difficulty should lower similarity: same=%v diff=%v", same, diff)
	}
}

func TestSimilarityNewRatioDistanceLowersScore(t *testing.T) {
	a := domain.DefaultStrategyParams()
	b := a
	b.NewRatio = a.NewRatio + 0.3

	same := Similarity(a, a, testSimWeights())
	diff := Similarity(a, b, testSimWeights())
	if diff >= same {
		t.Errorf("new_ratio distance should lower similarity: same=%v diff=%v", same, diff)
	}
}

func TestSimilarityBatchSizeDistanceLowersScore(t *testing.T) {
	a := domain.DefaultStrategyParams()
	b := a
	b.BatchSize = a.BatchSize + 10

	same := Similarity(a, a, testSimWeights())
	diff := Similarity(a, b, testSimWeights())
	if diff >= same {
		t.Errorf("batch_size distance should lower similarity: same=%v diff=%v", same, diff)
	}
}

func TestSimilarityIntervalScaleDistanceLowersScore(t *testing.T) {
	a := domain.DefaultStrategyParams()
	b := a
	b.IntervalScale = a.IntervalScale + 0.5

	same := Similarity(a, a, testSimWeights())
	diff := Similarity(a, b, testSimWeights())
	if diff >= same {
		t.Errorf("interval_scale distance should lower similarity: same=%v diff=%v", same, diff)
	}
}

func TestSimilarityClampsToUnitInterval(t *testing.T) {
	a := domain.DefaultStrategyParams()
	b := a
	b.Difficulty = domain.DifficultyHard
	b.NewRatio = 0.0
	b.BatchSize = 1000
	b.IntervalScale = 100

	got := Similarity(a, b, testSimWeights())
	if got < 0 || got > 1 {
		t.Errorf("similarity out of [0,1]: %v", got)
	}
}
