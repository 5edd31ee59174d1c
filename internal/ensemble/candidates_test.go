package ensemble

import (
	"testing"

	"github.com/vocabtutor/amas/internal/domain"
)

func TestSweepProducesNineteenCandidates(t *testing.T) {
	current := domain.DefaultStrategyParams()
	out := Sweep(current)
	if len(out) != 19 {
		t.Fatalf("Sweep length = %d, want 19", len(out))
	}
}

func TestSweepDifficultyRatioCrossProduct(t *testing.T) {
	current := domain.DefaultStrategyParams()
	out := Sweep(current)

	seen := map[[2]interface{}]bool{}
	for _, c := range out[:12] {
		seen[[2]interface{}{c.Difficulty, c.NewRatio}] = true
	}
	if len(seen) != 12 {
		t.Errorf("expected 12 distinct (difficulty,new_ratio) pairs in the first block, got %d", len(seen))
	}
	for _, c := range out[:12] {
		if c.BatchSize != current.BatchSize {
			t.Errorf("difficulty/ratio block must hold batch size at current: got %d want %d", c.BatchSize, current.BatchSize)
		}
	}
}

func TestSweepBatchSizeBlockHoldsOthersFixed(t *testing.T) {
	current := domain.DefaultStrategyParams()
	out := Sweep(current)
	block := out[12:16]
	if len(block) != 4 {
		t.Fatalf("batch size block length = %d, want 4", len(block))
	}
	for _, c := range block {
		if c.Difficulty != current.Difficulty || c.NewRatio != current.NewRatio {
			t.Errorf("batch size variant must hold difficulty/new_ratio fixed: got %+v", c)
		}
	}
}

func TestSweepHintLevelBlockHoldsOthersFixed(t *testing.T) {
	current := domain.DefaultStrategyParams()
	out := Sweep(current)
	block := out[16:19]
	if len(block) != 3 {
		t.Fatalf("hint level block length = %d, want 3", len(block))
	}
	for _, c := range block {
		if c.BatchSize != current.BatchSize || c.Difficulty != current.Difficulty {
			t.Errorf("hint level variant must hold batch/difficulty fixed: got %+v", c)
		}
	}
}

func TestSweepClearsSWDRecommendation(t *testing.T) {
	current := domain.DefaultStrategyParams()
	flag := "some-recommendation"
	current.SWDRecommendation = &flag
	for _, c := range Sweep(current) {
		if c.SWDRecommendation != nil {
			t.Errorf("candidate must not carry over SWDRecommendation, got %v", *c.SWDRecommendation)
		}
	}
}

func TestHeuristicSuggestionGoesHarderOnStrongSignal(t *testing.T) {
	current := domain.DefaultStrategyParams()
	current.Difficulty = domain.DifficultyMid
	current.HintLevel = 1
	state := domain.UserState{Attention: 0.8, Fatigue: 0.1}
	acc := 0.9

	out := HeuristicSuggestion(current, state, &acc)
	if out.Difficulty != domain.DifficultyHard {
		t.Errorf("high accuracy/attention, low fatigue should harden difficulty, got %v", out.Difficulty)
	}
	if out.HintLevel != 0 {
		t.Errorf("hint level should drop, got %d", out.HintLevel)
	}
}

func TestHeuristicSuggestionGoesEasierOnWeakSignal(t *testing.T) {
	current := domain.DefaultStrategyParams()
	current.Difficulty = domain.DifficultyMid
	current.HintLevel = 0
	state := domain.UserState{Attention: 0.8, Fatigue: 0.1}
	acc := 0.4

	out := HeuristicSuggestion(current, state, &acc)
	if out.Difficulty != domain.DifficultyEasy {
		t.Errorf("low accuracy should soften difficulty, got %v", out.Difficulty)
	}
	if out.HintLevel != 1 {
		t.Errorf("hint level should rise, got %d", out.HintLevel)
	}
}

func TestHeuristicSuggestionUsesFusedFatigueWhenPresent(t *testing.T) {
	current := domain.DefaultStrategyParams()
	current.Difficulty = domain.DifficultyMid
	fused := 0.9
	state := domain.UserState{Attention: 0.8, Fatigue: 0.1, FusedFatigue: &fused}
	acc := 0.9

	out := HeuristicSuggestion(current, state, &acc)
	if out.Difficulty != domain.DifficultyEasy {
		t.Errorf("high fused fatigue should override the low raw fatigue and soften difficulty, got %v", out.Difficulty)
	}
}

func TestHeuristicSuggestionDefaultsAccuracyWhenNil(t *testing.T) {
	current := domain.DefaultStrategyParams()
	current.Difficulty = domain.DifficultyMid
	state := domain.UserState{Attention: 0.8, Fatigue: 0.1}

	out := HeuristicSuggestion(current, state, nil)
	if out.Difficulty != domain.DifficultyMid {
		t.Errorf("default accuracy of 0.6 falls in the neutral band, difficulty should stay unchanged, got %v", out.Difficulty)
	}
}
