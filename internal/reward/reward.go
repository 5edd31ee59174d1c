// Package reward composes the per-event scalar feedback signal the
// performance tracker and bandit learners consume.
package reward

import (
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Compute derives the event's reward from the raw answer and the freshly
// updated cognitive profile, rescaled into [-1,1].
func Compute(ev domain.RawEvent, cognitive domain.CognitiveProfile, cfg config.RewardConfig) domain.Reward {
	accuracy := 0.0
	if ev.IsCorrect {
		accuracy = 1.0
	}
	speed := 1 - clampf(float64(ev.ResponseTimeMs)/cfg.MaxResponseTimeMs, 0, 1)
	stability := cognitive.Stability
	retention := cognitive.Mem

	value := cfg.AccuracyWeight*accuracy + cfg.SpeedWeight*speed + cfg.StabilityWeight*stability + cfg.RetentionWeight*retention
	rescaled := clampf(2*value-1, -1, 1)

	return domain.Reward{Value: rescaled, Reason: reason(ev, cfg)}
}

func reason(ev domain.RawEvent, cfg config.RewardConfig) string {
	switch {
	case ev.IsCorrect && float64(ev.ResponseTimeMs) <= cfg.FastThresholdMs:
		return "fast+correct"
	case ev.IsCorrect:
		return "correct"
	case ev.HintUsed:
		return "wrong-with-hint"
	default:
		return "wrong"
	}
}
