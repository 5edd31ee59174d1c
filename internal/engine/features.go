package engine

import (
	"github.com/vocabtutor/amas/internal/domain"
	"github.com/vocabtutor/amas/internal/state"
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

// buildFeatureVector assembles the fixed-order context vector the
// bandit learners and cold-start classifier consume, built from the
// state BEFORE this event's estimator update runs.
func buildFeatureVector(ev domain.RawEvent, prev domain.UserState, hour int) domain.FeatureVector {
	dwellNorm := 0.5
	if ev.DwellTimeMs != nil {
		dwellNorm = clampf(float64(*ev.DwellTimeMs)/10000.0, 0, 1)
	}
	correct := 0.0
	if ev.IsCorrect {
		correct = 1.0
	}
	retryNorm := clampf(float64(ev.RetryCount)/5.0, 0, 1)

	habit := domain.Habit{}
	for i := range habit.TimePref {
		habit.TimePref[i] = 0.5
	}
	if prev.Habit != nil {
		habit = *prev.Habit
	}

	values := []float64{
		clampf(float64(ev.ResponseTimeMs)/8000.0, 0, 1),
		dwellNorm,
		correct,
		retryNorm,
		prev.Attention,
		prev.Fatigue,
		(prev.Motivation + 1) / 2,
		prev.Cognitive.Mem,
		float64(hour) / 23.0,
		state.TimePreference(habit, hour),
	}
	return domain.NewFeatureVector(values, domain.FeatureLabels)
}
