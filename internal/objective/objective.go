// Package objective scores each event against the pedagogical goals the
// engine is tuned toward, independent of the reward signal the bandits
// see.
package objective

import (
	"math"

	"github.com/vocabtutor/amas/internal/domain"
)

// minAccuracy and maxDailyTimeMinutes are fixed thresholds, not part of
// the configuration surface.
const (
	minAccuracy        = 0.6
	maxDailyTimeMinutes = 60.0
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Evaluate computes the short-term/long-term/efficiency scores, their
// fixed-weight aggregate, and any constraint violations.
func Evaluate(state domain.UserState, strategy domain.StrategyParams, opts domain.ProcessOptions) domain.ObjectiveEvaluation {
	recentAccuracy := 0.7
	if opts.RecentAccuracy != nil {
		recentAccuracy = *opts.RecentAccuracy
	}

	fatigue := state.Fatigue
	if state.FusedFatigue != nil {
		fatigue = *state.FusedFatigue
	}

	shortTerm := clampf(0.6*recentAccuracy+0.4*state.Attention, 0, 1)
	longTerm := clampf(0.5*state.Cognitive.Mem+0.3*state.Cognitive.Stability+0.2*(1-fatigue), 0, 1)

	batchUtilisation := clampf(float64(strategy.BatchSize)/16.0, 0, 1)
	efficiency := clampf(0.5*state.Cognitive.Speed+0.3*batchUtilisation+0.2*(1-fatigue), 0, 1)

	aggregated := clampf(0.3*shortTerm+0.4*longTerm+0.3*efficiency, 0, 1)

	var violations []string
	if recentAccuracy < minAccuracy {
		violations = append(violations, "recent_accuracy_below_minimum")
	}
	if opts.StudyDurationMinutes != nil && *opts.StudyDurationMinutes > maxDailyTimeMinutes {
		violations = append(violations, "study_duration_exceeds_daily_maximum")
	}

	return domain.ObjectiveEvaluation{
		ShortTerm:  round2(shortTerm),
		LongTerm:   round2(longTerm),
		Efficiency: round2(efficiency),
		Aggregated: round2(aggregated),
		Violations: violations,
	}
}
