// Package scheduler implements the FSRS-like memory-strength model that
// converts a graded answer into a next-review interval and a mastery
// verdict for the touched word.
package scheduler

import (
	"math"

	"github.com/vocabtutor/amas/internal/domain"
)

const (
	// fastThresholdMs is the response-time cutoff at or below which a correct
	// answer is graded Easy rather than Good.
	fastThresholdMs = 2500.0
	// marginalThresholdMs is the cutoff above which a correct answer is
	// graded Hard instead of Good, modelling a marginal recall.
	marginalThresholdMs = 6000.0

	minStability   = 0.01
	minDifficulty  = 1.0
	maxDifficulty  = 10.0
	minRetention   = 0.8
	maxRetention   = 0.95
	minScheduled   = 1.0
	maxScheduled   = 36500.0

	masteryThreshold = 60.0
	firstAttemptBonus = 15.0
)

// GradeRating maps correctness and response time to one of
// {Again, Hard, Good, Easy}.
func GradeRating(isCorrect bool, responseTimeMs int64) domain.Rating {
	if !isCorrect {
		return domain.RatingAgain
	}
	rt := float64(responseTimeMs)
	switch {
	case rt <= fastThresholdMs:
		return domain.RatingEasy
	case rt > marginalThresholdMs:
		return domain.RatingHard
	default:
		return domain.RatingGood
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// forgettingCurve is a monotonically decreasing retrievability function
// of elapsed/stability, in [0,1]. Uses the standard FSRS power-law form
// with decay exponent matched to desired_retention = 0.9 at t/s = 1.
func forgettingCurve(ratio float64) float64 {
	const decay = -0.5
	const factor = 19.0 / 81.0 // chosen so f(1) ≈ 0.9 at the canonical ratio
	return math.Pow(1+factor*ratio, decay)
}

// Retrievability computes the estimated recall probability for a word
// given its stability and elapsed days since last review.
func Retrievability(stability, elapsedDays float64) float64 {
	if stability <= 0 {
		stability = minStability
	}
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return clamp(forgettingCurve(elapsedDays/stability), 0, 1)
}

// inverseForgettingCurve solves for the elapsed/stability ratio at which
// retrievability equals the desired retention.
func inverseForgettingCurve(desiredRetention float64) float64 {
	const decay = -0.5
	const factor = 19.0 / 81.0
	// f(t) = (1 + factor*t)^decay = desiredRetention
	// t = ((desiredRetention^(1/decay)) - 1) / factor
	return (math.Pow(desiredRetention, 1/decay) - 1) / factor
}

func growthFactor(rating domain.Rating, rootBonus float64) float64 {
	var base float64
	switch rating {
	case domain.RatingHard:
		base = 1.2
	case domain.RatingGood:
		base = 1.8
	case domain.RatingEasy:
		base = 2.6
	default:
		base = 1.0
	}
	return base * (1 + clamp(rootBonus, 0, 1))
}

// UpdateWordState advances a WordMemoryState given a graded rating, a
// caller-chosen desired retention, and a root-mastery bonus in [0,1].
// desiredRetention is clamped into [0.8, 0.95].
func UpdateWordState(prev domain.WordMemoryState, rating domain.Rating, desiredRetention, rootBonus float64) domain.WordMemoryState {
	next := prev
	desiredRetention = clamp(desiredRetention, minRetention, maxRetention)
	next.DesiredRetention = desiredRetention

	switch rating {
	case domain.RatingAgain:
		next.Stability = math.Max(prev.Stability*0.5, minStability)
		next.Difficulty = clamp(prev.Difficulty+1.0, minDifficulty, maxDifficulty)
		next.Lapses = prev.Lapses + 1
	default:
		next.Stability = math.Max(prev.Stability*growthFactor(rating, rootBonus), minStability)
		drift := 0.0
		switch rating {
		case domain.RatingHard:
			drift = 0.3
		case domain.RatingGood:
			drift = -0.3
		case domain.RatingEasy:
			drift = -1.0
		}
		next.Difficulty = clamp(prev.Difficulty+drift, minDifficulty, maxDifficulty)
	}

	next.ElapsedDays = 0
	ratio := inverseForgettingCurve(desiredRetention)
	next.ScheduledDays = clamp(math.Ceil(next.Stability*ratio), minScheduled, maxScheduled)
	next.Reps = prev.Reps + 1
	return next
}

// fsrsScore derives a 0–100 component from the updated memory state and
// rating, rewarding higher stability/lower difficulty and a successful
// rating.
func fsrsScore(s domain.WordMemoryState, rating domain.Rating) float64 {
	stabilityComponent := clamp(s.Stability/10.0, 0, 1) * 40
	difficultyComponent := clamp((maxDifficulty-s.Difficulty)/(maxDifficulty-minDifficulty), 0, 1) * 30
	ratingComponent := 0.0
	switch rating {
	case domain.RatingEasy:
		ratingComponent = 30
	case domain.RatingGood:
		ratingComponent = 20
	case domain.RatingHard:
		ratingComponent = 10
	}
	return stabilityComponent + difficultyComponent + ratingComponent
}

// DecideMastery grades the answer, advances the word's memory state,
// and composes the mastery verdict: an FSRS-derived component plus a
// user-state component plus a first-attempt bonus that applies only when
// the prior repetition count was zero and the answer was graded Easy.
func DecideMastery(prev domain.WordMemoryState, hadPriorState bool, event domain.RawEvent, cognitive domain.CognitiveProfile, attention, fatigue, desiredRetention, rootBonus, intervalScale float64) domain.WordMasteryDecision {
	repsBefore := prev.Reps
	prevInterval := prev.ScheduledDays
	prevMastery := 0.0
	if hadPriorState {
		prevMastery = Retrievability(prev.Stability, prev.ElapsedDays)
	}

	rating := GradeRating(event.IsCorrect, event.ResponseTimeMs)
	next := UpdateWordState(prev, rating, desiredRetention, rootBonus)
	newMastery := Retrievability(next.Stability, next.ElapsedDays)

	total := fsrsScoreAndUserState(next, cognitive, attention, fatigue, repsBefore, rating)

	return domain.WordMasteryDecision{
		Rating:          rating,
		NewState:        next,
		NewIntervalDays: next.ScheduledDays * intervalScale,
		TotalScore:      total,
		Confidence:      clamp(total/100.0, 0, 1),
		IsMastered:      total >= masteryThreshold,
		PrevInterval:    prevInterval,
		PrevMastery:     prevMastery,
		NewMastery:      newMastery,
	}
}

func fsrsScoreAndUserState(s domain.WordMemoryState, cognitive domain.CognitiveProfile, attention, fatigue float64, repsBefore int, rating domain.Rating) float64 {
	cognitiveScore := (0.4*cognitive.Mem + 0.3*cognitive.Speed + 0.3*cognitive.Stability) * 20
	attentionBonus := attention * 10
	fatiguePenalty := fatigue * 10
	userStateScore := cognitiveScore + attentionBonus - fatiguePenalty

	firstAttempt := 0.0
	if repsBefore == 0 && rating == domain.RatingEasy {
		firstAttempt = firstAttemptBonus
	}

	return fsrsScore(s, rating) + userStateScore + firstAttempt
}
