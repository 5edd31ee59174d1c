package state

import (
	"math"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// FatigueFeatures are the per-event inputs to the fatigue estimator.
type FatigueFeatures struct {
	ErrorRateTrend float64
	RTIncreaseRate float64
	RepeatErrors   int
	BreakMinutes   *float64
}

// FatigueEstimator tracks accumulating mental fatigue in [0,1] via an
// additive model with a negative recovery term for breaks.
type FatigueEstimator struct {
	cfg   config.FatigueConfig
	value float64

	prevCorrect   *bool
	repeatStreak  int
}

// NewFatigueEstimator constructs an estimator seeded at the mid-range
// default.
func NewFatigueEstimator(cfg config.FatigueConfig) *FatigueEstimator {
	return &FatigueEstimator{cfg: cfg, value: 0.3}
}

// BuildFeatures derives FatigueFeatures from the raw event and the
// estimator's own short memory of repeated errors.
func (f *FatigueEstimator) BuildFeatures(ev domain.RawEvent, opts domain.ProcessOptions) FatigueFeatures {
	wasWrong := !ev.IsCorrect
	if wasWrong && f.prevCorrect != nil && !*f.prevCorrect {
		f.repeatStreak++
	} else if wasWrong {
		f.repeatStreak = 1
	} else {
		f.repeatStreak = 0
	}
	correct := ev.IsCorrect
	f.prevCorrect = &correct

	errTrend := 0.0
	if wasWrong {
		errTrend = 1.0
	}
	if opts.RecentAccuracy != nil {
		errTrend = clamp(errTrend-*opts.RecentAccuracy, -1, 1)
	}

	rtIncrease := clamp(float64(ev.ResponseTimeMs)/8000.0-0.5, -1, 1)

	var breakMin *float64
	if opts.StudyDurationMinutes != nil {
		breakMin = opts.StudyDurationMinutes
	}

	return FatigueFeatures{
		ErrorRateTrend: errTrend,
		RTIncreaseRate: rtIncrease,
		RepeatErrors:   f.repeatStreak,
		BreakMinutes:   breakMin,
	}
}

// Update applies the additive fatigue model and clamps to [0,1].
func (f *FatigueEstimator) Update(feat FatigueFeatures) float64 {
	c := f.cfg
	delta := c.WeightErrorTrend*feat.ErrorRateTrend +
		c.WeightRTIncrease*feat.RTIncreaseRate +
		c.WeightRepeatErrors*clamp(float64(feat.RepeatErrors)/3.0, 0, 1)

	if feat.BreakMinutes != nil {
		delta += c.WeightBreakRecover * clamp(*feat.BreakMinutes/10.0, 0, 1)
	}

	f.value = clamp(f.value+0.1*delta, 0, 1)
	return f.value
}

// Value returns the current fatigue estimate.
func (f *FatigueEstimator) Value() float64 { return f.value }

// SetValue overrides the internal value, used when rehydrating.
func (f *FatigueEstimator) SetValue(v float64) { f.value = clamp(v, 0, 1) }

// DecayOnLoad applies the session-level fatigue decay described for
// persistence reload (§4.9): a full reset past 30 minutes idle, an
// exponential decay between 5 and 30 minutes, and no change at or below
// 5 minutes.
func DecayOnLoad(fatigue, attention float64, elapsedMinutes, decayRate float64) (newFatigue, newAttention float64) {
	switch {
	case elapsedMinutes >= 30:
		return 0.0, 0.7
	case elapsedMinutes > 5:
		return fatigue * math.Exp(-decayRate*elapsedMinutes), attention
	default:
		return fatigue, attention
	}
}
