package state

import (
	"context"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// Estimators bundles the five modelling sub-layer components (plus the
// habit tracker) that together produce a fresh UserState each event.
// One instance lives per user inside UserModels.
type Estimators struct {
	cfg config.StateConfig

	Attention  *AttentionMonitor
	Fatigue    *FatigueEstimator
	Cognitive  *CognitiveProfiler
	Motivation *MotivationTracker
	Trend      *TrendAnalyzer
	Habit      *HabitTracker

	conf float64
}

// NewEstimators constructs a fresh estimator bundle at the mid-range
// defaults.
func NewEstimators(cfg config.StateConfig, recall RecallPredictor) *Estimators {
	return &Estimators{
		cfg:        cfg,
		Attention:  NewAttentionMonitor(cfg.Attention),
		Fatigue:    NewFatigueEstimator(cfg.Fatigue),
		Cognitive:  NewCognitiveProfiler(cfg.Cognitive, recall),
		Motivation: NewMotivationTracker(cfg.Motivation),
		Trend:      NewTrendAnalyzer(cfg.Trend),
		Habit:      NewHabitTracker(),
		conf:       0.5,
	}
}

// RehydrateFrom seeds every estimator's internal value from a persisted
// UserState, so the process continues smoothly across a cache miss.
func (e *Estimators) RehydrateFrom(s domain.UserState) {
	e.Attention.SetValue(s.Attention)
	e.Fatigue.SetValue(s.Fatigue)
	e.Cognitive.SetValue(s.Cognitive)
	e.Motivation.SetValue(s.Motivation)
	if s.Habit != nil {
		e.Habit.SetValue(*s.Habit)
	}
	e.conf = s.Conf
}

// Update runs every estimator against the event and returns a fresh
// UserState. hour is the caller's current hour-of-day in [0,23];
// actrEnabled/history feed the optional cognitive ACT-R blend.
func (e *Estimators) Update(ctx context.Context, ev domain.RawEvent, opts domain.ProcessOptions, prev domain.UserState, hour int, actrEnabled bool, nowMs int64) domain.UserState {
	attFeat := e.Attention.BuildFeatures(ev, opts)
	attention := e.Attention.Update(attFeat)

	fatFeat := e.Fatigue.BuildFeatures(ev, opts)
	fatigue := e.Fatigue.Update(fatFeat)

	cogFeat := e.Cognitive.BuildFeatures(ev)
	cognitive := e.Cognitive.Update(ctx, cogFeat, actrEnabled, opts.WordReviewHistory)

	isQuit := ev.PauseCount > 3 && !ev.IsCorrect
	motivation, _ := e.Motivation.Update(ev.IsCorrect, isQuit)

	trendScore := (cognitive.Mem + cognitive.Speed + cognitive.Stability) / 3.0
	trend := e.Trend.Observe(trendScore)

	habit := e.Habit.Observe(hour)

	c := e.cfg.Confidence
	e.conf = clamp(ema(e.conf, 0.7, 1-c.Decay), c.MinConfidence, 1.0)

	next := prev
	next.Attention = attention
	next.Fatigue = fatigue
	next.Motivation = motivation
	next.Cognitive = cognitive
	next.Trend = &trend
	next.Habit = &habit
	next.Conf = e.conf
	next.TimestampMs = nowMs
	if opts.VisualFatigueScore != nil {
		next.VisualFatigue = opts.VisualFatigueScore
		fused := clamp(0.6*fatigue+0.4*(*opts.VisualFatigueScore), 0, 1)
		next.FusedFatigue = &fused
	}
	return next
}
