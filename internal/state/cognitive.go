package state

import (
	"context"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// CognitiveFeatures are the per-event inputs to the cognitive profiler.
type CognitiveFeatures struct {
	Accuracy        float64 // [0,1]
	AvgResponseTime float64 // ms
	ErrorVariance   float64 // [0,0.25]
}

// CognitiveProfiler maintains three EMAs — memory, speed, stability —
// and optionally blends an external ACT-R recall estimate into memory.
type CognitiveProfiler struct {
	cfg     config.CognitiveConfig
	profile domain.CognitiveProfile

	recall RecallPredictor
}

// RecallPredictor is the subset of domain.RecallPredictor the profiler
// consults; declared locally so this package does not need to import
// the engine's wiring, only the shape it needs.
type RecallPredictor interface {
	PredictRecall(ctx context.Context, trace []domain.WordReviewEvent) (float64, error)
}

// NewCognitiveProfiler constructs a profiler seeded at the mid-range
// default, with an optional ACT-R recall predictor.
func NewCognitiveProfiler(cfg config.CognitiveConfig, recall RecallPredictor) *CognitiveProfiler {
	return &CognitiveProfiler{
		cfg:     cfg,
		profile: domain.CognitiveProfile{Mem: 0.5, Speed: 0.5, Stability: 0.5},
		recall:  recall,
	}
}

// BuildFeatures derives CognitiveFeatures from the raw event.
func (p *CognitiveProfiler) BuildFeatures(ev domain.RawEvent) CognitiveFeatures {
	acc := 0.0
	if ev.IsCorrect {
		acc = 1.0
	}
	errVariance := 0.0
	if ev.RetryCount > 0 {
		errVariance = clamp(float64(ev.RetryCount)/10.0, 0, 0.25)
	}
	return CognitiveFeatures{
		Accuracy:        acc,
		AvgResponseTime: float64(ev.ResponseTimeMs),
		ErrorVariance:   errVariance,
	}
}

// Update advances the three EMAs and, when an ACT-R predictor is wired
// and history is available, blends its recall estimate into memory:
// mem ← 0.6·mem + 0.4·actr_recall, then clamps.
func (p *CognitiveProfiler) Update(ctx context.Context, f CognitiveFeatures, actrEnabled bool, history []domain.WordReviewEvent) domain.CognitiveProfile {
	c := p.cfg
	speedSample := clamp(1.0-f.AvgResponseTime/8000.0, 0, 1)
	stabilitySample := clamp(1.0-f.ErrorVariance/0.25, 0, 1)

	p.profile.Mem = clamp(ema(p.profile.Mem, f.Accuracy, c.MemAlpha), 0, 1)
	p.profile.Speed = clamp(ema(p.profile.Speed, speedSample, c.SpeedAlpha), 0, 1)
	p.profile.Stability = clamp(ema(p.profile.Stability, stabilitySample, c.StabilityAlpha), 0, 1)

	if actrEnabled && p.recall != nil && len(history) > 0 {
		if recall, err := p.recall.PredictRecall(ctx, history); err == nil {
			p.profile.Mem = clamp(c.ACTRBlendSelf*p.profile.Mem+c.ACTRBlendACTR*recall, 0, 1)
		}
	}

	return p.profile
}

// Value returns the current profile.
func (p *CognitiveProfiler) Value() domain.CognitiveProfile { return p.profile }

// SetValue overrides the profile, used when rehydrating.
func (p *CognitiveProfiler) SetValue(v domain.CognitiveProfile) { p.profile = v }
