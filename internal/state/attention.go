package state

import (
	"math"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

const attentionHistoryCap = 20

// AttentionFeatures are the per-event inputs to the attention monitor,
// assembled by the engine from the raw event, caller-supplied options,
// and the monitor's own rolling history.
type AttentionFeatures struct {
	RTMean             float64
	RTCV               float64
	PaceCV             float64
	PauseCount         int
	SwitchCount        int
	Drift              float64
	InteractionDensity float64
	FocusLossMinutes   float64
}

// AttentionMonitor estimates sustained attention in [0,1] from response
// timing and interruption signals. It holds a bounded ring-buffer
// history of recent response times so it can derive mean/variance/drift
// without the caller re-deriving them each event.
type AttentionMonitor struct {
	cfg config.AttentionConfig

	history    [attentionHistoryCap]float64
	idx        int
	count      int
	value      float64
}

// NewAttentionMonitor constructs a monitor seeded at the mid-range
// default.
func NewAttentionMonitor(cfg config.AttentionConfig) *AttentionMonitor {
	return &AttentionMonitor{cfg: cfg, value: 0.7}
}

func (m *AttentionMonitor) push(rtMs float64) {
	m.history[m.idx] = rtMs
	m.idx = (m.idx + 1) % attentionHistoryCap
	if m.count < attentionHistoryCap {
		m.count++
	}
}

func (m *AttentionMonitor) meanAndCV() (mean, cv float64) {
	if m.count == 0 {
		return 0, 0
	}
	var sum float64
	for i := 0; i < m.count; i++ {
		sum += m.history[i]
	}
	mean = sum / float64(m.count)
	if mean <= 0 {
		return mean, 0
	}
	var variance float64
	for i := 0; i < m.count; i++ {
		d := m.history[i] - mean
		variance += d * d
	}
	variance /= float64(m.count)
	cv = math.Sqrt(variance) / mean
	return mean, cv
}

// BuildFeatures derives AttentionFeatures for one event from the raw
// event, collaborator options, and internal history, pushing the new
// response time into history as a side effect.
func (m *AttentionMonitor) BuildFeatures(ev domain.RawEvent, opts domain.ProcessOptions) AttentionFeatures {
	rtMs := float64(ev.ResponseTimeMs)
	prevMean, _ := m.meanAndCV()
	m.push(rtMs)
	mean, cv := m.meanAndCV()

	if opts.RTCoeffVariation != nil {
		cv = *opts.RTCoeffVariation
	}

	density := 0.5
	if ev.InteractionDensity != nil {
		density = *ev.InteractionDensity
	}

	focusLossMin := 0.0
	if ev.FocusLossMs != nil {
		focusLossMin = float64(*ev.FocusLossMs) / 60000.0
	}

	drift := 0.0
	if prevMean > 0 {
		drift = (mean - prevMean) / prevMean
	}

	return AttentionFeatures{
		RTMean:             mean,
		RTCV:               cv,
		PaceCV:             cv,
		PauseCount:         ev.PauseCount,
		SwitchCount:        ev.SwitchCount,
		Drift:              drift,
		InteractionDensity: density,
		FocusLossMinutes:   focusLossMin,
	}
}

// Update computes a weighted linear score from the features, saturates
// it into [0,1] via a logistic non-linearity, and exponentially smooths
// it with the configured alpha.
func (m *AttentionMonitor) Update(f AttentionFeatures) float64 {
	c := m.cfg
	rtNorm := clamp(f.RTMean/8000.0, 0, 2)
	score := c.WeightRTMean*rtNorm +
		c.WeightRTCV*f.RTCV +
		c.WeightPaceCV*f.PaceCV +
		c.WeightPauseCount*clamp(float64(f.PauseCount)/5.0, 0, 2) +
		c.WeightSwitchCount*clamp(float64(f.SwitchCount)/5.0, 0, 2) +
		c.WeightDrift*f.Drift +
		c.WeightDensity*f.InteractionDensity +
		c.WeightFocusLoss*clamp(f.FocusLossMinutes, 0, 5)

	// saturating logistic centered so score==0 maps to 0.5.
	saturated := 1.0 / (1.0 + math.Exp(-4*score))
	m.value = clamp(ema(m.value, saturated, c.Smoothing), 0, 1)
	return m.value
}

// Value returns the current smoothed attention estimate without
// updating it.
func (m *AttentionMonitor) Value() float64 { return m.value }

// SetValue overrides the internal smoothed value, used when rehydrating
// from a persisted UserState.
func (m *AttentionMonitor) SetValue(v float64) { m.value = clamp(v, 0, 1) }
