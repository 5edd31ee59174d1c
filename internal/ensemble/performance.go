package ensemble

import (
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// PerformanceTracker maintains one AlgorithmPerformance record per
// candidate source and derives dynamic ensemble weights from it.
type PerformanceTracker struct {
	cfg   config.PerformanceConfig
	perf  map[domain.CandidateSource]*domain.AlgorithmPerformance
	total uint64
}

// NewPerformanceTracker constructs an empty tracker.
func NewPerformanceTracker(cfg config.PerformanceConfig) *PerformanceTracker {
	return &PerformanceTracker{cfg: cfg, perf: make(map[domain.CandidateSource]*domain.AlgorithmPerformance)}
}

func (t *PerformanceTracker) record(source domain.CandidateSource) *domain.AlgorithmPerformance {
	p, ok := t.perf[source]
	if !ok {
		p = &domain.AlgorithmPerformance{TrustScore: 0.5}
		t.perf[source] = p
	}
	return p
}

// Snapshot exports the tracker's state for persistence.
func (t *PerformanceTracker) Snapshot() map[domain.CandidateSource]domain.AlgorithmPerformance {
	out := make(map[domain.CandidateSource]domain.AlgorithmPerformance, len(t.perf))
	for k, v := range t.perf {
		out[k] = *v
	}
	return out
}

// Restore rehydrates the tracker from a persisted snapshot.
func (t *PerformanceTracker) Restore(snapshot map[domain.CandidateSource]domain.AlgorithmPerformance) {
	var total uint64
	for k, v := range snapshot {
		vCopy := v
		t.perf[k] = &vCopy
		total += v.SampleCount
	}
	t.total = total
}

// Update attributes actualReward to candidate proportionally to how
// similar candidate.strategy is to finalStrategy, and advances the
// EMA/sample-count bookkeeping. During warmup (total samples below the
// configured threshold) only sample_count advances.
func (t *PerformanceTracker) Update(candidate domain.DecisionCandidate, finalStrategy domain.StrategyParams, actualReward float64, simWeights config.StrategySimilarityWeights) {
	p := t.record(candidate.Source)
	t.total++

	if t.total <= t.cfg.WarmupSamples {
		p.SampleCount++
		return
	}

	sim := Similarity(candidate.Strategy, finalStrategy, simWeights)
	attributed := actualReward * sim
	p.EMAReward = (1-t.cfg.EMAAlpha)*p.EMAReward + t.cfg.EMAAlpha*attributed
	p.SampleCount++
}

// GetWeights derives the per-source ensemble weight, blending each
// source's fixed base weight with its learned trust score as samples
// accumulate. While still warming up, base weights pass through
// unchanged.
func (t *PerformanceTracker) GetWeights(base map[domain.CandidateSource]float64) map[domain.CandidateSource]float64 {
	if t.total < t.cfg.WarmupSamples {
		out := make(map[domain.CandidateSource]float64, len(base))
		for k, v := range base {
			out[k] = v
		}
		return out
	}

	trust := t.trustScores(base)
	blend := clampf(float64(t.total-t.cfg.WarmupSamples)/t.cfg.BlendScale, 0, t.cfg.BlendMax)

	out := make(map[domain.CandidateSource]float64, len(base))
	var sum float64
	for source, b := range base {
		tr := trust[source]
		w := (1-blend)*b + blend*tr
		if w < t.cfg.MinWeight {
			w = t.cfg.MinWeight
		}
		out[source] = w
		sum += w
	}
	if sum > 0 {
		for k := range out {
			out[k] /= sum
		}
	}
	return out
}

// trustScores min-max normalises ema_reward across every source with a
// recorded performance entry, falling back to the midpoint of the
// configured trust range for sources with no observations yet.
func (t *PerformanceTracker) trustScores(base map[domain.CandidateSource]float64) map[domain.CandidateSource]float64 {
	out := make(map[domain.CandidateSource]float64, len(base))
	mid := (t.cfg.TrustScoreMin + t.cfg.TrustScoreMax) / 2

	var min, max float64
	first := true
	for source := range base {
		p, ok := t.perf[source]
		if !ok {
			continue
		}
		if first {
			min, max = p.EMAReward, p.EMAReward
			first = false
			continue
		}
		if p.EMAReward < min {
			min = p.EMAReward
		}
		if p.EMAReward > max {
			max = p.EMAReward
		}
	}

	for source := range base {
		p, ok := t.perf[source]
		if !ok {
			out[source] = mid
			continue
		}
		if max == min {
			out[source] = mid
		} else {
			norm := (p.EMAReward - min) / (max - min)
			out[source] = clampf(norm, t.cfg.TrustScoreMin, t.cfg.TrustScoreMax)
		}
		p.TrustScore = out[source]
	}
	return out
}
