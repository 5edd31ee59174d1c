package state

import (
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// TrendAnalyzer tracks a sliding window of mastery scores and reports
// the regressed slope's sign and normalised magnitude using a
// ring-buffer history.
type TrendAnalyzer struct {
	cfg   config.TrendConfig
	hist  []float64
	idx   int
	full  bool
}

// NewTrendAnalyzer constructs an analyzer with the configured window
// size.
func NewTrendAnalyzer(cfg config.TrendConfig) *TrendAnalyzer {
	size := cfg.WindowSize
	if size < 2 {
		size = 2
	}
	return &TrendAnalyzer{cfg: cfg, hist: make([]float64, size)}
}

// Observe records one mastery score and returns the current trend.
func (t *TrendAnalyzer) Observe(score float64) domain.Trend {
	t.hist[t.idx] = score
	t.idx = (t.idx + 1) % len(t.hist)
	if t.idx == 0 {
		t.full = true
	}
	return t.regress()
}

func (t *TrendAnalyzer) window() []float64 {
	n := len(t.hist)
	if !t.full {
		return t.hist[:t.idx]
	}
	ordered := make([]float64, n)
	for i := 0; i < n; i++ {
		ordered[i] = t.hist[(t.idx+i)%n]
	}
	return ordered
}

// regress fits a least-squares line through the current window and
// derives direction from the slope's sign and strength from its
// magnitude, normalised into [0,1].
func (t *TrendAnalyzer) regress() domain.Trend {
	w := t.window()
	n := len(w)
	if n < 2 {
		return domain.Trend{Direction: domain.TrendStable, Strength: 0}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range w {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return domain.Trend{Direction: domain.TrendStable, Strength: 0}
	}
	slope := (nf*sumXY - sumX*sumY) / denom

	direction := domain.TrendStable
	switch {
	case slope > t.cfg.StableBand:
		direction = domain.TrendUp
	case slope < -t.cfg.StableBand:
		direction = domain.TrendDown
	}

	strength := clamp(abs(slope)*float64(n), 0, 1)
	return domain.Trend{Direction: direction, Strength: strength}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
