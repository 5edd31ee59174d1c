package state

import (
	"testing"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

func TestTrendAnalyzerDetectsUpwardSlope(t *testing.T) {
	a := NewTrendAnalyzer(config.TrendConfig{WindowSize: 5, StableBand: 0.01})
	var tr domain.Trend
	for i := 0; i < 5; i++ {
		tr = a.Observe(float64(i) * 10)
	}
	if tr.Direction != domain.TrendUp {
		t.Errorf("direction = %v, want up", tr.Direction)
	}
}

func TestTrendAnalyzerDetectsStableOnFlatScores(t *testing.T) {
	a := NewTrendAnalyzer(config.TrendConfig{WindowSize: 5, StableBand: 0.5})
	var tr domain.Trend
	for i := 0; i < 5; i++ {
		tr = a.Observe(50)
	}
	if tr.Direction != domain.TrendStable {
		t.Errorf("direction = %v, want stable", tr.Direction)
	}
}

func TestTrendAnalyzerDetectsDownwardSlope(t *testing.T) {
	a := NewTrendAnalyzer(config.TrendConfig{WindowSize: 5, StableBand: 0.01})
	var tr domain.Trend
	for i := 0; i < 5; i++ {
		tr = a.Observe(50 - float64(i)*10)
	}
	if tr.Direction != domain.TrendDown {
		t.Errorf("direction = %v, want down", tr.Direction)
	}
}
