package coldstart

import (
	"testing"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

func testConfig() config.ColdStartConfig {
	return config.ColdStartConfig{ClassifySamples: 3, WarmupSamples: 6, ExploreSamples: 3}
}

func TestInitStartsAtClassify(t *testing.T) {
	m := NewManager(testConfig())
	s := m.Init()
	if s.Phase != domain.PhaseClassify {
		t.Errorf("Init phase = %v, want Classify", s.Phase)
	}
	if s.SamplesSeen != 0 {
		t.Errorf("Init samples seen = %d, want 0", s.SamplesSeen)
	}
}

func TestAdvanceTransitionsThroughPhasesInOrder(t *testing.T) {
	m := NewManager(testConfig())
	s := m.Init()

	var phases []domain.ColdStartPhase
	for i := 0; i < 8; i++ {
		s = m.Advance(s, float64(i))
		phases = append(phases, s.Phase)
	}

	// ClassifySamples=3: samples 1,2 still Classify, sample 3 onward Explore
	// until WarmupSamples=6, then Normal.
	want := []domain.ColdStartPhase{
		domain.PhaseClassify, domain.PhaseClassify, domain.PhaseExplore,
		domain.PhaseExplore, domain.PhaseExplore, domain.PhaseNormal,
		domain.PhaseNormal, domain.PhaseNormal,
	}
	for i, w := range want {
		if phases[i] != w {
			t.Errorf("phase after sample %d = %v, want %v", i+1, phases[i], w)
		}
	}
}

func TestAdvanceAccumulatesClassificationFeatures(t *testing.T) {
	m := NewManager(testConfig())
	s := m.Init()
	s = m.Advance(s, 1.0)
	s = m.Advance(s, 2.0)

	if len(s.ClassificationFeatures) != 2 {
		t.Fatalf("classification features length = %d, want 2", len(s.ClassificationFeatures))
	}
	if s.ClassificationFeatures[0] != 1.0 || s.ClassificationFeatures[1] != 2.0 {
		t.Errorf("classification features = %v, want [1 2]", s.ClassificationFeatures)
	}
}

func TestAdvanceDoesNotMutatePreviousState(t *testing.T) {
	m := NewManager(testConfig())
	s1 := m.Init()
	s2 := m.Advance(s1, 5.0)

	if len(s1.ClassificationFeatures) != 0 {
		t.Errorf("advancing must not mutate the previous state's slice, got %v", s1.ClassificationFeatures)
	}
	if s1.SamplesSeen == s2.SamplesSeen {
		t.Errorf("s1 and s2 should have different sample counts")
	}
}
