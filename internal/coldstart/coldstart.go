// Package coldstart implements the classify/explore/normal phase
// state machine; until a user reaches the normal phase the engine
// bypasses the ensemble and uses the heuristic suggestion alone.
package coldstart

import (
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// Manager advances one user's ColdStartState by one sample per call.
type Manager struct {
	cfg config.ColdStartConfig
}

// NewManager constructs a manager bound to the given configuration.
func NewManager(cfg config.ColdStartConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Init returns the starting state for a never-before-seen user.
func (m *Manager) Init() domain.ColdStartState {
	return domain.ColdStartState{Phase: domain.PhaseClassify}
}

// Advance records one more sample and re-derives the phase:
// Classify while samples seen < ClassifySamples, Explore while below
// WarmupSamples, Normal thereafter.
func (m *Manager) Advance(prev domain.ColdStartState, feature float64) domain.ColdStartState {
	next := prev
	next.SamplesSeen = prev.SamplesSeen + 1
	next.ClassificationFeatures = append(append([]float64(nil), prev.ClassificationFeatures...), feature)

	switch {
	case next.SamplesSeen < m.cfg.ClassifySamples:
		next.Phase = domain.PhaseClassify
	case next.SamplesSeen < m.cfg.WarmupSamples:
		next.Phase = domain.PhaseExplore
		next.ClassificationDone = true
	default:
		next.Phase = domain.PhaseNormal
		next.ClassificationDone = true
	}
	return next
}
