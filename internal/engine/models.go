// Package engine orchestrates the per-event AMAS pipeline: state update,
// candidate generation, ensemble merge, safety filter, scheduling,
// reward attribution, and persistence.
package engine

import (
	"github.com/vocabtutor/amas/internal/bandit"
	"github.com/vocabtutor/amas/internal/coldstart"
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
	"github.com/vocabtutor/amas/internal/state"
)

// UserModels is the non-serialisable half of a user's live footprint:
// estimator instances, bandit learners, and the cold-start manager.
// Rebuilt from PersistedAMASState on a cache miss. The performance
// tracker is process-wide, not per-user — it lives on the Engine.
type UserModels struct {
	Estimators *state.Estimators
	LinUCB     *bandit.LinUCB
	Thompson   *bandit.Thompson
	ColdStart  *coldstart.Manager
}

// newUserModels constructs a fresh bundle at defaults.
func newUserModels(cfg config.Config, recall state.RecallPredictor) *UserModels {
	return &UserModels{
		Estimators: state.NewEstimators(cfg.State, recall),
		LinUCB:     bandit.NewLinUCB(cfg.Bandit),
		Thompson:   bandit.NewThompson(nil),
		ColdStart:  coldstart.NewManager(cfg.ColdStart),
	}
}

// rehydrate seeds the bundle's estimators and bandit learners from a
// persisted envelope, so a cache miss doesn't drop a user back to the
// mid-range defaults.
func (m *UserModels) rehydrate(persisted domain.PersistedAMASState) {
	m.Estimators.RehydrateFrom(persisted.UserState)
	if persisted.BanditModel != nil {
		m.LinUCB.Restore(persisted.BanditModel.LinUCB)
		m.Thompson.Restore(persisted.BanditModel.Thompson)
	}
}

func (m *UserModels) banditSnapshot(dim int) *domain.BanditModel {
	return &domain.BanditModel{
		ContextDim: dim,
		LinUCB:     m.LinUCB.Snapshot(),
		Thompson:   m.Thompson.Snapshot(),
	}
}
