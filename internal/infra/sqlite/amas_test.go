package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vocabtutor/amas/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amas.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMissingUserReturnsNilNil(t *testing.T) {
	db := openTestDB(t)
	got, err := db.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing user, got %+v", got)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	db := openTestDB(t)
	state := domain.PersistedAMASState{
		UserID:           "user-1",
		UserState:        domain.DefaultUserState(1000),
		Strategy:         domain.DefaultStrategyParams(),
		InteractionCount: 3,
		LastUpdatedMs:    1000,
	}

	if err := db.Save(context.Background(), state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a persisted row")
	}
	if got.InteractionCount != 3 {
		t.Errorf("interaction count = %d, want 3", got.InteractionCount)
	}
	if got.Strategy != state.Strategy {
		t.Errorf("strategy = %+v, want %+v", got.Strategy, state.Strategy)
	}
	if got.BanditModel != nil {
		t.Errorf("expected nil bandit model, got %+v", got.BanditModel)
	}
}

func TestSaveUpsertsOnConflict(t *testing.T) {
	db := openTestDB(t)
	first := domain.PersistedAMASState{
		UserID:           "user-2",
		UserState:        domain.DefaultUserState(1000),
		Strategy:         domain.DefaultStrategyParams(),
		InteractionCount: 1,
		LastUpdatedMs:    1000,
	}
	if err := db.Save(context.Background(), first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := first
	second.InteractionCount = 2
	second.LastUpdatedMs = 2000
	if err := db.Save(context.Background(), second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.Load(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.InteractionCount != 2 {
		t.Errorf("interaction count after upsert = %d, want 2", got.InteractionCount)
	}
	if got.LastUpdatedMs != 2000 {
		t.Errorf("last updated ms after upsert = %d, want 2000", got.LastUpdatedMs)
	}
}

func TestSaveThenLoadRoundTripsBanditAndColdStartModel(t *testing.T) {
	db := openTestDB(t)
	cold := domain.ColdStartState{Phase: domain.PhaseExplore, SamplesSeen: 4, ClassificationFeatures: []float64{0.1, 0.2}}
	bandit := domain.BanditModel{
		ContextDim: 3,
		LinUCB: map[string]*domain.LinUCBArm{
			"arm-a": {A: [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, B: []float64{0, 0, 0}, Count: 5},
		},
		Thompson: map[string]*domain.ThompsonArm{
			"arm-a": {Alpha: 2, Beta: 3},
		},
	}
	state := domain.PersistedAMASState{
		UserID:         "user-3",
		UserState:      domain.DefaultUserState(1000),
		Strategy:       domain.DefaultStrategyParams(),
		BanditModel:    &bandit,
		ColdStartState: &cold,
		LastUpdatedMs:  1000,
	}

	if err := db.Save(context.Background(), state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := db.Load(context.Background(), "user-3")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ColdStartState == nil || got.ColdStartState.Phase != domain.PhaseExplore {
		t.Fatalf("cold start state did not round-trip: %+v", got.ColdStartState)
	}
	if got.BanditModel == nil || got.BanditModel.LinUCB["arm-a"] == nil {
		t.Fatalf("bandit model did not round-trip: %+v", got.BanditModel)
	}
	if got.BanditModel.LinUCB["arm-a"].Count != 5 {
		t.Errorf("linucb arm count = %d, want 5", got.BanditModel.LinUCB["arm-a"].Count)
	}
	if got.BanditModel.Thompson["arm-a"].Alpha != 2 {
		t.Errorf("thompson arm alpha = %v, want 2", got.BanditModel.Thompson["arm-a"].Alpha)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amas.db")
	db1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	db1.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopening an already-migrated database should not error: %v", err)
	}
	db2.Close()
}
