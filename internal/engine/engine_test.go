package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// fakePersistence is an in-memory domain.PersistencePort for exercising
// the engine without a real database.
type fakePersistence struct {
	mu    sync.Mutex
	store map[string]domain.PersistedAMASState
	// failSave makes every Save call report an error, to exercise the
	// engine's swallow-and-log failure path.
	failSave bool
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{store: make(map[string]domain.PersistedAMASState)}
}

func (f *fakePersistence) Load(ctx context.Context, userID string) (*domain.PersistedAMASState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.store[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakePersistence) Save(ctx context.Context, s domain.PersistedAMASState) error {
	if f.failSave {
		return errSaveFailed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[s.UserID] = s
	return nil
}

var errSaveFailed = errFake("save failed")

type errFake string

func (e errFake) Error() string { return string(e) }

func correctEvent() domain.RawEvent {
	return domain.RawEvent{IsCorrect: true, ResponseTimeMs: 2000}
}

func TestProcessEventReturnsStrategyAndPersistsState(t *testing.T) {
	p := newFakePersistence()
	e := New(config.DefaultConfig(), p, nil)

	result, err := e.ProcessEvent(context.Background(), "user-1", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent returned error: %v", err)
	}
	if result.Strategy == (domain.StrategyParams{}) {
		t.Error("expected a non-zero strategy")
	}

	loaded, err := p.Load(context.Background(), "user-1")
	if err != nil || loaded == nil {
		t.Fatalf("expected persisted state for user-1, err=%v loaded=%v", err, loaded)
	}
	if loaded.InteractionCount != 1 {
		t.Errorf("interaction count = %d, want 1", loaded.InteractionCount)
	}
}

func TestProcessEventColdStartBypassesEnsemble(t *testing.T) {
	cfg := config.DefaultConfig()
	e := New(cfg, newFakePersistence(), nil)

	// A single event leaves the user at the Classify phase, which
	// bypasses the ensemble entirely in favour of the heuristic.
	result, err := e.ProcessEvent(context.Background(), "user-cold", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent returned error: %v", err)
	}
	if result.ColdStartPhase == domain.PhaseNormal {
		t.Errorf("a single event should not exit cold start, got phase %v", result.ColdStartPhase)
	}
}

func TestProcessEventSkipUpdateSkipsPersistenceOnly(t *testing.T) {
	p := newFakePersistence()
	e := New(config.DefaultConfig(), p, nil)

	result, err := e.ProcessEvent(context.Background(), "user-2", correctEvent(), domain.ProcessOptions{SkipUpdate: true}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent returned error: %v", err)
	}
	if result.Strategy == (domain.StrategyParams{}) {
		t.Error("SkipUpdate must still run the pipeline and return a usable strategy")
	}
	if _, ok := p.store["user-2"]; ok {
		t.Error("SkipUpdate must skip the persistence save, even though the cache is still updated")
	}
	if e.GetCacheStats().UserCount != 1 {
		t.Error("SkipUpdate must still insert the user into the in-memory cache")
	}
}

func TestProcessEventSameUserSerialisesAcrossGoroutines(t *testing.T) {
	p := newFakePersistence()
	e := New(config.DefaultConfig(), p, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = e.ProcessEvent(context.Background(), "user-concurrent", correctEvent(), domain.ProcessOptions{}, 10)
		}()
	}
	wg.Wait()

	loaded, err := p.Load(context.Background(), "user-concurrent")
	if err != nil || loaded == nil {
		t.Fatalf("expected persisted state, err=%v loaded=%v", err, loaded)
	}
	if loaded.InteractionCount != 20 {
		t.Errorf("interaction count = %d, want 20 (no lost updates)", loaded.InteractionCount)
	}
}

func TestProcessEventSaveFailureDoesNotAbortResult(t *testing.T) {
	p := newFakePersistence()
	p.failSave = true
	e := New(config.DefaultConfig(), p, nil)

	result, err := e.ProcessEvent(context.Background(), "user-3", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("a persistence save failure must not surface as a ProcessEvent error, got %v", err)
	}
	if result.Strategy == (domain.StrategyParams{}) {
		t.Error("expected a usable strategy even when persistence save fails")
	}
}

func TestGetUserStateInitialisesDefaultsWithoutPersisting(t *testing.T) {
	p := newFakePersistence()
	e := New(config.DefaultConfig(), p, nil)

	st, err := e.GetUserState(context.Background(), "user-4")
	if err != nil {
		t.Fatalf("GetUserState error: %v", err)
	}
	if st.Attention == 0 && st.Fatigue == 0 {
		t.Error("expected mid-range default user state")
	}
	if _, ok := p.store["user-4"]; ok {
		t.Error("GetUserState must not write through to persistence")
	}
}

func TestGetCurrentStrategyReturnsDefaultForNewUser(t *testing.T) {
	e := New(config.DefaultConfig(), newFakePersistence(), nil)
	sp, err := e.GetCurrentStrategy(context.Background(), "user-5")
	if err != nil {
		t.Fatalf("GetCurrentStrategy error: %v", err)
	}
	if sp != domain.DefaultStrategyParams() {
		t.Errorf("expected default strategy for a brand-new user, got %+v", sp)
	}
}

func TestInvalidateCacheForcesReloadFromPersistence(t *testing.T) {
	p := newFakePersistence()
	e := New(config.DefaultConfig(), p, nil)

	_, err := e.ProcessEvent(context.Background(), "user-6", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent error: %v", err)
	}
	if e.GetCacheStats().UserCount != 1 {
		t.Fatalf("expected one cached user")
	}

	e.InvalidateCache("user-6")
	if e.GetCacheStats().UserCount != 0 {
		t.Errorf("InvalidateCache should drop the in-memory entry")
	}

	st, err := e.GetUserState(context.Background(), "user-6")
	if err != nil {
		t.Fatalf("GetUserState after invalidate error: %v", err)
	}
	if st.TimestampMs == 0 {
		// rehydrated state carries forward the persisted timestamp rather
		// than resetting to the zero value.
		t.Error("expected the rehydrated state to carry forward its persisted timestamp")
	}
}

func TestCleanupStaleUsersEvictsOnlyPastCutoff(t *testing.T) {
	e := New(config.DefaultConfig(), newFakePersistence(), nil)
	fakeNow := int64(1_000_000)
	e.clock = func() int64 { return fakeNow }

	_, err := e.ProcessEvent(context.Background(), "user-old", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent error: %v", err)
	}

	fakeNow += 3_600_000 // one hour later
	_, err = e.ProcessEvent(context.Background(), "user-fresh", correctEvent(), domain.ProcessOptions{}, 10)
	if err != nil {
		t.Fatalf("ProcessEvent error: %v", err)
	}

	removed := e.CleanupStaleUsers(30 * time.Minute)
	if removed != 1 {
		t.Errorf("expected exactly one stale user evicted, got %d", removed)
	}
	if e.GetCacheStats().UserCount != 1 {
		t.Errorf("expected one surviving cached user, got %d", e.GetCacheStats().UserCount)
	}
}

func TestReloadConfigAppliesToSubsequentCalls(t *testing.T) {
	e := New(config.DefaultConfig(), newFakePersistence(), nil)

	cfg := config.DefaultConfig()
	cfg.Ensemble.EnsembleEnabled = false
	e.ReloadConfig(cfg)

	if e.config().Ensemble.EnsembleEnabled {
		t.Error("ReloadConfig should take effect immediately for new calls")
	}
}
