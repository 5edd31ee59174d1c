package engine

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vocabtutor/amas/internal/bandit"
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
	"github.com/vocabtutor/amas/internal/ensemble"
	"github.com/vocabtutor/amas/internal/objective"
	"github.com/vocabtutor/amas/internal/reward"
	"github.com/vocabtutor/amas/internal/scheduler"
	"github.com/vocabtutor/amas/internal/state"
)

// baseWeights are the performance tracker's fixed starting weights
// before any blend toward learned trust: the heuristic's base weight is
// configurable, the two bandit base weights are fixed at 0.4 each.
func baseWeights(cfg config.EnsembleConfig) map[domain.CandidateSource]float64 {
	return map[domain.CandidateSource]float64{
		domain.SourceHeuristic: cfg.HeuristicBaseWeight,
		domain.SourceIGE:       0.4,
		domain.SourceSWD:       0.4,
	}
}

// userEntry bundles one user's cache-resident state behind its own
// mutex, so concurrent events for DIFFERENT users never contend, while
// events for the SAME user are strictly serialised.
type userEntry struct {
	mu        sync.Mutex
	models    *UserModels
	persisted domain.PersistedAMASState
	lastTouch int64 // epoch millis, for stale-user cleanup
}

// Engine is the per-process AMAS orchestrator. One instance owns every
// user's live footprint plus the shared, process-wide performance
// tracker.
type Engine struct {
	cfg atomic.Pointer[config.Config]

	persistence domain.PersistencePort
	recall      state.RecallPredictor
	actrEnabled bool
	clock       func() int64

	mu    sync.RWMutex
	users map[string]*userEntry

	perfMu      sync.Mutex
	performance *ensemble.PerformanceTracker
}

// New constructs an Engine. persistence may be nil, in which case every
// user behaves as cache-resident only (no cross-process durability).
func New(cfg config.Config, persistence domain.PersistencePort, recall state.RecallPredictor) *Engine {
	e := &Engine{
		persistence: persistence,
		recall:      recall,
		actrEnabled: cfg.Ensemble.ACTRMemoryEnabled,
		clock:       func() int64 { return time.Now().UnixMilli() },
		users:       make(map[string]*userEntry),
		performance: ensemble.NewPerformanceTracker(cfg.Performance),
	}
	e.cfg.Store(&cfg)
	return e
}

// ReloadConfig atomically swaps the engine's configuration snapshot.
// In-flight events keep running against the snapshot they started with.
func (e *Engine) ReloadConfig(cfg config.Config) {
	e.cfg.Store(&cfg)
}

func (e *Engine) config() config.Config {
	return *e.cfg.Load()
}

// entry returns (creating if necessary) the cache entry for userID.
func (e *Engine) entry(userID string) *userEntry {
	e.mu.RLock()
	u, ok := e.users[userID]
	e.mu.RUnlock()
	if ok {
		return u
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if u, ok := e.users[userID]; ok {
		return u
	}
	u = &userEntry{}
	e.users[userID] = u
	return u
}

// loadOrInit populates a freshly created entry from the persistence
// port (applying session-level fatigue decay against the elapsed time
// since the user's last real interaction), or seeds it at defaults when
// there is no persistence port or no prior record.
func (e *Engine) loadOrInit(ctx context.Context, cfg config.Config, userID string, u *userEntry, nowMs int64) {
	if u.models != nil {
		return
	}
	u.models = newUserModels(cfg, e.recall)

	if e.persistence == nil {
		u.persisted = domain.PersistedAMASState{UserID: userID, UserState: domain.DefaultUserState(nowMs)}
		return
	}

	loaded, err := e.persistence.Load(ctx, userID)
	if err != nil || loaded == nil {
		if err != nil {
			log.Printf("[engine] persistence load failed for user %s, treating as new: %v", userID, err)
		}
		u.persisted = domain.PersistedAMASState{UserID: userID, UserState: domain.DefaultUserState(nowMs)}
		return
	}

	elapsedMinutes := float64(nowMs-loaded.UserState.TimestampMs) / 60000.0
	fatigue, attention := decayOnLoad(loaded.UserState.Fatigue, loaded.UserState.Attention, elapsedMinutes, cfg.State.Fatigue.DecayOnLoadRate)
	loaded.UserState.Fatigue = fatigue
	loaded.UserState.Attention = attention

	u.persisted = *loaded
	u.models.rehydrate(*loaded)
}

func decayOnLoad(fatigue, attention, elapsedMinutes, decayRate float64) (float64, float64) {
	return state.DecayOnLoad(fatigue, attention, elapsedMinutes, decayRate)
}

// ProcessEvent runs the full per-event pipeline for one user and
// returns the resulting strategy, reward, and explanation.
func (e *Engine) ProcessEvent(ctx context.Context, userID string, ev domain.RawEvent, opts domain.ProcessOptions, hour int) (domain.ProcessResult, error) {
	cfg := e.config() // snapshot for the whole call
	nowMs := e.clock()
	eventID := uuid.NewString() // correlates this call's log lines, if any

	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	e.loadOrInit(ctx, cfg, userID, u, nowMs)
	u.lastTouch = nowMs

	prevState := u.persisted.UserState
	currentStrategy := u.persisted.Strategy
	if currentStrategy == (domain.StrategyParams{}) {
		currentStrategy = domain.DefaultStrategyParams()
	}
	if opts.CurrentParams != nil {
		currentStrategy = *opts.CurrentParams
	}

	features := buildFeatureVector(ev, prevState, hour)

	newState := u.models.Estimators.Update(ctx, ev, opts, prevState, hour, e.actrEnabled, nowMs)

	coldState := u.persisted.ColdStartState
	if coldState == nil {
		init := u.models.ColdStart.Init()
		coldState = &init
	}
	*coldState = u.models.ColdStart.Advance(*coldState, features.Values[0])

	var strategy domain.StrategyParams
	var candidates []domain.DecisionCandidate
	var weights map[domain.CandidateSource]float64

	if coldState.Phase != domain.PhaseNormal {
		// Cold-start bypasses the ensemble entirely while the user's
		// bandit posteriors are still too thin to trust.
		strategy = ensemble.HeuristicSuggestion(currentStrategy, newState, opts.RecentAccuracy)
	} else if cfg.Ensemble.EnsembleEnabled {
		sweep := ensemble.Sweep(currentStrategy)

		if cfg.Ensemble.HeuristicEnabled {
			candidates = append(candidates, domain.DecisionCandidate{
				Source:     domain.SourceHeuristic,
				Strategy:   ensemble.HeuristicSuggestion(currentStrategy, newState, opts.RecentAccuracy),
				Confidence: 0.6,
			})
		}
		if cfg.Bandit.LinUCBEnabled && cfg.Ensemble.IGEEnabled {
			if c, ok := pickLinUCB(u.models.LinUCB, features, sweep); ok {
				candidates = append(candidates, c)
			}
		}
		if cfg.Bandit.ThompsonEnabled && cfg.Ensemble.SWDEnabled {
			if c, ok := pickThompson(u.models.Thompson, sweep); ok {
				candidates = append(candidates, c)
			}
		}

		if len(candidates) == 0 {
			// No source produced a candidate: hold the previous strategy.
			strategy = currentStrategy
		} else {
			weights = e.weightsSnapshot(cfg.Ensemble)
			candidates = ensemble.WithWeights(candidates, weights)
			strategy = ensemble.Merge(candidates)
		}
	} else {
		strategy = currentStrategy
	}

	strategy = ensemble.PostFilter(strategy, newState, opts.Session, cfg.Safety)

	r := reward.Compute(ev, newState.Cognitive, cfg.Reward)

	e.perfMu.Lock()
	for _, c := range candidates {
		e.performance.Update(c, strategy, r.Value, cfg.Ensemble.SimilarityWeights)
	}
	e.perfMu.Unlock()

	if c, ok := findCandidate(candidates, domain.SourceIGE); ok {
		u.models.LinUCB.Update(bandit.ArmKey(c.Strategy), features.Values, r.Value)
	}
	if c, ok := findCandidate(candidates, domain.SourceSWD); ok {
		u.models.Thompson.Update(bandit.ArmKey(c.Strategy), r.Value)
	}

	var mastery *domain.WordMasteryDecision
	if ev.WordID != "" {
		prevWord := domain.DefaultWordMemoryState()
		hadPrior := false
		if opts.WordState != nil {
			prevWord = *opts.WordState
			hadPrior = true
		}
		rootBonus := 0.0
		if opts.RootFeatures != nil {
			rootBonus = clampf(*opts.RootFeatures/5.0, 0, 1)
		}
		decision := scheduler.DecideMastery(prevWord, hadPrior, ev, newState.Cognitive, newState.Attention, newState.Fatigue, prevWord.DesiredRetention, rootBonus, strategy.IntervalScale)
		mastery = &decision
	}

	explanation := composeExplanation(newState, candidates, weights)
	obj := objective.Evaluate(newState, strategy, opts)

	u.persisted.UserID = userID
	u.persisted.UserState = newState
	u.persisted.Strategy = strategy
	u.persisted.BanditModel = u.models.banditSnapshot(cfg.Bandit.ContextDim)
	u.persisted.ColdStartState = coldState
	u.persisted.InteractionCount++
	u.persisted.LastUpdatedMs = nowMs

	if e.persistence != nil && !opts.SkipUpdate {
		snapshot := u.persisted
		if err := e.persistence.Save(ctx, snapshot); err != nil {
			log.Printf("[engine] event=%s persistence save failed for user %s: %v", eventID, userID, err)
		}
	}

	return domain.ProcessResult{
		UserState:      newState,
		Strategy:       strategy,
		Reward:         r,
		Explanation:    explanation,
		Features:       features,
		WordMastery:    mastery,
		ColdStartPhase: coldState.Phase,
		Objective:      obj,
	}, nil
}

func coldStartPhase(s *domain.ColdStartState) domain.ColdStartPhase {
	if s == nil {
		return domain.PhaseClassify
	}
	return s.Phase
}

func findCandidate(candidates []domain.DecisionCandidate, source domain.CandidateSource) (domain.DecisionCandidate, bool) {
	for _, c := range candidates {
		if c.Source == source {
			return c, true
		}
	}
	return domain.DecisionCandidate{}, false
}

// weightsSnapshot takes the performance-tracker lock only long enough to
// read the current dynamic weights.
func (e *Engine) weightsSnapshot(cfg config.EnsembleConfig) map[domain.CandidateSource]float64 {
	e.perfMu.Lock()
	defer e.perfMu.Unlock()
	return e.performance.GetWeights(baseWeights(cfg))
}

// GetUserState returns the cached user state without advancing the
// pipeline, initialising the user from persistence if not yet
// cache-resident.
func (e *Engine) GetUserState(ctx context.Context, userID string) (domain.UserState, error) {
	cfg := e.config()
	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	e.loadOrInit(ctx, cfg, userID, u, e.clock())
	return u.persisted.UserState, nil
}

// GetCurrentStrategy returns the cached strategy without advancing the
// pipeline.
func (e *Engine) GetCurrentStrategy(ctx context.Context, userID string) (domain.StrategyParams, error) {
	cfg := e.config()
	u := e.entry(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	e.loadOrInit(ctx, cfg, userID, u, e.clock())
	if u.persisted.Strategy == (domain.StrategyParams{}) {
		return domain.DefaultStrategyParams(), nil
	}
	return u.persisted.Strategy, nil
}

// InvalidateCache drops a single user's in-memory footprint; the next
// call rehydrates from persistence.
func (e *Engine) InvalidateCache(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.users, userID)
}

// CleanupStaleUsers evicts every cached user whose last touch exceeds
// maxAge, freeing memory for users who've left the session. Before an
// entry is dropped its last snapshot is flushed to persistence one more
// time, so an in-memory-only write racing the sweep is never lost; these
// flushes run concurrently since each is an independent, potentially
// slow persistence call.
func (e *Engine) CleanupStaleUsers(maxAge time.Duration) int {
	cutoff := e.clock() - maxAge.Milliseconds()

	e.mu.RLock()
	var stale []string
	for id, u := range e.users {
		if u.lastTouch < cutoff {
			stale = append(stale, id)
		}
	}
	e.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	if e.persistence != nil {
		g, ctx := errgroup.WithContext(context.Background())
		for _, id := range stale {
			id := id
			g.Go(func() error {
				u := e.entry(id)
				u.mu.Lock()
				snapshot := u.persisted
				u.mu.Unlock()
				if err := e.persistence.Save(ctx, snapshot); err != nil {
					log.Printf("[engine] flush-on-evict failed for user %s: %v", id, err)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for _, id := range stale {
		if u, ok := e.users[id]; ok && u.lastTouch < cutoff {
			delete(e.users, id)
			removed++
		}
	}
	return removed
}

// GetCacheStats reports the current in-memory user count.
func (e *Engine) GetCacheStats() domain.CacheStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return domain.CacheStats{UserCount: len(e.users)}
}

