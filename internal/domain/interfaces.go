package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the engine depends on them.

// PersistencePort abstracts durable storage of PersistedAMASState. Both
// methods are awaitable and fallible; the engine retries nothing — it
// only logs. load failures are treated as "new user"; save failures are
// logged and swallowed.
type PersistencePort interface {
	Load(ctx context.Context, userID string) (*PersistedAMASState, error)
	Save(ctx context.Context, state PersistedAMASState) error
}

// RecallPredictor abstracts an external ACT-R-style memory estimator.
// Only consulted when the cognitive profiler's ACT-R blend is enabled.
type RecallPredictor interface {
	PredictRecall(ctx context.Context, trace []WordReviewEvent) (float64, error)
}
