package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. None of these
// are fatal to the engine; each has a documented local recovery and is
// logged, not propagated to ProcessEvent callers, except ErrInvalidInput.

var (
	// ErrPersistenceUnavailable marks a load/save failure at the
	// persistence port boundary. Load failures are recovered by treating
	// the user as new; save failures are logged only.
	ErrPersistenceUnavailable = errors.New("amas: persistence port unavailable")

	// ErrModelRehydrationFailed marks a deserialised bandit model with
	// the wrong dimension or an unrecognised shape. Recovered by
	// rebuilding the model from defaults.
	ErrModelRehydrationFailed = errors.New("amas: bandit model rehydration failed")

	// ErrNoCandidate marks that every decision source was disabled or
	// returned no suggestion this event. Recovered by returning the
	// previous strategy unchanged.
	ErrNoCandidate = errors.New("amas: no decision candidate available")

	// ErrInvalidInput marks a structurally missing top-level argument.
	// Out-of-range numeric fields are clamped locally and never surface
	// this error; it is reserved for missing required fields.
	ErrInvalidInput = errors.New("amas: invalid input")
)
