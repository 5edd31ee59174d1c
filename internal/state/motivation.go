package state

import (
	"github.com/vocabtutor/amas/internal/config"
)

// MotivationTracker maintains motivation in [-1,1] and a streak counter
// that resets on a wrong answer.
type MotivationTracker struct {
	cfg        config.MotivationConfig
	motivation float64
	streak     int
}

// NewMotivationTracker constructs a tracker seeded at neutral.
func NewMotivationTracker(cfg config.MotivationConfig) *MotivationTracker {
	return &MotivationTracker{cfg: cfg, motivation: 0.0}
}

// Update advances motivation from correctness and an optional quit
// signal, and maintains the streak counter.
func (t *MotivationTracker) Update(isCorrect, isQuit bool) (motivation float64, streak int) {
	c := t.cfg
	switch {
	case isQuit:
		t.motivation += c.QuitDelta
		t.streak = 0
	case isCorrect:
		t.streak++
		if t.streak > c.StreakCap {
			t.streak = c.StreakCap
		}
		bonus := c.StreakBonus * float64(t.streak)
		t.motivation += c.CorrectDelta + bonus
	default:
		t.motivation += c.WrongDelta
		t.streak = 0
	}
	t.motivation = clamp(t.motivation, -1, 1)
	return t.motivation, t.streak
}

// Value returns the current motivation estimate.
func (t *MotivationTracker) Value() float64 { return t.motivation }

// Streak returns the current correct-answer streak length.
func (t *MotivationTracker) Streak() int { return t.streak }

// SetValue overrides the internal motivation value, used when
// rehydrating.
func (t *MotivationTracker) SetValue(v float64) { t.motivation = clamp(v, -1, 1) }
