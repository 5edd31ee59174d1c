package state

import "github.com/vocabtutor/amas/internal/domain"

const habitAlpha = 0.15

// HabitTracker maintains a length-24 hour-of-day preference vector,
// nudging the touched hour's bucket toward 1 and leaving the other
// hours unchanged.
type HabitTracker struct {
	habit domain.Habit
}

// NewHabitTracker constructs a tracker with every hour at the neutral
// 0.5 prior.
func NewHabitTracker() *HabitTracker {
	h := domain.Habit{}
	for i := range h.TimePref {
		h.TimePref[i] = 0.5
	}
	return &HabitTracker{habit: h}
}

// Observe nudges the given hour's bucket toward 1.0.
func (t *HabitTracker) Observe(hour int) domain.Habit {
	if hour < 0 || hour > 23 {
		return t.habit
	}
	t.habit.TimePref[hour] = clamp(ema(t.habit.TimePref[hour], 1.0, habitAlpha), 0, 1)
	return t.habit
}

// Value returns the current habit vector.
func (t *HabitTracker) Value() domain.Habit { return t.habit }

// SetValue overrides the habit vector, used when rehydrating.
func (t *HabitTracker) SetValue(h domain.Habit) { t.habit = h }

// TimePreference returns the preference value for the given hour,
// defaulting to 0.5 when out of range.
func TimePreference(h domain.Habit, hour int) float64 {
	if hour < 0 || hour > 23 {
		return 0.5
	}
	return h.TimePref[hour]
}
