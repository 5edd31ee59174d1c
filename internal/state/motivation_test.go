package state

import (
	"testing"

	"github.com/vocabtutor/amas/internal/config"
)

func TestMotivationTrackerCorrectStreakBuildsBonus(t *testing.T) {
	m := NewMotivationTracker(config.DefaultConfig().State.Motivation)

	first, streak := m.Update(true, false)
	if streak != 1 {
		t.Fatalf("streak after first correct = %d, want 1", streak)
	}

	var last float64
	for i := 0; i < 5; i++ {
		last, streak = m.Update(true, false)
	}
	if streak != 6 {
		t.Errorf("streak after six corrects = %d, want 6", streak)
	}
	if last <= first {
		t.Errorf("motivation should keep rising on a correct streak: first=%v last=%v", first, last)
	}
}

func TestMotivationTrackerWrongResetsStreak(t *testing.T) {
	m := NewMotivationTracker(config.DefaultConfig().State.Motivation)
	m.Update(true, false)
	m.Update(true, false)
	_, streak := m.Update(false, false)
	if streak != 0 {
		t.Errorf("streak after wrong answer = %d, want 0", streak)
	}
}

func TestMotivationTrackerQuitClampsAtMinusOne(t *testing.T) {
	m := NewMotivationTracker(config.DefaultConfig().State.Motivation)
	var v float64
	for i := 0; i < 20; i++ {
		v, _ = m.Update(false, true)
	}
	if v < -1 {
		t.Errorf("motivation went below -1: %v", v)
	}
}
