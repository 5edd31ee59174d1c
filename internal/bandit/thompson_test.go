package bandit

import (
	"math/rand"
	"testing"

	"github.com/vocabtutor/amas/internal/domain"
)

func TestThompsonSampleStaysInUnitInterval(t *testing.T) {
	th := NewThompson(rand.New(rand.NewSource(42)))
	for i := 0; i < 100; i++ {
		s := th.Sample("arm-a")
		if s < 0 || s > 1 {
			t.Fatalf("sample out of [0,1]: %v", s)
		}
	}
}

func TestThompsonUpdateShiftsSamplesTowardReward(t *testing.T) {
	winner := NewThompson(rand.New(rand.NewSource(7)))
	loser := NewThompson(rand.New(rand.NewSource(7)))

	for i := 0; i < 200; i++ {
		winner.Update("arm-a", 1.0)
		loser.Update("arm-a", -1.0)
	}

	var winnerSum, loserSum float64
	n := 500
	for i := 0; i < n; i++ {
		winnerSum += winner.Sample("arm-a")
		loserSum += loser.Sample("arm-a")
	}

	if winnerSum <= loserSum {
		t.Errorf("an arm fed only +1 rewards should sample higher on average than one fed only -1: winner=%v loser=%v",
			winnerSum/float64(n), loserSum/float64(n))
	}
}

func TestThompsonSnapshotRestoreRoundTrips(t *testing.T) {
	th := NewThompson(rand.New(rand.NewSource(1)))
	th.Update("arm-a", 0.5)
	th.Update("arm-a", -0.2)

	snap := th.Snapshot()
	got := snap["arm-a"]
	if got == nil {
		t.Fatal("expected arm-a in snapshot")
	}

	th2 := NewThompson(rand.New(rand.NewSource(1)))
	th2.Restore(snap)
	restored := th2.arm("arm-a")
	if restored.alpha != got.Alpha || restored.beta != got.Beta {
		t.Errorf("restored arm = (%v,%v), want (%v,%v)", restored.alpha, restored.beta, got.Alpha, got.Beta)
	}
}

func TestThompsonRestoreDiscardsNonPositiveParams(t *testing.T) {
	th := NewThompson(nil)
	th.Restore(map[string]*domain.ThompsonArm{
		"bad": {Alpha: 0, Beta: 1},
	})
	if _, ok := th.arms["bad"]; ok {
		t.Errorf("an arm with non-positive alpha must be discarded on restore")
	}
}
