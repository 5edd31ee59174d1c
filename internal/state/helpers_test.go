package state

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("clamp(%v,%v,%v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := clampInt(5, 0, 3); got != 3 {
		t.Errorf("clampInt(5,0,3) = %d, want 3", got)
	}
	if got := clampInt(-1, 0, 3); got != 0 {
		t.Errorf("clampInt(-1,0,3) = %d, want 0", got)
	}
}

func TestEMAConvergesTowardSample(t *testing.T) {
	v := 0.0
	for i := 0; i < 200; i++ {
		v = ema(v, 1.0, 0.1)
	}
	if v < 0.99 {
		t.Errorf("ema did not converge toward sample, got %v", v)
	}
}

func TestEMAZeroAlphaIsIdentity(t *testing.T) {
	if got := ema(0.4, 0.9, 0); got != 0.4 {
		t.Errorf("ema with alpha=0 should not move, got %v", got)
	}
}
