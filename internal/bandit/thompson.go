package bandit

import (
	"math"
	"math/rand"

	"github.com/vocabtutor/amas/internal/domain"
)

// Thompson is a Beta-Bernoulli Thompson-sampling learner, one arm per
// strategy key. Rewards in [-1,1] are renormalised to [0,1] before the
// Bernoulli update via reward/2+0.5.
type Thompson struct {
	rng  *rand.Rand
	arms map[string]*betaArm
}

type betaArm struct {
	alpha float64
	beta  float64
}

// NewThompson constructs an empty learner. rng is injectable so sampling
// is deterministic under test.
func NewThompson(rng *rand.Rand) *Thompson {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Thompson{rng: rng, arms: make(map[string]*betaArm)}
}

func (t *Thompson) arm(key string) *betaArm {
	a, ok := t.arms[key]
	if !ok {
		a = &betaArm{alpha: 1, beta: 1}
		t.arms[key] = a
	}
	return a
}

// Sample draws one value from the arm's Beta(alpha, beta) posterior via
// the ratio of two Gamma draws — the standard construction when no
// dedicated Beta sampler is at hand.
func (t *Thompson) Sample(key string) float64 {
	a := t.arm(key)
	x := sampleGamma(t.rng, a.alpha)
	y := sampleGamma(t.rng, a.beta)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// Update applies a Laplace-smoothed Bernoulli update from a reward in
// [-1,1]: r_norm = (reward+1)/2, alpha += r_norm, beta += 1-r_norm.
func (t *Thompson) Update(key string, reward float64) {
	a := t.arm(key)
	rNorm := (reward + 1) / 2
	if rNorm < 0 {
		rNorm = 0
	}
	if rNorm > 1 {
		rNorm = 1
	}
	a.alpha += rNorm
	a.beta += 1 - rNorm
}

// Snapshot exports every arm's posterior for persistence.
func (t *Thompson) Snapshot() map[string]*domain.ThompsonArm {
	out := make(map[string]*domain.ThompsonArm, len(t.arms))
	for k, a := range t.arms {
		out[k] = &domain.ThompsonArm{Alpha: a.alpha, Beta: a.beta}
	}
	return out
}

// Restore rehydrates every arm's posterior from a persisted snapshot.
func (t *Thompson) Restore(snapshot map[string]*domain.ThompsonArm) {
	for k, a := range snapshot {
		if a == nil || a.Alpha <= 0 || a.Beta <= 0 {
			continue
		}
		t.arms[k] = &betaArm{alpha: a.Alpha, beta: a.Beta}
	}
}

// sampleGamma draws from Gamma(shape, 1) using Marsaglia-Tsang for
// shape >= 1, and a boost transform for shape < 1.
func sampleGamma(rng *rand.Rand, shape float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(rng, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
