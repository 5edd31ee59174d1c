// Package bandit implements the two contextual-bandit learners the
// ensemble draws candidates from: LinUCB (disjoint linear models with an
// upper-confidence bound) and Thompson sampling over a Beta-Bernoulli
// posterior. Both learners are keyed per arm and serialise into
// domain.BanditModel so a user's posteriors survive a cache miss.
package bandit

import (
	"math"

	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/domain"
)

// LinUCB holds one disjoint linear model per arm: A is the d×d
// design matrix (ridge-regularised), b is the d-vector of
// reward-weighted contexts. Score(arm, x) = thetaᵀx + alpha*sqrt(xᵀA⁻¹x).
type LinUCB struct {
	cfg  config.BanditConfig
	arms map[string]*linArm
}

type linArm struct {
	a     [][]float64 // d x d
	b     []float64   // d
	count uint64
}

// NewLinUCB constructs an empty learner at the configured context
// dimension.
func NewLinUCB(cfg config.BanditConfig) *LinUCB {
	return &LinUCB{cfg: cfg, arms: make(map[string]*linArm)}
}

func newLinArm(dim int, ridge float64) *linArm {
	a := make([][]float64, dim)
	for i := range a {
		a[i] = make([]float64, dim)
		a[i][i] = ridge
	}
	return &linArm{a: a, b: make([]float64, dim)}
}

func (l *LinUCB) arm(key string) *linArm {
	a, ok := l.arms[key]
	if !ok {
		a = newLinArm(l.cfg.ContextDim, l.cfg.Ridge)
		l.arms[key] = a
	}
	return a
}

// Score returns theta^T x + alpha*sqrt(x^T A^-1 x) for the given arm and
// context vector, rebuilding the arm from defaults if its dimension
// doesn't match the context (a stale-posterior recovery path).
func (l *LinUCB) Score(key string, x []float64) float64 {
	a := l.arm(key)
	if len(a.b) != len(x) {
		a = newLinArm(len(x), l.cfg.Ridge)
		l.arms[key] = a
	}
	inv, ok := invertSPD(a.a)
	if !ok {
		return 0
	}
	theta := matVec(inv, a.b)
	mean := dot(theta, x)
	variance := dot(x, matVec(inv, x))
	if variance < 0 {
		variance = 0
	}
	return mean + l.cfg.Alpha*math.Sqrt(variance)
}

// Update performs the canonical rank-1 LinUCB posterior update:
// A += x xᵀ, b += reward*x.
func (l *LinUCB) Update(key string, x []float64, reward float64) {
	a := l.arm(key)
	if len(a.b) != len(x) {
		a = newLinArm(len(x), l.cfg.Ridge)
		l.arms[key] = a
	}
	for i := range x {
		for j := range x {
			a.a[i][j] += x[i] * x[j]
		}
		a.b[i] += reward * x[i]
	}
	a.count++
}

// Snapshot exports every arm's posterior for persistence.
func (l *LinUCB) Snapshot() map[string]*domain.LinUCBArm {
	out := make(map[string]*domain.LinUCBArm, len(l.arms))
	for k, a := range l.arms {
		aCopy := make([][]float64, len(a.a))
		for i, row := range a.a {
			aCopy[i] = append([]float64(nil), row...)
		}
		out[k] = &domain.LinUCBArm{
			A:     aCopy,
			B:     append([]float64(nil), a.b...),
			Count: a.count,
		}
	}
	return out
}

// Restore rehydrates every arm's posterior from a persisted snapshot,
// discarding any arm whose matrix dimension no longer matches the
// configured context dimension.
func (l *LinUCB) Restore(snapshot map[string]*domain.LinUCBArm) {
	for k, a := range snapshot {
		if a == nil || len(a.B) != l.cfg.ContextDim || len(a.A) != l.cfg.ContextDim {
			continue
		}
		aCopy := make([][]float64, len(a.A))
		for i, row := range a.A {
			aCopy[i] = append([]float64(nil), row...)
		}
		l.arms[k] = &linArm{a: aCopy, b: append([]float64(nil), a.B...), count: a.Count}
	}
}

// ─── Small linear algebra helpers ───────────────────────────────────────

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func matVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = dot(row, v)
	}
	return out
}

// invertSPD inverts a symmetric positive-definite matrix via Cholesky
// decomposition, falling back to reporting failure rather than panicking
// on a non-SPD input (which should not occur given the ridge term).
func invertSPD(m [][]float64) ([][]float64, bool) {
	n := len(m)
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := m[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 0 {
					return nil, false
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}

	// Solve L*Y = I, then L^T*X = Y, column by column.
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			if i == col {
				sum = 1.0
			}
			for k := 0; k < i; k++ {
				sum -= l[i][k] * y[k]
			}
			y[i] = sum / l[i][i]
		}
		x := make([]float64, n)
		for i := n - 1; i >= 0; i-- {
			sum := y[i]
			for k := i + 1; k < n; k++ {
				sum -= l[k][i] * x[k]
			}
			x[i] = sum / l[i][i]
		}
		for row := 0; row < n; row++ {
			inv[row][col] = x[row]
		}
	}
	return inv, true
}
