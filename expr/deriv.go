package expr

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// eps32 is the machine epsilon at float32 scale (2^-23).  Trial
// solutions are typically trained in single precision, so the
// finite-difference step is sized for that noise floor.
const eps32 = 0x1p-23

// Step is the finite-difference perturbation magnitude, the cube root
// of the float32 machine epsilon.  The same scalar underlies both the
// perturbation vectors and the central-difference denominator.
var Step = math.Cbrt(eps32)

// Trial evaluates one trial solution at coords under params and
// returns its output vector.
type Trial func(coords, params []float64) []float64

// FiniteDiff computes an order'th (possibly mixed) partial derivative
// of u at coords by recursive central differences: each level k
// perturbs along dirs[k-1] and divides by twice the step, so mixed and
// higher partials are central differences of central differences.  For
// smooth u the truncation error is O(Step^2) per level.
func FiniteDiff(order int, dirs [][]float64, coords []float64, u func([]float64) float64) float64 {
	eps := dirs[order-1]
	hi := make([]float64, len(coords))
	lo := make([]float64, len(coords))
	floats.AddTo(hi, coords, eps)
	floats.SubTo(lo, coords, eps)
	if order == 1 {
		return (u(hi) - u(lo)) / (2 * Step)
	}
	return (FiniteDiff(order-1, dirs, hi, u) - FiniteDiff(order-1, dirs, lo, u)) / (2 * Step)
}
