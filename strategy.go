package nnpde

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Strategy selects how collocation points are produced and how
// per-point residuals are reduced to a scalar loss.  Exactly one of
// the five variants below is passed to Discretize.
type Strategy interface {
	isStrategy()
}

// GridTraining evaluates residuals on a fixed collocation grid with
// the given per-axis step.
type GridTraining struct {
	Step float64
}

// WindowedGridTraining evaluates a growing prefix of the collocation
// grid: the evaluated window expands linearly from one point to the
// full set over MaxIters loss evaluations.  The progress cursor lives
// on the instance and is mutex-guarded, so independent
// discretizations never interfere and concurrent evaluation is safe.
type WindowedGridTraining struct {
	Step     float64
	MaxIters int

	mu     sync.Mutex
	cursor float64
}

// window returns the current prefix length of an n-point set and
// advances the cursor by a half step.  The PDE loss and the boundary
// loss each advance it once per objective evaluation.
func (w *WindowedGridTraining) window(n int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	k := int(w.cursor / float64(w.MaxIters) * float64(n))
	w.cursor += 0.5
	if k < 1 {
		return 1
	}
	if k > n {
		return n
	}
	return k
}

// StochasticTraining draws Points uniform samples from the domain
// bounds on every loss evaluation.  A nil Src seeds from the clock.
type StochasticTraining struct {
	Points int
	Src    rand.Source
}

// SamplingMethod names a low-discrepancy design for QuasiRandomTraining.
type SamplingMethod int

const (
	// UniformSampling draws plain IID uniform designs.
	UniformSampling SamplingMethod = iota
	// HaltonSampling draws Owen-scrambled Halton sequences.
	HaltonSampling
	// LatinHypercubeSampling draws Latin hypercube designs.
	LatinHypercubeSampling
)

// QuasiRandomTraining pre-generates Minibatch low-discrepancy design
// matrices of Points samples each per point source, and evaluates one
// of them, chosen at random, per loss evaluation.  A nil Src seeds
// from the clock.
type QuasiRandomTraining struct {
	Method    SamplingMethod
	Points    int
	Minibatch int
	Src       rand.Source
}

// QuadratureTraining treats the loss as an integral of the squared
// residual over the domain and estimates it with an adaptive rule,
// capped by the tolerances and iteration limit.  A nil Src seeds the
// Monte Carlo rules from the clock.
type QuadratureTraining struct {
	Algorithm QuadAlgorithm
	RelTol    float64
	AbsTol    float64
	MaxIters  int
	Batch     int
	Src       rand.Source
}

func (*GridTraining) isStrategy()         {}
func (*WindowedGridTraining) isStrategy() {}
func (*StochasticTraining) isStrategy()   {}
func (*QuasiRandomTraining) isStrategy()  {}
func (*QuadratureTraining) isStrategy()   {}

// lossFn is one aggregated loss term over the split parameter
// sub-vectors.
type lossFn func(params [][]float64) float64

// source returns src, or a clock-seeded source when src is nil.
func source(src rand.Source) rand.Source {
	if src != nil {
		return src
	}
	return rand.NewSource(uint64(time.Now().UnixNano()))
}

// gridResidualSum accumulates the squared-residual algebra over a
// point set: for a single equation it is the sum of squared residuals;
// for a system of K equations it is the mean of the squared residual
// sum and the per-equation squared residuals, coupling the equations
// at every point.
func gridResidualSum(res []residualFn, pts [][]float64, params [][]float64) float64 {
	if len(res) == 1 {
		s := 0.0
		for _, x := range pts {
			r := res[0](x, params)
			s += r * r
		}
		return s
	}
	cross, diag := 0.0, 0.0
	for _, x := range pts {
		t := 0.0
		for _, rf := range res {
			r := rf(x, params)
			t += r
			diag += r * r
		}
		cross += t * t
	}
	return (cross + diag) / 2
}

// gridLoss reduces residuals over a materialized point set, normalized
// by the set size.
func gridLoss(res []residualFn, pts [][]float64) lossFn {
	tau := 1 / float64(len(pts))
	return func(params [][]float64) float64 {
		return tau * gridResidualSum(res, pts, params)
	}
}

// windowedGridLoss is gridLoss over the strategy's current prefix of
// the point set.  Normalization stays 1/N so the loss scale does not
// jump as the window grows.
func windowedGridLoss(res []residualFn, pts [][]float64, w *WindowedGridTraining) lossFn {
	tau := 1 / float64(len(pts))
	return func(params [][]float64) float64 {
		return tau * gridResidualSum(res, pts[:w.window(len(pts))], params)
	}
}

// stochasticLoss draws points fresh uniform samples inside b on every
// call and averages the squared residual over them.
func stochasticLoss(rf residualFn, b bounds, points int, src rand.Source) lossFn {
	if b.dims() == 0 {
		// Fully pinned: the only collocation point is the empty one.
		return func(params [][]float64) float64 {
			r := rf(nil, params)
			return r * r
		}
	}
	dist := distmv.NewUniform(b.intervals(), source(src))
	tau := 1 / float64(points)
	return func(params [][]float64) float64 {
		x := make([]float64, b.dims())
		s := 0.0
		for i := 0; i < points; i++ {
			dist.Rand(x)
			r := rf(x, params)
			s += r * r
		}
		return tau * s
	}
}

// quasiRandomLoss pre-generates minibatch design matrices of points
// low-discrepancy samples inside b, then averages the squared residual
// over one design chosen at random per call.
func quasiRandomLoss(rf residualFn, b bounds, method SamplingMethod, points, minibatch int, src rand.Source) lossFn {
	if b.dims() == 0 {
		return func(params [][]float64) float64 {
			r := rf(nil, params)
			return r * r
		}
	}

	s := source(src)
	unif := distmv.NewUniform(b.intervals(), s)
	var sampler samplemv.Sampler
	switch method {
	case HaltonSampling:
		sampler = samplemv.Halton{Kind: samplemv.Owen, Q: unif, Src: s}
	case LatinHypercubeSampling:
		sampler = samplemv.LatinHypercube{Q: unif, Src: s}
	default:
		sampler = samplemv.IID{Dist: unif}
	}

	designs := make([][][]float64, minibatch)
	for m := range designs {
		// Halton accumulates into the batch, so each design needs a
		// zeroed matrix.
		batch := mat.NewDense(points, b.dims(), nil)
		sampler.Sample(batch)
		pts := make([][]float64, points)
		for i := range pts {
			pts[i] = append([]float64(nil), batch.RawRowView(i)...)
		}
		designs[m] = pts
	}

	rng := rand.New(s)
	tau := 1 / float64(points)
	return func(params [][]float64) float64 {
		pts := designs[rng.Intn(minibatch)]
		sum := 0.0
		for _, x := range pts {
			r := rf(x, params)
			sum += r * r
		}
		return tau * sum
	}
}

// sumLosses composes per-equation losses into one term.
func sumLosses(terms []lossFn) lossFn {
	return func(params [][]float64) float64 {
		total := 0.0
		for _, t := range terms {
			total += t(params)
		}
		return total
	}
}
