package nnpde

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distmv"
)

// QuadAlgorithm selects the integration rule of QuadratureTraining.
type QuadAlgorithm int

const (
	// GaussLegendre integrates with an adaptive tensor-product
	// Gauss-Legendre rule, refining the per-axis node count until the
	// estimate settles.
	GaussLegendre QuadAlgorithm = iota
	// MonteCarlo estimates the integral as the domain volume times the
	// running mean of uniform batches.
	MonteCarlo
	// Stratified subdivides every axis in two and runs a Monte Carlo
	// estimate per cell.  The 2^D cell bookkeeping only pays off in
	// higher dimensions, so it is restricted to 3+ dimensional domains.
	Stratified
)

func (a QuadAlgorithm) String() string {
	switch a {
	case GaussLegendre:
		return "gauss-legendre"
	case MonteCarlo:
		return "monte-carlo"
	case Stratified:
		return "stratified"
	}
	return "unknown"
}

// minDims is the smallest domain dimensionality the rule accepts.
func (a QuadAlgorithm) minDims() int {
	if a == Stratified {
		return 3
	}
	return 2
}

// checkDims validates the domain dimensionality for the strategy's
// rule before any sampling happens.
func (q *QuadratureTraining) checkDims(dims int) error {
	if min := q.Algorithm.minDims(); dims < min {
		return &DimensionalityError{Algorithm: q.Algorithm, Dims: dims, Min: min}
	}
	return nil
}

// integrate estimates the integral of f over b, iterating its rule
// until two successive estimates agree to within
// max(AbsTol, RelTol*|estimate|) or MaxIters refinements pass.
// Boundary sub-domains may have fewer dimensions than the full domain
// (down to zero, where the integral degenerates to a point value); the
// dimensionality guard applies to the full domain only.
func (q *QuadratureTraining) integrate(f func([]float64) float64, b bounds) float64 {
	if b.dims() == 0 {
		return f(nil)
	}
	switch q.Algorithm {
	case MonteCarlo:
		return q.refine(func(it int) float64 { return q.monteCarlo(f, b, it) })
	case Stratified:
		return q.refine(func(it int) float64 { return q.stratified(f, b, it) })
	default:
		return q.refine(func(it int) float64 { return tensorLegendre(f, b, it+2) })
	}
}

// refine runs the tolerance/iteration-capped convergence loop around
// one estimate per refinement level.
func (q *QuadratureTraining) refine(estimate func(it int) float64) float64 {
	prev := math.NaN()
	for it := 0; it < q.MaxIters; it++ {
		cur := estimate(it)
		if it > 0 && math.Abs(cur-prev) <= math.Max(q.AbsTol, q.RelTol*math.Abs(cur)) {
			return cur
		}
		prev = cur
	}
	return prev
}

// tensorLegendre evaluates an n-point-per-axis Gauss-Legendre rule
// over the box b by walking the full tensor product of the per-axis
// nodes.
func tensorLegendre(f func([]float64) float64, b bounds, n int) float64 {
	dims := b.dims()
	rule := quad.Legendre{}
	xs := make([][]float64, dims)
	ws := make([][]float64, dims)
	for d := 0; d < dims; d++ {
		xs[d] = make([]float64, n)
		ws[d] = make([]float64, n)
		rule.FixedLocations(xs[d], ws[d], b.low[d], b.up[d])
	}

	idx := make([]int, dims)
	pt := make([]float64, dims)
	total := 0.0
	for {
		w := 1.0
		for d, i := range idx {
			pt[d] = xs[d][i]
			w *= ws[d][i]
		}
		total += w * f(pt)

		// odometer increment over the index tuple
		d := dims - 1
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < n {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return total
		}
	}
}

// monteCarlo estimates the integral from (it+1)*Batch uniform samples.
func (q *QuadratureTraining) monteCarlo(f func([]float64) float64, b bounds, it int) float64 {
	dist := distmv.NewUniform(b.intervals(), source(q.Src))
	n := (it + 1) * q.Batch
	x := make([]float64, b.dims())
	sum := 0.0
	for i := 0; i < n; i++ {
		dist.Rand(x)
		sum += f(x)
	}
	return b.volume() * sum / float64(n)
}

// stratified estimates the integral cell by cell, with every axis
// split at its midpoint and (it+1)*Batch samples spread over the 2^D
// cells.
func (q *QuadratureTraining) stratified(f func([]float64) float64, b bounds, it int) float64 {
	dims := b.dims()
	src := source(q.Src)
	cells := 1 << uint(dims)
	perCell := ((it+1)*q.Batch + cells - 1) / cells

	total := 0.0
	cb := bounds{low: make([]float64, dims), up: make([]float64, dims)}
	for c := 0; c < cells; c++ {
		for d := 0; d < dims; d++ {
			mid := (b.low[d] + b.up[d]) / 2
			if c&(1<<uint(d)) == 0 {
				cb.low[d], cb.up[d] = b.low[d], mid
			} else {
				cb.low[d], cb.up[d] = mid, b.up[d]
			}
		}
		dist := distmv.NewUniform(cb.intervals(), src)
		x := make([]float64, dims)
		sum := 0.0
		for i := 0; i < perCell; i++ {
			dist.Rand(x)
			sum += f(x)
		}
		total += cb.volume() * sum / float64(perCell)
	}
	return total
}

// quadratureLoss integrates squared residuals over b.  A single
// equation integrates its squared residual with normalization 1/10^D;
// a system integrates each equation independently and sums, with the
// normalization divided by the equation count as well.
func quadratureLoss(res []residualFn, b bounds, q *QuadratureTraining) lossFn {
	tau := math.Pow(10, -float64(b.dims()))
	if len(res) > 1 {
		tau /= float64(len(res))
	}
	return func(params [][]float64) float64 {
		total := 0.0
		for _, rf := range res {
			rf := rf
			f := func(x []float64) float64 {
				r := rf(x, params)
				return r * r
			}
			total += q.integrate(f, b)
		}
		return tau * total
	}
}
