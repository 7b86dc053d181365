package nnpde

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// coincideTol is the tolerance for deciding that a grid point lies on
// a boundary-pinned coordinate.
const coincideTol = 1e-9

// span returns the discretized points low, low+step, ..., up.  The
// upper endpoint is included whenever the interval divides evenly by
// the step (to within floating slack).
func span(low, up, step float64) []float64 {
	n := int(math.Floor((up-low)/step+coincideTol)) + 1
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = low + float64(i)*step
	}
	return xs
}

// cartesian returns the Cartesian product of the axis spans, last axis
// varying fastest.  The product of zero axes is a single empty point,
// so fully-pinned boundary conditions still get one collocation point.
func cartesian(axes [][]float64) [][]float64 {
	if len(axes) == 0 {
		return [][]float64{{}}
	}
	return product(axes, []float64{})
}

func product(axes [][]float64, prefix []float64) [][]float64 {
	if len(axes) == 1 {
		set := make([][]float64, 0, len(axes[0]))
		for _, v := range axes[0] {
			set = append(set, append(append([]float64{}, prefix...), v))
		}
		return set
	}
	var set [][]float64
	for _, v := range axes[0] {
		set = append(set, product(axes[1:], append(prefix, v))...)
	}
	return set
}

// removeNear returns vals without the entries within coincideTol of
// any of the cut values.
func removeNear(vals, cuts []float64) []float64 {
	kept := make([]float64, 0, len(vals))
	for _, v := range vals {
		cut := false
		for _, c := range cuts {
			if math.Abs(v-c) <= coincideTol {
				cut = true
				break
			}
		}
		if !cut {
			kept = append(kept, v)
		}
	}
	return kept
}

// gridSets materializes the PDE-interior collocation set and one set
// per boundary condition for the given per-axis step.  Interior spans
// have every boundary-pinned coordinate removed so PDE residuals are
// not evaluated on points the boundary losses already cover; each
// condition's set is the product of the spans of its free variables.
func gridSets(indep []IndependentVar, step float64, axes []*bcAxes) (interior [][]float64, boundary [][][]float64) {
	spans := make(map[string][]float64, len(indep))
	for _, v := range indep {
		dx := step
		if v.Step > 0 {
			// A per-variable step overrides the strategy-wide one.
			dx = v.Step
		}
		spans[v.Name] = span(v.Low, v.Up, dx)
	}

	fixed := fixedValues(axes)
	inAxes := make([][]float64, len(indep))
	for i, v := range indep {
		inAxes[i] = removeNear(spans[v.Name], fixed[v.Name])
	}
	interior = cartesian(inAxes)

	boundary = make([][][]float64, len(axes))
	for i, ax := range axes {
		free := make([][]float64, len(ax.free))
		for j, name := range ax.free {
			free[j] = spans[name]
		}
		boundary[i] = cartesian(free)
	}
	return interior, boundary
}

// bounds is the analytic point source of the sampling and quadrature
// strategies: one interval per free variable.
type bounds struct {
	low []float64
	up  []float64
}

func (b bounds) dims() int { return len(b.low) }

// volume returns the hyper-rectangle volume of b.
func (b bounds) volume() float64 {
	v := 1.0
	for i := range b.low {
		v *= b.up[i] - b.low[i]
	}
	return v
}

// intervals converts b into the interval form gonum's multivariate
// distributions take.
func (b bounds) intervals() []r1.Interval {
	iv := make([]r1.Interval, len(b.low))
	for i := range b.low {
		iv[i] = r1.Interval{Min: b.low[i], Max: b.up[i]}
	}
	return iv
}

// boundSets returns the full-domain bounds and the per-boundary
// condition bounds restricted to each condition's free variables.
func boundSets(indep []IndependentVar, axes []*bcAxes) (full bounds, boundary []bounds) {
	byName := make(map[string]IndependentVar, len(indep))
	full = bounds{low: make([]float64, len(indep)), up: make([]float64, len(indep))}
	for i, v := range indep {
		byName[v.Name] = v
		full.low[i], full.up[i] = v.Low, v.Up
	}

	boundary = make([]bounds, len(axes))
	for i, ax := range axes {
		b := bounds{low: make([]float64, len(ax.free)), up: make([]float64, len(ax.free))}
		for j, name := range ax.free {
			v := byName[name]
			b.low[j], b.up[j] = v.Low, v.Up
		}
		boundary[i] = b
	}
	return full, boundary
}
