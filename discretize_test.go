package nnpde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/nnpde/nnpde/expr"
	"github.com/nnpde/nnpde/mlp"
)

// identity is an exact trial solution for du/dx = 1 with u(0) = 0.  It
// ignores its parameters, so every strategy should report (near) zero
// loss on the compiled system.
var identity = TrialFunc{
	F:  func(coords, params []float64) []float64 { return []float64{coords[0]} },
	P0: []float64{0},
}

func linearODE() *System {
	return &System{
		Indep: []IndependentVar{{Name: "x", Low: 0, Up: 1}},
		Dep:   []string{"u"},
		Eqs: []Equation{Eq(
			expr.D(expr.U("u", expr.X("x")), "x"),
			expr.Num(1),
		)},
		BCs: []Equation{Eq(expr.U("u", expr.Num(0)), expr.Num(0))},
	}
}

func TestDiscretizeExactSolutionZeroLoss(t *testing.T) {
	strategies := []struct {
		name  string
		strat Strategy
	}{
		{"grid", &GridTraining{Step: 0.1}},
		{"windowed grid", &WindowedGridTraining{Step: 0.1, MaxIters: 10}},
		{"stochastic", &StochasticTraining{Points: 64, Src: rand.NewSource(1)}},
		{"quasi-random", &QuasiRandomTraining{Method: HaltonSampling, Points: 64, Minibatch: 4, Src: rand.NewSource(1)}},
	}
	for _, test := range strategies {
		t.Run(test.name, func(t *testing.T) {
			prob, err := Discretize(linearODE(), []TrialSolution{identity}, test.strat)
			require.NoError(t, err)
			assert.InDelta(t, 0.0, prob.Loss(prob.Params), 1e-12)
		})
	}
}

func TestDiscretizeGridDensityIndependence(t *testing.T) {
	// Zero residual stays zero loss regardless of grid density.
	for _, step := range []float64{0.5, 0.1, 0.01} {
		prob, err := Discretize(linearODE(), []TrialSolution{identity}, &GridTraining{Step: step})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, prob.Loss(prob.Params), 1e-12, "step=%v", step)
	}
}

func TestDiscretizeSystemParameterSplit(t *testing.T) {
	// u(x) = a*x and v(x) = b*x own disjoint parameter sub-vectors;
	// du/dx = 1 and dv/dx = 2 are satisfied at a=1, b=2.
	scaled := func(coords, params []float64) []float64 {
		return []float64{params[0] * coords[0]}
	}
	sys := &System{
		Indep: []IndependentVar{{Name: "x", Low: 0, Up: 1}},
		Dep:   []string{"u", "v"},
		Eqs: []Equation{
			Eq(expr.D(expr.U("u", expr.X("x")), "x"), expr.Num(1)),
			Eq(expr.D(expr.U("v", expr.X("x")), "x"), expr.Num(2)),
		},
		BCs: []Equation{
			Eq(expr.U("u", expr.Num(0)), expr.Num(0)),
			Eq(expr.U("v", expr.Num(0)), expr.Num(0)),
		},
	}
	trials := []TrialSolution{
		TrialFunc{F: scaled, P0: []float64{1}},
		TrialFunc{F: scaled, P0: []float64{2}},
	}
	prob, err := Discretize(sys, trials, &GridTraining{Step: 0.1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, prob.Params)
	assert.InDelta(t, 0.0, prob.Loss(prob.Params), 1e-12)

	// Perturbing only v's sub-vector leaves u satisfied but the
	// objective positive.
	assert.Greater(t, prob.Loss([]float64{1, 3}), 0.1)
}

func TestDiscretizeExactPDE2D(t *testing.T) {
	// u(x,y) = x + y satisfies du/dx + du/dy = 2 and u(0,y) = y.
	plane := TrialFunc{
		F:  func(coords, params []float64) []float64 { return []float64{coords[0] + coords[1]} },
		P0: []float64{0},
	}
	sys := &System{
		Indep: []IndependentVar{
			{Name: "x", Low: 0, Up: 1},
			{Name: "y", Low: 0, Up: 1},
		},
		Dep: []string{"u"},
		Eqs: []Equation{Eq(
			expr.Add(
				expr.D(expr.U("u", expr.X("x"), expr.X("y")), "x"),
				expr.D(expr.U("u", expr.X("x"), expr.X("y")), "y"),
			),
			expr.Num(2),
		)},
		BCs: []Equation{Eq(
			expr.U("u", expr.Num(0), expr.X("y")),
			expr.X("y"),
		)},
	}
	prob, err := Discretize(sys, []TrialSolution{plane}, &QuadratureTraining{
		Algorithm: GaussLegendre, RelTol: 1e-6, AbsTol: 1e-9, MaxIters: 10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, prob.Loss(prob.Params), 1e-10)
}

func TestDiscretizeQuadratureDimensionalityGuard(t *testing.T) {
	// Raised at discretization time, before any sampling or optimizer
	// interaction.
	_, err := Discretize(linearODE(), []TrialSolution{identity}, &QuadratureTraining{
		Algorithm: GaussLegendre, MaxIters: 10,
	})
	var derr *DimensionalityError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 1, derr.Dims)

	sys2d := &System{
		Indep: []IndependentVar{{Name: "x", Low: 0, Up: 1}, {Name: "y", Low: 0, Up: 1}},
		Dep:   []string{"u"},
		Eqs:   []Equation{Eq(expr.U("u", expr.X("x"), expr.X("y")), expr.Num(0))},
	}
	_, err = Discretize(sys2d, []TrialSolution{identity}, &QuadratureTraining{
		Algorithm: Stratified, MaxIters: 10,
	})
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 3, derr.Min)
}

func TestDiscretizeErrors(t *testing.T) {
	t.Run("duplicate independent variable", func(t *testing.T) {
		sys := linearODE()
		sys.Indep = append(sys.Indep, IndependentVar{Name: "x", Low: 0, Up: 1})
		_, err := Discretize(sys, []TrialSolution{identity}, &GridTraining{Step: 0.1})
		var derr *DuplicateVariableError
		assert.ErrorAs(t, err, &derr)
	})

	t.Run("trial count mismatch", func(t *testing.T) {
		_, err := Discretize(linearODE(), nil, &GridTraining{Step: 0.1})
		assert.Error(t, err)
	})

	t.Run("malformed boundary condition", func(t *testing.T) {
		sys := linearODE()
		sys.BCs = []Equation{{Left: expr.Num(0)}}
		_, err := Discretize(sys, []TrialSolution{identity}, &GridTraining{Step: 0.1})
		var merr *MalformedBoundaryConditionError
		assert.ErrorAs(t, err, &merr)
	})

	t.Run("unrecognized expression pattern", func(t *testing.T) {
		sys := linearODE()
		sys.Eqs = []Equation{Eq(expr.D(expr.Num(1), "x"), expr.Num(0))}
		_, err := Discretize(sys, []TrialSolution{identity}, &GridTraining{Step: 0.1})
		var uerr *expr.UnrecognizedExpressionPatternError
		assert.ErrorAs(t, err, &uerr)
	})
}

func TestProblemLossPanicsOnBadParamLength(t *testing.T) {
	prob, err := Discretize(linearODE(), []TrialSolution{identity}, &GridTraining{Step: 0.1})
	require.NoError(t, err)
	assert.Panics(t, func() { prob.Loss([]float64{1, 2, 3}) })
}

func TestDiscretizeWithNetwork(t *testing.T) {
	// An untrained network compiles to a finite, non-negative loss
	// under every strategy that admits a 1-D domain.
	net := mlp.New(1, 4, 1, rand.NewSource(9))
	strategies := []Strategy{
		&GridTraining{Step: 0.1},
		&WindowedGridTraining{Step: 0.1, MaxIters: 100},
		&StochasticTraining{Points: 32, Src: rand.NewSource(2)},
		&QuasiRandomTraining{Method: LatinHypercubeSampling, Points: 32, Minibatch: 2, Src: rand.NewSource(2)},
	}
	for _, strat := range strategies {
		prob, err := Discretize(linearODE(), []TrialSolution{net}, strat)
		require.NoError(t, err)
		loss := prob.Loss(prob.Params)
		assert.False(t, loss < 0, "%T produced negative loss", strat)
		assert.False(t, loss != loss, "%T produced NaN loss", strat)
	}
}
