package nnpde

import (
	"fmt"
	"math"
)

// Problem is the artifact handed to an external optimizer: a scalar
// objective over the flattened parameter vector, and the initial
// vector to start from.  The objective is the PDE residual loss plus
// the boundary residual loss; it is non-negative and vanishes exactly
// when every residual vanishes at every evaluated point.  Gradients
// are the optimizer's business.
type Problem struct {
	// Loss evaluates the objective.  It panics with a
	// *ParameterLengthMismatchError if params does not have the
	// compiled length.
	Loss func(params []float64) float64
	// Params is the flattened initial parameter vector.
	Params []float64
}

// Discretize compiles a PDE system, its trial solutions (one per
// dependent variable) and a training strategy into a Problem.  All
// compile-time failures (duplicate variables, malformed boundary
// conditions, unrecognized expression patterns, parameter length
// mismatches, too-low quadrature dimensionality) surface here, before
// any optimizer interaction.
func Discretize(sys *System, trials []TrialSolution, strat Strategy) (*Problem, error) {
	if len(trials) != len(sys.Dep) {
		return nil, fmt.Errorf("nnpde: %v trial solutions for %v dependent variables", len(trials), len(sys.Dep))
	}

	indepNames := make([]string, len(sys.Indep))
	for i, v := range sys.Indep {
		indepNames[i] = v.Name
	}
	indep, err := newRegistry(indepNames)
	if err != nil {
		return nil, err
	}
	dep, err := newRegistry(sys.Dep)
	if err != nil {
		return nil, err
	}

	axes := make([]*bcAxes, len(sys.BCs))
	for i, bc := range sys.BCs {
		if axes[i], err = analyzeBC(i, bc, sys.Indep); err != nil {
			return nil, err
		}
	}

	tfs := adaptTrials(trials)
	flat, lens := FlattenParams(trials)
	if _, err := SplitParams(flat, lens); err != nil {
		return nil, err
	}

	pdeRes := make([]residualFn, len(sys.Eqs))
	for i, eq := range sys.Eqs {
		if pdeRes[i], err = compileResidual(eq, indepNames, indep, dep, tfs); err != nil {
			return nil, err
		}
	}
	bcRes := make([]residualFn, len(sys.BCs))
	for i, bc := range sys.BCs {
		if bcRes[i], err = compileResidual(bc, axes[i].free, indep, dep, tfs); err != nil {
			return nil, err
		}
	}

	pdeLoss, bcLoss, err := buildLosses(sys, axes, pdeRes, bcRes, strat)
	if err != nil {
		return nil, err
	}

	loss := func(params []float64) float64 {
		subs, err := SplitParams(params, lens)
		if err != nil {
			panic(err)
		}
		return pdeLoss(subs) + bcLoss(subs)
	}
	return &Problem{Loss: loss, Params: flat}, nil
}

// buildLosses dispatches on the strategy variant to produce the PDE
// and boundary loss terms.
func buildLosses(sys *System, axes []*bcAxes, pdeRes, bcRes []residualFn, strat Strategy) (pdeLoss, bcLoss lossFn, err error) {
	pdeDim := len(sys.Indep)

	switch s := strat.(type) {
	case *GridTraining:
		interior, boundary := gridSets(sys.Indep, s.Step, axes)
		terms := make([]lossFn, len(bcRes))
		for i, rf := range bcRes {
			terms[i] = gridLoss([]residualFn{rf}, boundary[i])
		}
		return gridLoss(pdeRes, interior), sumLosses(terms), nil

	case *WindowedGridTraining:
		interior, boundary := gridSets(sys.Indep, s.Step, axes)
		terms := make([]lossFn, len(bcRes))
		for i, rf := range bcRes {
			terms[i] = windowedGridLoss([]residualFn{rf}, boundary[i], s)
		}
		return windowedGridLoss(pdeRes, interior, s), sumLosses(terms), nil

	case *StochasticTraining:
		full, boundary := boundSets(sys.Indep, axes)
		pdeTerms := make([]lossFn, len(pdeRes))
		for i, rf := range pdeRes {
			pdeTerms[i] = stochasticLoss(rf, full, s.Points, s.Src)
		}
		bcTerms := make([]lossFn, len(bcRes))
		for i, rf := range bcRes {
			n := boundaryPoints(s.Points, boundary[i].dims(), pdeDim, false)
			bcTerms[i] = stochasticLoss(rf, boundary[i], n, s.Src)
		}
		return sumLosses(pdeTerms), sumLosses(bcTerms), nil

	case *QuasiRandomTraining:
		full, boundary := boundSets(sys.Indep, axes)
		pdeTerms := make([]lossFn, len(pdeRes))
		for i, rf := range pdeRes {
			pdeTerms[i] = quasiRandomLoss(rf, full, s.Method, s.Points, s.Minibatch, s.Src)
		}
		bcTerms := make([]lossFn, len(bcRes))
		for i, rf := range bcRes {
			n := boundaryPoints(s.Points, boundary[i].dims(), pdeDim, true)
			bcTerms[i] = quasiRandomLoss(rf, boundary[i], s.Method, n, s.Minibatch, s.Src)
		}
		return sumLosses(pdeTerms), sumLosses(bcTerms), nil

	case *QuadratureTraining:
		if err := s.checkDims(pdeDim); err != nil {
			return nil, nil, err
		}
		full, boundary := boundSets(sys.Indep, axes)
		terms := make([]lossFn, len(bcRes))
		for i, rf := range bcRes {
			terms[i] = quadratureLoss([]residualFn{rf}, boundary[i], s)
		}
		return quadratureLoss(pdeRes, full, s), sumLosses(terms), nil
	}
	return nil, nil, fmt.Errorf("nnpde: unknown training strategy %T", strat)
}

// boundaryPoints rescales the sampling strategies' point count for a
// lower-dimensional boundary manifold so point density per unit volume
// stays comparable to the full domain: points^(bDim/pdeDim), rounded
// for quasi-random designs and truncated otherwise, never below one.
func boundaryPoints(points, bDim, pdeDim int, round bool) int {
	p := math.Pow(float64(points), float64(bDim)/float64(pdeDim))
	n := int(p)
	if round {
		n = int(math.Round(p))
	}
	if n < 1 {
		n = 1
	}
	return n
}
