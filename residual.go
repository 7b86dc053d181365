package nnpde

import "github.com/nnpde/nnpde/expr"

// residualFn evaluates one compiled equation at a collocation point.
// coords holds the equation's free variables positionally; params
// holds the parameter sub-vector of each trial solution.
type residualFn func(coords []float64, params [][]float64) float64

// compileResidual rewrites an equation into canonical form and returns
// the residual left - right, closed over the trial solutions and with
// the free variable names bound to positional coordinate slots in the
// order given.
func compileResidual(eq Equation, free []string, indep, dep map[string]int, trials []expr.Trial) (residualFn, error) {
	left, err := expr.Rewrite(eq.Left, indep, dep)
	if err != nil {
		return nil, err
	}
	right, err := expr.Rewrite(eq.Right, indep, dep)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]int, len(free))
	for i, name := range free {
		slots[name] = i
	}
	if err := expr.Check(left, slots, len(trials)); err != nil {
		return nil, err
	}
	if err := expr.Check(right, slots, len(trials)); err != nil {
		return nil, err
	}

	return func(coords []float64, params [][]float64) float64 {
		env := &expr.Env{Coords: coords, Slots: slots, Trials: trials, Params: params}
		return expr.EvalNode(left, env) - expr.EvalNode(right, env)
	}, nil
}
