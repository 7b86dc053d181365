package nnpde

import "github.com/nnpde/nnpde/expr"

// TrialSolution is the parametric function approximator standing in
// for one unknown PDE solution.  Its internals are a collaborator's
// concern; this package only evaluates it and carries its parameters.
type TrialSolution interface {
	// Eval returns the approximator's output vector at coords under
	// params.
	Eval(coords, params []float64) []float64
	// InitParams returns a fresh copy of the initial parameter vector.
	InitParams() []float64
}

// TrialFunc adapts a plain function and an initial parameter vector
// into a TrialSolution.
type TrialFunc struct {
	F  func(coords, params []float64) []float64
	P0 []float64
}

func (t TrialFunc) Eval(coords, params []float64) []float64 { return t.F(coords, params) }

func (t TrialFunc) InitParams() []float64 { return append([]float64(nil), t.P0...) }

// adaptTrials exposes each trial solution as the call shape the
// expression evaluator consumes.
func adaptTrials(ts []TrialSolution) []expr.Trial {
	fs := make([]expr.Trial, len(ts))
	for i, t := range ts {
		t := t
		fs[i] = t.Eval
	}
	return fs
}

// FlattenParams concatenates each trial solution's initial parameters
// into one flat vector, returning it alongside the per-trial lengths
// used to split it back apart.
func FlattenParams(ts []TrialSolution) (flat []float64, lens []int) {
	lens = make([]int, len(ts))
	for i, t := range ts {
		p := t.InitParams()
		lens[i] = len(p)
		flat = append(flat, p...)
	}
	return flat, lens
}

// SplitParams slices flat into contiguous sub-vectors of the given
// lengths, order-preserving with prefix-sum offsets.  The sub-vectors
// alias flat; concatenating them in order reproduces it exactly.
func SplitParams(flat []float64, lens []int) ([][]float64, error) {
	total := 0
	for _, n := range lens {
		total += n
	}
	if total != len(flat) {
		return nil, &ParameterLengthMismatchError{Want: total, Got: len(flat)}
	}
	subs := make([][]float64, len(lens))
	off := 0
	for i, n := range lens {
		subs[i] = flat[off : off+n]
		off += n
	}
	return subs, nil
}
