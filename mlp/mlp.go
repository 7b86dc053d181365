// Package mlp provides a small feed-forward network usable as a trial
// solution for the nnpde compiler.  It exists so the compiler has a
// concrete, dependency-light approximator for demos and tests; real
// deployments plug in their own.
package mlp

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Network is a single-hidden-layer tanh network mapping In inputs to
// Out outputs.  Its parameter vector is the row-major hidden weight
// matrix, the hidden bias, the row-major output weight matrix and the
// output bias, in that order.
type Network struct {
	in     int
	hidden int
	out    int
	p0     []float64
}

// New builds a network with uniformly initialized parameters.  A nil
// src seeds from the clock.
func New(in, hidden, out int, src rand.Source) *Network {
	if src == nil {
		src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	n := &Network{in: in, hidden: hidden, out: out}
	rng := rand.New(src)
	scale := 1 / float64(in)
	n.p0 = make([]float64, n.NumParams())
	for i := range n.p0 {
		n.p0[i] = scale * (2*rng.Float64() - 1)
	}
	return n
}

// NumParams returns the length of the network's parameter vector.
func (n *Network) NumParams() int {
	return n.hidden*(n.in+1) + n.out*(n.hidden+1)
}

// InitParams returns a fresh copy of the initial parameter vector.
func (n *Network) InitParams() []float64 {
	return append([]float64(nil), n.p0...)
}

// Eval runs the network forward at coords under params.
func (n *Network) Eval(coords, params []float64) []float64 {
	off := 0
	w1 := mat.NewDense(n.hidden, n.in, params[off:off+n.hidden*n.in])
	off += n.hidden * n.in
	b1 := params[off : off+n.hidden]
	off += n.hidden
	w2 := mat.NewDense(n.out, n.hidden, params[off:off+n.out*n.hidden])
	off += n.out * n.hidden
	b2 := params[off : off+n.out]

	var h mat.VecDense
	h.MulVec(w1, mat.NewVecDense(n.in, coords))
	hv := make([]float64, n.hidden)
	for i := range hv {
		hv[i] = math.Tanh(h.AtVec(i) + b1[i])
	}

	var y mat.VecDense
	y.MulVec(w2, mat.NewVecDense(n.hidden, hv))
	outs := make([]float64, n.out)
	for i := range outs {
		outs[i] = y.AtVec(i) + b2[i]
	}
	return outs
}
