// Command nnpde compiles du/dx = cos(2*pi*x) on [0,1] with u(0) = 0
// into a collocation loss and hands it to a gradient-free optimizer.
package main

import (
	"log"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/optimize"

	"github.com/nnpde/nnpde"
	"github.com/nnpde/nnpde/expr"
	"github.com/nnpde/nnpde/mlp"
)

func main() {
	sys := &nnpde.System{
		Indep: []nnpde.IndependentVar{{Name: "x", Low: 0, Up: 1}},
		Dep:   []string{"u"},
		Eqs: []nnpde.Equation{nnpde.Eq(
			expr.D(expr.U("u", expr.X("x")), "x"),
			expr.Cos(expr.Mul(expr.Num(2*math.Pi), expr.X("x"))),
		)},
		BCs: []nnpde.Equation{nnpde.Eq(
			expr.U("u", expr.Num(0)),
			expr.Num(0),
		)},
	}

	net := mlp.New(1, 8, 1, rand.NewSource(1))
	prob, err := nnpde.Discretize(sys, []nnpde.TrialSolution{net}, &nnpde.GridTraining{Step: 0.05})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("initial loss: %v", prob.Loss(prob.Params))

	result, err := optimize.Minimize(
		optimize.Problem{Func: prob.Loss},
		prob.Params,
		&optimize.Settings{MajorIterations: 5000},
		&optimize.NelderMead{},
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("final loss: %v after %v evaluations", result.F, result.Stats.FuncEvaluations)

	u := func(x float64) float64 { return net.Eval([]float64{x}, result.X)[0] }
	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		exact := math.Sin(2*math.Pi*x) / (2 * math.Pi)
		log.Printf("u(%.2f) = %+.4f  exact %+.4f", x, u(x)-u(0), exact)
	}
}
