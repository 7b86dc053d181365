package expr

import (
	"fmt"
	"math"
)

// Env carries everything a rewritten tree needs to evaluate at one
// collocation point.
type Env struct {
	// Coords holds the values of the free variables, positionally.
	Coords []float64
	// Slots maps a free variable name to its position in Coords.
	Slots map[string]int
	// Trials holds one trial solution per dependent variable.
	Trials []Trial
	// Params holds the parameter sub-vector for each trial solution.
	Params [][]float64
}

// EvalNode evaluates a rewritten tree at env.  The tree must have
// passed Check; unbound variables, unknown operators and un-rewritten
// applications panic.
func EvalNode(n Node, env *Env) float64 {
	switch n := n.(type) {
	case *Literal:
		return n.Value
	case *Var:
		i, ok := env.Slots[n.Name]
		if !ok {
			panic(fmt.Sprintf("expr: unbound variable %q", n.Name))
		}
		return env.Coords[i]
	case *Eval:
		xs := evalCoords(n.Args, env)
		return env.Trials[n.Out](xs, env.Params[n.Out])[0]
	case *FinDiff:
		xs := evalCoords(n.Args, env)
		out := n.Out
		u := func(x []float64) float64 { return env.Trials[out](x, env.Params[out])[0] }
		return FiniteDiff(n.Order, n.Dirs, xs, u)
	case *Op:
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			args[i] = EvalNode(a, env)
		}
		return applyOp(n.Name, args)
	}
	panic(fmt.Sprintf("expr: cannot evaluate un-rewritten node %T", n))
}

// evalCoords materializes the coordinate vector of an application from
// its argument list: Var arguments read their slot from env, Literal
// arguments are fixed coordinates.
func evalCoords(args []Node, env *Env) []float64 {
	xs := make([]float64, len(args))
	for i, a := range args {
		switch a := a.(type) {
		case *Literal:
			xs[i] = a.Value
		case *Var:
			xs[i] = env.Coords[env.Slots[a.Name]]
		}
	}
	return xs
}

func applyOp(name string, args []float64) float64 {
	switch name {
	case "+":
		s := 0.0
		for _, a := range args {
			s += a
		}
		return s
	case "-":
		if len(args) == 1 {
			return -args[0]
		}
		s := args[0]
		for _, a := range args[1:] {
			s -= a
		}
		return s
	case "*":
		s := 1.0
		for _, a := range args {
			s *= a
		}
		return s
	case "/":
		return args[0] / args[1]
	case "^", "pow":
		return math.Pow(args[0], args[1])
	case "sin":
		return math.Sin(args[0])
	case "cos":
		return math.Cos(args[0])
	case "tan":
		return math.Tan(args[0])
	case "exp":
		return math.Exp(args[0])
	case "log":
		return math.Log(args[0])
	case "sqrt":
		return math.Sqrt(args[0])
	case "tanh":
		return math.Tanh(args[0])
	case "sinh":
		return math.Sinh(args[0])
	case "cosh":
		return math.Cosh(args[0])
	case "abs":
		return math.Abs(args[0])
	}
	panic(fmt.Sprintf("expr: unknown operator %q", name))
}

// opArity returns the permitted argument-count range for an operator.
func opArity(name string) (min, max int, ok bool) {
	switch name {
	case "+", "*":
		return 1, -1, true
	case "-":
		return 1, 2, true
	case "/", "^", "pow":
		return 2, 2, true
	case "sin", "cos", "tan", "exp", "log", "sqrt", "tanh", "sinh", "cosh", "abs":
		return 1, 1, true
	}
	return 0, 0, false
}

// Check verifies that a rewritten tree is evaluable: every free
// variable is bound to a coordinate slot, every application targets an
// existing trial solution, every operator is known with a valid arity,
// and no un-rewritten DepVar or Deriv remains.  Running Check once at
// compile time is what lets EvalNode stay panic-free on valid input.
func Check(n Node, slots map[string]int, ntrials int) error {
	switch n := n.(type) {
	case *Literal:
		return nil
	case *Var:
		if _, ok := slots[n.Name]; !ok {
			return fmt.Errorf("expr: variable %q is not bound to a coordinate slot", n.Name)
		}
		return nil
	case *Eval:
		return checkApply(n.Args, n.Out, slots, ntrials)
	case *FinDiff:
		if n.Order < 1 || len(n.Dirs) != n.Order {
			return fmt.Errorf("expr: derivative order %v with %v perturbation vectors", n.Order, len(n.Dirs))
		}
		return checkApply(n.Args, n.Out, slots, ntrials)
	case *Op:
		min, max, ok := opArity(n.Name)
		if !ok {
			return fmt.Errorf("expr: unknown operator %q", n.Name)
		}
		if len(n.Args) < min || (max >= 0 && len(n.Args) > max) {
			return fmt.Errorf("expr: operator %q applied to %v arguments", n.Name, len(n.Args))
		}
		for _, a := range n.Args {
			if err := Check(a, slots, ntrials); err != nil {
				return err
			}
		}
		return nil
	case *DepVar, *Deriv:
		return &UnrecognizedExpressionPatternError{Node: n, Reason: "tree was not rewritten"}
	}
	return fmt.Errorf("expr: unknown node kind %T", n)
}

func checkApply(args []Node, out int, slots map[string]int, ntrials int) error {
	if out < 0 || out >= ntrials {
		return fmt.Errorf("expr: application targets trial solution %v of %v", out, ntrials)
	}
	for _, a := range args {
		switch a := a.(type) {
		case *Literal:
		case *Var:
			if _, ok := slots[a.Name]; !ok {
				return fmt.Errorf("expr: coordinate %q is not bound to a slot", a.Name)
			}
		default:
			return fmt.Errorf("expr: application argument must be a variable or literal, got %T", a)
		}
	}
	return nil
}
