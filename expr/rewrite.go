package expr

import "fmt"

// UnrecognizedExpressionPatternError reports a dependent-variable or
// derivative application that does not match either of the two
// rewritable patterns: a dependent variable applied to coordinate
// arguments, or a chain of derivatives terminating in such an
// application.
type UnrecognizedExpressionPatternError struct {
	Node   Node
	Reason string
}

func (e *UnrecognizedExpressionPatternError) Error() string {
	return fmt.Sprintf("expr: unrecognized expression pattern: %s", e.Reason)
}

// Rewrite walks root depth-first and replaces every dependent-variable
// application with an Eval node and every nested derivative chain with
// a single FinDiff node.  indep and dep map variable names to their
// 1-based registry indices; the perturbation vectors built for FinDiff
// nodes have length len(indep).
//
// It returns an *UnrecognizedExpressionPatternError when a DepVar or
// Deriv occurs structurally outside the two recognized patterns, or
// names a variable missing from the registries.
func Rewrite(root Node, indep, dep map[string]int) (Node, error) {
	r := &rewriter{indep: indep, dep: dep}
	return r.walk(root)
}

type rewriter struct {
	indep map[string]int
	dep   map[string]int
}

func (r *rewriter) walk(n Node) (Node, error) {
	switch n := n.(type) {
	case *Literal, *Var, *Eval, *FinDiff:
		return n, nil
	case *DepVar:
		return r.rewriteApply(n)
	case *Deriv:
		return r.rewriteDeriv(n)
	case *Op:
		args := make([]Node, len(n.Args))
		for i, a := range n.Args {
			var err error
			if args[i], err = r.walk(a); err != nil {
				return nil, err
			}
		}
		return &Op{Name: n.Name, Args: args}, nil
	}
	return nil, &UnrecognizedExpressionPatternError{Node: n, Reason: "unknown node kind"}
}

func (r *rewriter) rewriteApply(dv *DepVar) (*Eval, error) {
	out, ok := r.dep[dv.Name]
	if !ok {
		return nil, &UnrecognizedExpressionPatternError{
			Node:   dv,
			Reason: fmt.Sprintf("dependent variable %q is not registered", dv.Name),
		}
	}
	if len(dv.Args) != len(r.indep) {
		return nil, &UnrecognizedExpressionPatternError{
			Node:   dv,
			Reason: fmt.Sprintf("%s applied to %v arguments, domain has %v", dv.Name, len(dv.Args), len(r.indep)),
		}
	}
	for _, a := range dv.Args {
		switch a := a.(type) {
		case *Literal:
		case *Var:
			if _, ok := r.indep[a.Name]; !ok {
				return nil, &UnrecognizedExpressionPatternError{
					Node:   dv,
					Reason: fmt.Sprintf("argument %q is not a registered independent variable", a.Name),
				}
			}
		default:
			return nil, &UnrecognizedExpressionPatternError{
				Node:   dv,
				Reason: fmt.Sprintf("%s applied to a non-coordinate argument", dv.Name),
			}
		}
	}
	return &Eval{Out: out - 1, Args: dv.Args}, nil
}

// rewriteDeriv walks a derivative chain outward-in, collecting the
// differentiation variables until it reaches the dependent-variable
// application leaf, then replaces the whole chain with one FinDiff.
func (r *rewriter) rewriteDeriv(d *Deriv) (*FinDiff, error) {
	var wrt []string
	n := Node(d)
	for {
		dd, ok := n.(*Deriv)
		if !ok {
			break
		}
		wrt = append(wrt, dd.Wrt)
		n = dd.Arg
	}
	dv, ok := n.(*DepVar)
	if !ok {
		return nil, &UnrecognizedExpressionPatternError{
			Node:   d,
			Reason: "derivative of a non-dependent-variable expression",
		}
	}
	ev, err := r.rewriteApply(dv)
	if err != nil {
		return nil, err
	}

	dims := len(r.indep)
	idxs := make([]int, len(wrt))
	dirs := make([][]float64, len(wrt))
	for i, name := range wrt {
		xi, ok := r.indep[name]
		if !ok {
			return nil, &UnrecognizedExpressionPatternError{
				Node:   d,
				Reason: fmt.Sprintf("differentiation variable %q is not registered", name),
			}
		}
		idxs[i] = xi - 1
		dir := make([]float64, dims)
		dir[xi-1] = Step
		dirs[i] = dir
	}
	return &FinDiff{Order: len(wrt), Wrt: idxs, Dirs: dirs, Out: ev.Out, Args: ev.Args}, nil
}
