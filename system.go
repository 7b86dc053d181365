// Package nnpde compiles symbolically-specified PDE systems into
// scalar loss functions over the parameters of trial solutions.  A
// System pairs equations and boundary conditions written as expr trees
// with a rectangular domain; Discretize turns it, a set of trial
// solutions and a training Strategy into an objective an external
// gradient-based optimizer can minimize.
package nnpde

import (
	"strings"

	"github.com/nnpde/nnpde/expr"
)

// IndependentVar is one independent variable together with its domain
// interval and grid discretization step.
type IndependentVar struct {
	Name string
	Low  float64
	Up   float64
	Step float64
}

// Equation is the ordered pair of expression trees left = right.  It
// compiles to the residual left - right, zero when satisfied.
type Equation struct {
	Left  expr.Node
	Right expr.Node
}

// Eq is shorthand for constructing an Equation.
func Eq(left, right expr.Node) Equation { return Equation{Left: left, Right: right} }

// System is a full PDE problem statement: the domain, the dependent
// variables, the governing equations and the boundary conditions.
// Boundary conditions are equations whose dependent-variable
// applications may pin some coordinates to literal constants; the
// remaining free variables define each condition's own sub-domain.
type System struct {
	Indep []IndependentVar
	Dep   []string
	Eqs   []Equation
	BCs   []Equation
}

// newRegistry assigns 1-based indices to variable names, preserving
// input order.  Names collide after whitespace normalization.
func newRegistry(names []string) (map[string]int, error) {
	idx := make(map[string]int, len(names))
	for i, name := range names {
		key := strings.TrimSpace(name)
		if _, ok := idx[key]; ok {
			return nil, &DuplicateVariableError{Name: key}
		}
		idx[key] = i + 1
	}
	return idx, nil
}

// bcAxes describes which axes a boundary condition leaves free and
// which it pins to fixed coordinates.
type bcAxes struct {
	// free holds the ordered names of the condition's free variables.
	free []string
	// fixed maps a pinned independent variable to its coordinate.
	fixed map[string]float64
}

// analyzeBC extracts the free variable names and fixed coordinates
// from the i'th boundary condition's left-hand application.  Argument
// positions correspond to the independent variables in declaration
// order.
func analyzeBC(i int, eq Equation, indep []IndependentVar) (*bcAxes, error) {
	if eq.Left == nil || eq.Right == nil {
		return nil, &MalformedBoundaryConditionError{Index: i, Reason: "not a single equation"}
	}
	app := findApplication(eq.Left)
	if app == nil {
		return nil, &MalformedBoundaryConditionError{Index: i, Reason: "left side has no dependent-variable application"}
	}
	if len(app.Args) != len(indep) {
		return nil, &MalformedBoundaryConditionError{Index: i, Reason: "application arity does not match the domain"}
	}

	ax := &bcAxes{fixed: map[string]float64{}}
	for j, arg := range app.Args {
		switch arg := arg.(type) {
		case *expr.Var:
			ax.free = append(ax.free, arg.Name)
		case *expr.Literal:
			ax.fixed[indep[j].Name] = arg.Value
		default:
			return nil, &MalformedBoundaryConditionError{Index: i, Reason: "application argument is neither a variable nor a constant"}
		}
	}
	return ax, nil
}

// findApplication returns the first dependent-variable application in
// n, looking through derivative chains and operator arguments.
func findApplication(n expr.Node) *expr.DepVar {
	switch n := n.(type) {
	case *expr.DepVar:
		return n
	case *expr.Deriv:
		return findApplication(n.Arg)
	case *expr.Op:
		for _, a := range n.Args {
			if dv := findApplication(a); dv != nil {
				return dv
			}
		}
	}
	return nil
}

// fixedValues collects, per independent variable, every coordinate any
// boundary condition pins it to.  The grid generator removes these
// from the interior point set.
func fixedValues(axes []*bcAxes) map[string][]float64 {
	vals := map[string][]float64{}
	for _, ax := range axes {
		for name, v := range ax.fixed {
			vals[name] = append(vals[name], v)
		}
	}
	return vals
}
