// Package expr implements the symbolic expression trees that PDE
// systems are written in, along with the rewrite that turns
// dependent-variable and derivative applications into directly
// evaluable nodes and the finite-difference operator that evaluates
// them.
package expr

// Node is a single node of a symbolic expression tree.  Trees are
// built from Literal, Var, DepVar, Deriv and Op nodes; Rewrite
// replaces DepVar and Deriv patterns with the canonical Eval and
// FinDiff nodes, which are the only application forms the evaluator
// understands.
type Node interface {
	isNode()
}

// Literal is a numeric constant.
type Literal struct {
	Value float64
}

// Var references an independent variable by name.
type Var struct {
	Name string
}

// DepVar applies a dependent variable (an unknown solution) to a tuple
// of arguments, e.g. u(x, t).  Arguments are Var references for free
// coordinates or Literal values for fixed ones (as boundary conditions
// use).
type DepVar struct {
	Name string
	Args []Node
}

// Deriv differentiates its argument with respect to one independent
// variable.  Nested Deriv nodes encode higher-order and mixed
// partials: Deriv{Deriv{u(x,y), "x"}, "y"} is d2u/dydx.  A Deriv may
// only wrap a DepVar application or another Deriv.
type Deriv struct {
	Arg Node
	Wrt string
}

// Op applies a named n-ary operator to its arguments.  See applyOp for
// the recognized operator names.
type Op struct {
	Name string
	Args []Node
}

// Eval is the canonical, evaluable form of a dependent-variable
// application: the Out'th trial solution evaluated at the coordinates
// the Args describe, under the Out'th parameter sub-vector.
type Eval struct {
	Out  int    // trial-solution index (0-based)
	Args []Node // Var or Literal, one per independent variable
}

// FinDiff is the canonical, evaluable form of a (possibly nested)
// derivative application.  Wrt holds the 0-based differentiation
// variable indices outermost-first; Dirs holds one perturbation vector
// per differentiation level, each with Step in the slot of that
// level's variable and zero elsewhere.
type FinDiff struct {
	Order int
	Wrt   []int
	Dirs  [][]float64
	Out   int
	Args  []Node
}

func (*Literal) isNode() {}
func (*Var) isNode()     {}
func (*DepVar) isNode()  {}
func (*Deriv) isNode()   {}
func (*Op) isNode()      {}
func (*Eval) isNode()    {}
func (*FinDiff) isNode() {}

// Num returns a literal constant node.
func Num(v float64) *Literal { return &Literal{Value: v} }

// X returns an independent-variable reference.
func X(name string) *Var { return &Var{Name: name} }

// U returns a dependent-variable application u(args...).
func U(name string, args ...Node) *DepVar { return &DepVar{Name: name, Args: args} }

// D returns the derivative of arg with respect to wrt.
func D(arg Node, wrt string) *Deriv { return &Deriv{Arg: arg, Wrt: wrt} }

// Apply returns a generic operator application.
func Apply(name string, args ...Node) *Op { return &Op{Name: name, Args: args} }

func Add(args ...Node) *Op { return Apply("+", args...) }
func Sub(a, b Node) *Op    { return Apply("-", a, b) }
func Mul(args ...Node) *Op { return Apply("*", args...) }
func Div(a, b Node) *Op    { return Apply("/", a, b) }
func Pow(a, b Node) *Op    { return Apply("^", a, b) }
func Neg(a Node) *Op       { return Apply("-", a) }
func Sin(a Node) *Op       { return Apply("sin", a) }
func Cos(a Node) *Op       { return Apply("cos", a) }
func Exp(a Node) *Op       { return Apply("exp", a) }
func Log(a Node) *Op       { return Apply("log", a) }
func Tanh(a Node) *Op      { return Apply("tanh", a) }
func Sqrt(a Node) *Op      { return Apply("sqrt", a) }
