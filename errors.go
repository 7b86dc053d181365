package nnpde

import "fmt"

// DuplicateVariableError reports colliding variable names during
// registry construction.
type DuplicateVariableError struct {
	Name string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("nnpde: duplicate variable %q", e.Name)
}

// MalformedBoundaryConditionError reports a boundary condition that is
// not a single well-formed equation with a recognizable
// dependent-variable application on its left side.
type MalformedBoundaryConditionError struct {
	Index  int
	Reason string
}

func (e *MalformedBoundaryConditionError) Error() string {
	return fmt.Sprintf("nnpde: malformed boundary condition %v: %s", e.Index, e.Reason)
}

// ParameterLengthMismatchError reports that the declared per-trial
// parameter lengths do not sum to the flat parameter vector's length.
type ParameterLengthMismatchError struct {
	Want int // sum of declared sub-vector lengths
	Got  int // length of the flat vector
}

func (e *ParameterLengthMismatchError) Error() string {
	return fmt.Sprintf("nnpde: parameter sub-vector lengths sum to %v, flat vector has %v", e.Want, e.Got)
}

// DimensionalityError reports a quadrature strategy requested on a
// domain with fewer dimensions than its integration rule supports.
type DimensionalityError struct {
	Algorithm QuadAlgorithm
	Dims      int
	Min       int
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("nnpde: %v quadrature requires at least %v dimensions, domain has %v", e.Algorithm, e.Min, e.Dims)
}
