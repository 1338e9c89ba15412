// Package solution defines the genotype container, objective-space
// feasibility tagging, and Pareto dominance used throughout the
// evolutionary algorithms.
package solution

import "fmt"

// FeasibilityTag distinguishes a solution whose constraints are satisfied
// (Feasible, objective vector meaningful) from one that violates them
// (Infeasible, ranked only by violation count) or one not yet evaluated
// (Undefined).
type FeasibilityTag int

const (
	Undefined FeasibilityTag = iota
	Feasible
	Infeasible
)

// Objectives is the evaluated fitness of a Solution. When Tag is Feasible,
// Values holds the objective vector (to be minimised componentwise). When
// Tag is Infeasible, Violation holds a constraint-violation count and
// Values is empty. When Tag is Undefined neither field is meaningful.
type Objectives struct {
	Tag       FeasibilityTag
	Values    []float64
	Violation int
}

// Equal reports whether two Objectives represent the same feasibility and
// value — used by NonDominatedSet to reject exact duplicates.
func (o Objectives) Equal(other Objectives) bool {
	if o.Tag != other.Tag {
		return false
	}
	switch o.Tag {
	case Feasible:
		if len(o.Values) != len(other.Values) {
			return false
		}
		for i := range o.Values {
			if o.Values[i] != other.Values[i] {
				return false
			}
		}
		return true
	case Infeasible:
		return o.Violation == other.Violation
	default:
		return true
	}
}

// Solution wraps a genotype (Point, of generic element type X) together
// with its evaluated Objectives.
type Solution[X any] struct {
	Point      []X
	Objectives Objectives
}

// New wraps point in an unevaluated Solution.
func New[X any](point []X) Solution[X] {
	return Solution[X]{Point: point, Objectives: Objectives{Tag: Undefined}}
}

// Len returns the genotype length.
func (s Solution[X]) Len() int {
	return len(s.Point)
}

// Clone returns a Solution with independently-owned copies of Point and
// of Objectives.Values; Tag and Violation are copied as-is.
func (s Solution[X]) Clone() Solution[X] {
	point := make([]X, len(s.Point))
	copy(point, s.Point)

	values := make([]float64, len(s.Objectives.Values))
	copy(values, s.Objectives.Values)

	return Solution[X]{
		Point: point,
		Objectives: Objectives{
			Tag:       s.Objectives.Tag,
			Values:    values,
			Violation: s.Objectives.Violation,
		},
	}
}

// Dominates reports whether s Pareto-dominates other, under the convention
// that every objective is minimised. Feasible solutions always dominate
// infeasible ones; between two infeasible solutions the one with fewer
// constraint violations dominates. It panics if either side is Undefined,
// since dominance is meaningless before evaluation.
func (s Solution[X]) Dominates(other Solution[X]) bool {
	if s.Objectives.Tag == Undefined || other.Objectives.Tag == Undefined {
		panic("solution: dominance compared against an undefined fitness")
	}

	if s.Objectives.Tag == Feasible && other.Objectives.Tag == Infeasible {
		return true
	}
	if s.Objectives.Tag == Infeasible && other.Objectives.Tag == Feasible {
		return false
	}
	if s.Objectives.Tag == Infeasible && other.Objectives.Tag == Infeasible {
		return s.Objectives.Violation < other.Objectives.Violation
	}

	selfObj := s.Objectives.Values
	otherObj := other.Objectives.Values
	if len(selfObj) != len(otherObj) {
		panic(fmt.Sprintf("solution: objective vector length mismatch: %d vs %d", len(selfObj), len(otherObj)))
	}

	numBetter, numWorse := 0, 0
	for i := range selfObj {
		switch {
		case selfObj[i] < otherObj[i]:
			numBetter++
		case selfObj[i] > otherObj[i]:
			numWorse++
		}
	}

	return numBetter > 0 && numWorse == 0
}
