package solution_test

import (
	"testing"

	"dcvnfopt/internal/solution"
)

func feasible(values ...float64) solution.Solution[int] {
	return solution.Solution[int]{
		Point:      []int{0},
		Objectives: solution.Objectives{Tag: solution.Feasible, Values: values},
	}
}

func infeasible(violation int) solution.Solution[int] {
	return solution.Solution[int]{
		Point:      []int{0},
		Objectives: solution.Objectives{Tag: solution.Infeasible, Violation: violation},
	}
}

func TestNewIsUndefined(t *testing.T) {
	s := solution.New([]int{1, 2, 3})
	if s.Objectives.Tag != solution.Undefined {
		t.Fatalf("New: Tag = %v, want Undefined", s.Objectives.Tag)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := feasible(1, 2)
	clone := orig.Clone()

	clone.Point[0] = 99
	clone.Objectives.Values[0] = -1

	if orig.Point[0] == 99 {
		t.Fatal("Clone: mutating clone's Point mutated the original")
	}
	if orig.Objectives.Values[0] == -1 {
		t.Fatal("Clone: mutating clone's Values mutated the original")
	}
}

func TestObjectivesEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b solution.Objectives
		want bool
	}{
		{"same feasible values", solution.Objectives{Tag: solution.Feasible, Values: []float64{1, 2}}, solution.Objectives{Tag: solution.Feasible, Values: []float64{1, 2}}, true},
		{"different feasible values", solution.Objectives{Tag: solution.Feasible, Values: []float64{1, 2}}, solution.Objectives{Tag: solution.Feasible, Values: []float64{1, 3}}, false},
		{"different lengths", solution.Objectives{Tag: solution.Feasible, Values: []float64{1, 2}}, solution.Objectives{Tag: solution.Feasible, Values: []float64{1}}, false},
		{"same violation", solution.Objectives{Tag: solution.Infeasible, Violation: 2}, solution.Objectives{Tag: solution.Infeasible, Violation: 2}, true},
		{"different violation", solution.Objectives{Tag: solution.Infeasible, Violation: 2}, solution.Objectives{Tag: solution.Infeasible, Violation: 3}, false},
		{"different tags", solution.Objectives{Tag: solution.Feasible, Values: []float64{1}}, solution.Objectives{Tag: solution.Infeasible, Violation: 0}, false},
		{"both undefined", solution.Objectives{Tag: solution.Undefined}, solution.Objectives{Tag: solution.Undefined}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDominatesFeasibleBeatsInfeasible(t *testing.T) {
	f := feasible(100, 100)
	inf := infeasible(1)

	if !f.Dominates(inf) {
		t.Error("feasible solution should dominate an infeasible one")
	}
	if inf.Dominates(f) {
		t.Error("infeasible solution should never dominate a feasible one")
	}
}

func TestDominatesInfeasibleByViolationCount(t *testing.T) {
	low := infeasible(1)
	high := infeasible(3)

	if !low.Dominates(high) {
		t.Error("fewer violations should dominate more violations")
	}
	if high.Dominates(low) {
		t.Error("more violations should not dominate fewer")
	}
}

func TestDominatesObjectiveSpace(t *testing.T) {
	better := feasible(1, 2)
	worse := feasible(2, 3)
	tied := feasible(1, 2)
	mixed := feasible(0, 5)

	if !better.Dominates(worse) {
		t.Error("strictly better in every objective should dominate")
	}
	if worse.Dominates(better) {
		t.Error("strictly worse should not dominate")
	}
	if better.Dominates(tied) {
		t.Error("identical objective vectors should not dominate each other")
	}
	if better.Dominates(mixed) || mixed.Dominates(better) {
		t.Error("mixed better-in-one-worse-in-other vectors should not dominate each other")
	}
}

func TestDominatesPanicsOnUndefined(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when comparing against an undefined solution")
		}
	}()
	solution.New([]int{1}).Dominates(feasible(1))
}

func TestDominatesPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on objective vector length mismatch")
		}
	}()
	feasible(1, 2).Dominates(feasible(1, 2, 3))
}
