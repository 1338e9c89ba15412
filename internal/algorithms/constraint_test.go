package algorithms_test

import (
	"testing"

	"dcvnfopt/internal/algorithms"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

func TestCapacityConstraintCountsOverCapacityServers(t *testing.T) {
	services := []service.Service{{ID: 0, VNFs: []service.VNF{{Size: 5}}}}
	capacities := []int{10, 10, 10}

	sol := solution.New([][]service.ID{{0}, {0, 0, 0}, {}})

	violations := algorithms.CapacityConstraint(services, capacities)(sol)
	if violations != 1 {
		t.Fatalf("violations = %d, want 1 (only server 1 at 5*3=15 > 10)", violations)
	}
}

func TestCapacityConstraintFlagsOutOfRangeServer(t *testing.T) {
	services := []service.Service{{ID: 0, VNFs: []service.VNF{{Size: 1}}}}
	capacities := []int{10}

	sol := solution.New([][]service.ID{{0}, {0}})

	violations := algorithms.CapacityConstraint(services, capacities)(sol)
	if violations != 1 {
		t.Fatalf("violations = %d, want 1 (server 1 has no matching capacity entry)", violations)
	}
}

func TestCapacityConstraintZeroWhenWithinBounds(t *testing.T) {
	services := []service.Service{{ID: 0, VNFs: []service.VNF{{Size: 2}}}}
	capacities := []int{10, 10}

	sol := solution.New([][]service.ID{{0, 0, 0, 0, 0}, {0, 0, 0, 0}})

	if got := algorithms.CapacityConstraint(services, capacities)(sol); got != 0 {
		t.Fatalf("violations = %d, want 0", got)
	}
}
