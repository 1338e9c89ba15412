package operators_test

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/topology"
)

func sameRequests(a, b []service.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUniformCrossoverSwapsWholeLoci(t *testing.T) {
	parent1 := [][]service.ID{{1}, {2}, {3}, {4}}
	parent2 := [][]service.ID{{5}, {6}, {7}, {8}}
	rng := rand.New(rand.NewSource(1))

	child1, child2 := operators.UniformCrossover(parent1, parent2, rng)

	for i := range child1 {
		fromP1 := sameRequests(child1[i], parent1[i])
		fromP2 := sameRequests(child1[i], parent2[i])
		if !fromP1 && !fromP2 {
			t.Fatalf("child1[%d] = %v, want either parent's locus", i, child1[i])
		}
		if fromP1 && !sameRequests(child2[i], parent2[i]) {
			t.Fatalf("locus %d: child1 kept parent1 but child2 = %v, want parent2's %v", i, child2[i], parent2[i])
		}
		if fromP2 && !sameRequests(child2[i], parent1[i]) {
			t.Fatalf("locus %d: child1 took parent2 but child2 = %v, want parent1's %v", i, child2[i], parent1[i])
		}
	}
}

func TestUniformCrossoverDoesNotMutateParents(t *testing.T) {
	parent1 := [][]service.ID{{1}, {2}, {3}}
	parent2 := [][]service.ID{{4}, {5}, {6}}
	p1Copy := [][]service.ID{{1}, {2}, {3}}
	p2Copy := [][]service.ID{{4}, {5}, {6}}

	operators.UniformCrossover(parent1, parent2, rand.New(rand.NewSource(1)))

	for i := range parent1 {
		if !sameRequests(parent1[i], p1Copy[i]) || !sameRequests(parent2[i], p2Copy[i]) {
			t.Fatal("UniformCrossover mutated its parent slices")
		}
	}
}

func TestNPointCrossoverPreservesLength(t *testing.T) {
	parent1 := [][]service.ID{{1}, {2}, {3}, {4}, {5}, {6}}
	parent2 := [][]service.ID{{10}, {20}, {30}, {40}, {50}, {60}}
	rng := rand.New(rand.NewSource(1))

	cx := operators.NPointCrossover(2)
	child1, child2 := cx(parent1, parent2, rng)

	if len(child1) != len(parent1) || len(child2) != len(parent2) {
		t.Fatalf("children lengths = (%d, %d), want (%d, %d)", len(child1), len(child2), len(parent1), len(parent2))
	}
}

func TestNPointCrossoverDegenerateNFallsBackToCopies(t *testing.T) {
	parent1 := [][]service.ID{{1}, {2}, {3}}
	parent2 := [][]service.ID{{4}, {5}, {6}}
	rng := rand.New(rand.NewSource(1))

	cx := operators.NPointCrossover(0)
	child1, child2 := cx(parent1, parent2, rng)

	for i := range parent1 {
		if !sameRequests(child1[i], parent1[i]) || !sameRequests(child2[i], parent2[i]) {
			t.Fatalf("with n=0, expected exact copies; got child1=%v child2=%v", child1, child2)
		}
	}
}

func TestNPointCrossoverClampsNToLength(t *testing.T) {
	parent1 := [][]service.ID{{1}, {2}}
	parent2 := [][]service.ID{{3}, {4}}
	rng := rand.New(rand.NewSource(1))

	cx := operators.NPointCrossover(10)
	child1, child2 := cx(parent1, parent2, rng)

	if len(child1) != 2 || len(child2) != 2 {
		t.Fatalf("children lengths = (%d, %d), want (2, 2) even with an oversized n", len(child1), len(child2))
	}
}

func TestLocalExchangeCrossoverRejectsEmptyDistanceMatrix(t *testing.T) {
	_, err := operators.LocalExchangeCrossover(nil, 0.5)
	if !errors.Is(err, operators.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLocalExchangeCrossoverRejectsOutOfRangeRho(t *testing.T) {
	dm := topology.DistanceMatrix{{{NodeID: 0, Distance: 0}}}

	if _, err := operators.LocalExchangeCrossover(dm, 0); !errors.Is(err, operators.ErrInvalidInput) {
		t.Fatalf("rho=0: err = %v, want ErrInvalidInput", err)
	}
	if _, err := operators.LocalExchangeCrossover(dm, 1.5); !errors.Is(err, operators.ErrInvalidInput) {
		t.Fatalf("rho=1.5: err = %v, want ErrInvalidInput", err)
	}
}

func TestLocalExchangeCrossoverExchangesHalfTheChromosome(t *testing.T) {
	dm := topology.DistanceMatrix{
		{{NodeID: 1, Distance: 1}, {NodeID: 2, Distance: 2}, {NodeID: 3, Distance: 3}},
		{{NodeID: 0, Distance: 1}, {NodeID: 2, Distance: 1}, {NodeID: 3, Distance: 2}},
		{{NodeID: 0, Distance: 2}, {NodeID: 1, Distance: 1}, {NodeID: 3, Distance: 1}},
		{{NodeID: 0, Distance: 3}, {NodeID: 1, Distance: 2}, {NodeID: 2, Distance: 1}},
	}
	parent1 := [][]service.ID{{1}, {1}, {1}, {1}}
	parent2 := [][]service.ID{{2}, {2}, {2}, {2}}
	rng := rand.New(rand.NewSource(1))

	cx, err := operators.LocalExchangeCrossover(dm, 1.0)
	if err != nil {
		t.Fatalf("LocalExchangeCrossover: %v", err)
	}

	child1, child2 := cx(parent1, parent2, rng)

	exchanged := 0
	for i := range child1 {
		if sameRequests(child1[i], parent2[i]) {
			exchanged++
			if !sameRequests(child2[i], parent1[i]) {
				t.Fatalf("locus %d: child1 took parent2 but child2 did not take parent1", i)
			}
		}
	}
	if exchanged < len(parent1)/2 {
		t.Fatalf("exchanged %d loci, want at least half of %d", exchanged, len(parent1))
	}
}

func TestLocalExchangeCrossoverDoesNotMutateParents(t *testing.T) {
	dm := topology.DistanceMatrix{
		{{NodeID: 1, Distance: 1}},
		{{NodeID: 0, Distance: 1}},
	}
	parent1 := [][]service.ID{{1}, {1}}
	parent2 := [][]service.ID{{2}, {2}}
	p1Copy := [][]service.ID{{1}, {1}}
	p2Copy := [][]service.ID{{2}, {2}}
	rng := rand.New(rand.NewSource(1))

	cx, err := operators.LocalExchangeCrossover(dm, 1.0)
	if err != nil {
		t.Fatalf("LocalExchangeCrossover: %v", err)
	}
	cx(parent1, parent2, rng)

	for i := range parent1 {
		if !sameRequests(parent1[i], p1Copy[i]) || !sameRequests(parent2[i], p2Copy[i]) {
			t.Fatal("LocalExchangeCrossover mutated its parent slices")
		}
	}
}
