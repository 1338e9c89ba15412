package algorithms

import (
	"testing"

	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

func feasibleSol(values ...float64) solution.Solution[[]service.ID] {
	return solution.Solution[[]service.ID]{Objectives: solution.Objectives{Tag: solution.Feasible, Values: values}}
}

func infeasibleSol(violation int) solution.Solution[[]service.ID] {
	return solution.Solution[[]service.ID]{Objectives: solution.Objectives{Tag: solution.Infeasible, Violation: violation}}
}

func TestCompositeDominatesPrefersFeasibleOverInfeasible(t *testing.T) {
	weight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	feasible := feasibleSol(1, 1)
	infeasible := infeasibleSol(0)

	if !compositeDominates(feasible, infeasible, weight, others) {
		t.Fatal("a feasible solution should composite-dominate any infeasible one")
	}
	if compositeDominates(infeasible, feasible, weight, others) {
		t.Fatal("an infeasible solution should never composite-dominate a feasible one")
	}
}

func TestCompositeDominatesPrefersFewerViolations(t *testing.T) {
	weight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	better := infeasibleSol(1)
	worse := infeasibleSol(3)

	if !compositeDominates(better, worse, weight, others) {
		t.Fatal("fewer constraint violations should composite-dominate more")
	}
}

func TestCompositeDominatesPrefersStrictDominance(t *testing.T) {
	weight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	better := feasibleSol(1, 1)
	worse := feasibleSol(2, 2)

	if !compositeDominates(better, worse, weight, others) {
		t.Fatal("strict Pareto dominance should decide when both points are in the region and the angle check does not")
	}
	if compositeDominates(worse, better, weight, others) {
		t.Fatal("a dominated point should never composite-dominate the point that dominates it")
	}
}

func TestDominatesAngleOneInRegionWins(t *testing.T) {
	refWeight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	inRegion := feasibleSol(1, 1)
	outOfRegion := feasibleSol(1, 0)

	if !dominatesAngle(inRegion, outOfRegion, refWeight, others) {
		t.Fatal("the in-region point should angle-dominate the out-of-region one")
	}
	if dominatesAngle(outOfRegion, inRegion, refWeight, others) {
		t.Fatal("an out-of-region point should never angle-dominate an in-region one")
	}
}

func TestDominatesAngleBothOutOfRegionSmallerAngleWins(t *testing.T) {
	refWeight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	// Both sit closer to the (1,0) axis weight than to refWeight, so
	// neither is in refWeight's region; (1, 0.3) makes the smaller angle
	// with refWeight than (1, 0.2) does.
	smallerAngle := feasibleSol(1, 0.3)
	biggerAngle := feasibleSol(1, 0.2)

	if !dominatesAngle(smallerAngle, biggerAngle, refWeight, others) {
		t.Fatal("expected the smaller angle to win when both are out of region")
	}
	if dominatesAngle(biggerAngle, smallerAngle, refWeight, others) {
		t.Fatal("the larger angle should never angle-dominate the smaller one")
	}
}

func TestIsInRegionRequiresClosestAngleAmongAllWeights(t *testing.T) {
	refWeight := []float64{1, 1}
	others := [][]float64{{0, 1}, {1, 0}}

	if !isInRegion([]float64{1, 1}, refWeight, others) {
		t.Fatal("a point aligned with this weight should be in its region")
	}
	if isInRegion([]float64{0, 1}, refWeight, others) {
		t.Fatal("a point aligned with another weight should not be in this region")
	}
}
