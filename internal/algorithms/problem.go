// Package algorithms implements the evolutionary and local-search drivers
// — NSGA-II, its concurrent and island-parallel variants, and Pareto
// Local Search with Decomposition (PPLS/D) and its stochastic variant —
// over the VNF-placement-and-routing problem.
package algorithms

import (
	"golang.org/x/exp/rand"

	"dcvnfopt/internal/mapping"
	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/queueing"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
	"dcvnfopt/internal/topology"
)

// Problem bundles everything needed to map a genotype to a phenotype and
// score it: the service catalogue, topology artifacts, placement
// strategy, queueing evaluator, and an optional coarse feasibility
// constraint checked before the (more expensive) mapping is attempted.
type Problem struct {
	Services       []service.Service
	Capacities     []int
	DistanceMatrix topology.DistanceMatrix
	RoutingTables  []*topology.RoutingTable
	Selection      mapping.NodeSelection
	Evaluator      *queueing.Evaluator
	Constraint     solution.Constraint[[]service.ID]
	MinVNFSize     int
	MaxVNFSize     int
}

// Evaluate maps sol to a placed-and-routed phenotype and scores it on
// three objectives — mean service latency, mean service packet loss, and
// aggregate energy consumption — each minimised. A solution whose
// Constraint reports any violations is scored Infeasible without being
// mapped, since the mapping and queueing evaluation are the expensive
// part of scoring a candidate.
func (p *Problem) Evaluate(sol solution.Solution[[]service.ID]) solution.Objectives {
	if p.Constraint != nil {
		if v := p.Constraint(sol); v > 0 {
			return solution.Objectives{Tag: solution.Infeasible, Violation: v}
		}
	}

	capacities := append([]int(nil), p.Capacities...)
	placed := mapping.Apply(sol, p.Services, p.Selection, capacities, p.DistanceMatrix, p.RoutingTables)

	if unplaced := countUnplacedServices(sol, placed, len(p.Services)); unplaced > 0 {
		return solution.Objectives{Tag: solution.Infeasible, Violation: unplaced}
	}

	latency, pl, energy := p.Evaluator.Evaluate(p.Services, placed)

	return solution.Objectives{
		Tag:    solution.Feasible,
		Values: []float64{mean(latency), mean(pl), energy},
	}
}

// Initialize builds a popSize-member initial population following
// spec.md's service-aware ramp, spread across every server position.
func (p *Problem) Initialize(popSize int, rng *rand.Rand) []solution.Solution[[]service.ID] {
	return operators.GenerateInitialPopulation(popSize, len(p.Capacities), p.Services, p.MinVNFSize, p.MaxVNFSize, rng)
}

// countUnplacedServices counts how many distinct services sol actually
// requested (appearing in any server's list) ended up with zero placed
// instances in placed. A service never requested does not count against
// the solution.
func countUnplacedServices(sol solution.Solution[[]service.ID], placed []mapping.PlacedService, numServices int) int {
	requested := make([]bool, numServices)
	for _, reqs := range sol.Point {
		for _, id := range reqs {
			requested[id] = true
		}
	}

	gotPlaced := make([]bool, numServices)
	for _, ps := range placed {
		gotPlaced[ps.ServiceID] = true
	}

	unplaced := 0
	for i, want := range requested {
		if want && !gotPlaced[i] {
			unplaced++
		}
	}
	return unplaced
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
