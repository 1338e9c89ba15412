package algorithms

import (
	"context"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/nds"
	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// PPLSDConfig parameterises a Pareto Local Search with Decomposition run.
// PopulationSize drives both the initial shared archive's size and, via
// divisionsForPopSize, the Das-Dennis weight-vector lattice's depth.
type PPLSDConfig struct {
	PopulationSize   int
	MaxEvaluations   int
	PerIndNeighbours int // neighbours generated per explored individual
}

// PPLSD runs one independent local search per Das-Dennis weight vector,
// each starting from the shared initial archive's best individual for
// that weight and exploring an unexplored-solution stack by Tchebycheff
// scalarization, gated by the Region predicate so a weight's search
// stays in its own slice of objective space. Every per-weight archive is
// merged into the returned non-dominated set.
type PPLSD struct {
	Config   PPLSDConfig
	Problem  *Problem
	Rng      *rand.Rand
	Observer Observer
}

// Run executes PPLS/D and returns the merged non-dominated archive.
func (p *PPLSD) Run(ctx context.Context, numObjectives int) (*nds.Set[[]service.ID], error) {
	divisions := divisionsForPopSize(p.Config.PopulationSize)
	weights := DasDennisWeights(numObjectives, divisions)

	klog.V(2).InfoS("Starting PPLS/D",
		"populationSize", p.Config.PopulationSize, "weightVectors", len(weights), "maxEvaluations", p.Config.MaxEvaluations)

	initPop := p.Problem.Initialize(p.Config.PopulationSize, p.Rng)
	initArchive := make([]solution.Solution[[]service.ID], len(initPop))
	for i, g := range initPop {
		g.Objectives = p.Problem.Evaluate(g)
		initArchive[i] = g
	}

	reference, nadir := getRefPoints(initArchive, numObjectives)

	remaining := p.Config.MaxEvaluations - len(initArchive)
	perWeightEvaluations := remaining / p.Config.PopulationSize
	if perWeightEvaluations < 0 {
		perWeightEvaluations = 0
	}

	items := serviceIDs(p.Problem.Services)

	totalArchive := make([]*nds.Set[[]service.ID], len(weights))
	g, _ := errgroup.WithContext(ctx)
	for wi, w := range weights {
		wi, w := wi, w
		workerRng := rand.New(rand.NewSource(p.Rng.Uint64()))
		g.Go(func() error {
			totalArchive[wi] = p.searchWeight(w, weights, reference, nadir, initArchive, items, perWeightEvaluations, workerRng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := nds.New[[]service.ID](true)
	for _, set := range totalArchive {
		for _, sol := range set.Raw() {
			final.TryPush(sol)
		}
	}

	if p.Observer != nil {
		totalEvaluations := len(initArchive) + perWeightEvaluations*len(weights)
		p.Observer(totalEvaluations, final.Raw())
	}

	return final, nil
}

func (p *PPLSD) searchWeight(
	weight []float64,
	allWeights [][]float64,
	reference, nadir []float64,
	initArchive []solution.Solution[[]service.ID],
	items []service.ID,
	perWeightEvaluations int,
	rng *rand.Rand,
) *nds.Set[[]service.ID] {
	bestIdx, _, _ := getBest(initArchive, weight, reference, nadir)
	best := initArchive[bestIdx]

	archive := nds.New[[]service.ID](false)
	archive.TryPush(best)

	unexplored := []solution.Solution[[]service.ID]{best}

	evaluations := 0
	for evaluations < perWeightEvaluations && len(unexplored) > 0 {
		idx, bestDist, cnstrViolation := getBest(unexplored, weight, reference, nadir)
		current := unexplored[idx]
		unexplored[idx] = unexplored[len(unexplored)-1]
		unexplored = unexplored[:len(unexplored)-1]

		neighbours := make([]solution.Solution[[]service.ID], p.Config.PerIndNeighbours)
		for i := range neighbours {
			point := operators.AddSwapNeighbour(current.Point, items, rng)
			n := solution.New(point)
			n.Objectives = p.Problem.Evaluate(n)
			neighbours[i] = n
		}

		success := false
		for _, neighbour := range neighbours {
			if neighbour.Objectives.Tag != solution.Feasible {
				continue
			}

			dist := tchebycheff(neighbour.Objectives.Values, weight, reference, nadir)
			if dist < bestDist && (isInRegion(neighbour.Objectives.Values, weight, allWeights) || !anyInRegion(archive.Raw(), weight, allWeights)) {
				if archive.TryPush(neighbour) {
					unexplored = append(unexplored, neighbour)
					success = true
					break
				}
			}
		}

		if !success {
			for _, neighbour := range neighbours {
				if neighbour.Objectives.Tag == solution.Infeasible {
					if neighbour.Objectives.Violation < cnstrViolation {
						if archive.TryPush(neighbour) {
							unexplored = append(unexplored, neighbour)
						}
					}
					continue
				}

				if isInRegion(neighbour.Objectives.Values, weight, allWeights) || !anyInRegion(archive.Raw(), weight, allWeights) {
					if archive.TryPush(neighbour) {
						unexplored = append(unexplored, neighbour)
					}
				}
			}
		}

		evaluations += p.Config.PerIndNeighbours
	}

	return archive
}

func serviceIDs(services []service.Service) []service.ID {
	ids := make([]service.ID, len(services))
	for i, s := range services {
		ids[i] = s.ID
	}
	return ids
}
