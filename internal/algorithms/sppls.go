package algorithms

import (
	"context"
	"sync"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/nds"
	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// SPPLSConfig parameterises the stochastic PPLS/D variant: instead of an
// unexplored-solution stack explored by Tchebycheff best-first order,
// each step samples a random member of the weight's own archive to
// branch from.
type SPPLSConfig struct {
	PopulationSize   int
	MaxEvaluations   int
	PerIndNeighbours int
}

// SPPLS is the stochastic Pareto Local Search with Decomposition variant:
// each weight vector samples a random archive member per step rather
// than best-first exploring an unexplored stack, and the shared archive
// uses composite dominance — constraint dominance, then the Region-angle
// tie-break, then strict Pareto dominance — instead of strict dominance
// alone, so solutions merely "sideways" of a weight vector's direction
// are still pruned from its archive.
type SPPLS struct {
	Config   SPPLSConfig
	Problem  *Problem
	Rng      *rand.Rand
	Observer Observer
}

// Run executes SPPLS and returns the merged composite-dominance archive.
func (s *SPPLS) Run(ctx context.Context, numObjectives int) (*nds.Set[[]service.ID], error) {
	divisions := divisionsForPopSize(s.Config.PopulationSize)
	weights := DasDennisWeights(numObjectives, divisions)

	klog.V(2).InfoS("Starting SPPLS",
		"populationSize", s.Config.PopulationSize, "weightVectors", len(weights), "maxEvaluations", s.Config.MaxEvaluations)

	initPop := s.Problem.Initialize(s.Config.PopulationSize, s.Rng)
	initArchive := make([]solution.Solution[[]service.ID], len(initPop))
	for i, g := range initPop {
		g.Objectives = s.Problem.Evaluate(g)
		initArchive[i] = g
	}

	reference, nadir := getRefPoints(initArchive, numObjectives)

	remaining := s.Config.MaxEvaluations - len(initArchive)
	perWeightEvaluations := remaining / s.Config.PopulationSize
	if perWeightEvaluations < 0 {
		perWeightEvaluations = 0
	}

	items := serviceIDs(s.Problem.Services)

	totalArchive := make([]*nds.Set[[]service.ID], len(weights))
	g, _ := errgroup.WithContext(ctx)
	for wi, w := range weights {
		wi, w := wi, w
		workerRng := rand.New(rand.NewSource(s.Rng.Uint64()))
		g.Go(func() error {
			totalArchive[wi] = s.searchWeight(w, weights, reference, nadir, initArchive, items, perWeightEvaluations, workerRng)
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

	if s.Observer != nil {
		totalEvaluations := len(initArchive) + perWeightEvaluations*len(weights)
		s.Observer(totalEvaluations, final.Raw())
	}

	return final, nil
}

func (s *SPPLS) searchWeight(
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

	dominates := func(a, b solution.Solution[[]service.ID]) bool {
		return compositeDominates(a, b, weight, allWeights)
	}

	archive := nds.New[[]service.ID](false)
	archive.TryPushWith(best, dominates)

	evaluations := 0
	for evaluations < perWeightEvaluations {
		raw := archive.Raw()
		base := raw[rng.Intn(len(raw))]

		for i := 0; i < s.Config.PerIndNeighbours; i++ {
			point := operators.AddSwapNeighbour(base.Point, items, rng)
			ind := solution.New(point)
			ind.Objectives = s.Problem.Evaluate(ind)
			archive.TryPushWith(ind, dominates)
		}

		evaluations += s.Config.PerIndNeighbours
	}

	return archive
}

// compositeDominates augments strict Pareto dominance with a
// constraint-violation check and an angle-based Region tie-break: a is
// preferred over b if it is the feasible one of an infeasible pair, has
// fewer violations, is in weight's region while b is not, makes the
// smaller angle with weight when both are outside its region, or — when
// none of those checks holds — strictly Pareto-dominates b.
func compositeDominates(a, b solution.Solution[[]service.ID], weight []float64, allWeights [][]float64) bool {
	if dominatesConstraint(a, b) {
		return true
	}
	if dominatesAngle(a, b, weight, allWeights) {
		return true
	}
	return a.Dominates(b)
}

func dominatesConstraint(a, b solution.Solution[[]service.ID]) bool {
	switch {
	case a.Objectives.Tag == solution.Feasible && b.Objectives.Tag == solution.Feasible:
		return false
	case a.Objectives.Tag == solution.Feasible && b.Objectives.Tag == solution.Infeasible:
		return true
	case a.Objectives.Tag == solution.Infeasible && b.Objectives.Tag == solution.Feasible:
		return false
	default: // both infeasible
		return a.Objectives.Violation < b.Objectives.Violation
	}
}

func dominatesAngle(a, b solution.Solution[[]service.ID], weight []float64, allWeights [][]float64) bool {
	if a.Objectives.Tag != solution.Feasible || b.Objectives.Tag != solution.Feasible {
		return false
	}

	aInRegion := isInRegion(a.Objectives.Values, weight, allWeights)
	bInRegion := isInRegion(b.Objectives.Values, weight, allWeights)

	switch {
	case aInRegion && bInRegion:
		return false
	case !aInRegion && bInRegion:
		return false
	case aInRegion && !bInRegion:
		return true
	default:
		return angle(a.Objectives.Values, weight) < angle(b.Objectives.Values, weight)
	}
}
