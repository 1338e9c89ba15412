package algorithms

import (
	"context"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// CNSGAII is a concurrent NSGA-II variant: the same generational loop as
// NSGAII, but initial-population evaluation and offspring generation are
// farmed out through golang.org/x/sync/errgroup instead of a hand-rolled
// channel-and-WaitGroup pool, so the first error a worker returns (a
// failed tournament selection) is returned from Run.
type CNSGAII struct {
	Config    Config
	Problem   *Problem
	Crossover operators.CrossoverFunc
	Mutation  operators.MutationFunc
	Rng       *rand.Rand
	Observer  Observer
}

// Run executes the generational loop bounded by Config.MaxEvaluations,
// returning the final population or the first error any worker goroutine
// returned.
func (n *CNSGAII) Run(ctx context.Context) ([]*PopMember, error) {
	if n.Config.TournamentSize < 1 {
		return nil, operators.ErrInvalidArgument
	}

	start := time.Now()

	initPop := n.Problem.Initialize(n.Config.PopulationSize, n.Rng)

	klog.V(2).InfoS("Starting C-NSGA-II evolution",
		"populationSize", n.Config.PopulationSize, "maxEvaluations", n.Config.MaxEvaluations)

	population, err := n.evaluateAll(ctx, initPop)
	if err != nil {
		return nil, err
	}
	evaluations := len(population)

	for evaluations < n.Config.MaxEvaluations {
		fronts := NonDominatedSort(population)
		for _, f := range fronts {
			CrowdingDistance(f)
		}

		offspring, err := n.generateOffspring(ctx, population)
		if err != nil {
			return nil, err
		}
		evaluations += len(offspring)

		combined := append(append([]*PopMember(nil), population...), offspring...)
		fronts = NonDominatedSort(combined)

		var nextGen []*PopMember
		frontIndex := 0
		for frontIndex < len(fronts) && len(nextGen)+len(fronts[frontIndex]) <= n.Config.PopulationSize {
			CrowdingDistance(fronts[frontIndex])
			nextGen = append(nextGen, fronts[frontIndex]...)
			frontIndex++
		}
		if len(nextGen) < n.Config.PopulationSize && frontIndex < len(fronts) {
			remaining := fronts[frontIndex]
			CrowdingDistance(remaining)
			sort.Slice(remaining, func(i, j int) bool {
				return remaining[i].crowdDistance > remaining[j].crowdDistance
			})
			need := n.Config.PopulationSize - len(nextGen)
			if need > len(remaining) {
				need = len(remaining)
			}
			nextGen = append(nextGen, remaining[:need]...)
		}

		population = nextGen
	}

	klog.V(2).InfoS("C-NSGA-II evolution complete", "evaluations", evaluations, "elapsed", time.Since(start).String())

	if n.Observer != nil {
		n.Observer(evaluations, toSolutions(population))
	}

	return population, nil
}

func (n *CNSGAII) evaluateAll(ctx context.Context, genotypes []solution.Solution[[]service.ID]) ([]*PopMember, error) {
	population := make([]*PopMember, len(genotypes))

	g, _ := errgroup.WithContext(ctx)
	for i := range genotypes {
		i := i
		g.Go(func() error {
			gt := genotypes[i]
			gt.Objectives = n.Problem.Evaluate(gt)
			population[i] = &PopMember{Sol: gt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return population, nil
}

func (n *CNSGAII) generateOffspring(ctx context.Context, population []*PopMember) ([]*PopMember, error) {
	target := len(population)
	numPairs := (target + 1) / 2
	results := make([][2]*PopMember, numPairs)

	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < numPairs; i++ {
		i := i
		workerRng := rand.New(rand.NewSource(n.Rng.Uint64()))
		g.Go(func() error {
			parent1, err := operators.TournamentSelect(population, n.Config.TournamentSize, workerRng)
			if err != nil {
				return err
			}
			parent2, err := operators.TournamentSelect(population, n.Config.TournamentSize, workerRng)
			if err != nil {
				return err
			}

			var p1, p2 [][]service.ID
			if workerRng.Float64() < n.Config.CrossoverProbability {
				p1, p2 = n.Crossover(parent1.Sol.Point, parent2.Sol.Point, workerRng)
			} else {
				p1 = cloneChromosome(parent1.Sol.Point)
				p2 = cloneChromosome(parent2.Sol.Point)
			}

			n.Mutation(p1, workerRng)
			n.Mutation(p2, workerRng)

			c1 := solution.New(p1)
			c2 := solution.New(p2)
			c1.Objectives = n.Problem.Evaluate(c1)
			c2.Objectives = n.Problem.Evaluate(c2)

			results[i] = [2]*PopMember{{Sol: c1}, {Sol: c2}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	offspring := make([]*PopMember, 0, target)
	for _, pair := range results {
		offspring = append(offspring, pair[0], pair[1])
	}
	return offspring[:target], nil
}
