package algorithms

import (
	"context"
	"runtime"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
)

// CrossoverHandle pairs a crossover and mutation operator, since each
// island needs its own independently-seeded operator pair to avoid
// islands sharing RNG state across goroutines.
type CrossoverHandle struct {
	Crossover func(p1, p2 [][]service.ID, rng *rand.Rand) ([][]service.ID, [][]service.ID)
	Mutation  func(chromosome [][]service.ID, rng *rand.Rand)
}

// PNSGAIIConfig configures the island-parallel NSGA-II variant. NumEpochs
// rounds are run; each round scatters the global population across one
// island per CPU (runtime.NumCPU(), at most PopulationSize islands) of
// PopulationSize/islands individuals each, runs NSGA-II
// independently on each for a fair share of the evaluation budget, then
// gathers every island's survivors back into the global population.
type PNSGAIIConfig struct {
	Config
	NumEpochs int
}

// PNSGAII is the island-model parallel NSGA-II variant described in
// spec.md §4 and grounded on _examples/original_source's pnsgaii.rs: a
// coarse-grained scheme where sub-populations evolve independently and
// exchange members only at epoch boundaries, rather than the
// finer-grained ring migration of a classic island GA.
type PNSGAII struct {
	Config       PNSGAIIConfig
	Problem      *Problem
	NewOperators func() CrossoverHandle
	Rng          *rand.Rand
	Observer     Observer
}

// Run executes the epoch/scatter/gather model and returns the final
// global population.
func (p *PNSGAII) Run(ctx context.Context) ([]*PopMember, error) {
	if p.Config.TournamentSize < 1 {
		return nil, operators.ErrInvalidArgument
	}

	initPop := p.Problem.Initialize(p.Config.PopulationSize, p.Rng)
	globalPop := make([]*PopMember, len(initPop))
	for i, g := range initPop {
		g.Objectives = p.Problem.Evaluate(g)
		globalPop[i] = &PopMember{Sol: g}
	}

	numCores := runtime.NumCPU()
	if numCores > p.Config.PopulationSize {
		numCores = p.Config.PopulationSize
	}
	numEpochs := p.Config.NumEpochs
	if numEpochs < 1 {
		numEpochs = 1
	}
	subPopSize := p.Config.PopulationSize / numCores
	if subPopSize < 1 {
		subPopSize = 1
	}

	remaining := p.Config.MaxEvaluations - len(globalPop)
	maxSubEvaluations := remaining / (numCores * numEpochs)
	if maxSubEvaluations < subPopSize {
		maxSubEvaluations = subPopSize
	}

	klog.V(2).InfoS("Starting P-NSGA-II evolution",
		"populationSize", p.Config.PopulationSize, "numCores", numCores,
		"numEpochs", numEpochs, "subPopSize", subPopSize, "maxSubEvaluations", maxSubEvaluations)

	for epoch := 0; epoch < numEpochs; epoch++ {
		islands := scatterPop(globalPop, numCores, subPopSize, p.Rng)

		results := make([][]*PopMember, numCores)
		g, _ := errgroup.WithContext(ctx)
		for i := 0; i < numCores; i++ {
			i := i
			handle := p.NewOperators()
			runner := &NSGAII{
				Config: Config{
					PopulationSize:       subPopSize,
					MaxEvaluations:       maxSubEvaluations,
					CrossoverProbability: p.Config.CrossoverProbability,
					MutationProbability:  p.Config.MutationProbability,
					TournamentSize:       p.Config.TournamentSize,
				},
				Problem:   p.Problem,
				Crossover: handle.Crossover,
				Mutation:  handle.Mutation,
				Rng:       rand.New(rand.NewSource(p.Rng.Uint64())),
			}
			runner.seedPopulation(islands[i])
			g.Go(func() error {
				island, err := runner.Run()
				if err != nil {
					return err
				}
				results[i] = island
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		globalPop = globalPop[:0]
		for _, island := range results {
			globalPop = append(globalPop, island...)
		}

		klog.V(3).InfoS("P-NSGA-II epoch complete", "epoch", epoch+1, "numEpochs", numEpochs)
	}

	totalEvaluations := maxSubEvaluations*numCores*numEpochs + len(initPop)
	if p.Observer != nil {
		p.Observer(totalEvaluations, toSolutions(globalPop))
	}

	return globalPop, nil
}

// seedPopulation lets a runner resume from an existing population instead
// of re-initializing from scratch, so an island's NSGA-II run builds on
// the individuals it was scattered rather than seeding itself afresh.
func (n *NSGAII) seedPopulation(seed []*PopMember) {
	n.seed = seed
}

// scatterPop shuffles globalPop and deals it into numCores groups of
// subPopSize. When numCores*subPopSize exceeds len(globalPop), the
// source is reshuffled and dealt from again once exhausted, so a
// requested sub-population larger than the global population
// oversamples with duplicates rather than running out.
func scatterPop(globalPop []*PopMember, numCores, subPopSize int, rng *rand.Rand) [][]*PopMember {
	shuffled := append([]*PopMember(nil), globalPop...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	newPops := make([][]*PopMember, numCores)
	pos := 0
	for i := 0; i < numCores; i++ {
		newPops[i] = make([]*PopMember, 0, subPopSize)
		for j := 0; j < subPopSize; j++ {
			newPops[i] = append(newPops[i], shuffled[pos])
			pos++
			if pos == len(shuffled) {
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				pos = 0
			}
		}
	}

	return newPops
}
