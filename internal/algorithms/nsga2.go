package algorithms

import (
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/nds"
	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// Name identifies this algorithm in logs and result file names.
const Name = "NSGA-II"

// Observer is invoked once, from the controlling thread, after an
// algorithm's final generation or epoch completes, with the total number
// of evaluations performed and the resulting population — spec.md §2's
// observer hook, mirroring the teacher's iteration_observer parameter.
type Observer func(evaluations int, population []solution.Solution[[]service.ID])

// toSolutions strips PopMember's rank/crowding bookkeeping, leaving the
// plain evaluated genotypes an Observer is handed.
func toSolutions(population []*PopMember) []solution.Solution[[]service.ID] {
	out := make([]solution.Solution[[]service.ID], len(population))
	for i, m := range population {
		out[i] = m.Sol
	}
	return out
}

// PopMember wraps a genotype/phenotype pair with the rank (Pareto front
// index, 0 is best) and crowding distance NSGA-II's selection operators
// need.
type PopMember struct {
	Sol           solution.Solution[[]service.ID]
	rank          int
	crowdDistance float64
}

func (m *PopMember) Rank() int         { return m.rank }
func (m *PopMember) Distance() float64 { return m.crowdDistance }

// NonDominatedSort partitions population into Pareto fronts: front 0 is
// dominated by nothing in the population, front 1 is dominated only by
// members of front 0, and so on.
func NonDominatedSort(population []*PopMember) [][]*PopMember {
	var fronts [][]*PopMember
	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	for i := range population {
		for j := range population {
			if i == j {
				continue
			}
			if population[i].Sol.Dominates(population[j].Sol) {
				dominated[i] = append(dominated[i], j)
			} else if population[j].Sol.Dominates(population[i].Sol) {
				domCount[i]++
			}
		}
	}

	var currentFront []*PopMember
	var currentIndices []int
	for i := range population {
		if domCount[i] == 0 {
			population[i].rank = 0
			currentFront = append(currentFront, population[i])
			currentIndices = append(currentIndices, i)
		}
	}
	fronts = append(fronts, currentFront)

	frontIndex := 0
	for len(currentFront) > 0 {
		var nextFront []*PopMember
		var nextIndices []int

		for _, idx := range currentIndices {
			for _, dIdx := range dominated[idx] {
				domCount[dIdx]--
				if domCount[dIdx] == 0 {
					population[dIdx].rank = frontIndex + 1
					nextFront = append(nextFront, population[dIdx])
					nextIndices = append(nextIndices, dIdx)
				}
			}
		}

		frontIndex++
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
		currentIndices = nextIndices
	}

	return fronts
}

// CrowdingDistance assigns each member of front a crowding distance: the
// sum, over every feasible objective, of the normalised gap between its
// neighbours once the front is sorted by that objective. Boundary points
// get +Inf so they are never truncated away.
func CrowdingDistance(front []*PopMember) {
	if len(front) <= 2 {
		for _, m := range front {
			m.crowdDistance = math.Inf(1)
		}
		return
	}

	if front[0].Sol.Objectives.Tag != solution.Feasible {
		// Infeasible fronts have no objective vector to spread over;
		// reset every member's distance to zero so ties break
		// on violation count alone via Rank/Dominates upstream.
		for _, m := range front {
			m.crowdDistance = 0
		}
		return
	}

	numObjectives := len(front[0].Sol.Objectives.Values)
	for _, m := range front {
		m.crowdDistance = 0
	}

	for obj := 0; obj < numObjectives; obj++ {
		sort.Slice(front, func(i, j int) bool {
			return front[i].Sol.Objectives.Values[obj] < front[j].Sol.Objectives.Values[obj]
		})

		front[0].crowdDistance = math.Inf(1)
		front[len(front)-1].crowdDistance = math.Inf(1)

		objRange := front[len(front)-1].Sol.Objectives.Values[obj] - front[0].Sol.Objectives.Values[obj]
		if objRange == 0 {
			continue
		}

		for i := 1; i < len(front)-1; i++ {
			front[i].crowdDistance += (front[i+1].Sol.Objectives.Values[obj] - front[i-1].Sol.Objectives.Values[obj]) / objRange
		}
	}
}

// Config parameterises a single NSGA-II run. MaxEvaluations bounds the
// search by total individuals evaluated, not by generation count: the
// loop runs until evaluations reaches MaxEvaluations, incrementing by
// PopulationSize every generation, per spec.md §4.9.
type Config struct {
	PopulationSize       int
	MaxEvaluations       int
	CrossoverProbability float64
	MutationProbability  float64
	TournamentSize       int
	ParallelExecution    bool
}

// NSGAII runs the elitist non-dominated sorting genetic algorithm over a
// Problem.
type NSGAII struct {
	Config    Config
	Problem   *Problem
	Crossover operators.CrossoverFunc
	Mutation  operators.MutationFunc
	Rng       *rand.Rand
	Observer  Observer

	// seed, when non-nil, is used as the starting population instead of
	// a fresh call to Problem.Initialize, and evaluations starts at 0
	// rather than PopulationSize since a seed's members are already
	// evaluated — set by PNSGAII so an island's sub-population doesn't
	// pay for a second evaluation of individuals the global population
	// already scored.
	seed []*PopMember
}

// Run executes the generational loop, bounded by Config.MaxEvaluations,
// and returns the final population. It returns ErrInvalidArgument if
// TournamentSize is below 1.
func (n *NSGAII) Run() ([]*PopMember, error) {
	if n.Config.TournamentSize < 1 {
		return nil, operators.ErrInvalidArgument
	}

	start := time.Now()

	klog.V(2).InfoS("Starting NSGA-II evolution",
		"populationSize", n.Config.PopulationSize,
		"maxEvaluations", n.Config.MaxEvaluations,
		"crossoverRate", n.Config.CrossoverProbability,
		"mutationRate", n.Config.MutationProbability,
		"tournamentSize", n.Config.TournamentSize,
		"parallel", n.Config.ParallelExecution,
	)

	var population []*PopMember
	evaluations := 0
	if n.seed != nil {
		population = n.seed
	} else {
		initPop := n.Problem.Initialize(n.Config.PopulationSize, n.Rng)
		population = n.evaluateAll(initPop)
		evaluations = len(population)
	}

	for evaluations < n.Config.MaxEvaluations {
		fronts := NonDominatedSort(population)
		for _, f := range fronts {
			CrowdingDistance(f)
		}

		offspring := n.generateOffspring(population)
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

	klog.V(2).InfoS("NSGA-II evolution complete", "evaluations", evaluations, "elapsed", time.Since(start).String())

	if n.Observer != nil {
		n.Observer(evaluations, toSolutions(population))
	}

	return population, nil
}

func (n *NSGAII) evaluateAll(genotypes []solution.Solution[[]service.ID]) []*PopMember {
	population := make([]*PopMember, len(genotypes))

	if !n.Config.ParallelExecution {
		for i, g := range genotypes {
			g.Objectives = n.Problem.Evaluate(g)
			population[i] = &PopMember{Sol: g}
		}
		return population
	}

	numWorkers := runtime.NumCPU()
	workChan := make(chan int, len(genotypes))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				g := genotypes[i]
				g.Objectives = n.Problem.Evaluate(g)
				population[i] = &PopMember{Sol: g}
			}
		}()
	}

	for i := range genotypes {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	return population
}

// generateOffspring produces len(population) children via tournament
// selection, crossover, and mutation. Every pair that is attempted is
// always appended to the offspring set once evaluated — the teacher's
// original sequential path built a child pair but never appended it to
// the returned slice, silently discarding every generation's offspring;
// that defect is fixed here by construction.
func (n *NSGAII) generateOffspring(population []*PopMember) []*PopMember {
	target := len(population)
	offspring := make([]*PopMember, 0, target)

	if !n.Config.ParallelExecution {
		for len(offspring) < target {
			c1, c2 := n.breedPair(population, n.Rng)
			offspring = append(offspring, c1, c2)
		}
		return offspring[:target]
	}

	numWorkers := runtime.NumCPU()
	numPairs := (target + 1) / 2
	results := make([][2]*PopMember, numPairs)
	workChan := make(chan int, numPairs)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerRng *rand.Rand) {
			defer wg.Done()
			for i := range workChan {
				c1, c2 := n.breedPair(population, workerRng)
				results[i] = [2]*PopMember{c1, c2}
			}
		}(rand.New(rand.NewSource(n.Rng.Uint64())))
	}

	for i := 0; i < numPairs; i++ {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	for _, pair := range results {
		offspring = append(offspring, pair[0], pair[1])
	}
	return offspring[:target]
}

func (n *NSGAII) breedPair(population []*PopMember, rng *rand.Rand) (*PopMember, *PopMember) {
	parent1, _ := operators.TournamentSelect(population, n.Config.TournamentSize, rng)
	parent2, _ := operators.TournamentSelect(population, n.Config.TournamentSize, rng)

	var childPoint1, childPoint2 [][]service.ID
	if rng.Float64() < n.Config.CrossoverProbability {
		childPoint1, childPoint2 = n.Crossover(parent1.Sol.Point, parent2.Sol.Point, rng)
	} else {
		childPoint1 = cloneChromosome(parent1.Sol.Point)
		childPoint2 = cloneChromosome(parent2.Sol.Point)
	}

	n.Mutation(childPoint1, rng)
	n.Mutation(childPoint2, rng)

	child1 := solution.New(childPoint1)
	child2 := solution.New(childPoint2)

	child1.Objectives = n.Problem.Evaluate(child1)
	child2.Objectives = n.Problem.Evaluate(child2)

	return &PopMember{Sol: child1}, &PopMember{Sol: child2}
}

func cloneChromosome(c [][]service.ID) [][]service.ID {
	out := make([][]service.ID, len(c))
	for i, reqs := range c {
		out[i] = append([]service.ID(nil), reqs...)
	}
	return out
}

// ParetoFront extracts the non-dominated subset of a finished population
// into a nds.Set, for reporting or for seeding a downstream algorithm.
func ParetoFront(population []*PopMember) *nds.Set[[]service.ID] {
	set := nds.New[[]service.ID](true)
	for _, m := range population {
		set.TryPush(m.Sol)
	}
	return set
}
