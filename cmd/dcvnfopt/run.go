package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"dcvnfopt/internal/algorithms"
	"dcvnfopt/internal/config"
	"dcvnfopt/internal/mapping"
	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/queueing"
	"dcvnfopt/internal/runio"
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
	"dcvnfopt/internal/stopwatch"
	"dcvnfopt/internal/topology"
	"dcvnfopt/internal/topology/builders"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Args:  cobra.NoArgs,
	Short: "Generate a problem instance over a topology and run a placement algorithm",
	RunE:  runOptimizer,
}

// numObjectives is fixed by queueing.Evaluator.Evaluate, which always
// scores mean latency, mean packet loss, and energy.
const numObjectives = 3

func init() {
	runCmd.Flags().String("kind", "fat-tree", "topology family: fat-tree, leaf-spine, or dcell")
	runCmd.Flags().Int("size", 4, "topology size parameter")
	runCmd.Flags().String("algorithm", "nsga2", "nsga2, cnsga2, pnsga2, pplsd, or sppls")
	runCmd.Flags().Int64("seed", 1, "RNG seed")
}

func runOptimizer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if cfg.TestNumCores {
		return numCoresCmd.RunE(cmd, nil)
	}

	kind, _ := cmd.Flags().GetString("kind")
	size, _ := cmd.Flags().GetInt("size")
	algoName, _ := cmd.Flags().GetString("algorithm")
	seed, _ := cmd.Flags().GetInt64("seed")

	dc, err := buildTopology(kind, size)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	tables := topology.BuildRoutingTables(dc)
	distanceMatrix := topology.BuildDistanceMatrix(dc, 16, rng)

	services, capacities := genProblemInstance(dc, rng)

	evaluator := queueing.NewEvaluator(dc, queueing.Config{
		SwitchServiceRate:   config.SwitchServiceRate(dc.NumPorts),
		SwitchQueueLength:   config.SwitchQueueLength(dc.NumPorts),
		TargetAccuracy:      config.ConvergenceAccuracy,
		ConvergedIterations: config.ConvergedIterations,
		ActiveCost:          config.ActiveCost,
		IdleCost:            config.IdleCost,
	})

	problem := &algorithms.Problem{
		Services:       services,
		Capacities:     capacities,
		DistanceMatrix: distanceMatrix,
		RoutingTables:  tables,
		Selection:      mapping.FirstFit{},
		Evaluator:      evaluator,
		Constraint:     algorithms.CapacityConstraint(services, capacities),
		MinVNFSize:     1,
		MaxVNFSize:     100,
	}

	sw := stopwatch.New()

	population, err := runAlgorithm(algoName, problem, rng, cfg.MaxEvaluations)
	if err != nil {
		return fmt.Errorf("run: %s: %w", algoName, err)
	}

	elapsed := sw.Stop()

	klog.V(1).InfoS("run complete", "algorithm", algoName, "topology", kind, "size", size, "elapsed", elapsed.String())

	resultsDir := filepath.Join(cfg.ResultsFolder, kind, fmt.Sprintf("%d", size), algoName)
	objsPath := filepath.Join(resultsDir, runio.ObjsFileName(len(services), cfg.MaxEvaluations))
	if err := runio.WriteObjs(objsPath, membersToSolutions(population)); err != nil {
		return err
	}
	return runio.WriteRunningTime(resultsDir, elapsed)
}

func membersToSolutions(population []*algorithms.PopMember) []solution.Solution[[]service.ID] {
	out := make([]solution.Solution[[]service.ID], len(population))
	for i, m := range population {
		out[i] = m.Sol
	}
	return out
}

// observe logs the terminating evaluation count and population size for
// name, fulfilling spec.md §2's observer-hook requirement for every
// algorithm invocation.
func observe(name string) algorithms.Observer {
	return func(evaluations int, population []solution.Solution[[]service.ID]) {
		klog.V(1).InfoS("algorithm terminated", "algorithm", name, "evaluations", evaluations, "populationSize", len(population))
	}
}

func genProblemInstance(dc *topology.Datacentre, rng *rand.Rand) ([]service.Service, []int) {
	numServices := int(math.Max(1, math.Floor(config.ServiceUtilisation*(1.0/5.0)*float64(dc.NumServers))))

	cfg := service.InstanceConfig{
		NumServices:       numServices,
		MinVNFsPerChain:   2,
		MaxVNFsPerChain:   12,
		MinVNFSize:        1,
		MaxVNFSize:        100,
		ProdRateMean:      10.0,
		ProdRateStdDev:    3.0,
		ServiceRateMean:   10.0,
		ServiceRateStdDev: 3.0,
		QueueLengthMean:   20.0,
		QueueLengthStdDev: 0.0,
	}

	services := service.GenerateInstance(cfg, rng)

	capacities := make([]int, dc.NumServers)
	for i := range capacities {
		capacities[i] = config.ServerCapacity
	}

	return services, capacities
}

func runAlgorithm(name string, problem *algorithms.Problem, rng *rand.Rand, maxEvaluations int) ([]*algorithms.PopMember, error) {
	baseConfig := algorithms.Config{
		PopulationSize:       config.PopulationSize,
		MaxEvaluations:       maxEvaluations,
		CrossoverProbability: config.CrossoverProbability,
		MutationProbability:  config.MutationProbability,
		TournamentSize:       2,
		ParallelExecution:    true,
	}

	items := make([]service.ID, len(problem.Services))
	for i, svc := range problem.Services {
		items[i] = svc.ID
	}

	newOperators := func() algorithms.CrossoverHandle {
		crossover, err := operators.LocalExchangeCrossover(problem.DistanceMatrix, 0.5)
		if err != nil {
			klog.ErrorS(err, "falling back to uniform crossover")
			crossover = operators.UniformCrossover
		}
		return algorithms.CrossoverHandle{
			Crossover: crossover,
			Mutation:  operators.AddRemoveSwapMutation(config.MutationProbability, items),
		}
	}

	switch name {
	case "nsga2":
		handle := newOperators()
		alg := &algorithms.NSGAII{Config: baseConfig, Problem: problem, Crossover: handle.Crossover, Mutation: handle.Mutation, Rng: rng, Observer: observe(name)}
		return alg.Run()
	case "cnsga2":
		handle := newOperators()
		alg := &algorithms.CNSGAII{Config: baseConfig, Problem: problem, Crossover: handle.Crossover, Mutation: handle.Mutation, Rng: rng, Observer: observe(name)}
		return alg.Run(cmdContext())
	case "pnsga2":
		alg := &algorithms.PNSGAII{
			Config: algorithms.PNSGAIIConfig{
				Config:    baseConfig,
				NumEpochs: config.IslandEpochs,
			},
			Problem:      problem,
			NewOperators: newOperators,
			Rng:          rng,
			Observer:     observe(name),
		}
		return alg.Run(cmdContext())
	case "pplsd":
		alg := &algorithms.PPLSD{
			Config: algorithms.PPLSDConfig{
				PopulationSize:   config.PPLSPopulationSize,
				MaxEvaluations:   maxEvaluations,
				PerIndNeighbours: config.PPLSNeighboursPerIndiv,
			},
			Problem:  problem,
			Rng:      rng,
			Observer: observe(name),
		}
		set, err := alg.Run(cmdContext(), numObjectives)
		if err != nil {
			return nil, err
		}
		return wrapArchive(set.Raw()), nil
	case "sppls":
		alg := &algorithms.SPPLS{
			Config: algorithms.SPPLSConfig{
				PopulationSize:   config.PPLSPopulationSize,
				MaxEvaluations:   maxEvaluations,
				PerIndNeighbours: config.PPLSNeighboursPerIndiv,
			},
			Problem:  problem,
			Rng:      rng,
			Observer: observe(name),
		}
		set, err := alg.Run(cmdContext(), numObjectives)
		if err != nil {
			return nil, err
		}
		return wrapArchive(set.Raw()), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
}

func wrapArchive(sols []solution.Solution[[]service.ID]) []*algorithms.PopMember {
	out := make([]*algorithms.PopMember, len(sols))
	for i, s := range sols {
		out[i] = &algorithms.PopMember{Sol: s}
	}
	return out
}
