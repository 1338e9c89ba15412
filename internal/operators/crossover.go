package operators

import (
	"errors"

	"golang.org/x/exp/rand"

	"dcvnfopt/internal/service"
	"dcvnfopt/internal/topology"
)

// ErrInvalidInput is returned by operator constructors whose parameters
// are structurally unusable — an empty distance matrix, an out-of-range
// probability — rather than merely a bad tuning choice.
var ErrInvalidInput = errors.New("operators: invalid input")

// CrossoverFunc combines two parent chromosomes into two children.
type CrossoverFunc func(parent1, parent2 [][]service.ID, rng *rand.Rand) ([][]service.ID, [][]service.ID)

func cloneChromosome(c [][]service.ID) [][]service.ID {
	out := make([][]service.ID, len(c))
	for i, reqs := range c {
		out[i] = append([]service.ID(nil), reqs...)
	}
	return out
}

// UniformCrossover swaps each locus between parents independently with
// probability 0.5.
func UniformCrossover(parent1, parent2 [][]service.ID, rng *rand.Rand) ([][]service.ID, [][]service.ID) {
	child1 := cloneChromosome(parent1)
	child2 := cloneChromosome(parent2)

	for i := range child1 {
		if rng.Intn(2) == 0 {
			child1[i], child2[i] = child2[i], child1[i]
		}
	}
	return child1, child2
}

// NPointCrossover generates n distinct cut points and alternates which
// parent each child copies from, segment by segment.
func NPointCrossover(n int) CrossoverFunc {
	return func(parent1, parent2 [][]service.ID, rng *rand.Rand) ([][]service.ID, [][]service.ID) {
		length := len(parent1)
		if n >= length {
			n = length - 1
		}
		if n < 1 {
			return cloneChromosome(parent1), cloneChromosome(parent2)
		}

		points := make(map[int]bool, n)
		for len(points) < n {
			points[1+rng.Intn(length-1)] = true
		}

		cuts := make([]int, 0, n)
		for p := range points {
			cuts = append(cuts, p)
		}
		insertionSort(cuts)

		child1 := make([][]service.ID, 0, length)
		child2 := make([][]service.ID, 0, length)

		swap := false
		prev := 0
		for _, cut := range append(cuts, length) {
			if !swap {
				child1 = append(child1, parent1[prev:cut]...)
				child2 = append(child2, parent2[prev:cut]...)
			} else {
				child1 = append(child1, parent2[prev:cut]...)
				child2 = append(child2, parent1[prev:cut]...)
			}
			swap = !swap
			prev = cut
		}

		return child1, child2
	}
}

func insertionSort(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

// LocalExchangeCrossover exchanges loci between local neighbourhoods
// rather than independently per locus, preserving the relative placement
// of nearby servers' requests across the crossover: it repeatedly picks a
// random server position, exchanges the nearest ρ-fraction (at least one)
// of that position's distance-matrix row between the two children, and
// marks every position exchanged, until half the chromosome has been
// exchanged. It returns ErrInvalidInput if dm is empty or rho is outside
// (0, 1].
func LocalExchangeCrossover(dm topology.DistanceMatrix, rho float64) (CrossoverFunc, error) {
	if len(dm) == 0 {
		return nil, ErrInvalidInput
	}
	if rho <= 0.0 || rho > 1.0 {
		return nil, ErrInvalidInput
	}

	return func(parent1, parent2 [][]service.ID, rng *rand.Rand) ([][]service.ID, [][]service.ID) {
		length := len(parent1)

		child1 := cloneChromosome(parent1)
		child2 := cloneChromosome(parent2)

		marked := make([]bool, length)
		numMarked := 0

		for {
			pos := rng.Intn(length)

			numDM := int(float64(len(dm[pos])) * rho)
			if numDM < 1 {
				numDM = 1
			}

			for i := 0; i < numDM && i < len(dm[pos]); i++ {
				neighbour := int(dm[pos][i].NodeID)
				if marked[neighbour] {
					continue
				}

				child1[neighbour] = append([]service.ID(nil), parent2[neighbour]...)
				child2[neighbour] = append([]service.ID(nil), parent1[neighbour]...)

				marked[neighbour] = true
				numMarked++

				if numMarked == length/2 {
					return child1, child2
				}
			}
		}
	}, nil
}
