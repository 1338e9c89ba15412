package operators

import (
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"

	"golang.org/x/exp/rand"
)

// GenerateInitialPopulation builds popSize genotypes over numServers
// server positions, following the service-aware ramp spec.md §4.8
// specifies: individual i's load proportion is p = i/popSize, and its
// instance count per service is n = max(1, p·maxSize/minSize) — so rank 0
// requests a single copy of every service while the top of the
// population ramps up to a load proportional to the VNF size range. Each
// of the n copies of a service is placed at an independently-chosen
// random server position, matching the teacher's service-aware
// initialisation scheme of spreading a population across a load sweep
// rather than drawing every individual independently and identically.
func GenerateInitialPopulation(popSize, numServers int, services []service.Service, minSize, maxSize int, rng *rand.Rand) []solution.Solution[[]service.ID] {
	population := make([]solution.Solution[[]service.ID], popSize)

	ratio := 1.0
	if minSize > 0 {
		ratio = float64(maxSize) / float64(minSize)
	}

	for i := 0; i < popSize; i++ {
		p := float64(i) / float64(popSize)
		n := int(p * ratio)
		if n < 1 {
			n = 1
		}

		point := make([][]service.ID, numServers)
		for _, svc := range services {
			for c := 0; c < n; c++ {
				pos := rng.Intn(numServers)
				point[pos] = append(point[pos], svc.ID)
			}
		}

		population[i] = solution.New(point)
	}

	return population
}
