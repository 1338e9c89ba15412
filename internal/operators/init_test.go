package operators_test

import (
	"testing"

	"golang.org/x/exp/rand"

	"dcvnfopt/internal/operators"
	"dcvnfopt/internal/service"
)

func testServices(n int) []service.Service {
	services := make([]service.Service, n)
	for i := range services {
		services[i] = service.Service{ID: service.ID(i)}
	}
	return services
}

func TestGenerateInitialPopulationHasOneLocusPerServer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := operators.GenerateInitialPopulation(10, 5, testServices(3), 1, 4, rng)

	if len(population) != 10 {
		t.Fatalf("len(population) = %d, want 10", len(population))
	}
	for i, sol := range population {
		if len(sol.Point) != 5 {
			t.Fatalf("population[%d]: len(Point) = %d, want 5", i, len(sol.Point))
		}
	}
}

func TestGenerateInitialPopulationRampsRequestedCopiesByRank(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := operators.GenerateInitialPopulation(8, 4, testServices(2), 1, 8, rng)

	countOf := func(point [][]service.ID, id service.ID) int {
		n := 0
		for _, reqs := range point {
			for _, r := range reqs {
				if r == id {
					n++
				}
			}
		}
		return n
	}

	first := countOf(population[0].Point, 0)
	last := countOf(population[len(population)-1].Point, 0)
	if first < 1 {
		t.Fatalf("individual 0 should request at least one copy of every service, got %d", first)
	}
	if last < first {
		t.Fatalf("individual %d should request at least as many copies as individual 0: got %d < %d", len(population)-1, last, first)
	}
}

func TestGenerateInitialPopulationZeroMinSizeNeverDividesByZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	population := operators.GenerateInitialPopulation(4, 3, testServices(2), 0, 10, rng)
	if len(population) != 4 {
		t.Fatalf("len(population) = %d, want 4", len(population))
	}
}
