package algorithms_test

import (
	"math"
	"testing"

	"dcvnfopt/internal/algorithms"
)

func magnitude(w []float64) float64 {
	sum := 0.0
	for _, v := range w {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func TestDasDennisWeightsCountAndUnitSphereProjection(t *testing.T) {
	// C(divisions + numObjectives - 1, numObjectives - 1) = C(11,2) = 55,
	// matching spec.md §8 scenario 5's pop_size=55 case.
	weights := algorithms.DasDennisWeights(3, 9)

	if len(weights) != 55 {
		t.Fatalf("DasDennisWeights(3, 9) produced %d points, want 55", len(weights))
	}

	for i, w := range weights {
		if len(w) != 3 {
			t.Fatalf("weights[%d] has length %d, want 3", i, len(w))
		}
		if got := magnitude(w); math.Abs(got-1.0) > 1e-9 {
			t.Fatalf("weights[%d] has L2 norm %v, want 1 (unit sphere projection)", i, got)
		}
	}
}

func TestDasDennisWeightsSmallCase(t *testing.T) {
	weights := algorithms.DasDennisWeights(2, 4)
	// 2 objectives, divisions=4: exactly divisions+1 points on the lattice.
	if len(weights) != 5 {
		t.Fatalf("DasDennisWeights(2, 4) produced %d points, want 5", len(weights))
	}
	for _, w := range weights {
		if math.Abs(magnitude(w)-1.0) > 1e-9 {
			t.Fatalf("weight %v does not have unit L2 norm", w)
		}
	}
}
