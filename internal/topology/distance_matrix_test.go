package topology_test

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"dcvnfopt/internal/topology"
	"dcvnfopt/internal/topology/builders"
)

func TestBuildDistanceMatrixRowStartsAtSelfWithZeroDistance(t *testing.T) {
	dc := builders.FatTree(4)
	rng := rand.New(rand.NewSource(42))
	dm := topology.BuildDistanceMatrix(dc, 5, rng)

	for server, row := range dm {
		if len(row) == 0 {
			t.Fatalf("server %d: empty distance row", server)
		}
		if row[0].NodeID != server || row[0].Distance != 0 {
			t.Fatalf("server %d: row[0] = %+v, want self at distance 0", server, row[0])
		}
		for i := 1; i < len(row); i++ {
			if row[i].Distance < row[i-1].Distance {
				t.Fatalf("server %d: row not sorted by non-decreasing distance at index %d: %+v", server, i, row)
			}
		}
	}
}

func TestBuildDistanceMatrixRowLength(t *testing.T) {
	dc := builders.FatTree(4)
	rng := rand.New(rand.NewSource(7))
	const k = 6
	dm := topology.BuildDistanceMatrix(dc, k, rng)

	for server, row := range dm {
		if len(row) != k {
			t.Fatalf("server %d: row length %d, want %d", server, len(row), k)
		}
	}
}

func TestNumSamplesUpperBoundErrorsOnUnsolvable(t *testing.T) {
	_, err := topology.NumSamplesUpperBound(10, 4, 0.9)
	if !errors.Is(err, topology.ErrUnsolvable) {
		t.Fatalf("err = %v, want ErrUnsolvable", err)
	}
}

func TestNumSamplesUpperBoundErrorsOnBadProbability(t *testing.T) {
	_, err := topology.NumSamplesUpperBound(2, 10, 1.0)
	if !errors.Is(err, topology.ErrBadProbability) {
		t.Fatalf("err = %v, want ErrBadProbability", err)
	}
}

func TestNumSamplesUpperBoundIsMonotonicInProbability(t *testing.T) {
	low, err := topology.NumSamplesUpperBound(4, 20, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	high, err := topology.NumSamplesUpperBound(4, 20, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high < low {
		t.Fatalf("expected a higher success probability to require at least as many samples: low=%d high=%d", low, high)
	}
}
