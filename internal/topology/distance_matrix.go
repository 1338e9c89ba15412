package topology

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
)

// ErrUnsolvable is returned when a requested number of VNFs cannot fit
// even in the worst case — more VNFs than servers exist.
var ErrUnsolvable = errors.New("topology: problem is unsolvable in the worst case")

// ErrBadProbability is returned when a success-probability threshold lies
// outside the valid [0, 1) range.
var ErrBadProbability = errors.New("topology: success probability must be in [0, 1)")

// DistanceCell is one entry of a DistanceMatrix row: a nearby server and
// its hop distance from the row's origin server.
type DistanceCell struct {
	NodeID   NodeID
	Distance int
}

// DistanceMatrix holds, for every server, its NumNearest closest servers
// by hop count (ties broken randomly). Row i is sorted by increasing
// distance.
type DistanceMatrix [][]DistanceCell

// BuildDistanceMatrix computes the K-nearest-server cache for every server
// in dc using a randomised-horizon breadth-first search, so that repeated
// calls do not always favour the same "leftmost" servers in symmetric
// topologies.
func BuildDistanceMatrix(dc *Datacentre, numNearest int, rng *rand.Rand) DistanceMatrix {
	dm := make(DistanceMatrix, dc.NumServers)
	for start := 0; start < dc.NumServers; start++ {
		dm[start] = setNearest(dc, start, numNearest, rng)
	}
	return dm
}

// NumSamplesUpperBound returns the number of BFS expansion rounds i such
// that a random placement of numVnfs VNFs across the i-nearest servers to a
// given origin succeeds with probability at least pSuccessThreshold, under
// a worst-case uniform-occupancy model. It returns ErrUnsolvable if
// numVnfs exceeds numServers, or ErrBadProbability if pSuccessThreshold is
// outside [0, 1).
func NumSamplesUpperBound(numVnfs, numServers int, pSuccessThreshold float64) (int, error) {
	if numVnfs > numServers {
		return 0, ErrUnsolvable
	}
	if pSuccessThreshold < 0.0 || pSuccessThreshold >= 1.0 {
		return 0, ErrBadProbability
	}

	for i := 1; ; i++ {
		probPlaced := 1.0
		for n := 1; n < numVnfs; n++ {
			pUnplaced := float64(n-1) / float64(numServers)
			probPlaced *= 1.0 - math.Pow(pUnplaced, float64(i))
			if probPlaced < pSuccessThreshold {
				break
			}
		}

		if probPlaced >= pSuccessThreshold || i == numServers {
			return i, nil
		}
	}
}

// setNearest performs a randomised-horizon BFS from start, returning the
// numNearest closest servers (by hop distance). Instead of always
// expanding nodes in insertion order (which would deterministically
// favour one branch of a symmetric topology), it swap-removes a random
// node from the current horizon before expanding it.
func setNearest(dc *Datacentre, start NodeID, numNearest int, rng *rand.Rand) []DistanceCell {
	result := make([]DistanceCell, 0, numNearest)

	currentHorizon := []NodeID{start}
	var nextHorizon []NodeID

	visited := map[NodeID]bool{start: true}

	distance := 0
	numSeen := 0

	for len(currentHorizon) > 0 {
		rn := rng.Intn(len(currentHorizon))
		nodeID := currentHorizon[rn]
		currentHorizon[rn] = currentHorizon[len(currentHorizon)-1]
		currentHorizon = currentHorizon[:len(currentHorizon)-1]

		if dc.IsServer(nodeID) {
			result = append(result, DistanceCell{NodeID: nodeID, Distance: distance})
			numSeen++
			if numSeen >= numNearest {
				return result
			}
		}

		for _, neighbour := range dc.Graph[nodeID] {
			if visited[neighbour] {
				continue
			}
			nextHorizon = append(nextHorizon, neighbour)
			visited[neighbour] = true
		}

		if len(currentHorizon) == 0 {
			currentHorizon = nextHorizon
			nextHorizon = nil
			distance++
		}
	}

	return result
}
