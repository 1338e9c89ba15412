// Package mapping turns a placement decision (which servers host which
// VNFs) into a route-DAG phenotype the queueing model can evaluate.
package mapping

import (
	"errors"
	"math"

	"dcvnfopt/internal/topology"
)

// ErrNoFit is returned by a NodeSelection when no server in the searched
// row has enough spare capacity to host the requested VNF.
var ErrNoFit = errors.New("mapping: no server in range has enough spare capacity")

// NodeSelection picks a server to host a VNF of the given required
// capacity, searching row (a DistanceMatrix row sorted by increasing
// distance) and checking remaining capacities. It returns ErrNoFit if no
// server in row has enough spare capacity.
type NodeSelection interface {
	Select(reqCapacity int, row []topology.DistanceCell, capacities []int) (topology.NodeID, error)
}

// FirstFit selects the nearest server with enough spare capacity.
type FirstFit struct{}

func (FirstFit) Select(reqCapacity int, row []topology.DistanceCell, capacities []int) (topology.NodeID, error) {
	for _, cell := range row {
		if capacities[cell.NodeID] >= reqCapacity {
			return cell.NodeID, nil
		}
	}
	return 0, ErrNoFit
}

// BestFit selects, among the nearest servers with enough spare capacity,
// the one with the least remaining capacity (tightest fit). It only
// considers servers at the minimal distance seen so far once a candidate
// has been found, matching the teacher's early-exit-on-farther-distance
// behaviour.
type BestFit struct{}

func (BestFit) Select(reqCapacity int, row []topology.DistanceCell, capacities []int) (topology.NodeID, error) {
	var bestCell *topology.DistanceCell
	bestCapacity := math.MaxInt

	for i := range row {
		cell := row[i]

		if bestCell != nil && bestCell.Distance < cell.Distance {
			break
		}

		capacity := capacities[cell.NodeID]
		if capacity < bestCapacity && capacity >= reqCapacity {
			bestCell = &row[i]
			bestCapacity = capacity
		}
	}

	if bestCell == nil {
		return 0, ErrNoFit
	}
	return bestCell.NodeID, nil
}

// WorstFit selects, among the nearest servers with enough spare capacity,
// the one with the most remaining capacity (loosest fit), stopping at the
// first distance boundary where a candidate has already been found.
type WorstFit struct{}

func (WorstFit) Select(reqCapacity int, row []topology.DistanceCell, capacities []int) (topology.NodeID, error) {
	var bestCell *topology.DistanceCell
	bestCapacity := reqCapacity

	for i := range row {
		cell := row[i]

		if bestCell != nil && bestCell.Distance < cell.Distance {
			return bestCell.NodeID, nil
		}

		capacity := capacities[cell.NodeID]
		if capacity >= bestCapacity {
			bestCell = &row[i]
			bestCapacity = capacity
		}
	}

	if bestCell == nil {
		return 0, ErrNoFit
	}
	return bestCell.NodeID, nil
}
