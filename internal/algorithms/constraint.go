package algorithms

import (
	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// CapacityConstraint counts, for a per-server placement genotype, how
// many server positions request more entry-stage VNF capacity than the
// server actually has. It is a coarse, cheap-to-evaluate upper bound
// (every requested service is charged only its first VNF's size, ignoring
// that later stages may land elsewhere) used to steer the search away
// from grossly infeasible genotypes before the full placement mapping —
// which is the ground truth for whether a solution actually places
// successfully — is attempted.
func CapacityConstraint(services []service.Service, capacities []int) solution.Constraint[[]service.ID] {
	return func(sol solution.Solution[[]service.ID]) int {
		violations := 0
		for i, requested := range sol.Point {
			if i >= len(capacities) {
				violations++
				continue
			}
			demand := 0
			for _, id := range requested {
				if len(services[id].VNFs) > 0 {
					demand += services[id].VNFs[0].Size
				}
			}
			if demand > capacities[i] {
				violations++
			}
		}
		return violations
	}
}
