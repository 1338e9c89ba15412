package algorithms

import (
	"math"

	"dcvnfopt/internal/service"
	"dcvnfopt/internal/solution"
)

// tchebycheff scalarizes a feasible objective vector against weight: the
// max over objectives of weight[i] times the normalised deviation of
// values[i] from reference[i], scaled by the reference-to-nadir range.
// This is the decomposition PPLS/D and SPPLS both minimise along each
// weight vector's search direction.
func tchebycheff(values, weight, reference, nadir []float64) float64 {
	worst := math.Inf(-1)
	for i := range values {
		d := weight[i] * math.Abs((values[i]-reference[i])/(nadir[i]-reference[i]))
		if d > worst {
			worst = d
		}
	}
	return worst
}

// isInRegion reports whether values is at least as close, angularly, to
// weight as to every other weight vector in the lattice — the Region
// predicate that partitions objective space among PPLS/D's and SPPLS's
// independent per-weight searches.
func isInRegion(values, weight []float64, allWeights [][]float64) bool {
	cmpAngle := angle(values, weight)
	for _, other := range allWeights {
		if angle(values, other) < cmpAngle {
			return false
		}
	}
	return true
}

// anyInRegion reports whether any feasible member of candidates lies in
// weight's region.
func anyInRegion(candidates []solution.Solution[[]service.ID], weight []float64, allWeights [][]float64) bool {
	for _, c := range candidates {
		if c.Objectives.Tag != solution.Feasible {
			continue
		}
		if isInRegion(c.Objectives.Values, weight, allWeights) {
			return true
		}
	}
	return false
}

// getBest returns the index of pop's best individual for weight: the
// minimum-Tchebycheff feasible member if pop has one, else the
// minimum-violation infeasible member. dist is the chosen member's
// Tchebycheff distance and violation 0 when a feasible best was found;
// otherwise dist is +Inf and violation holds the chosen member's count.
func getBest(pop []solution.Solution[[]service.ID], weight, reference, nadir []float64) (idx int, dist float64, violation int) {
	idx = 0
	dist = math.Inf(1)
	violation = math.MaxInt32
	haveFeasible := false

	for i, ind := range pop {
		if ind.Objectives.Tag == solution.Feasible {
			d := tchebycheff(ind.Objectives.Values, weight, reference, nadir)
			if !haveFeasible || d < dist {
				idx, dist, violation, haveFeasible = i, d, 0, true
			}
		} else if !haveFeasible && ind.Objectives.Violation < violation {
			idx, violation = i, ind.Objectives.Violation
		}
	}

	return idx, dist, violation
}

// getRefPoints computes the componentwise ideal (reference) and nadir
// points over every feasible member of population, the two anchors
// tchebycheff scalarizes against.
func getRefPoints(population []solution.Solution[[]service.ID], numObjectives int) (reference, nadir []float64) {
	reference = make([]float64, numObjectives)
	nadir = make([]float64, numObjectives)
	for i := range reference {
		reference[i] = math.MaxFloat64
		nadir[i] = -math.MaxFloat64
	}

	for _, ind := range population {
		if ind.Objectives.Tag != solution.Feasible {
			continue
		}
		for i, v := range ind.Objectives.Values {
			if v < reference[i] {
				reference[i] = v
			}
			if v > nadir[i] {
				nadir[i] = v
			}
		}
	}

	return reference, nadir
}
