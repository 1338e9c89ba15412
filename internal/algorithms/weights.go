package algorithms

import "math"

// popSizeToWeightCount tabulates, for an increasing Das-Dennis lattice
// depth h (starting at h=6), the resulting 3-objective weight-vector
// count C(h+2,2). PPLS/D and SPPLS both pick their lattice depth by
// finding the table entry closest to the requested population size, the
// scheme _examples/original_source's get_weights uses rather than
// solving C(h+2,2)=popSize directly.
var popSizeToWeightCount = []int{
	28, 36, 45, 55, 66, 78, 91, 105, 120, 136, 153, 171, 190, 210, 231, 253,
	276, 300, 325, 351, 378, 406, 435, 465, 496, 528, 561, 595,
}

// divisionsForPopSize returns the Das-Dennis lattice depth whose
// weight-vector count best matches popSize, walking popSizeToWeightCount
// until the distance to popSize stops improving, then padding by 5 —
// the literal (and, for popSize below the table's first entry, somewhat
// degenerate) search get_weights performs.
func divisionsForPopSize(popSize int) int {
	dist := popSize - popSizeToWeightCount[0]
	i := 0
	for {
		cDist := absInt(popSize - popSizeToWeightCount[i])
		if cDist < dist {
			dist = cDist
		}
		if cDist > dist {
			break
		}
		i++
		if i == len(popSizeToWeightCount) {
			break
		}
	}
	return i + 5
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// DasDennisWeights builds the simplex lattice of weight vectors for
// numObjectives objectives at the given lattice depth, then projects
// every point onto the unit sphere (L2 norm 1) — the normalisation step
// get_weights applies after building each simplex point, needed for
// tchebycheff's and the Region predicate's angle comparisons to be
// meaningful across weight vectors of different simplex magnitude.
func DasDennisWeights(numObjectives, divisions int) [][]float64 {
	var weights [][]float64
	var rec func(remaining, depth int, acc []int)
	rec = func(remaining, depth int, acc []int) {
		if depth == numObjectives-1 {
			full := append(append([]int(nil), acc...), remaining)
			w := make([]float64, numObjectives)
			for i, v := range full {
				w[i] = float64(v) / float64(divisions)
			}
			weights = append(weights, normalize(w))
			return
		}
		for i := 0; i <= remaining; i++ {
			rec(remaining-i, depth+1, append(acc, i))
		}
	}
	rec(divisions, 0, nil)
	return weights
}

func normalize(w []float64) []float64 {
	mag := magnitude(w)
	if mag == 0 {
		return w
	}
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v / mag
	}
	return out
}

func angle(a, b []float64) float64 {
	cos := dot(a, b) / (magnitude(a) * magnitude(b))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func magnitude(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
