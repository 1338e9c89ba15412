package operators

import (
	"dcvnfopt/internal/service"

	"golang.org/x/exp/rand"
)

// MutationFunc perturbs a per-server service-placement chromosome in
// place.
type MutationFunc func(chromosome [][]service.ID, rng *rand.Rand)

// AddRemoveSwapMutation returns a MutationFunc that, with probability pm,
// applies exactly one of three moves chosen uniformly: add a random
// service from items at a random server position; remove a random
// service from a random non-empty server position; or swap the full
// request lists of two server positions. Unlike the teacher's fixed-slot
// node-assignment mutation, a locus here is a variable-length list rather
// than a single value, so "add"/"remove" grow or shrink that list instead
// of nudging a count.
func AddRemoveSwapMutation(pm float64, items []service.ID) MutationFunc {
	return func(chromosome [][]service.ID, rng *rand.Rand) {
		if len(chromosome) == 0 || rng.Float64() >= pm {
			return
		}

		switch rng.Intn(3) {
		case 0: // add a random item at a random position
			if len(items) == 0 {
				return
			}
			pos := rng.Intn(len(chromosome))
			item := items[rng.Intn(len(items))]
			chromosome[pos] = append(chromosome[pos], item)

		case 1: // remove a random item from a random non-empty position
			nonEmpty := make([]int, 0, len(chromosome))
			for i, reqs := range chromosome {
				if len(reqs) > 0 {
					nonEmpty = append(nonEmpty, i)
				}
			}
			if len(nonEmpty) == 0 {
				return
			}
			pos := nonEmpty[rng.Intn(len(nonEmpty))]
			idx := rng.Intn(len(chromosome[pos]))
			chromosome[pos] = append(chromosome[pos][:idx], chromosome[pos][idx+1:]...)

		case 2: // swap two positions' full request lists
			if len(chromosome) < 2 {
				return
			}
			i := rng.Intn(len(chromosome))
			j := rng.Intn(len(chromosome))
			chromosome[i], chromosome[j] = chromosome[j], chromosome[i]
		}
	}
}
