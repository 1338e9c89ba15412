package operators

import (
	"dcvnfopt/internal/service"

	"golang.org/x/exp/rand"
)

// AddSwapNeighbour applies exactly one of the three AddRemoveSwapMutation
// moves — add, remove, or swap — to a copy of base, unconditionally
// (local search, unlike mutation, never gates a move behind a
// probability roll). It is intended to be called per_ind times per
// search step to build a neighbourhood around base, rather than called
// once to enumerate it exhaustively.
func AddSwapNeighbour(base [][]service.ID, items []service.ID, rng *rand.Rand) [][]service.ID {
	n := make([][]service.ID, len(base))
	for i, reqs := range base {
		n[i] = append([]service.ID(nil), reqs...)
	}

	if len(n) == 0 {
		return n
	}

	switch rng.Intn(3) {
	case 0: // add a random item at a random position
		if len(items) == 0 {
			return n
		}
		pos := rng.Intn(len(n))
		item := items[rng.Intn(len(items))]
		n[pos] = append(n[pos], item)

	case 1: // remove a random item from a random non-empty position
		nonEmpty := make([]int, 0, len(n))
		for i, reqs := range n {
			if len(reqs) > 0 {
				nonEmpty = append(nonEmpty, i)
			}
		}
		if len(nonEmpty) == 0 {
			return n
		}
		pos := nonEmpty[rng.Intn(len(nonEmpty))]
		idx := rng.Intn(len(n[pos]))
		n[pos] = append(n[pos][:idx], n[pos][idx+1:]...)

	case 2: // swap two positions' full request lists
		if len(n) < 2 {
			return n
		}
		i := rng.Intn(len(n))
		j := rng.Intn(len(n))
		n[i], n[j] = n[j], n[i]
	}

	return n
}
