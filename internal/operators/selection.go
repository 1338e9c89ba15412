// Package operators implements the evolutionary operators shared across
// the bundled algorithms: tournament selection, crossover, mutation, and
// population initialisation.
package operators

import (
	"errors"

	"golang.org/x/exp/rand"
)

// ErrInvalidArgument is returned by operators given a structurally
// impossible argument — a tournament size below 1, a selection over an
// empty population — rather than merely a poor tuning choice.
var ErrInvalidArgument = errors.New("operators: invalid argument")

// Member is anything a tournament or crowding-distance comparison can be
// run over: something with a rank (Pareto front index, lower is better)
// and a crowding distance (higher is better, used to break rank ties).
type Member interface {
	Rank() int
	Distance() float64
}

// TournamentSelect runs a k-way tournament over tournamentSize distinct
// members of population (every member when tournamentSize exceeds its
// length), preferring lower rank and, among equal ranks, higher crowding
// distance. It returns
// ErrInvalidArgument if tournamentSize is less than 1 or population is
// empty.
func TournamentSelect[M Member](population []M, tournamentSize int, rng *rand.Rand) (M, error) {
	var zero M
	if len(population) == 0 {
		return zero, ErrInvalidArgument
	}
	if tournamentSize < 1 {
		return zero, ErrInvalidArgument
	}

	k := tournamentSize
	if k > len(population) {
		k = len(population)
	}
	picks := rng.Perm(len(population))[:k]

	best := population[picks[0]]
	for _, i := range picks[1:] {
		if beats(population[i], best) {
			best = population[i]
		}
	}
	return best, nil
}

func beats[M Member](a, b M) bool {
	if a.Rank() != b.Rank() {
		return a.Rank() < b.Rank()
	}
	return a.Distance() > b.Distance()
}
