package operators_test

import (
	"errors"
	"testing"

	"golang.org/x/exp/rand"

	"dcvnfopt/internal/operators"
)

type fakeMember struct {
	id       int
	rank     int
	distance float64
}

func (m fakeMember) Rank() int        { return m.rank }
func (m fakeMember) Distance() float64 { return m.distance }

func TestTournamentSelectPrefersLowerRank(t *testing.T) {
	population := []fakeMember{
		{id: 0, rank: 1, distance: 100},
		{id: 1, rank: 0, distance: 0},
	}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		winner, err := operators.TournamentSelect(population, 2, rng)
		if err != nil {
			t.Fatalf("TournamentSelect: %v", err)
		}
		if winner.rank != 0 {
			t.Fatalf("TournamentSelect chose rank %d over rank 0", winner.rank)
		}
	}
}

func TestTournamentSelectTieBreaksOnCrowdingDistance(t *testing.T) {
	population := []fakeMember{
		{id: 0, rank: 0, distance: 1},
		{id: 1, rank: 0, distance: 5},
	}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		winner, err := operators.TournamentSelect(population, 2, rng)
		if err != nil {
			t.Fatalf("TournamentSelect: %v", err)
		}
		if winner.distance != 5 {
			t.Fatalf("TournamentSelect chose distance %v over the larger distance 5 at equal rank", winner.distance)
		}
	}
}

func TestTournamentSelectRejectsEmptyPopulation(t *testing.T) {
	_, err := operators.TournamentSelect([]fakeMember{}, 2, rand.New(rand.NewSource(1)))
	if !errors.Is(err, operators.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument over an empty population", err)
	}
}

func TestTournamentSelectRejectsInvalidSize(t *testing.T) {
	_, err := operators.TournamentSelect([]fakeMember{{id: 0}}, 0, rand.New(rand.NewSource(1)))
	if !errors.Is(err, operators.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument with a tournament size below 1", err)
	}
}
