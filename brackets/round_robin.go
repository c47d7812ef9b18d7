package brackets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/models"
)

var (
	ErrInsufficientTeams = errors.New("at least 2 teams are required for pairing")
	ErrInvalidRoundIndex = errors.New("round index must be 1 or greater")
	ErrNoGames           = errors.New("at least 1 game is required for a schedule")
)

// Pairing is one matchup of a round. Team2 is nil when Team1 has a bye.
type Pairing struct {
	Team1 *models.Team
	Team2 *models.Team
}

func (p Pairing) IsBye() bool {
	return p.Team2 == nil
}

// ScheduledRound is a round that has not been persisted yet.
type ScheduledRound struct {
	RoundNumber int
	Game        *models.Game
	Pairings    []Pairing
}

// GeneratePairings pairs seats for one round using the circle method.
//
// seats[0] stays fixed and seats[1:] rotate right by roundIndex-1 positions. The fixed seat
// meets the first element of the rotated block and block[i] meets block[n-1-i], where n
// counts a bye placeholder appended for odd rosters. The result depends only on the inputs.
func GeneratePairings(seats []*models.Team, roundIndex int) ([]Pairing, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientTeams, len(seats))
	}
	if roundIndex < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidRoundIndex, roundIndex)
	}

	// nil is the bye placeholder.
	ring := make([]*models.Team, len(seats), len(seats)+1)
	copy(ring, seats)
	if len(ring)%2 != 0 {
		ring = append(ring, nil)
	}
	n := len(ring)

	block := rotateRight(ring[1:], roundIndex-1)

	pairings := make([]Pairing, 0, n/2)
	pairings = append(pairings, makePairing(ring[0], block[0]))
	for i := 1; i <= (n-1)/2; i++ {
		pairings = append(pairings, makePairing(block[i], block[n-1-i]))
	}
	return pairings, nil
}

func rotateRight(block []*models.Team, steps int) []*models.Team {
	m := len(block)
	rotated := make([]*models.Team, m)
	if m == 0 {
		return rotated
	}
	k := steps % m
	for j := range block {
		rotated[(j+k)%m] = block[j]
	}
	return rotated
}

func makePairing(a, b *models.Team) Pairing {
	if a == nil {
		return Pairing{Team1: b}
	}
	return Pairing{Team1: a, Team2: b}
}

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobinCircle"
}

// GenerateSchedule produces one round per game. Round r plays Games[r-1] and uses the
// circle rotation for r, so every team meets every game exactly once.
func (g *RoundRobinGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*ScheduledRound, error) {
	if len(params.Seats) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w (found %d)", ErrInsufficientTeams, len(params.Seats))
	}
	if len(params.Games) == 0 {
		return nil, fmt.Errorf("RoundRobinGenerator: %w", ErrNoGames)
	}

	rounds := make([]*ScheduledRound, 0, len(params.Games))
	for i, game := range params.Games {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		roundNumber := i + 1
		pairings, err := GeneratePairings(params.Seats, roundNumber)
		if err != nil {
			return nil, fmt.Errorf("RoundRobinGenerator: round %d: %w", roundNumber, err)
		}
		rounds = append(rounds, &ScheduledRound{
			RoundNumber: roundNumber,
			Game:        game,
			Pairings:    pairings,
		})
	}
	return rounds, nil
}
