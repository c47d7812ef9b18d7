package brackets

import (
	"context"

	"github.com/Dosada05/backyard-olympics/models"
)

type GenerateScheduleParams struct {
	Tournament *models.Tournament
	// Seats is the team roster in stable seat order; Seats[0] never rotates.
	Seats []*models.Team
	// Games are assigned one per round, in order.
	Games []*models.Game
}

// ScheduleGenerator turns a roster and a game list into rounds of pairings.
type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*ScheduledRound, error)

	GetName() string
}
