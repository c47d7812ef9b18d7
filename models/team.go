package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	Members      string `json:"members" db:"members"`
	// TeamNumber is the seat index used by pairing rotation. Nil until the schedule is built.
	TeamNumber  *int      `json:"team_number,omitempty" db:"team_number"`
	AccessToken uuid.UUID `json:"-" db:"access_token"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
