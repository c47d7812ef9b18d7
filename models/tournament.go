package models

import "time"

// Tournament is the root of one event: its teams, games and rounds.
type Tournament struct {
	ID                 int       `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description,omitempty" db:"description"`
	Slug               string    `json:"slug" db:"slug"`
	CurrentRoundNumber *int      `json:"current_round_number,omitempty" db:"current_round_number"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`

	// Populated by services, not mapped to columns.
	Teams     []Team     `json:"teams,omitempty" db:"-"`
	Games     []Game     `json:"games,omitempty" db:"-"`
	Rounds    []Round    `json:"rounds,omitempty" db:"-"`
	Standings []Standing `json:"standings,omitempty" db:"-"`
}

// IsCurrentRound reports whether roundNumber is the round the pointer is on.
func (t *Tournament) IsCurrentRound(roundNumber int) bool {
	return t.CurrentRoundNumber != nil && *t.CurrentRoundNumber == roundNumber
}
