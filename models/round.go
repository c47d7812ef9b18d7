package models

import "time"

type Round struct {
	ID            int        `json:"id" db:"id"`
	TournamentID  int        `json:"tournament_id" db:"tournament_id"`
	RoundNumber   int        `json:"round_number" db:"round_number"`
	GameID        int        `json:"game_id" db:"game_id"`
	StartTime     *time.Time `json:"start_time,omitempty" db:"start_time"`
	LengthMinutes int        `json:"length_minutes" db:"length_minutes"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`

	// Derived from Tournament.CurrentRoundNumber when read.
	IsCurrent bool      `json:"is_current" db:"-"`
	Matchups  []Matchup `json:"matchups,omitempty" db:"-"`
}

// EndTime returns nil when the round has no start time.
func (r *Round) EndTime() *time.Time {
	if r.StartTime == nil {
		return nil
	}
	end := r.StartTime.Add(time.Duration(r.LengthMinutes) * time.Minute)
	return &end
}
