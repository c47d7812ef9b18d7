package models

import "time"

// PointsPerWin is the weight of one win in TotalPoints.
const PointsPerWin = 100

// Standing is derived from confirmed matchups and wagers; it is never patched in place.
type Standing struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	TeamID       int       `json:"team_id" db:"team_id"`
	Wins         int       `json:"wins" db:"wins"`
	Losses       int       `json:"losses" db:"losses"`
	WagerPoints  int       `json:"wager_points" db:"wager_points"`
	TotalPoints  int       `json:"total_points" db:"total_points"`
	Rank         int       `json:"rank" db:"rank"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
