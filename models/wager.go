package models

import "time"

const (
	MaxWagerPoints      = 100
	MaxTotalWagerPoints = 100
)

type Wager struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	GameID    int       `json:"game_id" db:"game_id"`
	Points    int       `json:"points" db:"points"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
