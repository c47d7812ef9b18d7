package models

import "time"

// MatchResult is the recorded outcome of a matchup.
type MatchResult string

const (
	ResultPending  MatchResult = "PENDING"
	ResultTeam1Win MatchResult = "TEAM1_WIN"
	ResultTeam2Win MatchResult = "TEAM2_WIN"
)

// MatchupState is derived from the stored fields; it is never persisted.
type MatchupState string

const (
	StateAwaitingFirstReport MatchupState = "AWAITING_FIRST_REPORT"
	StateAwaitingConfirm     MatchupState = "AWAITING_CONFIRMATION"
	StateConflicted          MatchupState = "CONFLICTED"
	StateConfirmed           MatchupState = "CONFIRMED"
)

// Side names one of the two slots of a matchup.
type Side string

const (
	SideTeam1 Side = "team1"
	SideTeam2 Side = "team2"
)

func (s Side) Valid() bool {
	return s == SideTeam1 || s == SideTeam2
}

type Matchup struct {
	ID               int         `json:"id" db:"id"`
	TournamentID     int         `json:"tournament_id" db:"tournament_id"`
	RoundID          int         `json:"round_id" db:"round_id"`
	GameID           int         `json:"game_id" db:"game_id"`
	Team1ID          int         `json:"team1_id" db:"team1_id"`
	Team2ID          *int        `json:"team2_id,omitempty" db:"team2_id"`
	Result           MatchResult `json:"result" db:"result"`
	Team1ReportedWin *bool       `json:"team1_reported_win,omitempty" db:"team1_reported_win"`
	Team2ReportedWin *bool       `json:"team2_reported_win,omitempty" db:"team2_reported_win"`
	ConflictFlag     bool        `json:"conflict_flag" db:"conflict_flag"`
	ConflictNotes    *string     `json:"conflict_notes,omitempty" db:"conflict_notes"`
	IsBye            bool        `json:"is_bye" db:"is_bye"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// State derives the lifecycle state. A recorded result wins over everything else,
// then the conflict flag, then the presence of any report.
func (m *Matchup) State() MatchupState {
	switch {
	case m.Result != ResultPending && m.Result != "":
		return StateConfirmed
	case m.ConflictFlag:
		return StateConflicted
	case m.Team1ReportedWin != nil || m.Team2ReportedWin != nil:
		return StateAwaitingConfirm
	default:
		return StateAwaitingFirstReport
	}
}

// WinnerID returns the winning team, or nil while the result is pending.
func (m *Matchup) WinnerID() *int {
	switch m.Result {
	case ResultTeam1Win:
		id := m.Team1ID
		return &id
	case ResultTeam2Win:
		if m.Team2ID == nil {
			return nil
		}
		id := *m.Team2ID
		return &id
	}
	return nil
}

// TeamOnSide returns the team seated on side, nil for the empty side of a bye.
func (m *Matchup) TeamOnSide(side Side) *int {
	switch side {
	case SideTeam1:
		id := m.Team1ID
		return &id
	case SideTeam2:
		if m.Team2ID == nil {
			return nil
		}
		id := *m.Team2ID
		return &id
	}
	return nil
}

// SideOf returns the side teamID plays on.
func (m *Matchup) SideOf(teamID int) (Side, bool) {
	if m.Team1ID == teamID {
		return SideTeam1, true
	}
	if m.Team2ID != nil && *m.Team2ID == teamID {
		return SideTeam2, true
	}
	return "", false
}

// Involves reports whether teamID plays in this matchup.
func (m *Matchup) Involves(teamID int) bool {
	_, ok := m.SideOf(teamID)
	return ok
}
