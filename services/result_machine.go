package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
)

// The functions below are the matchup result transitions. They mutate the matchup in memory
// only; callers persist it in the same transaction that locked the row.

// applyReport records one side's claim. When both sides have reported, agreement confirms
// the result and disagreement raises the conflict flag.
func applyReport(m *models.Matchup, side models.Side, reportingTeamID, claimedWinnerID int, at time.Time) error {
	if !side.Valid() {
		return ErrInvalidSide
	}
	if m.IsBye {
		return ErrByeMatchup
	}
	sideTeam := m.TeamOnSide(side)
	if sideTeam == nil || *sideTeam != reportingTeamID {
		return ErrNotAParticipant
	}
	if claimedWinnerID != m.Team1ID && (m.Team2ID == nil || claimedWinnerID != *m.Team2ID) {
		return ErrInvalidWinner
	}

	switch m.State() {
	case models.StateConfirmed:
		return ErrResultAlreadyConfirmed
	case models.StateConflicted:
		return ErrMatchupInConflict
	}

	claimsOwnWin := claimedWinnerID == reportingTeamID
	if side == models.SideTeam1 {
		m.Team1ReportedWin = boolPtr(claimsOwnWin)
	} else {
		m.Team2ReportedWin = boolPtr(claimsOwnWin)
	}

	if m.Team1ReportedWin == nil || m.Team2ReportedWin == nil {
		return nil
	}

	// team1 claiming a win agrees with team2 conceding it, and the other way round.
	if *m.Team1ReportedWin != *m.Team2ReportedWin {
		if *m.Team1ReportedWin {
			m.Result = models.ResultTeam1Win
		} else {
			m.Result = models.ResultTeam2Win
		}
		m.ConflictFlag = false
		return nil
	}

	m.ConflictFlag = true
	m.Result = models.ResultPending
	appendNote(m, at, "system", conflictDescription(m))
	return nil
}

func conflictDescription(m *models.Matchup) string {
	if *m.Team1ReportedWin {
		return fmt.Sprintf("both teams reported a win (team %d and team %d)", m.Team1ID, *m.Team2ID)
	}
	return fmt.Sprintf("both teams reported a loss (team %d and team %d)", m.Team1ID, *m.Team2ID)
}

// applyResolve records the operator's decision on a conflicted matchup.
func applyResolve(m *models.Matchup, winnerID int, note string, at time.Time) error {
	if !m.ConflictFlag {
		return ErrNoConflictToResolve
	}
	switch {
	case winnerID == m.Team1ID:
		m.Result = models.ResultTeam1Win
	case m.Team2ID != nil && winnerID == *m.Team2ID:
		m.Result = models.ResultTeam2Win
	default:
		return ErrInvalidWinner
	}
	m.ConflictFlag = false
	entry := fmt.Sprintf("resolved in favour of team %d", winnerID)
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		entry += ": " + trimmed
	}
	appendNote(m, at, "operator", entry)
	return nil
}

// applyReset returns the matchup to its initial state. Notes are kept as history.
func applyReset(m *models.Matchup, at time.Time) {
	m.Team1ReportedWin = nil
	m.Team2ReportedWin = nil
	m.ConflictFlag = false
	m.Result = models.ResultPending
	if m.IsBye {
		m.Result = models.ResultTeam1Win
	}
	if m.ConflictNotes != nil {
		appendNote(m, at, "system", "matchup reset")
	}
}

func appendNote(m *models.Matchup, at time.Time, author, text string) {
	line := fmt.Sprintf("[%s] %s: %s", at.UTC().Format(time.RFC3339), author, text)
	if m.ConflictNotes == nil || *m.ConflictNotes == "" {
		m.ConflictNotes = &line
		return
	}
	joined := *m.ConflictNotes + "\n" + line
	m.ConflictNotes = &joined
}
