package services

import (
	"sort"

	"github.com/Dosada05/backyard-olympics/models"
)

// computeStandings derives the table from confirmed matchups and wagers. teams must be in
// seat order; it is the final tie-break. The inputs are not modified.
func computeStandings(tournamentID int, teams []*models.Team, matchups []*models.Matchup, wagers []*models.Wager) []*models.Standing {
	type wagerKey struct{ team, game int }
	wagerPoints := make(map[wagerKey]int, len(wagers))
	for _, w := range wagers {
		wagerPoints[wagerKey{w.TeamID, w.GameID}] = w.Points
	}

	rows := make([]*models.Standing, 0, len(teams))
	byTeam := make(map[int]*models.Standing, len(teams))
	for _, team := range teams {
		row := &models.Standing{TournamentID: tournamentID, TeamID: team.ID}
		rows = append(rows, row)
		byTeam[team.ID] = row
	}

	for _, m := range matchups {
		if m.IsBye || m.State() != models.StateConfirmed {
			continue
		}
		winnerID := m.WinnerID()
		if winnerID == nil || m.Team2ID == nil {
			continue
		}
		loserID := m.Team1ID
		if *winnerID == m.Team1ID {
			loserID = *m.Team2ID
		}
		if winner, ok := byTeam[*winnerID]; ok {
			winner.Wins++
			winner.WagerPoints += wagerPoints[wagerKey{*winnerID, m.GameID}]
		}
		if loser, ok := byTeam[loserID]; ok {
			loser.Losses++
		}
	}

	for _, row := range rows {
		row.TotalPoints = row.Wins*models.PointsPerWin + row.WagerPoints
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].WagerPoints > rows[j].WagerPoints
	})
	for i, row := range rows {
		row.Rank = i + 1
	}
	return rows
}
