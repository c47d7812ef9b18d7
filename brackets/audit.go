package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/dominikbraun/graph"
)

// ScheduleSnapshot is the persisted schedule of one tournament.
type ScheduleSnapshot struct {
	Teams    []models.Team
	Games    []models.Game
	Rounds   []models.Round
	Matchups []models.Matchup
}

// AuditSchedule checks a built schedule and returns one message per violation.
// An empty result means the schedule is sound:
//   - no team plays twice in one round
//   - every (team, game) pair is covered by exactly one matchup, a bye included
//   - with more than two teams nobody gets byes in consecutive rounds
//   - nobody meets the same opponent twice within one full rotation
func AuditSchedule(s ScheduleSnapshot) []string {
	violations := make([]string, 0)

	teamNames := make(map[int]string, len(s.Teams))
	for _, t := range s.Teams {
		teamNames[t.ID] = t.Name
	}
	gameNames := make(map[int]string, len(s.Games))
	for _, g := range s.Games {
		gameNames[g.ID] = g.Name
	}

	rounds := make([]models.Round, len(s.Rounds))
	copy(rounds, s.Rounds)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	roundNumberByID := make(map[int]int, len(rounds))
	for i, r := range rounds {
		roundNumberByID[r.ID] = r.RoundNumber
		if r.RoundNumber != i+1 {
			violations = append(violations, fmt.Sprintf("round numbers have a gap: expected round %d, found %d", i+1, r.RoundNumber))
		}
	}

	matchupsByRound := make(map[int][]models.Matchup, len(rounds))
	for _, m := range s.Matchups {
		matchupsByRound[m.RoundID] = append(matchupsByRound[m.RoundID], m)
	}

	type teamGame struct{ team, game int }
	coverage := make(map[teamGame]int)
	byeRounds := make(map[int]map[int]bool, len(s.Teams))

	for _, r := range rounds {
		seen := make(map[int]bool)
		for _, m := range matchupsByRound[r.ID] {
			participants := []int{m.Team1ID}
			if m.Team2ID != nil {
				participants = append(participants, *m.Team2ID)
			}
			for _, teamID := range participants {
				if seen[teamID] {
					violations = append(violations, fmt.Sprintf("team %s plays more than once in round %d", teamNames[teamID], r.RoundNumber))
				}
				seen[teamID] = true
				coverage[teamGame{teamID, m.GameID}]++
			}
			if m.IsBye {
				if byeRounds[m.Team1ID] == nil {
					byeRounds[m.Team1ID] = make(map[int]bool)
				}
				byeRounds[m.Team1ID][r.RoundNumber] = true
			}
		}
	}

	for _, t := range s.Teams {
		for _, g := range s.Games {
			if count := coverage[teamGame{t.ID, g.ID}]; count != 1 {
				violations = append(violations, fmt.Sprintf("team %s plays %s %d times (should be 1)", t.Name, g.Name, count))
			}
		}
	}

	if len(s.Teams) > 2 {
		for _, t := range s.Teams {
			for roundNumber := range byeRounds[t.ID] {
				if byeRounds[t.ID][roundNumber+1] {
					violations = append(violations, fmt.Sprintf("team %s has byes in consecutive rounds %d and %d", t.Name, roundNumber, roundNumber+1))
				}
			}
		}
	}

	violations = append(violations, auditRepeatedOpponents(s.Teams, rounds, matchupsByRound, teamNames)...)

	sort.Strings(violations)
	return violations
}

// auditRepeatedOpponents builds one opponent graph per rotation cycle. A second edge between
// the same two teams inside a cycle is a repeat.
func auditRepeatedOpponents(teams []models.Team, rounds []models.Round, matchupsByRound map[int][]models.Matchup, teamNames map[int]string) []string {
	seats := len(teams) + len(teams)%2
	cycleLength := seats - 1
	if cycleLength < 1 {
		return nil
	}

	violations := make([]string, 0)
	var opponents graph.Graph[int, int]
	for i, r := range rounds {
		if i%cycleLength == 0 {
			opponents = graph.New(graph.IntHash)
			for _, t := range teams {
				_ = opponents.AddVertex(t.ID)
			}
		}
		for _, m := range matchupsByRound[r.ID] {
			if m.Team2ID == nil {
				continue
			}
			err := opponents.AddEdge(m.Team1ID, *m.Team2ID)
			switch {
			case err == nil:
			case errors.Is(err, graph.ErrEdgeAlreadyExists):
				violations = append(violations, fmt.Sprintf("teams %s and %s meet again in round %d within one rotation",
					teamNames[m.Team1ID], teamNames[*m.Team2ID], r.RoundNumber))
			default:
				violations = append(violations, fmt.Sprintf("round %d references an unknown team: %v", r.RoundNumber, err))
			}
		}
	}
	return violations
}

// SnapshotFromPlan converts generated rounds into a snapshot so a plan can be audited
// before it is persisted. Round and matchup ids are synthetic.
func SnapshotFromPlan(teams []*models.Team, games []*models.Game, plan []*ScheduledRound) ScheduleSnapshot {
	s := ScheduleSnapshot{}
	for _, t := range teams {
		s.Teams = append(s.Teams, *t)
	}
	for _, g := range games {
		s.Games = append(s.Games, *g)
	}
	matchupID := 0
	for _, r := range plan {
		s.Rounds = append(s.Rounds, models.Round{ID: r.RoundNumber, RoundNumber: r.RoundNumber, GameID: r.Game.ID})
		for _, p := range r.Pairings {
			matchupID++
			m := models.Matchup{ID: matchupID, RoundID: r.RoundNumber, GameID: r.Game.ID, Team1ID: p.Team1.ID, IsBye: p.IsBye()}
			if p.Team2 != nil {
				id := p.Team2.ID
				m.Team2ID = &id
			}
			s.Matchups = append(s.Matchups, m)
		}
	}
	return s
}
