package services

import (
	"errors"
	"testing"

	"github.com/Dosada05/backyard-olympics/models"
)

// confirmWinner makes both teams of m report winnerID.
func (f *fixture) confirmWinner(t *testing.T, m models.Matchup, winnerID int) {
	t.Helper()
	for _, team := range []int{m.Team1ID, *m.Team2ID} {
		if _, err := f.results.ReportAsTeam(f.ctx, m.ID, team, winnerID); err != nil {
			t.Fatalf("report matchup %d by team %d: %v", m.ID, team, err)
		}
	}
}

func standingOf(t *testing.T, rows []models.Standing, teamID int) models.Standing {
	t.Helper()
	for _, row := range rows {
		if row.TeamID == teamID {
			return row
		}
	}
	t.Fatalf("no standing for team %d", teamID)
	return models.Standing{}
}

func TestComputeStandings(t *testing.T) {
	a := &models.Team{ID: 1, TeamNumber: intPtr(1)}
	b := &models.Team{ID: 2, TeamNumber: intPtr(2)}
	c := &models.Team{ID: 3, TeamNumber: intPtr(3)}
	matchups := []*models.Matchup{
		{Team1ID: 1, Team2ID: intPtr(2), GameID: 10, Result: models.ResultTeam1Win},
		{Team1ID: 1, Team2ID: intPtr(3), GameID: 20, Result: models.ResultTeam2Win},
		{Team1ID: 2, Team2ID: intPtr(3), GameID: 20, Result: models.ResultPending, ConflictFlag: true},
		{Team1ID: 2, GameID: 10, Result: models.ResultTeam1Win, IsBye: true},
	}
	wagers := []*models.Wager{
		{TeamID: 1, GameID: 10, Points: 30},
		{TeamID: 2, GameID: 10, Points: 50},
		{TeamID: 3, GameID: 20, Points: 10},
	}

	rows := computeStandings(5, []*models.Team{a, b, c}, matchups, wagers)

	want := []models.Standing{
		{TournamentID: 5, TeamID: 1, Wins: 1, Losses: 1, WagerPoints: 30, TotalPoints: 130, Rank: 1},
		{TournamentID: 5, TeamID: 3, Wins: 1, Losses: 0, WagerPoints: 10, TotalPoints: 110, Rank: 2},
		{TournamentID: 5, TeamID: 2, Wins: 0, Losses: 1, WagerPoints: 0, TotalPoints: 0, Rank: 3},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if *rows[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, *rows[i], want[i])
		}
	}
}

func TestComputeStandingsTieBreaks(t *testing.T) {
	teams := []*models.Team{{ID: 1}, {ID: 2}, {ID: 3}}
	matchups := []*models.Matchup{
		{Team1ID: 2, Team2ID: intPtr(1), GameID: 1, Result: models.ResultTeam1Win},
		{Team1ID: 3, Team2ID: intPtr(1), GameID: 2, Result: models.ResultTeam1Win},
	}
	wagers := []*models.Wager{{TeamID: 3, GameID: 2, Points: 5}}

	rows := computeStandings(1, teams, matchups, wagers)
	order := []int{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID}
	if order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Fatalf("got order %v, want [3 2 1]", order)
	}

	// Equal totals and wager points keep seat order.
	rows = computeStandings(1, teams, nil, nil)
	for i, row := range rows {
		if row.TeamID != teams[i].ID || row.Rank != i+1 {
			t.Errorf("row %d: team %d rank %d", i, row.TeamID, row.Rank)
		}
	}
}

func TestRecomputeStandingsScenarioE(t *testing.T) {
	f := newFixture(t)
	tournament, teams, games := f.seed(t, 2, 2)
	bettor, rival := teams[0], teams[1]

	if _, err := f.wagers.PlaceWager(f.ctx, bettor.ID, games[0].ID, 60); err != nil {
		t.Fatal(err)
	}
	if _, err := f.wagers.PlaceWager(f.ctx, bettor.ID, games[1].ID, 40); err != nil {
		t.Fatal(err)
	}

	rounds := f.build(t, tournament.ID)
	decided := map[int]bool{}
	for _, round := range rounds {
		for _, m := range round.Matchups {
			if decided[m.GameID] {
				continue
			}
			decided[m.GameID] = true
			winner := rival.ID
			if m.GameID == games[0].ID {
				winner = bettor.ID
			}
			f.confirmWinner(t, m, winner)
		}
	}

	rows, err := f.standings.RecomputeStandings(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	got := standingOf(t, rows, bettor.ID)
	if got.Wins != 1 || got.Losses != 1 || got.WagerPoints != 60 || got.TotalPoints != 160 || got.Rank != 1 {
		t.Errorf("bettor: %+v", got)
	}
	if got.Team == nil || got.Team.Name != bettor.Name {
		t.Errorf("bettor standing has team %v", got.Team)
	}
	other := standingOf(t, rows, rival.ID)
	if other.Wins != 1 || other.WagerPoints != 0 || other.TotalPoints != 100 || other.Rank != 2 {
		t.Errorf("rival: %+v", other)
	}
}

func TestRecomputeStandingsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 5, 2)
	rounds := f.build(t, tournament.ID)
	for _, m := range rounds[0].Matchups {
		if !m.IsBye {
			f.confirmWinner(t, m, *m.Team2ID)
		}
	}

	first, err := f.standings.RecomputeStandings(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.standings.RecomputeStandings(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	listed, err := f.standings.ListStandings(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 5 || len(second) != 5 || len(listed) != 5 {
		t.Fatalf("row counts %d %d %d", len(first), len(second), len(listed))
	}
	for i := range first {
		a, b, c := first[i], second[i], listed[i]
		if a.TeamID != b.TeamID || a.TotalPoints != b.TotalPoints || a.Rank != b.Rank ||
			b.TeamID != c.TeamID || b.TotalPoints != c.TotalPoints || b.Rank != c.Rank {
			t.Errorf("row %d differs: %+v / %+v / %+v", i, a, b, c)
		}
	}

	wins := 0
	for _, row := range listed {
		wins += row.Wins
	}
	if wins != 2 {
		t.Errorf("got %d wins in total, want 2 (byes do not count)", wins)
	}
}

func TestRefreshScheduled(t *testing.T) {
	f := newFixture(t)
	scheduled, _, _ := f.seed(t, 3, 1)
	f.build(t, scheduled.ID)
	if _, err := f.tournaments.CreateTournament(f.ctx, CreateTournamentInput{Name: "Unscheduled"}); err != nil {
		t.Fatal(err)
	}

	refreshed, err := f.standings.RefreshScheduled(f.ctx)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed != 1 {
		t.Fatalf("refreshed %d tournaments, want 1", refreshed)
	}
	rows, err := f.standings.ListStandings(f.ctx, scheduled.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d standings, want 3", len(rows))
	}
}

func TestListStandingsUnknownTournament(t *testing.T) {
	f := newFixture(t)
	if _, err := f.standings.ListStandings(f.ctx, 404); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("got %v, want ErrTournamentNotFound", err)
	}
}
