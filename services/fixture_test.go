package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/backyard-olympics/brackets"
	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

type fixture struct {
	ctx         context.Context
	store       *repositories.MemoryStore
	tournaments TournamentService
	schedule    *scheduleService
	results     ResultService
	standings   StandingsService
	wagers      WagerService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	logger := discardLogger()
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		tournaments: NewTournamentService(store, logger),
		schedule:    NewScheduleService(store, brackets.NewRoundRobinGenerator(), 0, logger).(*scheduleService),
		results:     NewResultService(store, logger),
		standings:   NewStandingsService(store, logger),
		wagers:      NewWagerService(store, logger),
	}
}

// seed creates a tournament with the given number of teams and games.
func (f *fixture) seed(t *testing.T, teamCount, gameCount int) (*models.Tournament, []*models.Team, []*models.Game) {
	t.Helper()
	tournament, err := f.tournaments.CreateTournament(f.ctx, CreateTournamentInput{Name: fmt.Sprintf("Cup %s", t.Name())})
	if err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	teams := make([]*models.Team, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		team, err := f.tournaments.AddTeam(f.ctx, tournament.ID, AddTeamInput{Name: fmt.Sprintf("Team %d", i+1)})
		if err != nil {
			t.Fatalf("add team: %v", err)
		}
		teams = append(teams, team)
	}
	games := make([]*models.Game, 0, gameCount)
	for i := 0; i < gameCount; i++ {
		game, err := f.tournaments.AddGame(f.ctx, tournament.ID, AddGameInput{Name: fmt.Sprintf("Game %d", i+1)})
		if err != nil {
			t.Fatalf("add game: %v", err)
		}
		games = append(games, game)
	}
	return tournament, teams, games
}

func (f *fixture) build(t *testing.T, tournamentID int) []models.Round {
	t.Helper()
	rounds, err := f.schedule.BuildSchedule(f.ctx, tournamentID, BuildOptions{})
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	return rounds
}

// firstRealMatchup returns the first matchup of round 1 that is not a bye.
func firstRealMatchup(t *testing.T, rounds []models.Round) models.Matchup {
	t.Helper()
	for _, m := range rounds[0].Matchups {
		if !m.IsBye {
			return m
		}
	}
	t.Fatal("round 1 has no real matchup")
	return models.Matchup{}
}
