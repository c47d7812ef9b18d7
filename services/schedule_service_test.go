package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

func TestBuildScheduleScenarioA(t *testing.T) {
	f := newFixture(t)
	tournament, teams, games := f.seed(t, 4, 3)

	rounds := f.build(t, tournament.ID)
	if len(rounds) != 3 {
		t.Fatalf("got %d rounds, want 3", len(rounds))
	}
	played := make(map[[2]int]int)
	for i, round := range rounds {
		if round.RoundNumber != i+1 {
			t.Errorf("round %d numbered %d", i+1, round.RoundNumber)
		}
		if round.GameID != games[i].ID {
			t.Errorf("round %d plays game %d, want %d", i+1, round.GameID, games[i].ID)
		}
		if len(round.Matchups) != 2 {
			t.Fatalf("round %d has %d matchups, want 2", round.RoundNumber, len(round.Matchups))
		}
		for _, m := range round.Matchups {
			if m.IsBye {
				t.Fatalf("unexpected bye in round %d", round.RoundNumber)
			}
			played[[2]int{m.Team1ID, m.GameID}]++
			played[[2]int{*m.Team2ID, m.GameID}]++
		}
	}
	for _, team := range teams {
		for _, game := range games {
			if played[[2]int{team.ID, game.ID}] != 1 {
				t.Errorf("team %d plays game %d %d times", team.ID, game.ID, played[[2]int{team.ID, game.ID}])
			}
		}
	}

	listed, err := f.tournaments.ListTeams(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i, team := range listed {
		if team.TeamNumber == nil || *team.TeamNumber != i+1 {
			t.Errorf("team %d has number %v, want %d", team.ID, team.TeamNumber, i+1)
		}
	}

	violations, err := f.schedule.ValidateSchedule(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("unexpected violations: %v", violations)
	}
}

func TestBuildScheduleScenarioB(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 5, 3)

	rounds := f.build(t, tournament.ID)
	byeTeams := make(map[int]bool)
	for _, round := range rounds {
		byes := 0
		for _, m := range round.Matchups {
			if !m.IsBye {
				continue
			}
			byes++
			byeTeams[m.Team1ID] = true
			if m.Result != models.ResultTeam1Win || m.State() != models.StateConfirmed {
				t.Errorf("bye in round %d is not confirmed: %s", round.RoundNumber, m.Result)
			}
		}
		if byes != 1 {
			t.Errorf("round %d has %d byes, want 1", round.RoundNumber, byes)
		}
	}
	if len(byeTeams) != 3 {
		t.Errorf("byes went to %d distinct teams, want 3", len(byeTeams))
	}
}

func TestBuildScheduleCoversEveryTeamAndGame(t *testing.T) {
	for teams := 2; teams <= 9; teams++ {
		for games := 1; games <= teams+1; games++ {
			f := newFixture(t)
			tournament, _, _ := f.seed(t, teams, games)
			f.build(t, tournament.ID)
			violations, err := f.schedule.ValidateSchedule(f.ctx, tournament.ID)
			if err != nil {
				t.Fatal(err)
			}
			if len(violations) != 0 {
				t.Fatalf("teams=%d games=%d: %v", teams, games, violations)
			}
		}
	}
}

func TestBuildScheduleValidation(t *testing.T) {
	tests := []struct {
		name  string
		teams int
		games int
		want  error
	}{
		{"no teams", 0, 2, ErrInsufficientTeams},
		{"one team", 1, 2, ErrInsufficientTeams},
		{"no games", 4, 0, ErrNoGames},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tournament, _, _ := f.seed(t, tt.teams, tt.games)
			_, err := f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{})
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			teams, _ := f.tournaments.ListTeams(f.ctx, tournament.ID)
			for _, team := range teams {
				if team.TeamNumber != nil {
					t.Errorf("team %d was numbered by a failed build", team.ID)
				}
			}
		})
	}

	f := newFixture(t)
	if _, err := f.schedule.BuildSchedule(f.ctx, 404, BuildOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown tournament: got %v", err)
	}
	if _, err := f.schedule.BuildSchedule(f.ctx, 404, BuildOptions{RoundLengthMinutes: -5}); !errors.Is(err, ErrInvalidRoundLength) {
		t.Errorf("negative length: got %v", err)
	}
}

func TestBuildScheduleRefusesSecondBuildWithoutRebuild(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 4, 2)
	rounds := f.build(t, tournament.ID)

	_, err := f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{})
	if !errors.Is(err, ErrAlreadyScheduled) || !errors.Is(err, ErrStateConflict) {
		t.Fatalf("expected ErrAlreadyScheduled, got %v", err)
	}

	m := firstRealMatchup(t, rounds)
	if _, err := f.results.ReportResult(f.ctx, m.ID, models.SideTeam1, m.Team1ID, m.Team1ID); err != nil {
		t.Fatal(err)
	}

	rebuilt, err := f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{Rebuild: true})
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(rebuilt) != len(rounds) {
		t.Fatalf("rebuild produced %d rounds, want %d", len(rebuilt), len(rounds))
	}
	for _, round := range rebuilt {
		for _, rm := range round.Matchups {
			if rm.Team1ReportedWin != nil || rm.Team2ReportedWin != nil {
				t.Errorf("matchup %d kept a report across a rebuild", rm.ID)
			}
		}
	}
	if _, err := f.results.GetMatchup(f.ctx, m.ID); !errors.Is(err, ErrMatchupNotFound) {
		t.Errorf("old matchup should be gone, got %v", err)
	}
}

func TestBuildScheduleConcurrentBuildsOneWins(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 6, 4)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{})
		}()
	}
	wg.Wait()

	succeeded, refused := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyScheduled):
			refused++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || refused != 1 {
		t.Fatalf("succeeded=%d refused=%d, want 1 and 1", succeeded, refused)
	}
}

func TestBuildScheduleTiming(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 4, 3)
	start := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)

	rounds, err := f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{StartTime: &start, RoundLengthMinutes: 30})
	if err != nil {
		t.Fatal(err)
	}
	for i, round := range rounds {
		want := start.Add(time.Duration(i*30) * time.Minute)
		if round.StartTime == nil || !round.StartTime.Equal(want) {
			t.Errorf("round %d starts at %v, want %v", round.RoundNumber, round.StartTime, want)
		}
		if round.LengthMinutes != 30 {
			t.Errorf("round %d length %d, want 30", round.RoundNumber, round.LengthMinutes)
		}
	}
}

func TestBuildScheduleDefaultStartIsNextFullHour(t *testing.T) {
	f := newFixture(t)
	f.schedule.now = func() time.Time { return time.Date(2026, 7, 4, 9, 17, 42, 0, time.UTC) }
	tournament, _, _ := f.seed(t, 3, 2)

	rounds := f.build(t, tournament.ID)
	want := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	if !rounds[0].StartTime.Equal(want) {
		t.Errorf("round 1 starts at %v, want %v", rounds[0].StartTime, want)
	}
	if rounds[1].LengthMinutes != DefaultRoundLengthMinutes || !rounds[1].StartTime.Equal(want.Add(45*time.Minute)) {
		t.Errorf("round 2 starts at %v with length %d", rounds[1].StartTime, rounds[1].LengthMinutes)
	}
}

func TestResetSchedule(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 4, 2)
	f.build(t, tournament.ID)
	if _, err := f.schedule.AdvanceCurrentRound(f.ctx, tournament.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.standings.RecomputeStandings(f.ctx, tournament.ID); err != nil {
		t.Fatal(err)
	}

	if err := f.schedule.ResetSchedule(f.ctx, tournament.ID); err != nil {
		t.Fatal(err)
	}

	rounds, _ := f.schedule.ListRounds(f.ctx, tournament.ID)
	if len(rounds) != 0 {
		t.Errorf("%d rounds survived the reset", len(rounds))
	}
	standings, _ := f.standings.ListStandings(f.ctx, tournament.ID)
	if len(standings) != 0 {
		t.Errorf("%d standings survived the reset", len(standings))
	}
	got, _ := f.tournaments.GetTournament(f.ctx, tournament.ID)
	if got.CurrentRoundNumber != nil {
		t.Error("current round survived the reset")
	}
	teams, _ := f.tournaments.ListTeams(f.ctx, tournament.ID)
	for _, team := range teams {
		if team.TeamNumber != nil {
			t.Errorf("team %d kept its number", team.ID)
		}
	}

	err := f.store.Read(f.ctx, func(tx repositories.Tx) error {
		matchups, err := tx.Matchups().ListByTournament(f.ctx, tournament.ID)
		if len(matchups) != 0 {
			t.Errorf("%d matchups survived the reset", len(matchups))
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	// A reset tournament can be scheduled again without the rebuild flag.
	f.build(t, tournament.ID)
}

func TestCurrentRoundPointer(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 4, 2)

	if _, err := f.schedule.AdvanceCurrentRound(f.ctx, tournament.ID); !errors.Is(err, ErrNoMoreRounds) {
		t.Fatalf("advance without rounds: got %v", err)
	}

	f.build(t, tournament.ID)

	if _, err := f.schedule.RetreatCurrentRound(f.ctx, tournament.ID); !errors.Is(err, ErrNoMoreRounds) {
		t.Fatalf("retreat from unset pointer: got %v", err)
	}

	round, err := f.schedule.AdvanceCurrentRound(f.ctx, tournament.ID)
	if err != nil || round.RoundNumber != 1 || !round.IsCurrent {
		t.Fatalf("first advance: round=%+v err=%v", round, err)
	}
	if _, err := f.schedule.RetreatCurrentRound(f.ctx, tournament.ID); !errors.Is(err, ErrNoMoreRounds) {
		t.Fatalf("retreat before round 1: got %v", err)
	}
	round, err = f.schedule.AdvanceCurrentRound(f.ctx, tournament.ID)
	if err != nil || round.RoundNumber != 2 {
		t.Fatalf("second advance: round=%+v err=%v", round, err)
	}
	if _, err := f.schedule.AdvanceCurrentRound(f.ctx, tournament.ID); !errors.Is(err, ErrNoMoreRounds) {
		t.Fatalf("advance past the last round: got %v", err)
	}

	rounds, err := f.schedule.ListRounds(f.ctx, tournament.ID)
	if err != nil {
		t.Fatal(err)
	}
	current := 0
	for _, r := range rounds {
		if r.IsCurrent {
			current++
			if r.RoundNumber != 2 {
				t.Errorf("round %d flagged current, want 2", r.RoundNumber)
			}
		}
	}
	if current != 1 {
		t.Errorf("%d rounds flagged current, want 1", current)
	}

	round, err = f.schedule.RetreatCurrentRound(f.ctx, tournament.ID)
	if err != nil || round.RoundNumber != 1 {
		t.Fatalf("retreat: round=%+v err=%v", round, err)
	}
}

func TestAdjustRoundTiming(t *testing.T) {
	f := newFixture(t)
	tournament, _, _ := f.seed(t, 4, 3)
	start := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	if _, err := f.schedule.BuildSchedule(f.ctx, tournament.ID, BuildOptions{StartTime: &start}); err != nil {
		t.Fatal(err)
	}

	newStart := time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)
	adjusted, err := f.schedule.AdjustRoundTiming(f.ctx, tournament.ID, 2, newStart)
	if err != nil {
		t.Fatal(err)
	}
	if len(adjusted) != 2 {
		t.Fatalf("adjusted %d rounds, want 2", len(adjusted))
	}

	rounds, _ := f.schedule.ListRounds(f.ctx, tournament.ID)
	want := []time.Time{start, newStart, newStart.Add(45 * time.Minute)}
	for i, r := range rounds {
		if !r.StartTime.Equal(want[i]) {
			t.Errorf("round %d starts at %v, want %v", r.RoundNumber, r.StartTime, want[i])
		}
	}

	if _, err := f.schedule.AdjustRoundTiming(f.ctx, tournament.ID, 9, newStart); !errors.Is(err, ErrRoundNotFound) {
		t.Errorf("unknown round: got %v", err)
	}
}

func TestRosterChangesRefusedOnceScheduled(t *testing.T) {
	f := newFixture(t)
	tournament, teams, games := f.seed(t, 3, 2)
	f.build(t, tournament.ID)

	if _, err := f.tournaments.AddTeam(f.ctx, tournament.ID, AddTeamInput{Name: "Late"}); !errors.Is(err, ErrAlreadyScheduled) {
		t.Errorf("add team: got %v", err)
	}
	if err := f.tournaments.RemoveTeam(f.ctx, tournament.ID, teams[0].ID); !errors.Is(err, ErrAlreadyScheduled) {
		t.Errorf("remove team: got %v", err)
	}
	if _, err := f.tournaments.AddGame(f.ctx, tournament.ID, AddGameInput{Name: "Late"}); !errors.Is(err, ErrAlreadyScheduled) {
		t.Errorf("add game: got %v", err)
	}
	if err := f.tournaments.RemoveGame(f.ctx, tournament.ID, games[0].ID); !errors.Is(err, ErrAlreadyScheduled) {
		t.Errorf("remove game: got %v", err)
	}
}
