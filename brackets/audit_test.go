package brackets

import (
	"context"
	"strings"
	"testing"
)

func TestAuditScheduleAcceptsGeneratedPlans(t *testing.T) {
	for n := 2; n <= 15; n++ {
		for g := 1; g <= n+2; g++ {
			teams, games := makeTeams(n), makeGames(g)
			plan, err := NewRoundRobinGenerator().GenerateSchedule(context.Background(), GenerateScheduleParams{Seats: teams, Games: games})
			if err != nil {
				t.Fatal(err)
			}
			if v := AuditSchedule(SnapshotFromPlan(teams, games, plan)); len(v) != 0 {
				t.Fatalf("n=%d games=%d: unexpected violations %v", n, g, v)
			}
		}
	}
}

func TestAuditScheduleReportsBrokenPlans(t *testing.T) {
	teams, games := makeTeams(4), makeGames(2)
	plan, _ := NewRoundRobinGenerator().GenerateSchedule(context.Background(), GenerateScheduleParams{Seats: teams, Games: games})

	// Replay round one as round two: coverage still holds per game but opponents repeat.
	plan[1].Pairings = plan[0].Pairings
	violations := AuditSchedule(SnapshotFromPlan(teams, games, plan))
	if !containsViolation(violations, "meet again") {
		t.Errorf("expected a repeated opponent violation, got %v", violations)
	}

	// Drop a matchup: two teams miss the second game.
	plan, _ = NewRoundRobinGenerator().GenerateSchedule(context.Background(), GenerateScheduleParams{Seats: teams, Games: games})
	plan[1].Pairings = plan[1].Pairings[:1]
	violations = AuditSchedule(SnapshotFromPlan(teams, games, plan))
	if !containsViolation(violations, "0 times") {
		t.Errorf("expected a coverage violation, got %v", violations)
	}
}

func TestAuditScheduleConsecutiveByes(t *testing.T) {
	teams, games := makeTeams(3), makeGames(2)
	plan, _ := NewRoundRobinGenerator().GenerateSchedule(context.Background(), GenerateScheduleParams{Seats: teams, Games: games})
	plan[1].Pairings = plan[0].Pairings
	violations := AuditSchedule(SnapshotFromPlan(teams, games, plan))
	if !containsViolation(violations, "consecutive") {
		t.Errorf("expected a consecutive bye violation, got %v", violations)
	}
}

func containsViolation(violations []string, fragment string) bool {
	for _, v := range violations {
		if strings.Contains(v, fragment) {
			return true
		}
	}
	return false
}
