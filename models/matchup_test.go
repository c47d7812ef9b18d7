package models

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestMatchupState(t *testing.T) {
	team2 := 7
	tests := []struct {
		name string
		m    Matchup
		want MatchupState
	}{
		{"fresh", Matchup{Result: ResultPending}, StateAwaitingFirstReport},
		{"one report", Matchup{Result: ResultPending, Team2ReportedWin: boolPtr(false)}, StateAwaitingConfirm},
		{"conflict", Matchup{Result: ResultPending, Team1ReportedWin: boolPtr(true), Team2ReportedWin: boolPtr(true), ConflictFlag: true}, StateConflicted},
		{"confirmed", Matchup{Result: ResultTeam2Win, Team2ID: &team2}, StateConfirmed},
		{"bye", Matchup{Result: ResultTeam1Win, IsBye: true}, StateConfirmed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.State(); got != tt.want {
				t.Errorf("State() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMatchupWinnerAndSides(t *testing.T) {
	team2 := 9
	m := Matchup{Team1ID: 4, Team2ID: &team2, Result: ResultTeam2Win}

	if w := m.WinnerID(); w == nil || *w != 9 {
		t.Fatalf("WinnerID() = %v, want 9", w)
	}
	if side, ok := m.SideOf(4); !ok || side != SideTeam1 {
		t.Errorf("SideOf(4) = %s, %v", side, ok)
	}
	if _, ok := m.SideOf(5); ok {
		t.Error("SideOf(5) reported a side for a team that does not play")
	}

	bye := Matchup{Team1ID: 4, IsBye: true, Result: ResultTeam1Win}
	if bye.TeamOnSide(SideTeam2) != nil {
		t.Error("bye should have no team on side two")
	}
}
