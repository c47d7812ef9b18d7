package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

type ResultService interface {
	// ReportResult records a report on behalf of side. reportingTeamID must be the team on that side.
	ReportResult(ctx context.Context, matchupID int, side models.Side, reportingTeamID, claimedWinnerID int) (*models.Matchup, error)
	// ReportAsTeam derives the side from the reporting team.
	ReportAsTeam(ctx context.Context, matchupID, teamID, claimedWinnerID int) (*models.Matchup, error)
	ResolveConflict(ctx context.Context, matchupID, winnerID int, note string) (*models.Matchup, error)
	ResetMatchup(ctx context.Context, matchupID int) (*models.Matchup, error)
	GetMatchup(ctx context.Context, matchupID int) (*models.Matchup, error)
}

type resultService struct {
	store  repositories.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewResultService(store repositories.Store, logger *slog.Logger) ResultService {
	return &resultService{store: store, logger: logger, now: time.Now}
}

func (s *resultService) ReportResult(ctx context.Context, matchupID int, side models.Side, reportingTeamID, claimedWinnerID int) (*models.Matchup, error) {
	m, err := s.transition(ctx, matchupID, func(m *models.Matchup, at time.Time) error {
		return applyReport(m, side, reportingTeamID, claimedWinnerID, at)
	})
	if err != nil {
		return nil, err
	}
	s.logReport(ctx, m, reportingTeamID)
	return m, nil
}

func (s *resultService) ReportAsTeam(ctx context.Context, matchupID, teamID, claimedWinnerID int) (*models.Matchup, error) {
	m, err := s.transition(ctx, matchupID, func(m *models.Matchup, at time.Time) error {
		if m.IsBye {
			return ErrByeMatchup
		}
		side, ok := m.SideOf(teamID)
		if !ok {
			return ErrNotAParticipant
		}
		return applyReport(m, side, teamID, claimedWinnerID, at)
	})
	if err != nil {
		return nil, err
	}
	s.logReport(ctx, m, teamID)
	return m, nil
}

func (s *resultService) logReport(ctx context.Context, m *models.Matchup, teamID int) {
	state := m.State()
	level := slog.LevelInfo
	if state == models.StateConflicted {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "matchup result reported",
		slog.Int("matchup_id", m.ID),
		slog.Int("tournament_id", m.TournamentID),
		slog.Int("team_id", teamID),
		slog.String("state", string(state)),
	)
}

func (s *resultService) ResolveConflict(ctx context.Context, matchupID, winnerID int, note string) (*models.Matchup, error) {
	m, err := s.transition(ctx, matchupID, func(m *models.Matchup, at time.Time) error {
		return applyResolve(m, winnerID, note, at)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "matchup conflict resolved", slog.Int("matchup_id", m.ID), slog.Int("winner_team_id", winnerID))
	return m, nil
}

func (s *resultService) ResetMatchup(ctx context.Context, matchupID int) (*models.Matchup, error) {
	m, err := s.transition(ctx, matchupID, func(m *models.Matchup, at time.Time) error {
		applyReset(m, at)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "matchup reset", slog.Int("matchup_id", m.ID))
	return m, nil
}

func (s *resultService) GetMatchup(ctx context.Context, matchupID int) (*models.Matchup, error) {
	var m *models.Matchup
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		var err error
		m, err = tx.Matchups().GetByID(ctx, matchupID)
		return mapRepositoryError(err, "get matchup")
	})
	return m, err
}

// transition locks the tournament for share and the matchup for update, applies fn and
// persists the result. Nothing is written when fn fails.
func (s *resultService) transition(ctx context.Context, matchupID int, fn func(m *models.Matchup, at time.Time) error) (*models.Matchup, error) {
	var updated *models.Matchup
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		peek, err := tx.Matchups().GetByID(ctx, matchupID)
		if err != nil {
			return mapRepositoryError(err, "get matchup")
		}
		if _, err := tx.Tournaments().LockForShare(ctx, peek.TournamentID); err != nil {
			return mapRepositoryError(err, "lock tournament")
		}
		m, err := tx.Matchups().LockForUpdate(ctx, matchupID)
		if err != nil {
			return mapRepositoryError(err, "lock matchup")
		}
		if err := fn(m, s.now()); err != nil {
			return err
		}
		if err := tx.Matchups().UpdateResult(ctx, m); err != nil {
			return mapRepositoryError(err, "update matchup")
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
