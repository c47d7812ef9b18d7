package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

type StandingsService interface {
	RecomputeStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	ListStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	// RefreshScheduled recomputes every tournament that has a schedule and returns how many it refreshed.
	RefreshScheduled(ctx context.Context) (int, error)
}

type standingsService struct {
	store  repositories.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewStandingsService(store repositories.Store, logger *slog.Logger) StandingsService {
	return &standingsService{store: store, logger: logger, now: time.Now}
}

func (s *standingsService) RecomputeStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	var result []models.Standing
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		var err error
		result, err = s.recompute(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "standings recomputed", slog.Int("tournament_id", tournamentID), slog.Int("teams", len(result)))
	return result, nil
}

func (s *standingsService) recompute(ctx context.Context, tx repositories.Tx, tournamentID int) ([]models.Standing, error) {
	if _, err := tx.Tournaments().LockForUpdate(ctx, tournamentID); err != nil {
		return nil, mapRepositoryError(err, "lock tournament")
	}
	teams, err := tx.Teams().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err, "list teams")
	}
	matchups, err := tx.Matchups().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err, "list matchups")
	}
	wagers, err := tx.Wagers().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err, "list wagers")
	}

	rows := computeStandings(tournamentID, teams, matchups, wagers)
	now := s.now()
	for _, row := range rows {
		row.UpdatedAt = now
	}

	if err := tx.Standings().DeleteByTournamentID(ctx, tournamentID); err != nil {
		return nil, mapRepositoryError(err, "delete standings")
	}
	if err := tx.Standings().BatchCreate(ctx, rows); err != nil {
		return nil, mapRepositoryError(err, "insert standings")
	}
	return attachTeams(rows, teams), nil
}

func (s *standingsService) ListStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	var result []models.Standing
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Tournaments().GetByID(ctx, tournamentID); err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		var err error
		result, err = loadStandings(ctx, tx, tournamentID)
		return err
	})
	return result, err
}

func loadStandings(ctx context.Context, tx repositories.Tx, tournamentID int) ([]models.Standing, error) {
	rows, err := tx.Standings().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err, "list standings")
	}
	teams, err := tx.Teams().ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, mapRepositoryError(err, "list teams")
	}
	return attachTeams(rows, teams), nil
}

func attachTeams(rows []*models.Standing, teams []*models.Team) []models.Standing {
	byID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	out := make([]models.Standing, 0, len(rows))
	for _, row := range rows {
		standing := *row
		standing.Team = byID[row.TeamID]
		out = append(out, standing)
	}
	return out
}

func (s *standingsService) RefreshScheduled(ctx context.Context) (int, error) {
	var tournaments []*models.Tournament
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		var err error
		tournaments, err = tx.Tournaments().List(ctx)
		return mapRepositoryError(err, "list tournaments")
	})
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, t := range tournaments {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		scheduled := false
		err := s.store.Write(ctx, func(tx repositories.Tx) error {
			count, err := tx.Rounds().CountByTournament(ctx, t.ID)
			if err != nil {
				return mapRepositoryError(err, "count rounds")
			}
			if count == 0 {
				return nil
			}
			scheduled = true
			_, err = s.recompute(ctx, tx, t.ID)
			return err
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "standings refresh failed", slog.Int("tournament_id", t.ID), slog.Any("error", err))
			continue
		}
		if scheduled {
			refreshed++
		}
	}
	return refreshed, nil
}
