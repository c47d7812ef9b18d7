package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

type WagerService interface {
	// PlaceWager creates or replaces the team's wager on a game.
	PlaceWager(ctx context.Context, teamID, gameID, points int) (*models.Wager, error)
	ListTeamWagers(ctx context.Context, teamID int) ([]models.Wager, error)
}

type wagerService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewWagerService(store repositories.Store, logger *slog.Logger) WagerService {
	return &wagerService{store: store, logger: logger}
}

func (s *wagerService) PlaceWager(ctx context.Context, teamID, gameID, points int) (*models.Wager, error) {
	if points < 0 || points > models.MaxWagerPoints {
		return nil, ErrWagerPointsRange
	}

	wager := &models.Wager{TeamID: teamID, GameID: gameID, Points: points}
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		team, err := tx.Teams().GetByID(ctx, teamID)
		if err != nil {
			return mapRepositoryError(err, "get team")
		}
		game, err := tx.Games().GetByID(ctx, gameID)
		if err != nil {
			return mapRepositoryError(err, "get game")
		}
		if game.TournamentID != team.TournamentID {
			return ErrGameNotInTournament
		}
		// Serializes concurrent wagers of one team so the ceiling holds.
		if _, err := tx.Tournaments().LockForUpdate(ctx, team.TournamentID); err != nil {
			return mapRepositoryError(err, "lock tournament")
		}

		existing, err := tx.Wagers().ListByTeam(ctx, teamID)
		if err != nil {
			return mapRepositoryError(err, "list wagers")
		}
		total := points
		for _, w := range existing {
			if w.GameID != gameID {
				total += w.Points
			}
		}
		if total > models.MaxTotalWagerPoints {
			return fmt.Errorf("%w (would total %d)", ErrWagerLimitExceeded, total)
		}

		return mapRepositoryError(tx.Wagers().Upsert(ctx, wager), "upsert wager")
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "wager placed", slog.Int("team_id", teamID), slog.Int("game_id", gameID), slog.Int("points", points))
	return wager, nil
}

func (s *wagerService) ListTeamWagers(ctx context.Context, teamID int) ([]models.Wager, error) {
	var wagers []models.Wager
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Teams().GetByID(ctx, teamID); err != nil {
			return mapRepositoryError(err, "get team")
		}
		list, err := tx.Wagers().ListByTeam(ctx, teamID)
		if err != nil {
			return mapRepositoryError(err, "list wagers")
		}
		wagers = make([]models.Wager, 0, len(list))
		for _, w := range list {
			wagers = append(wagers, *w)
		}
		return nil
	})
	return wagers, err
}
