package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const maxSlugAttempts = 20

type CreateTournamentInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type AddTeamInput struct {
	Name    string `json:"name"`
	Members string `json:"members"`
}

type AddGameInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetFullTournament(ctx context.Context, id int) (*models.Tournament, error)

	AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error)
	RemoveTeam(ctx context.Context, tournamentID, teamID int) error
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	GetTeamByAccessToken(ctx context.Context, token uuid.UUID) (*models.Team, error)

	AddGame(ctx context.Context, tournamentID int, input AddGameInput) (*models.Game, error)
	RemoveGame(ctx context.Context, tournamentID, gameID int) error
}

type tournamentService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewTournamentService(store repositories.Store, logger *slog.Logger) TournamentService {
	return &tournamentService{store: store, logger: logger}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	base := slug.Make(name)
	if base == "" {
		base = "tournament"
	}

	// Each attempt is its own transaction: a failed insert aborts a Postgres transaction.
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		tournament := &models.Tournament{Name: name, Description: input.Description, Slug: candidate}
		err := s.store.Write(ctx, func(tx repositories.Tx) error {
			return tx.Tournaments().Create(ctx, tournament)
		})
		if errors.Is(err, repositories.ErrTournamentSlugConflict) {
			continue
		}
		if err != nil {
			return nil, mapRepositoryError(err, "create tournament")
		}
		s.logger.InfoContext(ctx, "tournament created", slog.Int("tournament_id", tournament.ID), slog.String("slug", tournament.Slug))
		return tournament, nil
	}
	return nil, fmt.Errorf("%w: no free slug for %q", ErrNameConflict, name)
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		var err error
		tournament, err = tx.Tournaments().GetByID(ctx, id)
		return mapRepositoryError(err, "get tournament")
	})
	return tournament, err
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		list, err := tx.Tournaments().List(ctx)
		if err != nil {
			return mapRepositoryError(err, "list tournaments")
		}
		tournaments = make([]models.Tournament, 0, len(list))
		for _, t := range list {
			tournaments = append(tournaments, *t)
		}
		return nil
	})
	return tournaments, err
}

// GetFullTournament loads teams, games, rounds with matchups and standings in parallel.
// Each part is read in its own transaction.
func (s *tournamentService) GetFullTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.store.Read(gCtx, func(tx repositories.Tx) error {
			teams, err := tx.Teams().ListByTournament(gCtx, id)
			if err != nil {
				return mapRepositoryError(err, "list teams")
			}
			tournament.Teams = make([]models.Team, 0, len(teams))
			for _, t := range teams {
				tournament.Teams = append(tournament.Teams, *t)
			}
			return nil
		})
	})

	g.Go(func() error {
		return s.store.Read(gCtx, func(tx repositories.Tx) error {
			games, err := tx.Games().ListByTournament(gCtx, id)
			if err != nil {
				return mapRepositoryError(err, "list games")
			}
			tournament.Games = make([]models.Game, 0, len(games))
			for _, game := range games {
				tournament.Games = append(tournament.Games, *game)
			}
			return nil
		})
	})

	g.Go(func() error {
		return s.store.Read(gCtx, func(tx repositories.Tx) error {
			rounds, err := loadRounds(gCtx, tx, tournament)
			if err != nil {
				return err
			}
			tournament.Rounds = rounds
			return nil
		})
	})

	g.Go(func() error {
		return s.store.Read(gCtx, func(tx repositories.Tx) error {
			standings, err := loadStandings(gCtx, tx, id)
			if err != nil {
				return err
			}
			tournament.Standings = standings
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to load full tournament", slog.Int("tournament_id", id), slog.Any("error", err))
		return nil, err
	}
	return tournament, nil
}

// ensureUnscheduled refuses roster changes once rounds exist; they would break game coverage.
func ensureUnscheduled(ctx context.Context, tx repositories.Tx, tournamentID int) error {
	if _, err := tx.Tournaments().LockForUpdate(ctx, tournamentID); err != nil {
		return mapRepositoryError(err, "lock tournament")
	}
	count, err := tx.Rounds().CountByTournament(ctx, tournamentID)
	if err != nil {
		return mapRepositoryError(err, "count rounds")
	}
	if count > 0 {
		return ErrAlreadyScheduled
	}
	return nil
}

func (s *tournamentService) AddTeam(ctx context.Context, tournamentID int, input AddTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	team := &models.Team{
		TournamentID: tournamentID,
		Name:         name,
		Members:      strings.TrimSpace(input.Members),
		AccessToken:  uuid.New(),
	}
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		if err := ensureUnscheduled(ctx, tx, tournamentID); err != nil {
			return err
		}
		return mapRepositoryError(tx.Teams().Create(ctx, team), "create team")
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "team added", slog.Int("tournament_id", tournamentID), slog.Int("team_id", team.ID))
	return team, nil
}

func (s *tournamentService) RemoveTeam(ctx context.Context, tournamentID, teamID int) error {
	return s.store.Write(ctx, func(tx repositories.Tx) error {
		team, err := tx.Teams().GetByID(ctx, teamID)
		if err != nil {
			return mapRepositoryError(err, "get team")
		}
		if team.TournamentID != tournamentID {
			return ErrTeamNotFound
		}
		if err := ensureUnscheduled(ctx, tx, tournamentID); err != nil {
			return err
		}
		return mapRepositoryError(tx.Teams().Delete(ctx, teamID), "delete team")
	})
}

func (s *tournamentService) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	var teams []models.Team
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Tournaments().GetByID(ctx, tournamentID); err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		list, err := tx.Teams().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list teams")
		}
		teams = make([]models.Team, 0, len(list))
		for _, t := range list {
			teams = append(teams, *t)
		}
		return nil
	})
	return teams, err
}

func (s *tournamentService) GetTeamByAccessToken(ctx context.Context, token uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		var err error
		team, err = tx.Teams().GetByAccessToken(ctx, token)
		return mapRepositoryError(err, "get team by token")
	})
	return team, err
}

func (s *tournamentService) AddGame(ctx context.Context, tournamentID int, input AddGameInput) (*models.Game, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	game := &models.Game{TournamentID: tournamentID, Name: name, Description: input.Description}
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		if err := ensureUnscheduled(ctx, tx, tournamentID); err != nil {
			return err
		}
		return mapRepositoryError(tx.Games().Create(ctx, game), "create game")
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "game added", slog.Int("tournament_id", tournamentID), slog.Int("game_id", game.ID))
	return game, nil
}

func (s *tournamentService) RemoveGame(ctx context.Context, tournamentID, gameID int) error {
	return s.store.Write(ctx, func(tx repositories.Tx) error {
		game, err := tx.Games().GetByID(ctx, gameID)
		if err != nil {
			return mapRepositoryError(err, "get game")
		}
		if game.TournamentID != tournamentID {
			return ErrGameNotFound
		}
		if err := ensureUnscheduled(ctx, tx, tournamentID); err != nil {
			return err
		}
		return mapRepositoryError(tx.Games().Delete(ctx, gameID), "delete game")
	})
}
