package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/backyard-olympics/brackets"
	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/repositories"
)

const DefaultRoundLengthMinutes = 45

type BuildOptions struct {
	// Rebuild discards an existing schedule. Without it a scheduled tournament is refused.
	Rebuild bool
	// StartTime of round 1. Defaults to the next full hour.
	StartTime *time.Time
	// RoundLengthMinutes defaults to the service's configured length when zero.
	RoundLengthMinutes int
}

type ScheduleService interface {
	BuildSchedule(ctx context.Context, tournamentID int, opts BuildOptions) ([]models.Round, error)
	ResetSchedule(ctx context.Context, tournamentID int) error
	ValidateSchedule(ctx context.Context, tournamentID int) ([]string, error)
	ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error)
	AdvanceCurrentRound(ctx context.Context, tournamentID int) (*models.Round, error)
	RetreatCurrentRound(ctx context.Context, tournamentID int) (*models.Round, error)
	AdjustRoundTiming(ctx context.Context, tournamentID, roundNumber int, newStart time.Time) ([]models.Round, error)
}

type scheduleService struct {
	store              repositories.Store
	generator          brackets.ScheduleGenerator
	defaultRoundLength int
	logger             *slog.Logger
	now                func() time.Time
}

func NewScheduleService(
	store repositories.Store,
	generator brackets.ScheduleGenerator,
	defaultRoundLength int,
	logger *slog.Logger,
) ScheduleService {
	if defaultRoundLength <= 0 {
		defaultRoundLength = DefaultRoundLengthMinutes
	}
	return &scheduleService{
		store:              store,
		generator:          generator,
		defaultRoundLength: defaultRoundLength,
		logger:             logger,
		now:                time.Now,
	}
}

func (s *scheduleService) BuildSchedule(ctx context.Context, tournamentID int, opts BuildOptions) ([]models.Round, error) {
	if opts.RoundLengthMinutes < 0 {
		return nil, ErrInvalidRoundLength
	}
	length := opts.RoundLengthMinutes
	if length == 0 {
		length = s.defaultRoundLength
	}
	start := nextFullHour(s.now())
	if opts.StartTime != nil {
		start = *opts.StartTime
	}

	var built []models.Round
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		tournament, err := tx.Tournaments().LockForUpdate(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "lock tournament")
		}

		seats, err := tx.Teams().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list teams")
		}
		games, err := tx.Games().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list games")
		}
		if len(seats) < 2 {
			return fmt.Errorf("%w (got %d)", ErrInsufficientTeams, len(seats))
		}
		if len(games) < 1 {
			return ErrNoGames
		}

		existing, err := tx.Rounds().CountByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "count rounds")
		}
		if existing > 0 {
			if !opts.Rebuild {
				return ErrAlreadyScheduled
			}
			if err := clearSchedule(ctx, tx, tournamentID); err != nil {
				return err
			}
		}

		// Seats keep their previous numbering; new teams follow in id order.
		for i, team := range seats {
			team.TeamNumber = intPtr(i + 1)
			if err := tx.Teams().SetTeamNumber(ctx, team.ID, team.TeamNumber); err != nil {
				return mapRepositoryError(err, "number team")
			}
		}

		plan, err := s.generator.GenerateSchedule(ctx, brackets.GenerateScheduleParams{
			Tournament: tournament,
			Seats:      seats,
			Games:      games,
		})
		if err != nil {
			return mapGeneratorError(err)
		}

		built = make([]models.Round, 0, len(plan))
		for _, scheduled := range plan {
			roundStart := start.Add(time.Duration((scheduled.RoundNumber-1)*length) * time.Minute)
			round := &models.Round{
				TournamentID:  tournamentID,
				RoundNumber:   scheduled.RoundNumber,
				GameID:        scheduled.Game.ID,
				StartTime:     &roundStart,
				LengthMinutes: length,
			}
			if err := tx.Rounds().Create(ctx, round); err != nil {
				return mapRepositoryError(err, "create round")
			}
			for _, pairing := range scheduled.Pairings {
				matchup := newMatchup(tournamentID, round, pairing)
				if err := tx.Matchups().Create(ctx, matchup); err != nil {
					return mapRepositoryError(err, "create matchup")
				}
				round.Matchups = append(round.Matchups, *matchup)
			}
			built = append(built, *round)
		}

		if err := tx.Tournaments().SetCurrentRound(ctx, tournamentID, nil); err != nil {
			return mapRepositoryError(err, "clear current round")
		}

		snapshot, err := loadSnapshot(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if violations := brackets.AuditSchedule(snapshot); len(violations) > 0 {
			return fmt.Errorf("%w: %s", ErrInvariantViolation, strings.Join(violations, "; "))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvariantViolation) {
			s.logger.ErrorContext(ctx, "built schedule failed its audit", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "schedule built",
		slog.Int("tournament_id", tournamentID),
		slog.Int("rounds", len(built)),
		slog.Bool("rebuild", opts.Rebuild),
		slog.String("generator", s.generator.GetName()),
	)
	return built, nil
}

func newMatchup(tournamentID int, round *models.Round, pairing brackets.Pairing) *models.Matchup {
	matchup := &models.Matchup{
		TournamentID: tournamentID,
		RoundID:      round.ID,
		GameID:       round.GameID,
		Team1ID:      pairing.Team1.ID,
		Result:       models.ResultPending,
	}
	if pairing.IsBye() {
		// Byes have no reporting phase.
		matchup.IsBye = true
		matchup.Result = models.ResultTeam1Win
		return matchup
	}
	matchup.Team2ID = intPtr(pairing.Team2.ID)
	return matchup
}

func mapGeneratorError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrInsufficientTeams):
		return fmt.Errorf("%w (%v)", ErrInsufficientTeams, err)
	case errors.Is(err, brackets.ErrNoGames):
		return ErrNoGames
	}
	return fmt.Errorf("generate schedule: %w", err)
}

// clearSchedule removes rounds, matchups and standings and clears seat numbers and the
// current-round pointer.
func clearSchedule(ctx context.Context, tx repositories.Tx, tournamentID int) error {
	if err := tx.Rounds().DeleteByTournament(ctx, tournamentID); err != nil {
		return mapRepositoryError(err, "delete rounds")
	}
	if err := tx.Standings().DeleteByTournamentID(ctx, tournamentID); err != nil {
		return mapRepositoryError(err, "delete standings")
	}
	if err := tx.Teams().ClearTeamNumbers(ctx, tournamentID); err != nil {
		return mapRepositoryError(err, "clear team numbers")
	}
	if err := tx.Tournaments().SetCurrentRound(ctx, tournamentID, nil); err != nil {
		return mapRepositoryError(err, "clear current round")
	}
	return nil
}

func (s *scheduleService) ResetSchedule(ctx context.Context, tournamentID int) error {
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Tournaments().LockForUpdate(ctx, tournamentID); err != nil {
			return mapRepositoryError(err, "lock tournament")
		}
		return clearSchedule(ctx, tx, tournamentID)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "schedule reset", slog.Int("tournament_id", tournamentID))
	return nil
}

// ValidateSchedule audits the persisted schedule. An unscheduled tournament has no violations.
func (s *scheduleService) ValidateSchedule(ctx context.Context, tournamentID int) ([]string, error) {
	var violations []string
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		if _, err := tx.Tournaments().GetByID(ctx, tournamentID); err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		snapshot, err := loadSnapshot(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		if len(snapshot.Rounds) == 0 {
			violations = []string{}
			return nil
		}
		violations = brackets.AuditSchedule(snapshot)
		return nil
	})
	return violations, err
}

func loadSnapshot(ctx context.Context, tx repositories.Tx, tournamentID int) (brackets.ScheduleSnapshot, error) {
	var snapshot brackets.ScheduleSnapshot
	teams, err := tx.Teams().ListByTournament(ctx, tournamentID)
	if err != nil {
		return snapshot, mapRepositoryError(err, "list teams")
	}
	games, err := tx.Games().ListByTournament(ctx, tournamentID)
	if err != nil {
		return snapshot, mapRepositoryError(err, "list games")
	}
	rounds, err := tx.Rounds().ListByTournament(ctx, tournamentID)
	if err != nil {
		return snapshot, mapRepositoryError(err, "list rounds")
	}
	matchups, err := tx.Matchups().ListByTournament(ctx, tournamentID)
	if err != nil {
		return snapshot, mapRepositoryError(err, "list matchups")
	}
	for _, t := range teams {
		snapshot.Teams = append(snapshot.Teams, *t)
	}
	for _, g := range games {
		snapshot.Games = append(snapshot.Games, *g)
	}
	for _, r := range rounds {
		snapshot.Rounds = append(snapshot.Rounds, *r)
	}
	for _, m := range matchups {
		snapshot.Matchups = append(snapshot.Matchups, *m)
	}
	return snapshot, nil
}

// ListRounds returns the rounds in order with their matchups and the current flag filled in.
func (s *scheduleService) ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error) {
	var rounds []models.Round
	err := s.store.Read(ctx, func(tx repositories.Tx) error {
		tournament, err := tx.Tournaments().GetByID(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "get tournament")
		}
		rounds, err = loadRounds(ctx, tx, tournament)
		return err
	})
	return rounds, err
}

func loadRounds(ctx context.Context, tx repositories.Tx, tournament *models.Tournament) ([]models.Round, error) {
	stored, err := tx.Rounds().ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, mapRepositoryError(err, "list rounds")
	}
	matchups, err := tx.Matchups().ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, mapRepositoryError(err, "list matchups")
	}
	byRound := make(map[int][]models.Matchup, len(stored))
	for _, m := range matchups {
		byRound[m.RoundID] = append(byRound[m.RoundID], *m)
	}
	rounds := make([]models.Round, 0, len(stored))
	for _, r := range stored {
		r.IsCurrent = tournament.IsCurrentRound(r.RoundNumber)
		r.Matchups = byRound[r.ID]
		rounds = append(rounds, *r)
	}
	return rounds, nil
}

func (s *scheduleService) AdvanceCurrentRound(ctx context.Context, tournamentID int) (*models.Round, error) {
	return s.moveCurrentRound(ctx, tournamentID, 1)
}

func (s *scheduleService) RetreatCurrentRound(ctx context.Context, tournamentID int) (*models.Round, error) {
	return s.moveCurrentRound(ctx, tournamentID, -1)
}

// moveCurrentRound steps the pointer by delta. An unset pointer can only advance, to round 1.
func (s *scheduleService) moveCurrentRound(ctx context.Context, tournamentID, delta int) (*models.Round, error) {
	var current *models.Round
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		tournament, err := tx.Tournaments().LockForUpdate(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "lock tournament")
		}
		count, err := tx.Rounds().CountByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "count rounds")
		}

		var next int
		switch {
		case tournament.CurrentRoundNumber == nil && delta > 0:
			next = 1
		case tournament.CurrentRoundNumber == nil:
			return ErrNoMoreRounds
		default:
			next = *tournament.CurrentRoundNumber + delta
		}
		if next < 1 || next > count {
			return ErrNoMoreRounds
		}

		if err := tx.Tournaments().SetCurrentRound(ctx, tournamentID, &next); err != nil {
			return mapRepositoryError(err, "set current round")
		}
		current, err = tx.Rounds().GetByNumber(ctx, tournamentID, next)
		if err != nil {
			return mapRepositoryError(err, "get round")
		}
		current.IsCurrent = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "current round changed", slog.Int("tournament_id", tournamentID), slog.Int("round_number", current.RoundNumber))
	return current, nil
}

// AdjustRoundTiming moves roundNumber to newStart and chains every later round after it.
func (s *scheduleService) AdjustRoundTiming(ctx context.Context, tournamentID, roundNumber int, newStart time.Time) ([]models.Round, error) {
	var adjusted []models.Round
	err := s.store.Write(ctx, func(tx repositories.Tx) error {
		tournament, err := tx.Tournaments().LockForUpdate(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "lock tournament")
		}
		rounds, err := tx.Rounds().ListByTournament(ctx, tournamentID)
		if err != nil {
			return mapRepositoryError(err, "list rounds")
		}

		start := newStart
		found := false
		for _, r := range rounds {
			if r.RoundNumber == roundNumber {
				found = true
			}
			if !found {
				continue
			}
			roundStart := start
			if err := tx.Rounds().UpdateStartTime(ctx, r.ID, &roundStart); err != nil {
				return mapRepositoryError(err, "update round start")
			}
			r.StartTime = &roundStart
			r.IsCurrent = tournament.IsCurrentRound(r.RoundNumber)
			adjusted = append(adjusted, *r)
			start = start.Add(time.Duration(r.LengthMinutes) * time.Minute)
		}
		if !found {
			return fmt.Errorf("%w: round %d", ErrRoundNotFound, roundNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "round timing adjusted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("from_round", roundNumber),
		slog.Int("rounds_shifted", len(adjusted)),
	)
	return adjusted, nil
}

func nextFullHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
