package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
)

const roundColumns = `id, tournament_id, round_number, game_id, start_time, length_minutes, created_at`

type postgresRoundRepository struct {
	exec SQLExecutor
}

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	query := `
		INSERT INTO rounds (tournament_id, round_number, game_id, start_time, length_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query,
		round.TournamentID, round.RoundNumber, round.GameID, round.StartTime, round.LengthMinutes,
	).Scan(&round.ID, &round.CreatedAt)
	return mapPQError(err, constraintErrors{
		"rounds_tournament_id_round_number_key": ErrRoundNumberConflict,
		"rounds_game_id_fkey":                   ErrGameNotFound,
		"rounds_tournament_id_fkey":             ErrTournamentNotFound,
	}, nil)
}

func (r *postgresRoundRepository) GetByNumber(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE tournament_id = $1 AND round_number = $2`
	round, err := scanRound(r.exec.QueryRowContext(ctx, query, tournamentID, roundNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round %d of tournament %d: %w", roundNumber, tournamentID, err)
	}
	return round, nil
}

func (r *postgresRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE tournament_id = $1 ORDER BY round_number ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round rows: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds WHERE tournament_id = $1`, tournamentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds of tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresRoundRepository) UpdateStartTime(ctx context.Context, id int, startTime *time.Time) error {
	result, err := r.exec.ExecContext(ctx, `UPDATE rounds SET start_time = $1 WHERE id = $2`, startTime, id)
	if err != nil {
		return fmt.Errorf("failed to update start time of round %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) DeleteByTournament(ctx context.Context, tournamentID int) error {
	_, err := r.exec.ExecContext(ctx, `DELETE FROM rounds WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete rounds of tournament %d: %w", tournamentID, err)
	}
	return nil
}

func scanRound(row rowScanner) (*models.Round, error) {
	round := &models.Round{}
	var startTime sql.NullTime
	if err := row.Scan(&round.ID, &round.TournamentID, &round.RoundNumber, &round.GameID, &startTime, &round.LengthMinutes, &round.CreatedAt); err != nil {
		return nil, err
	}
	if startTime.Valid {
		st := startTime.Time
		round.StartTime = &st
	}
	return round, nil
}
