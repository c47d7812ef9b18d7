package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
)

type postgresStandingRepository struct {
	exec SQLExecutor
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	query := `
		SELECT id, tournament_id, team_id, wins, losses, wager_points, total_points, rank, updated_at
		FROM standings
		WHERE tournament_id = $1
		ORDER BY rank ASC, team_id ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		s := &models.Standing{}
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.TeamID, &s.Wins, &s.Losses, &s.WagerPoints, &s.TotalPoints, &s.Rank, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standing rows: %w", err)
	}
	return standings, nil
}

// BatchCreate expects to run inside the transaction that deleted the previous rows.
func (r *postgresStandingRepository) BatchCreate(ctx context.Context, standings []*models.Standing) error {
	query := `
		INSERT INTO standings (tournament_id, team_id, wins, losses, wager_points, total_points, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	for _, s := range standings {
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = time.Now()
		}
		err := r.exec.QueryRowContext(ctx, query,
			s.TournamentID, s.TeamID, s.Wins, s.Losses, s.WagerPoints, s.TotalPoints, s.Rank, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("BatchCreate failed for team %d: %w", s.TeamID, mapPQError(err, constraintErrors{
				"standings_team_id_fkey":              ErrTeamNotFound,
				"standings_tournament_id_team_id_key": ErrStandingConflict,
			}, nil))
		}
	}
	return nil
}

func (r *postgresStandingRepository) DeleteByTournamentID(ctx context.Context, tournamentID int) error {
	_, err := r.exec.ExecContext(ctx, `DELETE FROM standings WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete standings of tournament %d: %w", tournamentID, err)
	}
	return nil
}
