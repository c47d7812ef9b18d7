package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
)

type postgresWagerRepository struct {
	exec SQLExecutor
}

func (r *postgresWagerRepository) Upsert(ctx context.Context, w *models.Wager) error {
	query := `
		INSERT INTO wagers (team_id, game_id, points, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, game_id) DO UPDATE SET points = EXCLUDED.points, updated_at = EXCLUDED.updated_at
		RETURNING id`
	w.UpdatedAt = time.Now()
	err := r.exec.QueryRowContext(ctx, query, w.TeamID, w.GameID, w.Points, w.UpdatedAt).Scan(&w.ID)
	return mapPQError(err, constraintErrors{
		"wagers_team_id_fkey": ErrTeamNotFound,
		"wagers_game_id_fkey": ErrGameNotFound,
	}, nil)
}

func (r *postgresWagerRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Wager, error) {
	query := `SELECT id, team_id, game_id, points, updated_at FROM wagers WHERE team_id = $1 ORDER BY game_id ASC`
	return r.list(ctx, query, teamID)
}

func (r *postgresWagerRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Wager, error) {
	query := `
		SELECT w.id, w.team_id, w.game_id, w.points, w.updated_at
		FROM wagers w
		JOIN teams t ON t.id = w.team_id
		WHERE t.tournament_id = $1
		ORDER BY w.team_id ASC, w.game_id ASC`
	return r.list(ctx, query, tournamentID)
}

func (r *postgresWagerRepository) list(ctx context.Context, query string, arg int) ([]*models.Wager, error) {
	rows, err := r.exec.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}
	defer rows.Close()

	wagers := make([]*models.Wager, 0)
	for rows.Next() {
		w := &models.Wager{}
		if err := rows.Scan(&w.ID, &w.TeamID, &w.GameID, &w.Points, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wager row: %w", err)
		}
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wager rows: %w", err)
	}
	return wagers, nil
}
