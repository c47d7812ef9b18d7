package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/models"
)

const gameColumns = `id, tournament_id, name, description, created_at`

type postgresGameRepository struct {
	exec SQLExecutor
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (tournament_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query, game.TournamentID, game.Name, game.Description).Scan(&game.ID, &game.CreatedAt)
	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game := &models.Game{}
	err := r.exec.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id).Scan(
		&game.ID, &game.TournamentID, &game.Name, &game.Description, &game.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game %d: %w", id, err)
	}
	return game, nil
}

func (r *postgresGameRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Game, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT `+gameColumns+` FROM games WHERE tournament_id = $1 ORDER BY id ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game := &models.Game{}
		if err := rows.Scan(&game.ID, &game.TournamentID, &game.Name, &game.Description, &game.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.exec.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) handleGameError(err error) error {
	return mapPQError(err, constraintErrors{
		"games_tournament_id_name_key": ErrGameNameConflict,
		"games_tournament_id_fkey":     ErrTournamentNotFound,
		"rounds_game_id_fkey":          ErrGameInUse,
		"matchups_game_id_fkey":        ErrGameInUse,
	}, nil)
}
