package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/models"
)

const tournamentColumns = `id, name, description, slug, current_round_number, created_at`

type postgresTournamentRepository struct {
	exec SQLExecutor
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, description, slug)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query, t.Name, t.Description, t.Slug).Scan(&t.ID, &t.CreatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id)
}

func (r *postgresTournamentRepository) LockForUpdate(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresTournamentRepository) LockForShare(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR SHARE`, id)
}

func (r *postgresTournamentRepository) getOne(ctx context.Context, query string, id int) (*models.Tournament, error) {
	t, err := scanTournament(r.exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT `+tournamentColumns+` FROM tournaments ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) SetCurrentRound(ctx context.Context, id int, roundNumber *int) error {
	result, err := r.exec.ExecContext(ctx, `UPDATE tournaments SET current_round_number = $1 WHERE id = $2`, roundNumber, id)
	if err != nil {
		return fmt.Errorf("failed to set current round of tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	return mapPQError(err, constraintErrors{
		"tournaments_slug_key": ErrTournamentSlugConflict,
	}, nil)
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	var currentRound sql.NullInt64
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Slug, &currentRound, &t.CreatedAt); err != nil {
		return nil, err
	}
	if currentRound.Valid {
		n := int(currentRound.Int64)
		t.CurrentRoundNumber = &n
	}
	return t, nil
}
