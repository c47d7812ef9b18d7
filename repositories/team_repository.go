package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/google/uuid"
)

const teamColumns = `id, tournament_id, name, members, team_number, access_token, created_at`

type postgresTeamRepository struct {
	exec SQLExecutor
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name, members, team_number, access_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query,
		team.TournamentID, team.Name, team.Members, team.TeamNumber, team.AccessToken,
	).Scan(&team.ID, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return r.getOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
}

func (r *postgresTeamRepository) GetByAccessToken(ctx context.Context, token uuid.UUID) (*models.Team, error) {
	return r.getOne(ctx, `SELECT `+teamColumns+` FROM teams WHERE access_token = $1`, token)
}

func (r *postgresTeamRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Team, error) {
	team, err := scanTeam(r.exec.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY team_number ASC NULLS LAST, id ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) SetTeamNumber(ctx context.Context, id int, number *int) error {
	result, err := r.exec.ExecContext(ctx, `UPDATE teams SET team_number = $1 WHERE id = $2`, number, id)
	if err != nil {
		return fmt.Errorf("failed to set number of team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ClearTeamNumbers(ctx context.Context, tournamentID int) error {
	_, err := r.exec.ExecContext(ctx, `UPDATE teams SET team_number = NULL WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to clear team numbers of tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.exec.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	return mapPQError(err, constraintErrors{
		"teams_tournament_id_name_key": ErrTeamNameConflict,
		"teams_tournament_id_fkey":     ErrTournamentNotFound,
		"matchups_team1_id_fkey":       ErrTeamInUse,
		"matchups_team2_id_fkey":       ErrTeamInUse,
	}, nil)
}

func scanTeam(row rowScanner) (*models.Team, error) {
	team := &models.Team{}
	var number sql.NullInt64
	if err := row.Scan(&team.ID, &team.TournamentID, &team.Name, &team.Members, &number, &team.AccessToken, &team.CreatedAt); err != nil {
		return nil, err
	}
	if number.Valid {
		n := int(number.Int64)
		team.TeamNumber = &n
	}
	return team, nil
}
