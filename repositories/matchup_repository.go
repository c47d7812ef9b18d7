package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
)

const matchupColumns = `m.id, m.tournament_id, m.round_id, m.game_id, m.team1_id, m.team2_id, m.result,
	m.team1_reported_win, m.team2_reported_win, m.conflict_flag, m.conflict_notes, m.is_bye,
	m.created_at, m.updated_at`

type postgresMatchupRepository struct {
	exec SQLExecutor
}

func (r *postgresMatchupRepository) Create(ctx context.Context, m *models.Matchup) error {
	query := `
		INSERT INTO matchups
			(tournament_id, round_id, game_id, team1_id, team2_id, result,
			 team1_reported_win, team2_reported_win, conflict_flag, conflict_notes, is_bye)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.exec.QueryRowContext(ctx, query,
		m.TournamentID, m.RoundID, m.GameID, m.Team1ID, m.Team2ID, m.Result,
		m.Team1ReportedWin, m.Team2ReportedWin, m.ConflictFlag, m.ConflictNotes, m.IsBye,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return mapPQError(err, constraintErrors{
		"matchups_round_id_team1_id_key": ErrMatchupConflict,
		"matchups_round_id_fkey":         ErrRoundNotFound,
		"matchups_team1_id_fkey":         ErrTeamNotFound,
		"matchups_team2_id_fkey":         ErrTeamNotFound,
		"matchups_game_id_fkey":          ErrGameNotFound,
	}, nil)
}

func (r *postgresMatchupRepository) GetByID(ctx context.Context, id int) (*models.Matchup, error) {
	return r.getOne(ctx, `SELECT `+matchupColumns+` FROM matchups m WHERE m.id = $1`, id)
}

func (r *postgresMatchupRepository) LockForUpdate(ctx context.Context, id int) (*models.Matchup, error) {
	return r.getOne(ctx, `SELECT `+matchupColumns+` FROM matchups m WHERE m.id = $1 FOR UPDATE`, id)
}

func (r *postgresMatchupRepository) getOne(ctx context.Context, query string, id int) (*models.Matchup, error) {
	m, err := scanMatchup(r.exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchupNotFound
		}
		return nil, fmt.Errorf("failed to scan matchup %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Matchup, error) {
	query := `
		SELECT ` + matchupColumns + `
		FROM matchups m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.tournament_id = $1
		ORDER BY r.round_number ASC, m.id ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matchups of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matchups := make([]*models.Matchup, 0)
	for rows.Next() {
		m, err := scanMatchup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matchup row: %w", err)
		}
		matchups = append(matchups, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matchup rows: %w", err)
	}
	return matchups, nil
}

func (r *postgresMatchupRepository) UpdateResult(ctx context.Context, m *models.Matchup) error {
	query := `
		UPDATE matchups SET
			result = $1, team1_reported_win = $2, team2_reported_win = $3,
			conflict_flag = $4, conflict_notes = $5, updated_at = $6
		WHERE id = $7`
	m.UpdatedAt = time.Now()
	result, err := r.exec.ExecContext(ctx, query,
		m.Result, m.Team1ReportedWin, m.Team2ReportedWin, m.ConflictFlag, m.ConflictNotes, m.UpdatedAt, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update result of matchup %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchupNotFound)
}

func scanMatchup(row rowScanner) (*models.Matchup, error) {
	m := &models.Matchup{}
	var (
		team2         sql.NullInt64
		team1Reported sql.NullBool
		team2Reported sql.NullBool
		notes         sql.NullString
	)
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.RoundID, &m.GameID, &m.Team1ID, &team2, &m.Result,
		&team1Reported, &team2Reported, &m.ConflictFlag, &notes, &m.IsBye,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if team2.Valid {
		id := int(team2.Int64)
		m.Team2ID = &id
	}
	if team1Reported.Valid {
		v := team1Reported.Bool
		m.Team1ReportedWin = &v
	}
	if team2Reported.Valid {
		v := team2Reported.Bool
		m.Team2ReportedWin = &v
	}
	if notes.Valid {
		s := notes.String
		m.ConflictNotes = &s
	}
	return m, nil
}
