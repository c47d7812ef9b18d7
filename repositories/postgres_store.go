package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Read(ctx context.Context, fn func(tx Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (s *PostgresStore) Write(ctx context.Context, fn func(tx Tx) error) error {
	return s.run(ctx, nil, fn)
}

func (s *PostgresStore) run(ctx context.Context, opts *sql.TxOptions, fn func(tx Tx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
		} else if cErr := sqlTx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(&postgresTx{exec: sqlTx})
}

type postgresTx struct {
	exec SQLExecutor
}

func (t *postgresTx) Tournaments() TournamentRepository {
	return &postgresTournamentRepository{exec: t.exec}
}

func (t *postgresTx) Teams() TeamRepository {
	return &postgresTeamRepository{exec: t.exec}
}

func (t *postgresTx) Games() GameRepository {
	return &postgresGameRepository{exec: t.exec}
}

func (t *postgresTx) Rounds() RoundRepository {
	return &postgresRoundRepository{exec: t.exec}
}

func (t *postgresTx) Matchups() MatchupRepository {
	return &postgresMatchupRepository{exec: t.exec}
}

func (t *postgresTx) Wagers() WagerRepository {
	return &postgresWagerRepository{exec: t.exec}
}

func (t *postgresTx) Standings() StandingRepository {
	return &postgresStandingRepository{exec: t.exec}
}
