package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/google/uuid"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentSlugConflict = errors.New("tournament slug already in use")
	ErrTeamNotFound           = errors.New("team not found")
	ErrTeamNameConflict       = errors.New("team name already used in this tournament")
	ErrTeamInUse              = errors.New("team is referenced by scheduled matchups")
	ErrGameNotFound           = errors.New("game not found")
	ErrGameNameConflict       = errors.New("game name already used in this tournament")
	ErrGameInUse              = errors.New("game is referenced by scheduled rounds")
	ErrRoundNotFound          = errors.New("round not found")
	ErrRoundNumberConflict    = errors.New("round number already exists in this tournament")
	ErrMatchupNotFound        = errors.New("matchup not found")
	ErrMatchupConflict        = errors.New("team already has a matchup in this round")
	ErrStandingConflict       = errors.New("standing already exists for this team")
	ErrReferenceInvalid       = errors.New("referenced entity does not exist")
	ErrReadOnly               = errors.New("write attempted in a read-only transaction")
)

// Store runs functions inside a transaction. Write commits only when fn returns nil.
type Store interface {
	Read(ctx context.Context, fn func(tx Tx) error) error
	Write(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes every repository bound to one transaction.
type Tx interface {
	Tournaments() TournamentRepository
	Teams() TeamRepository
	Games() GameRepository
	Rounds() RoundRepository
	Matchups() MatchupRepository
	Wagers() WagerRepository
	Standings() StandingRepository
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	// LockForUpdate serializes schedule-wide changes of a tournament.
	LockForUpdate(ctx context.Context, id int) (*models.Tournament, error)
	// LockForShare lets matchup updates run side by side while excluding schedule-wide changes.
	LockForShare(ctx context.Context, id int) (*models.Tournament, error)
	SetCurrentRound(ctx context.Context, id int, roundNumber *int) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByAccessToken(ctx context.Context, token uuid.UUID) (*models.Team, error)
	// ListByTournament orders by team number with unnumbered teams last, then by id.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	SetTeamNumber(ctx context.Context, id int, number *int) error
	ClearTeamNumbers(ctx context.Context, tournamentID int) error
	Delete(ctx context.Context, id int) error
}

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	// ListByTournament orders by id.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Game, error)
	Delete(ctx context.Context, id int) error
}

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	GetByNumber(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error)
	// ListByTournament orders by round number.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	UpdateStartTime(ctx context.Context, id int, startTime *time.Time) error
	// DeleteByTournament removes the rounds and, by cascade, their matchups.
	DeleteByTournament(ctx context.Context, tournamentID int) error
}

type MatchupRepository interface {
	Create(ctx context.Context, matchup *models.Matchup) error
	GetByID(ctx context.Context, id int) (*models.Matchup, error)
	LockForUpdate(ctx context.Context, id int) (*models.Matchup, error)
	// ListByTournament orders by round then id.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Matchup, error)
	// UpdateResult stores the result, both reports, the conflict flag and notes.
	UpdateResult(ctx context.Context, matchup *models.Matchup) error
}

type WagerRepository interface {
	Upsert(ctx context.Context, wager *models.Wager) error
	ListByTeam(ctx context.Context, teamID int) ([]*models.Wager, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Wager, error)
}

type StandingRepository interface {
	// ListByTournament orders by rank.
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Standing, error)
	BatchCreate(ctx context.Context, standings []*models.Standing) error
	DeleteByTournamentID(ctx context.Context, tournamentID int) error
}
