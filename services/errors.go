package services

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service wraps exactly one of them.
var (
	ErrValidation         = errors.New("validation failed")
	ErrStateConflict      = errors.New("operation not allowed in the current state")
	ErrAuthorization      = errors.New("not authorized")
	ErrInvariantViolation = errors.New("schedule invariant violated")
	ErrNotFound           = errors.New("requested resource not found")
)

var (
	ErrInsufficientTeams   = fmt.Errorf("%w: at least 2 teams are required", ErrValidation)
	ErrNoGames             = fmt.Errorf("%w: at least 1 game is required", ErrValidation)
	ErrInvalidSide         = fmt.Errorf("%w: side must be team1 or team2", ErrValidation)
	ErrInvalidWinner       = fmt.Errorf("%w: winner must be one of the two teams", ErrValidation)
	ErrInvalidRoundLength  = fmt.Errorf("%w: round length must be positive", ErrValidation)
	ErrWagerPointsRange    = fmt.Errorf("%w: wager points must be between 0 and 100", ErrValidation)
	ErrWagerLimitExceeded  = fmt.Errorf("%w: total wager points would exceed 100", ErrValidation)
	ErrGameNotInTournament = fmt.Errorf("%w: game does not belong to the team's tournament", ErrValidation)
	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameConflict        = fmt.Errorf("%w: name is already in use", ErrValidation)

	ErrAlreadyScheduled       = fmt.Errorf("%w: tournament already has a schedule", ErrStateConflict)
	ErrNoConflictToResolve    = fmt.Errorf("%w: matchup is not in conflict", ErrStateConflict)
	ErrResultAlreadyConfirmed = fmt.Errorf("%w: matchup result is already confirmed", ErrStateConflict)
	ErrMatchupInConflict      = fmt.Errorf("%w: matchup is in conflict and awaits an operator", ErrStateConflict)
	ErrNoMoreRounds           = fmt.Errorf("%w: no round in that direction", ErrStateConflict)
	ErrByeMatchup             = fmt.Errorf("%w: byes take no reports", ErrStateConflict)
	ErrExportsDisabled        = fmt.Errorf("%w: object storage is not configured", ErrStateConflict)

	ErrNotAParticipant    = fmt.Errorf("%w: team is not the participant on that side", ErrAuthorization)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrAuthorization)

	ErrTournamentNotFound = fmt.Errorf("%w: tournament", ErrNotFound)
	ErrTeamNotFound       = fmt.Errorf("%w: team", ErrNotFound)
	ErrGameNotFound       = fmt.Errorf("%w: game", ErrNotFound)
	ErrRoundNotFound      = fmt.Errorf("%w: round", ErrNotFound)
	ErrMatchupNotFound    = fmt.Errorf("%w: matchup", ErrNotFound)
)
