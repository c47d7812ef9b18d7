package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/repositories"
)

// mapRepositoryError converts repository sentinels into service errors. Anything unknown is
// wrapped with the operation name and treated as an internal failure by the caller.
func mapRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, repositories.ErrMatchupNotFound):
		return ErrMatchupNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict),
		errors.Is(err, repositories.ErrGameNameConflict),
		errors.Is(err, repositories.ErrTournamentSlugConflict):
		return fmt.Errorf("%w (%v)", ErrNameConflict, err)
	case errors.Is(err, repositories.ErrTeamInUse), errors.Is(err, repositories.ErrGameInUse):
		return ErrAlreadyScheduled
	case isServiceError(err):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isServiceError(err error) bool {
	for _, category := range []error{ErrValidation, ErrStateConflict, ErrAuthorization, ErrInvariantViolation, ErrNotFound} {
		if errors.Is(err, category) {
			return true
		}
	}
	return false
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
