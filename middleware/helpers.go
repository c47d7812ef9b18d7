package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	teamContextKey   contextKey = "team"
)

// JWT claim names and the only role issued.
const (
	ClaimSubject = "sub"
	ClaimRole    = "role"
	RoleOperator = "operator"
)

func GetOperatorFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("operator claims not found in context or invalid type")
	}

	subject, ok := claims[ClaimSubject].(string)
	if !ok || subject == "" {
		return "", fmt.Errorf("missing '%s' claim in token", ClaimSubject)
	}
	return subject, nil
}

func GetRoleFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("operator claims not found in context or invalid type")
	}

	roleClaim, ok := claims[ClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", ClaimRole)
	}

	role, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", ClaimRole, roleClaim)
	}
	if role != RoleOperator {
		return "", fmt.Errorf("invalid role value in claim: %q", role)
	}
	return role, nil
}

// GetTeamFromContext returns the team resolved by AuthenticateTeam.
func GetTeamFromContext(ctx context.Context) (*models.Team, error) {
	team, ok := ctx.Value(teamContextKey).(*models.Team)
	if !ok || team == nil {
		return nil, errors.New("team not found in context")
	}
	return team, nil
}
