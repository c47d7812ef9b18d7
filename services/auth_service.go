package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Operator is the single administrative account configured through the environment.
type Operator struct {
	Username string `json:"username"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Operator, error)
}

type authService struct {
	username     string
	passwordHash []byte
	logger       *slog.Logger
}

// NewAuthService takes a bcrypt hash. With an empty hash every login is refused.
func NewAuthService(username, passwordHash string, logger *slog.Logger) AuthService {
	return &authService{
		username:     username,
		passwordHash: []byte(passwordHash),
		logger:       logger,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*Operator, error) {
	if len(s.passwordHash) == 0 || s.username == "" {
		s.logger.WarnContext(ctx, "operator login attempted but no operator is configured")
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.username)) != 1 {
		return nil, ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	return &Operator{Username: s.username}, nil
}
