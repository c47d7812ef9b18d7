package services

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	svc := NewAuthService("referee", string(hash), discardLogger())

	tests := []struct {
		name  string
		input LoginInput
		want  error
	}{
		{"valid", LoginInput{Username: "referee", Password: "hunter2"}, nil},
		{"wrong password", LoginInput{Username: "referee", Password: "hunter3"}, ErrInvalidCredentials},
		{"wrong user", LoginInput{Username: "player", Password: "hunter2"}, ErrInvalidCredentials},
		{"empty", LoginInput{}, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := svc.Login(ctx, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if tt.want == nil && op.Username != "referee" {
				t.Errorf("got operator %+v", op)
			}
			if tt.want != nil && !errors.Is(err, ErrAuthorization) {
				t.Errorf("error %v is not an authorization error", err)
			}
		})
	}

	unconfigured := NewAuthService("referee", "", discardLogger())
	if _, err := unconfigured.Login(ctx, LoginInput{Username: "referee", Password: "hunter2"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unconfigured operator: got %v", err)
	}
}
