package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const secret = "middleware-secret"

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	protected := Authenticate(secret)(Authorize(RoleOperator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := GetOperatorFromContext(r.Context())
		if err != nil || name != "referee" {
			t.Errorf("operator from context: %q, %v", name, err)
		}
		w.WriteHeader(http.StatusNoContent)
	})))

	valid := jwt.MapClaims{ClaimSubject: "referee", ClaimRole: RoleOperator, "exp": time.Now().Add(time.Hour).Unix()}
	expired := jwt.MapClaims{ClaimSubject: "referee", ClaimRole: RoleOperator, "exp": time.Now().Add(-time.Hour).Unix()}
	player := jwt.MapClaims{ClaimSubject: "referee", ClaimRole: "player", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), valid), http.StatusNoContent},
		{"lowercase scheme", "bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), valid), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), expired), http.StatusUnauthorized},
		{"none algorithm", "Bearer " + signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(secret), player), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

type fakeTeams map[uuid.UUID]*models.Team

func (f fakeTeams) GetTeamByAccessToken(_ context.Context, token uuid.UUID) (*models.Team, error) {
	team, ok := f[token]
	if !ok {
		return nil, errors.New("team not found")
	}
	return team, nil
}

func TestAuthenticateTeam(t *testing.T) {
	token := uuid.New()
	teams := fakeTeams{token: {ID: 7, Name: "Otters"}}
	handler := AuthenticateTeam(teams)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		team, err := GetTeamFromContext(r.Context())
		if err != nil || team.ID != 7 {
			t.Errorf("team from context: %+v, %v", team, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", token.String(), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "not-a-uuid", http.StatusUnauthorized},
		{"unknown", uuid.NewString(), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(TeamTokenHeader, tt.header)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}

	if _, err := GetTeamFromContext(context.Background()); err == nil {
		t.Error("expected an error for an empty context")
	}
}
