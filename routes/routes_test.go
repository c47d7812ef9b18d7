package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/backyard-olympics/brackets"
	"github.com/Dosada05/backyard-olympics/handlers"
	"github.com/Dosada05/backyard-olympics/middleware"
	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/repositories"
	"github.com/Dosada05/backyard-olympics/services"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type publishedEvent struct {
	tournamentID int
	eventType    string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(tournamentID int, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{tournamentID, eventType})
}

func (p *recordingPublisher) has(eventType string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e.eventType == eventType {
			return true
		}
	}
	return false
}

type apiClient struct {
	t         *testing.T
	router    http.Handler
	publisher *recordingPublisher
	token     string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	store := repositories.NewMemoryStore()
	publisher := &recordingPublisher{}
	tournaments := services.NewTournamentService(store, logger)
	schedule := services.NewScheduleService(store, brackets.NewRoundRobinGenerator(), 45, logger)
	results := services.NewResultService(store, logger)
	standings := services.NewStandingsService(store, logger)
	wagers := services.NewWagerService(store, logger)
	exports := services.NewExportService(store, nil, logger)
	auth := services.NewAuthService("referee", string(hash), logger)
	hub := realtime.NewHub(logger)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:       handlers.NewAuthHandler(auth, testSecret, time.Hour),
		Tournament: handlers.NewTournamentHandler(tournaments),
		Schedule:   handlers.NewScheduleHandler(schedule, publisher),
		Matchup:    handlers.NewMatchupHandler(results, publisher),
		Team:       handlers.NewTeamHandler(results, wagers, publisher),
		Standings:  handlers.NewStandingsHandler(standings, exports, publisher),
		WebSocket:  handlers.NewWebSocketHandler(hub, tournaments, []string{"*"}, logger),
	}, Options{JWTSecret: testSecret, Teams: tournaments, AllowedOrigins: []string{"*"}})

	return &apiClient{t: t, router: router, publisher: publisher}
}

func (c *apiClient) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func (c *apiClient) operator(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(method, path, body, map[string]string{"Authorization": "Bearer " + c.token})
}

func (c *apiClient) team(token, method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(method, path, body, map[string]string{middleware.TeamTokenHeader: token})
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("got status %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestLoginAndOperatorRoutes(t *testing.T) {
	api := newAPI(t)

	expectStatus(t, api.do("POST", "/tournaments", map[string]string{"name": "Cup"}, nil), http.StatusUnauthorized)
	expectStatus(t, api.do("POST", "/auth/login", map[string]string{"username": "referee", "password": "nope"}, nil), http.StatusUnauthorized)
	expectStatus(t, api.do("POST", "/auth/login", map[string]string{"username": "referee"}, nil), http.StatusBadRequest)

	rec := api.do("POST", "/auth/login", map[string]string{"username": "referee", "password": "s3cret"}, nil)
	expectStatus(t, rec, http.StatusOK)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	if login.Token == "" {
		t.Fatal("empty token")
	}
	api.token = login.Token

	expectStatus(t, api.operator("POST", "/tournaments", map[string]string{"name": "Cup"}), http.StatusCreated)
	expectStatus(t, api.do("POST", "/tournaments", map[string]string{"name": "Cup"},
		map[string]string{"Authorization": "Bearer " + login.Token + "x"}), http.StatusUnauthorized)
	expectStatus(t, api.operator("POST", "/tournaments", map[string]string{"title": "Cup"}), http.StatusBadRequest)
}

func TestTournamentLifecycle(t *testing.T) {
	api := newAPI(t)
	rec := api.do("POST", "/auth/login", map[string]string{"username": "referee", "password": "s3cret"}, nil)
	expectStatus(t, rec, http.StatusOK)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)
	api.token = login.Token

	rec = api.operator("POST", "/tournaments", map[string]string{"name": "Backyard Cup"})
	expectStatus(t, rec, http.StatusCreated)
	var created struct {
		Tournament models.Tournament `json:"tournament"`
	}
	decode(t, rec, &created)
	base := fmt.Sprintf("/tournaments/%d", created.Tournament.ID)

	tokens := map[int]string{}
	var teamIDs []int
	for i := 1; i <= 4; i++ {
		rec = api.operator("POST", base+"/teams", map[string]string{"name": fmt.Sprintf("Team %d", i)})
		expectStatus(t, rec, http.StatusCreated)
		var added struct {
			Team        models.Team `json:"team"`
			AccessToken string      `json:"access_token"`
		}
		decode(t, rec, &added)
		tokens[added.Team.ID] = added.AccessToken
		teamIDs = append(teamIDs, added.Team.ID)
	}
	rec = api.operator("POST", base+"/games", map[string]string{"name": "Cornhole"})
	expectStatus(t, rec, http.StatusCreated)
	var game struct {
		Game models.Game `json:"game"`
	}
	decode(t, rec, &game)

	expectStatus(t, api.operator("POST", base+"/schedule", nil), http.StatusCreated)
	if !api.publisher.has(realtime.EventScheduleBuilt) {
		t.Error("no SCHEDULE_BUILT event")
	}
	expectStatus(t, api.operator("POST", base+"/schedule", map[string]bool{"rebuild": false}), http.StatusConflict)
	expectStatus(t, api.operator("POST", base+"/teams", map[string]string{"name": "Latecomers"}), http.StatusConflict)

	rec = api.do("GET", base+"/rounds", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var listed struct {
		Rounds []models.Round `json:"rounds"`
	}
	decode(t, rec, &listed)
	if len(listed.Rounds) == 0 || len(listed.Rounds[0].Matchups) != 2 {
		t.Fatalf("unexpected rounds %+v", listed.Rounds)
	}
	agreed, disputed := listed.Rounds[0].Matchups[0], listed.Rounds[0].Matchups[1]

	// Both sides of the first matchup agree that team 1 won.
	reportPath := fmt.Sprintf("/team/matchups/%d/report", agreed.ID)
	winner := map[string]int{"winner_id": agreed.Team1ID}
	expectStatus(t, api.team(tokens[agreed.Team1ID], "POST", reportPath, winner), http.StatusOK)
	expectStatus(t, api.team(tokens[disputed.Team1ID], "POST", reportPath, winner), http.StatusForbidden)
	rec = api.team(tokens[*agreed.Team2ID], "POST", reportPath, winner)
	expectStatus(t, rec, http.StatusOK)
	var reported struct {
		Matchup models.Matchup `json:"matchup"`
	}
	decode(t, rec, &reported)
	if reported.Matchup.Result != models.ResultTeam1Win {
		t.Fatalf("got result %s", reported.Matchup.Result)
	}
	expectStatus(t, api.team(tokens[*agreed.Team2ID], "POST", reportPath, winner), http.StatusConflict)

	// Both sides of the second matchup claim the win.
	disputePath := fmt.Sprintf("/team/matchups/%d/report", disputed.ID)
	expectStatus(t, api.team(tokens[disputed.Team1ID], "POST", disputePath, map[string]int{"winner_id": disputed.Team1ID}), http.StatusOK)
	expectStatus(t, api.team(tokens[*disputed.Team2ID], "POST", disputePath, map[string]int{"winner_id": *disputed.Team2ID}), http.StatusOK)
	if !api.publisher.has(realtime.EventMatchupConflicted) {
		t.Error("no MATCHUP_CONFLICTED event")
	}
	resolvePath := fmt.Sprintf("/matchups/%d/resolve", disputed.ID)
	expectStatus(t, api.operator("POST", resolvePath, map[string]interface{}{"winner_id": *disputed.Team2ID, "note": "photo finish"}), http.StatusOK)
	expectStatus(t, api.operator("POST", resolvePath, map[string]interface{}{"winner_id": *disputed.Team2ID}), http.StatusConflict)

	wagerPath := fmt.Sprintf("/team/wagers/%d", game.Game.ID)
	expectStatus(t, api.team(tokens[teamIDs[0]], "PUT", wagerPath, map[string]int{"points": 101}), http.StatusBadRequest)
	expectStatus(t, api.team(tokens[teamIDs[0]], "PUT", wagerPath, map[string]int{"points": 50}), http.StatusOK)
	expectStatus(t, api.team(tokens[teamIDs[0]], "GET", "/team/wagers", nil), http.StatusOK)

	rec = api.operator("POST", base+"/standings/recompute", nil)
	expectStatus(t, rec, http.StatusOK)
	if !api.publisher.has(realtime.EventStandingsUpdated) {
		t.Error("no STANDINGS_UPDATED event")
	}
	rec = api.do("GET", base+"/standings", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	var table struct {
		Standings []models.Standing `json:"standings"`
	}
	decode(t, rec, &table)
	if len(table.Standings) != 4 || table.Standings[0].TotalPoints < 100 {
		t.Errorf("unexpected standings %+v", table.Standings)
	}

	expectStatus(t, api.operator("POST", base+"/rounds/retreat", nil), http.StatusConflict)
	expectStatus(t, api.operator("POST", base+"/rounds/advance", nil), http.StatusOK)
	if !api.publisher.has(realtime.EventRoundChanged) {
		t.Error("no ROUND_CHANGED event")
	}

	rec = api.do("GET", base+"/schedule.csv", nil, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") || !strings.HasPrefix(rec.Body.String(), "round,") {
		t.Errorf("unexpected csv response %q", rec.Body.String())
	}
	expectStatus(t, api.operator("POST", base+"/exports", nil), http.StatusConflict)

	rec = api.operator("GET", base+"/schedule/violations", nil)
	expectStatus(t, rec, http.StatusOK)
	var audit struct {
		Violations []string `json:"violations"`
	}
	decode(t, rec, &audit)
	if len(audit.Violations) != 0 {
		t.Errorf("violations: %v", audit.Violations)
	}

	expectStatus(t, api.operator("DELETE", base+"/schedule", nil), http.StatusNoContent)
	if !api.publisher.has(realtime.EventScheduleReset) {
		t.Error("no SCHEDULE_RESET event")
	}
}

func TestRequestErrors(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"bad id", "GET", "/tournaments/abc", nil, http.StatusBadRequest},
		{"unknown tournament", "GET", "/tournaments/999", nil, http.StatusNotFound},
		{"unknown matchup", "GET", "/matchups/999", nil, http.StatusNotFound},
		{"team without token", "GET", "/team", nil, http.StatusUnauthorized},
		{"team with unknown token", "GET", "/team", map[string]string{middleware.TeamTokenHeader: "6f1c1a9e-8c55-4a4e-9d8e-1d2c3b4a5f60"}, http.StatusUnauthorized},
		{"websocket for unknown tournament", "GET", "/ws/tournaments/999", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, api.do(tt.method, tt.path, nil, tt.headers), tt.want)
		})
	}
}
