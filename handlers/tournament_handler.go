package handlers

import (
	"net/http"

	"github.com/Dosada05/backyard-olympics/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// ListTournaments
// @Summary List tournaments
// @Tags tournaments
// @Produce json
// @Success 200 {object} map[string][]models.Tournament
// @Router /tournaments [get]
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTournament returns the tournament with teams, games, rounds and standings.
// @Summary Get a tournament
// @Tags tournaments
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]models.Tournament
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetFullTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTournament
// @Summary Create a tournament
// @Tags tournaments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tournament body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} map[string]models.Tournament
// @Failure 400 {object} map[string]string
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams
// @Summary List the teams of a tournament
// @Tags teams
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string][]models.Team
// @Router /tournaments/{tournamentID}/teams [get]
func (h *TournamentHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.tournamentService.ListTeams(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddTeam registers a team and returns its access token. The token is shown only here.
// @Summary Add a team
// @Tags teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param team body services.AddTeamInput true "Team"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/teams [post]
func (h *TournamentHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.tournamentService.AddTeam(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team":         team,
		"access_token": team.AccessToken.String(),
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveTeam
// @Summary Remove a team
// @Tags teams
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param teamID path int true "Team ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/teams/{teamID} [delete]
func (h *TournamentHandler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RemoveTeam(r.Context(), tournamentID, teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGame
// @Summary Add a game
// @Tags games
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param game body services.AddGameInput true "Game"
// @Success 201 {object} map[string]models.Game
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/games [post]
func (h *TournamentHandler) AddGame(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AddGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.tournamentService.AddGame(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveGame
// @Summary Remove a game
// @Tags games
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param gameID path int true "Game ID"
// @Success 204
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/games/{gameID} [delete]
func (h *TournamentHandler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RemoveGame(r.Context(), tournamentID, gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
