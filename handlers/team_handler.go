package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/backyard-olympics/middleware"
	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/services"
)

// TeamHandler serves requests authenticated with a team access token.
type TeamHandler struct {
	resultService services.ResultService
	wagerService  services.WagerService
	publisher     realtime.Publisher
}

func NewTeamHandler(rs services.ResultService, ws services.WagerService, publisher realtime.Publisher) *TeamHandler {
	return &TeamHandler{
		resultService: rs,
		wagerService:  ws,
		publisher:     publisher,
	}
}

type teamReportRequest struct {
	WinnerID int `json:"winner_id"`
}

type wagerRequest struct {
	Points *int `json:"points"`
}

// GetTeam
// @Summary Get the calling team
// @Tags team
// @Security TeamToken
// @Produce json
// @Success 200 {object} map[string]models.Team
// @Failure 401 {object} map[string]string
// @Router /team [get]
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := middleware.GetTeamFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify team")
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportResult records the calling team's report; the side follows from the team.
// @Summary Report a result as a team
// @Tags team
// @Security TeamToken
// @Accept json
// @Produce json
// @Param matchupID path int true "Matchup ID"
// @Param report body teamReportRequest true "Claimed winner"
// @Success 200 {object} map[string]models.Matchup
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /team/matchups/{matchupID}/report [post]
func (h *TeamHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	team, err := middleware.GetTeamFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify team")
		return
	}

	matchupID, err := getIDFromURL(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input teamReportRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	matchup, err := h.resultService.ReportAsTeam(r.Context(), matchupID, team.ID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	publishMatchup(h.publisher, matchup)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": matchup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlaceWager
// @Summary Place or replace a wager
// @Tags team
// @Security TeamToken
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param wager body wagerRequest true "Points"
// @Success 200 {object} map[string]models.Wager
// @Failure 400 {object} map[string]string
// @Router /team/wagers/{gameID} [put]
func (h *TeamHandler) PlaceWager(w http.ResponseWriter, r *http.Request) {
	team, err := middleware.GetTeamFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify team")
		return
	}

	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input wagerRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Points == nil {
		badRequestResponse(w, r, errors.New("points is required"))
		return
	}

	wager, err := h.wagerService.PlaceWager(r.Context(), team.ID, gameID, *input.Points)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"wager": wager}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListWagers
// @Summary List the calling team's wagers
// @Tags team
// @Security TeamToken
// @Produce json
// @Success 200 {object} map[string][]models.Wager
// @Router /team/wagers [get]
func (h *TeamHandler) ListWagers(w http.ResponseWriter, r *http.Request) {
	team, err := middleware.GetTeamFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify team")
		return
	}

	wagers, err := h.wagerService.ListTeamWagers(r.Context(), team.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"wagers": wagers}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
