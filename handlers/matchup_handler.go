package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/services"
)

type MatchupHandler struct {
	resultService services.ResultService
	publisher     realtime.Publisher
}

func NewMatchupHandler(rs services.ResultService, publisher realtime.Publisher) *MatchupHandler {
	return &MatchupHandler{resultService: rs, publisher: publisher}
}

type reportRequest struct {
	Side     models.Side `json:"side"`
	TeamID   int         `json:"team_id"`
	WinnerID int         `json:"winner_id"`
}

type resolveRequest struct {
	WinnerID int    `json:"winner_id"`
	Note     string `json:"note"`
}

// publishMatchup announces a matchup change; a conflict gets its own event type.
func publishMatchup(publisher realtime.Publisher, m *models.Matchup) {
	event := realtime.EventMatchupUpdated
	if m.State() == models.StateConflicted {
		event = realtime.EventMatchupConflicted
	}
	publisher.Publish(m.TournamentID, event, m)
}

// GetMatchup
// @Summary Get a matchup
// @Tags matchups
// @Produce json
// @Param matchupID path int true "Matchup ID"
// @Success 200 {object} map[string]models.Matchup
// @Failure 404 {object} map[string]string
// @Router /matchups/{matchupID} [get]
func (h *MatchupHandler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	matchupID, err := getIDFromURL(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchup, err := h.resultService.GetMatchup(r.Context(), matchupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": matchup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportResult records a report on behalf of one side.
// @Summary Report a result for a side
// @Tags matchups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param matchupID path int true "Matchup ID"
// @Param report body reportRequest true "Report"
// @Success 200 {object} map[string]models.Matchup
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /matchups/{matchupID}/report [post]
func (h *MatchupHandler) ReportResult(w http.ResponseWriter, r *http.Request) {
	matchupID, err := getIDFromURL(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reportRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TeamID <= 0 || input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("team_id and winner_id are required"))
		return
	}

	matchup, err := h.resultService.ReportResult(r.Context(), matchupID, input.Side, input.TeamID, input.WinnerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	publishMatchup(h.publisher, matchup)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": matchup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveConflict
// @Summary Resolve a conflicted matchup
// @Tags matchups
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param matchupID path int true "Matchup ID"
// @Param decision body resolveRequest true "Decision"
// @Success 200 {object} map[string]models.Matchup
// @Failure 409 {object} map[string]string
// @Router /matchups/{matchupID}/resolve [post]
func (h *MatchupHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	matchupID, err := getIDFromURL(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input resolveRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.WinnerID <= 0 {
		badRequestResponse(w, r, errors.New("winner_id is required"))
		return
	}

	matchup, err := h.resultService.ResolveConflict(r.Context(), matchupID, input.WinnerID, input.Note)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	publishMatchup(h.publisher, matchup)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": matchup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetMatchup
// @Summary Clear reports and result of a matchup
// @Tags matchups
// @Security BearerAuth
// @Produce json
// @Param matchupID path int true "Matchup ID"
// @Success 200 {object} map[string]models.Matchup
// @Router /matchups/{matchupID}/reset [post]
func (h *MatchupHandler) ResetMatchup(w http.ResponseWriter, r *http.Request) {
	matchupID, err := getIDFromURL(r, "matchupID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matchup, err := h.resultService.ResetMatchup(r.Context(), matchupID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	publishMatchup(h.publisher, matchup)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matchup": matchup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
