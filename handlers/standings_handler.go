package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
	exportService    services.ExportService
	publisher        realtime.Publisher
}

func NewStandingsHandler(ss services.StandingsService, es services.ExportService, publisher realtime.Publisher) *StandingsHandler {
	return &StandingsHandler{
		standingsService: ss,
		exportService:    es,
		publisher:        publisher,
	}
}

// ListStandings
// @Summary Current standings
// @Tags standings
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string][]models.Standing
// @Router /tournaments/{tournamentID}/standings [get]
func (h *StandingsHandler) ListStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.ListStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeStandings
// @Summary Recompute standings from confirmed results
// @Tags standings
// @Security BearerAuth
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string][]models.Standing
// @Router /tournaments/{tournamentID}/standings/recompute [post]
func (h *StandingsHandler) RecomputeStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.RecomputeStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.publisher.Publish(tournamentID, realtime.EventStandingsUpdated, standings)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScheduleCSV
// @Summary Schedule grid as CSV
// @Tags exports
// @Produce text/csv
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {string} string
// @Router /tournaments/{tournamentID}/schedule.csv [get]
func (h *StandingsHandler) ScheduleCSV(w http.ResponseWriter, r *http.Request) {
	h.writeCSV(w, r, "schedule.csv", h.exportService.ScheduleCSV)
}

// StandingsCSV
// @Summary Standings as CSV
// @Tags exports
// @Produce text/csv
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {string} string
// @Router /tournaments/{tournamentID}/standings.csv [get]
func (h *StandingsHandler) StandingsCSV(w http.ResponseWriter, r *http.Request) {
	h.writeCSV(w, r, "standings.csv", h.exportService.StandingsCSV)
}

// writeCSV buffers the export so a failure can still produce a JSON error.
func (h *StandingsHandler) writeCSV(w http.ResponseWriter, r *http.Request, fileName string, export func(ctx context.Context, tournamentID int, w io.Writer) error) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export(r.Context(), tournamentID, &buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// PublishExports
// @Summary Upload CSV exports to object storage
// @Tags exports
// @Security BearerAuth
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]services.ExportResult
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/exports [post]
func (h *StandingsHandler) PublishExports(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.exportService.PublishExports(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"exports": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
