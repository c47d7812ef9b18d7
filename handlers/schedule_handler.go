package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/backyard-olympics/models"
	"github.com/Dosada05/backyard-olympics/realtime"
	"github.com/Dosada05/backyard-olympics/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
	publisher       realtime.Publisher
}

func NewScheduleHandler(ss services.ScheduleService, publisher realtime.Publisher) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: ss, publisher: publisher}
}

type buildScheduleRequest struct {
	Rebuild            bool       `json:"rebuild"`
	StartTime          *time.Time `json:"start_time"`
	RoundLengthMinutes int        `json:"round_length_minutes"`
}

type adjustTimingRequest struct {
	StartTime *time.Time `json:"start_time"`
}

// BuildSchedule
// @Summary Build the round robin schedule
// @Tags schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param options body buildScheduleRequest false "Build options"
// @Success 201 {object} map[string][]models.Round
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/schedule [post]
func (h *ScheduleHandler) BuildSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input buildScheduleRequest
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.scheduleService.BuildSchedule(r.Context(), tournamentID, services.BuildOptions{
		Rebuild:            input.Rebuild,
		StartTime:          input.StartTime,
		RoundLengthMinutes: input.RoundLengthMinutes,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.publisher.Publish(tournamentID, realtime.EventScheduleBuilt, rounds)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetSchedule
// @Summary Delete every round and matchup
// @Tags schedule
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Success 204
// @Router /tournaments/{tournamentID}/schedule [delete]
func (h *ScheduleHandler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scheduleService.ResetSchedule(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.publisher.Publish(tournamentID, realtime.EventScheduleReset, nil)
	w.WriteHeader(http.StatusNoContent)
}

// ValidateSchedule lists fairness problems of the persisted schedule.
// @Summary Audit the schedule
// @Tags schedule
// @Security BearerAuth
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string][]string
// @Router /tournaments/{tournamentID}/schedule/violations [get]
func (h *ScheduleHandler) ValidateSchedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	violations, err := h.scheduleService.ValidateSchedule(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if violations == nil {
		violations = []string{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"violations": violations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRounds
// @Summary List rounds with their matchups
// @Tags schedule
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string][]models.Round
// @Router /tournaments/{tournamentID}/rounds [get]
func (h *ScheduleHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.scheduleService.ListRounds(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceRound
// @Summary Move the current round pointer forward
// @Tags schedule
// @Security BearerAuth
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]models.Round
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/rounds/advance [post]
func (h *ScheduleHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	h.moveRound(w, r, h.scheduleService.AdvanceCurrentRound)
}

// RetreatRound
// @Summary Move the current round pointer back
// @Tags schedule
// @Security BearerAuth
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]models.Round
// @Failure 409 {object} map[string]string
// @Router /tournaments/{tournamentID}/rounds/retreat [post]
func (h *ScheduleHandler) RetreatRound(w http.ResponseWriter, r *http.Request) {
	h.moveRound(w, r, h.scheduleService.RetreatCurrentRound)
}

func (h *ScheduleHandler) moveRound(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, tournamentID int) (*models.Round, error)) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	round, err := move(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.publisher.Publish(tournamentID, realtime.EventRoundChanged, round)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdjustRoundTiming moves a round and shifts every later round by the same amount.
// @Summary Adjust round start times
// @Tags schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param roundNumber path int true "Round number"
// @Param timing body adjustTimingRequest true "New start time"
// @Success 200 {object} map[string][]models.Round
// @Router /tournaments/{tournamentID}/rounds/{roundNumber}/timing [put]
func (h *ScheduleHandler) AdjustRoundTiming(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundNumber, err := getIDFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input adjustTimingRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.StartTime == nil {
		badRequestResponse(w, r, errors.New("start_time is required"))
		return
	}

	rounds, err := h.scheduleService.AdjustRoundTiming(r.Context(), tournamentID, roundNumber, *input.StartTime)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.publisher.Publish(tournamentID, realtime.EventRoundChanged, rounds)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
