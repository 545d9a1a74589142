package controllers

import (
	"errors"
	"net/http"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

// SessionController composes the stores into the admin-facing lifecycle.
// It holds no state of its own; the selected event travels with every
// request and the stores remain the source of truth.
type SessionController struct {
	eventsStorage     storage.EventStorage
	checkInsStorage   storage.CheckInStorage
	candidatesStorage storage.CandidateStorage
	policyStorage     storage.PolicyStorage
}

func NewSessionController(events storage.EventStorage, checkIns storage.CheckInStorage, candidates storage.CandidateStorage, policy storage.PolicyStorage) *SessionController {
	return &SessionController{
		eventsStorage:     events,
		checkInsStorage:   checkIns,
		candidatesStorage: candidates,
		policyStorage:     policy,
	}
}

func (c *SessionController) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/api/session", c.getSession)
	engine.POST("/api/events/:id/terminate", transport.AdminAuthMiddleware(), c.terminateEvent)
}

// getSession godoc
// @Summary Load the composed view of an event session
// @Description Rebuilds everything a returning admin UI needs: the event, its check-ins, the active candidates and the selection policy.
// @Tags session
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} models.SessionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/session [get]
func (c *SessionController) getSession(g *gin.Context) {
	eventID := g.Query("eventId")
	if eventID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "eventId is required"})
		return
	}

	event, err := c.eventsStorage.GetByID(g.Request.Context(), eventID)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load event"})
		return
	}
	if event == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "event not found"})
		return
	}

	checkIns, err := c.checkInsStorage.GetAll(g.Request.Context(), eventID)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load check-ins for %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load check-ins"})
		return
	}

	candidates, err := c.candidatesStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}

	policy, err := c.policyStorage.Get(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load policy: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load policy"})
		return
	}

	response := models.SessionResponse{
		Event:      models.TransformEventFromStorage(event),
		CheckIns:   make([]models.CheckInSummary, 0, len(checkIns)),
		Candidates: make([]models.CandidateResponse, 0, len(candidates)),
		Policy:     models.TransformPolicyFromStorage(policy),
	}
	for _, ci := range checkIns {
		response.CheckIns = append(response.CheckIns, models.CheckInSummary{
			MemberID:   ci.MemberID,
			MemberName: ci.MemberName,
			HasVoted:   ci.HasVoted,
		})
	}
	for _, candidate := range candidates {
		response.Candidates = append(response.Candidates, models.TransformCandidateFromStorage(candidate))
	}

	g.JSON(http.StatusOK, response)
}

// @Security AdminToken
// terminateEvent godoc
// @Summary Terminate an event session
// @Description Reads the attendance and tally summary for export, closes the event, then clears the candidate roster for the next cycle.
// @Tags session
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventSummaryResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/terminate [post]
func (c *SessionController) terminateEvent(g *gin.Context) {
	eventID := g.Param("id")

	// Summaries are read before anything mutates so the export sees the
	// final tallies even though the roster is cleared below.
	checkIns, err := c.checkInsStorage.GetAll(g.Request.Context(), eventID)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load check-ins for %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load check-ins"})
		return
	}
	candidates, err := c.candidatesStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("SESSION: failed to load candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidates"})
		return
	}

	event, err := c.eventsStorage.Close(g.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no open event with that id"})
			return
		}
		logging.Log.Errorf("SESSION: failed to close event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not close event"})
		return
	}

	if err := c.candidatesStorage.DeleteAll(g.Request.Context()); err != nil {
		logging.Log.Errorf("SESSION: failed to clear candidates after closing %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "event closed but candidates were not cleared"})
		return
	}

	voters := 0
	for _, ci := range checkIns {
		if ci.HasVoted {
			voters++
		}
	}

	summary := models.EventSummaryResponse{
		Event:        models.TransformEventFromStorage(event),
		Attendance:   len(checkIns),
		UniqueVoters: voters,
		Tally:        make([]models.CandidateResponse, 0, len(candidates)),
	}
	for _, candidate := range candidates {
		summary.Tally = append(summary.Tally, models.TransformCandidateFromStorage(candidate))
	}

	logging.Log.Infof("SESSION: terminated event %s (%d attendees, %d voters)", eventID, len(checkIns), voters)
	g.JSON(http.StatusOK, summary)
}
