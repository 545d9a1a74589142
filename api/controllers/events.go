package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type EventController struct {
	eventsStorage storage.EventStorage
}

func NewEventController(s storage.EventStorage) *EventController {
	return &EventController{eventsStorage: s}
}

func (c *EventController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/events")

	group.GET("/open", c.getOpenEvents)
	group.GET("/last/:category", c.getLastEvent)
	group.POST("", transport.AdminAuthMiddleware(), c.createEvent)
	group.POST("/:id/close", transport.AdminAuthMiddleware(), c.closeEvent)
}

// getOpenEvents godoc
// @Summary List all currently open events
// @Tags events
// @Produce json
// @Success 200 {array} models.EventResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/open [get]
func (c *EventController) getOpenEvents(g *gin.Context) {
	events, err := c.eventsStorage.GetOpenEvents(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("EVENT: failed to list open events: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list open events"})
		return
	}

	responses := make([]models.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, models.TransformEventFromStorage(e))
	}
	g.JSON(http.StatusOK, responses)
}

// getLastEvent godoc
// @Summary Get the most recent event of a category
// @Tags events
// @Produce json
// @Param category path string true "Event category"
// @Success 200 {object} models.EventResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/last/{category} [get]
func (c *EventController) getLastEvent(g *gin.Context) {
	category := g.Param("category")
	if _, ok := models.ValidCategories[models.EventCategory(category)]; !ok {
		logging.Log.Warnf("EVENT: invalid category requested: %s", category)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid category"})
		return
	}

	event, err := c.eventsStorage.GetLastEvent(g.Request.Context(), category)
	if err != nil {
		logging.Log.Errorf("EVENT: failed to get last %s event: %v", category, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load last event"})
		return
	}
	if event == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no event found for category"})
		return
	}
	g.JSON(http.StatusOK, models.TransformEventFromStorage(event))
}

// @Security AdminToken
// createEvent godoc
// @Summary Create a new event
// @Description Opens a new event for the category. Fails when an event of the same category is still open. AUTO events are created closed.
// @Tags events
// @Accept json
// @Produce json
// @Param event body models.CreateEventRequest true "Event to create"
// @Success 200 {object} models.EventResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events [post]
func (c *EventController) createEvent(g *gin.Context) {
	var req models.CreateEventRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.CreatedBy == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing category or createdBy"})
		return
	}
	if _, ok := models.ValidCategories[models.EventCategory(req.Category)]; !ok {
		logging.Log.Warnf("EVENT: attempted to create event with invalid category: %s", req.Category)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid category"})
		return
	}

	event := &storage.Event{
		Category:  req.Category,
		EventID:   uuid.NewString(),
		EventCode: c.generateEventCode(),
		EventDate: time.Now().UTC(),
		CreatedBy: req.CreatedBy,
		IsOpen:    req.Category != string(models.CategoryAuto),
	}

	if err := c.eventsStorage.Create(g.Request.Context(), event); err != nil {
		if errors.Is(err, storage.ErrOpenEventExists) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "an open event already exists for this category"})
			return
		}
		logging.Log.Errorf("EVENT: failed to create event: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not create event"})
		return
	}

	logging.Log.Infof("EVENT: created %s event %s by %s", event.Category, event.EventID, event.CreatedBy)
	g.JSON(http.StatusOK, models.TransformEventFromStorage(event))
}

// @Security AdminToken
// closeEvent godoc
// @Summary Close an open event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.EventResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/close [post]
func (c *EventController) closeEvent(g *gin.Context) {
	eventID := g.Param("id")
	if eventID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing event id"})
		return
	}

	event, err := c.eventsStorage.Close(g.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no open event with that id"})
			return
		}
		logging.Log.Errorf("EVENT: failed to close event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not close event"})
		return
	}

	logging.Log.Infof("EVENT: closed event %s", eventID)
	g.JSON(http.StatusOK, models.TransformEventFromStorage(event))
}

func (c *EventController) generateEventCode() string {
	code, err := gonanoid.Generate(models.Alphabet, 6)
	if err != nil {
		logging.Log.Errorf("EVENT: failed to generate event code: %v", err)
		return "ERROR"
	}
	return code
}
