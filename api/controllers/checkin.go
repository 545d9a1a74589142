package controllers

import (
	"net/http"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

type CheckInController struct {
	checkInsStorage storage.CheckInStorage
	membersStorage  storage.MemberStorage
	eventsStorage   storage.EventStorage
}

func NewCheckInController(checkIns storage.CheckInStorage, members storage.MemberStorage, events storage.EventStorage) *CheckInController {
	return &CheckInController{
		checkInsStorage: checkIns,
		membersStorage:  members,
		eventsStorage:   events,
	}
}

func (c *CheckInController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/events/:id/checkins")

	group.POST("", c.checkIn)
	group.GET("", c.getAll)
	group.GET("/voted", c.getVoted)
	group.DELETE("", transport.AdminAuthMiddleware(), c.reset)
}

// checkIn godoc
// @Summary Check a member in to an event
// @Description Idempotent per (member, event): a repeat check-in refreshes the updated time and never resets the voted flag. Board meetings only admit board members.
// @Tags checkins
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body models.CheckInRequest true "Member identifier (id, store number or name)"
// @Success 200 {object} models.CheckInResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/checkins [post]
func (c *CheckInController) checkIn(g *gin.Context) {
	eventID := g.Param("id")

	var req models.CheckInRequest
	if err := g.ShouldBindJSON(&req); err != nil || (req.MemberID == "" && req.StoreNumber == "" && req.Name == "") {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "member id, store number or name is required"})
		return
	}

	event, err := c.eventsStorage.GetByID(g.Request.Context(), eventID)
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to load event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load event"})
		return
	}
	if event == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "event not found"})
		return
	}
	if !event.IsOpen {
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "event is closed"})
		return
	}

	member, err := c.resolveMember(g, &req)
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to resolve member: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not resolve member"})
		return
	}
	if member == nil {
		logging.Log.Warnf("CHECKIN: unknown member attempted check-in to event %s", eventID)
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "member not found"})
		return
	}

	if event.Category == string(models.CategoryBoardMeeting) && !member.IsBoardMember {
		logging.Log.Warnf("CHECKIN: non-board member %s rejected from board meeting %s", member.MemberID, eventID)
		g.JSON(http.StatusForbidden, &models.ErrorResponse{Error: "board meetings are restricted to board members"})
		return
	}

	checkIn, created, err := c.checkInsStorage.CheckIn(g.Request.Context(), eventID, member)
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to check in member %s to event %s: %v", member.MemberID, eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not record check-in"})
		return
	}

	if created {
		logging.Log.Infof("CHECKIN: member %s checked in to event %s", member.MemberID, eventID)
	} else {
		logging.Log.Infof("CHECKIN: member %s re-checked in to event %s", member.MemberID, eventID)
	}
	g.JSON(http.StatusOK, models.TransformCheckInFromStorage(checkIn, member.IsBoardMember, !created))
}

// getAll godoc
// @Summary List all check-ins for an event
// @Tags checkins
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} models.CheckInResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/checkins [get]
func (c *CheckInController) getAll(g *gin.Context) {
	c.list(g, false)
}

// getVoted godoc
// @Summary List check-ins that have voted
// @Tags checkins
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} models.CheckInResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/checkins/voted [get]
func (c *CheckInController) getVoted(g *gin.Context) {
	c.list(g, true)
}

func (c *CheckInController) list(g *gin.Context, votedOnly bool) {
	eventID := g.Param("id")

	var checkIns []*storage.CheckIn
	var err error
	if votedOnly {
		checkIns, err = c.checkInsStorage.GetVoted(g.Request.Context(), eventID)
	} else {
		checkIns, err = c.checkInsStorage.GetAll(g.Request.Context(), eventID)
	}
	if err != nil {
		logging.Log.Errorf("CHECKIN: failed to list check-ins for event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list check-ins"})
		return
	}

	responses := make([]models.CheckInResponse, 0, len(checkIns))
	for _, ci := range checkIns {
		responses = append(responses, models.TransformCheckInFromStorage(ci, false, false))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// reset godoc
// @Summary Delete every check-in row for an event
// @Description Reset utility for re-running a session; not part of the normal lifecycle.
// @Tags checkins
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/events/{id}/checkins [delete]
func (c *CheckInController) reset(g *gin.Context) {
	eventID := g.Param("id")

	if err := c.checkInsStorage.DeleteAll(g.Request.Context(), eventID); err != nil {
		logging.Log.Errorf("CHECKIN: failed to reset check-ins for event %s: %v", eventID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not reset check-ins"})
		return
	}

	logging.Log.Infof("CHECKIN: reset check-ins for event %s", eventID)
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "check-ins reset"})
}

func (c *CheckInController) resolveMember(g *gin.Context, req *models.CheckInRequest) (*storage.Member, error) {
	ctx := g.Request.Context()
	switch {
	case req.MemberID != "":
		return c.membersStorage.Get(ctx, req.MemberID)
	case req.StoreNumber != "":
		return c.membersStorage.GetByStoreNumber(ctx, req.StoreNumber)
	default:
		return c.membersStorage.GetByName(ctx, req.Name)
	}
}
