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

type MemberController struct {
	membersStorage storage.MemberStorage
}

func NewMemberController(s storage.MemberStorage) *MemberController {
	return &MemberController{membersStorage: s}
}

func (c *MemberController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/members")

	group.GET("", c.getAll)
	group.GET("/resolve", c.resolve)
	group.POST("", transport.AdminAuthMiddleware(), c.addMember)
	group.DELETE("", transport.AdminAuthMiddleware(), c.removeMember)
	group.PUT("/board", transport.AdminAuthMiddleware(), c.setBoardStatus)
}

// getAll godoc
// @Summary List all members
// @Tags members
// @Produce json
// @Success 200 {array} models.MemberResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/members [get]
func (c *MemberController) getAll(g *gin.Context) {
	members, err := c.membersStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to list members: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list members"})
		return
	}

	responses := make([]models.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, models.TransformMemberFromStorage(m))
	}
	g.JSON(http.StatusOK, responses)
}

// resolve godoc
// @Summary Resolve a member by store number or exact name
// @Tags members
// @Produce json
// @Param store query string false "Store number"
// @Param name query string false "Member name"
// @Success 200 {object} models.MemberResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/members/resolve [get]
func (c *MemberController) resolve(g *gin.Context) {
	store := g.Query("store")
	name := g.Query("name")
	if store == "" && name == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "store or name is required"})
		return
	}

	var member *storage.Member
	var err error
	if store != "" {
		member, err = c.membersStorage.GetByStoreNumber(g.Request.Context(), store)
	} else {
		member, err = c.membersStorage.GetByName(g.Request.Context(), name)
	}
	if err != nil {
		logging.Log.Errorf("MEMBER: failed to resolve member: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not resolve member"})
		return
	}
	if member == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "member not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformMemberFromStorage(member))
}

// @Security AdminToken
// addMember godoc
// @Summary Register a member or add a store number to an existing member
// @Description A new name creates a member; an existing name gains the store number. A store number already registered to any member is rejected.
// @Tags members
// @Accept json
// @Produce json
// @Param member body models.MemberCreateRequest true "Member to add"
// @Success 200 {object} models.MemberResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/members [post]
func (c *MemberController) addMember(g *gin.Context) {
	var req models.MemberCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" || req.StoreNumber == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing name or store number"})
		return
	}

	member, err := c.membersStorage.Add(g.Request.Context(), req.Name, req.StoreNumber)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateStoreNumber) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "store number is already registered"})
			return
		}
		logging.Log.Errorf("MEMBER: failed to add %s: %v", req.Name, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not add member"})
		return
	}

	logging.Log.Infof("MEMBER: added %s with store %s", req.Name, req.StoreNumber)
	g.JSON(http.StatusOK, models.TransformMemberFromStorage(member))
}

// @Security AdminToken
// removeMember godoc
// @Summary Remove a store number from a member
// @Description Removing the member's last store number deletes the member record.
// @Tags members
// @Accept json
// @Produce json
// @Param member body models.MemberRemoveRequest true "Member and store number to remove"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/members [delete]
func (c *MemberController) removeMember(g *gin.Context) {
	var req models.MemberRemoveRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" || req.StoreNumber == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing name or store number"})
		return
	}

	if err := c.membersStorage.Remove(g.Request.Context(), req.Name, req.StoreNumber); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "no member with that name and store number"})
			return
		}
		logging.Log.Errorf("MEMBER: failed to remove store %s from %s: %v", req.StoreNumber, req.Name, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not remove member"})
		return
	}

	logging.Log.Infof("MEMBER: removed store %s from %s", req.StoreNumber, req.Name)
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "member updated"})
}

// @Security AdminToken
// setBoardStatus godoc
// @Summary Set or clear a member's board flag
// @Description Promoting an unknown member registers them first. Clearing the flag for an unknown member fails.
// @Tags members
// @Accept json
// @Produce json
// @Param member body models.BoardStatusRequest true "Board status change"
// @Success 200 {object} models.MemberResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/members/board [put]
func (c *MemberController) setBoardStatus(g *gin.Context) {
	var req models.BoardStatusRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" || req.IsBoardMember == nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing name or board flag"})
		return
	}
	if *req.IsBoardMember && req.StoreNumber == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "store number is required when promoting a member"})
		return
	}

	member, err := c.membersStorage.SetBoardStatus(g.Request.Context(), req.Name, req.StoreNumber, *req.IsBoardMember)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "member not found"})
			return
		}
		if errors.Is(err, storage.ErrDuplicateStoreNumber) {
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "store number is already registered"})
			return
		}
		logging.Log.Errorf("MEMBER: failed to set board status for %s: %v", req.Name, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update board status"})
		return
	}

	logging.Log.Infof("MEMBER: set board status for %s to %t", req.Name, *req.IsBoardMember)
	g.JSON(http.StatusOK, models.TransformMemberFromStorage(member))
}
