package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

type CandidateController struct {
	candidatesStorage storage.CandidateStorage
	membersStorage    storage.MemberStorage
	mediaStorage      storage.MediaStorage
}

func NewCandidateController(candidates storage.CandidateStorage, members storage.MemberStorage, media storage.MediaStorage) *CandidateController {
	return &CandidateController{
		candidatesStorage: candidates,
		membersStorage:    members,
		mediaStorage:      media,
	}
}

func (c *CandidateController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/candidates")

	group.GET("", c.getActive)
	group.POST("", transport.AdminAuthMiddleware(), c.nominate)
	group.POST("/picture", transport.AdminAuthMiddleware(), c.uploadPicture)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.remove)
	group.DELETE("", transport.AdminAuthMiddleware(), c.clearAll)
}

// getActive godoc
// @Summary List active candidates with current vote counts
// @Tags candidates
// @Produce json
// @Success 200 {array} models.CandidateResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates [get]
func (c *CandidateController) getActive(g *gin.Context) {
	candidates, err := c.candidatesStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to list candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not list candidates"})
		return
	}

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, models.TransformCandidateFromStorage(candidate))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// nominate godoc
// @Summary Nominate a member as an active candidate
// @Description Nominating an already-active candidate is a no-op and returns the existing row; double submissions from the UI are tolerated.
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body models.NominateCandidateRequest true "Member to nominate"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates [post]
func (c *CandidateController) nominate(g *gin.Context) {
	var req models.NominateCandidateRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Name == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing member name"})
		return
	}

	member, err := c.membersStorage.GetByName(g.Request.Context(), req.Name)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to resolve member %s: %v", req.Name, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not resolve member"})
		return
	}
	if member == nil {
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "member not found"})
		return
	}

	candidate := &storage.Candidate{
		MemberID:       member.MemberID,
		MemberName:     member.MemberName,
		ProfilePicture: req.ProfilePicture,
		VoteCount:      0,
	}

	if err := c.candidatesStorage.Create(g.Request.Context(), candidate); err != nil {
		if errors.Is(err, storage.ErrCandidateExists) {
			logging.Log.Infof("CANDIDATE: %s already nominated, ignoring", member.MemberID)
			existing, err := c.candidatesStorage.Get(g.Request.Context(), member.MemberID)
			if err != nil || existing == nil {
				g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load candidate"})
				return
			}
			g.JSON(http.StatusOK, models.TransformCandidateFromStorage(existing))
			return
		}
		logging.Log.Errorf("CANDIDATE: failed to nominate %s: %v", req.Name, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not nominate candidate"})
		return
	}

	logging.Log.Infof("CANDIDATE: nominated %s (%s)", member.MemberName, member.MemberID)
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// uploadPicture godoc
// @Summary Upload a candidate profile picture
// @Tags candidates
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} models.MediaUploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates/picture [post]
func (c *CandidateController) uploadPicture(g *gin.Context) {
	fileHeader, err := g.FormFile("file")
	if err != nil {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to open uploaded file: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to read uploaded file: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not read file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := c.mediaStorage.Upload(g.Request.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to upload picture: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not upload picture"})
		return
	}

	g.JSON(http.StatusOK, &models.MediaUploadResponse{URL: url})
}

// @Security AdminToken
// remove godoc
// @Summary Remove an active candidate
// @Description Removes the candidate row only; the underlying member is untouched.
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate (member) ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates/{id} [delete]
func (c *CandidateController) remove(g *gin.Context) {
	candidateID := g.Param("id")
	if candidateID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "missing candidate id"})
		return
	}

	if err := c.candidatesStorage.Delete(g.Request.Context(), candidateID); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to remove candidate %s: %v", candidateID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not remove candidate"})
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "candidate removed"})
}

// @Security AdminToken
// clearAll godoc
// @Summary Clear the candidate roster
// @Description Deletes every active candidate; used when a voting cycle ends.
// @Tags candidates
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/candidates [delete]
func (c *CandidateController) clearAll(g *gin.Context) {
	if err := c.candidatesStorage.DeleteAll(g.Request.Context()); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to clear candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not clear candidates"})
		return
	}

	logging.Log.Infof("CANDIDATE: cleared active candidates")
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "candidates cleared"})
}
