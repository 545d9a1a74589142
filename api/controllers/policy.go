package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/api/transport"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

type PolicyController struct {
	policyStorage storage.PolicyStorage
}

func NewPolicyController(s storage.PolicyStorage) *PolicyController {
	return &PolicyController{policyStorage: s}
}

func (c *PolicyController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/policy")

	group.GET("", c.get)
	group.PUT("/min", transport.AdminAuthMiddleware(), c.setMin)
	group.PUT("/max", transport.AdminAuthMiddleware(), c.setMax)
}

// get godoc
// @Summary Get the current selection policy
// @Tags policy
// @Produce json
// @Success 200 {object} models.PolicyResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/policy [get]
func (c *PolicyController) get(g *gin.Context) {
	policy, err := c.policyStorage.Get(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("POLICY: failed to load policy: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not load policy"})
		return
	}
	g.JSON(http.StatusOK, models.TransformPolicyFromStorage(policy))
}

// @Security AdminToken
// setMin godoc
// @Summary Set the minimum number of candidates per ballot
// @Description Rejected when the value would end up above the configured maximum.
// @Tags policy
// @Accept json
// @Produce json
// @Param value body models.PolicyValueRequest true "New minimum"
// @Success 200 {object} models.PolicyResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/policy/min [put]
func (c *PolicyController) setMin(g *gin.Context) {
	c.setBound(g, c.policyStorage.SetMin)
}

// @Security AdminToken
// setMax godoc
// @Summary Set the maximum number of candidates per ballot
// @Description Rejected when the value would end up below the configured minimum.
// @Tags policy
// @Accept json
// @Produce json
// @Param value body models.PolicyValueRequest true "New maximum"
// @Success 200 {object} models.PolicyResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/policy/max [put]
func (c *PolicyController) setMax(g *gin.Context) {
	c.setBound(g, c.policyStorage.SetMax)
}

func (c *PolicyController) setBound(g *gin.Context, set func(ctx context.Context, value int) (*storage.SelectionPolicy, error)) {
	var req models.PolicyValueRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.Value < 1 {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, value must be a positive integer"})
		return
	}

	policy, err := set(g.Request.Context(), req.Value)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPolicy) {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "value would leave min above max"})
			return
		}
		logging.Log.Errorf("POLICY: failed to update policy: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "could not update policy"})
		return
	}

	logging.Log.Infof("POLICY: selection policy now min=%d max=%d", policy.MinChoice, policy.MaxChoice)
	g.JSON(http.StatusOK, models.TransformPolicyFromStorage(policy))
}
