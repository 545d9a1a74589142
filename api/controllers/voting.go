package controllers

import (
	"errors"
	"net/http"

	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/dave-sbs/voting-app-sub000/storage"
	"github.com/gin-gonic/gin"
)

type VotingController struct {
	votesStorage      storage.VoteStorage
	checkInsStorage   storage.CheckInStorage
	candidatesStorage storage.CandidateStorage
	policyStorage     storage.PolicyStorage
}

func NewVotingController(votes storage.VoteStorage, checkIns storage.CheckInStorage, candidates storage.CandidateStorage, policy storage.PolicyStorage) *VotingController {
	return &VotingController{
		votesStorage:      votes,
		checkInsStorage:   checkIns,
		candidatesStorage: candidates,
		policyStorage:     policy,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.POST("/vote", c.submitVote)
}

// submitVote godoc
// @Summary Submit a ballot
// @Description Validates the voter against the check-in ledger and the selection policy, then commits every candidate increment and the voted flag as one transaction. A failed commit leaves no partial tally and may be retried whole.
// @Tags voting
// @Accept json
// @Produce json
// @Param ballot body models.RegisterVoteRequest true "Ballot submission"
// @Success 200 {object} models.RegisterVoteResponse
// @Failure 400 {object} models.ErrorResponse "Selection outside policy bounds or unknown candidate"
// @Failure 404 {object} models.ErrorResponse "Voter is not checked in"
// @Failure 409 {object} models.ErrorResponse "Voter has already voted"
// @Failure 500 {object} models.ErrorResponse "Vote did not count; safe to retry"
// @Router /api/vote [post]
func (c *VotingController) submitVote(g *gin.Context) {
	var req models.RegisterVoteRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.EventID == "" || req.MemberID == "" {
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "invalid request, missing event or member id"})
		return
	}

	// A ballot is a set; a duplicated id would let one choice count twice.
	seen := make(map[string]bool, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		if id == "" || seen[id] {
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "duplicate or empty candidate id in ballot"})
			return
		}
		seen[id] = true
	}

	checkIn, err := c.checkInsStorage.Get(g.Request.Context(), req.EventID, req.MemberID)
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load check-in for member %s: %v", req.MemberID, err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "vote did not count, please retry"})
		return
	}
	if checkIn == nil {
		logging.Log.Warnf("VOTE: member %s is not checked in to event %s", req.MemberID, req.EventID)
		g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "voter is not checked in to this event"})
		return
	}
	if checkIn.HasVoted {
		logging.Log.Warnf("VOTE: member %s already voted on event %s", req.MemberID, req.EventID)
		g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "voter has already voted"})
		return
	}

	policy, err := c.policyStorage.Get(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load selection policy: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "vote did not count, please retry"})
		return
	}
	if policy.MinChoice > policy.MaxChoice {
		// The store rejects writes that cross the bounds, so this means the
		// policy row was tampered with out of band.
		logging.Log.Errorf("VOTE: selection policy is inconsistent (min=%d max=%d)", policy.MinChoice, policy.MaxChoice)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "selection policy is misconfigured"})
		return
	}
	if len(req.CandidateIDs) < policy.MinChoice || len(req.CandidateIDs) > policy.MaxChoice {
		logging.Log.Warnf("VOTE: member %s submitted %d candidates, policy allows %d..%d",
			req.MemberID, len(req.CandidateIDs), policy.MinChoice, policy.MaxChoice)
		g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "selection size is outside the allowed range"})
		return
	}

	active, err := c.candidatesStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("VOTE: failed to load candidates: %v", err)
		g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "vote did not count, please retry"})
		return
	}
	activeIDs := make(map[string]bool, len(active))
	for _, candidate := range active {
		activeIDs[candidate.MemberID] = true
	}
	for _, id := range req.CandidateIDs {
		if !activeIDs[id] {
			logging.Log.Warnf("VOTE: ballot from %s names inactive candidate %s", req.MemberID, id)
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "ballot contains a candidate that is not active"})
			return
		}
	}

	// The storage transaction re-checks the voted flag, so a concurrent
	// submission that slipped past the read above still cannot double count.
	if err := c.votesStorage.CommitBallot(g.Request.Context(), req.EventID, req.MemberID, req.CandidateIDs); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyVoted):
			g.JSON(http.StatusConflict, &models.ErrorResponse{Error: "voter has already voted"})
		case errors.Is(err, storage.ErrNotCheckedIn):
			g.JSON(http.StatusNotFound, &models.ErrorResponse{Error: "voter is not checked in to this event"})
		case errors.Is(err, storage.ErrNotFound):
			g.JSON(http.StatusBadRequest, &models.ErrorResponse{Error: "ballot contains a candidate that is not active"})
		default:
			logging.Log.Errorf("VOTE: ballot commit failed for member %s: %v", req.MemberID, err)
			g.JSON(http.StatusInternalServerError, &models.ErrorResponse{Error: "vote did not count, please retry"})
		}
		return
	}

	g.JSON(http.StatusOK, &models.RegisterVoteResponse{Message: "vote registered"})
}
