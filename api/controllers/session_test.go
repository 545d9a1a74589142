package controllers

import (
	"net/http"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSession(t *testing.T) {
	t.Run("rebuilds the full event view", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		voter := env.addMember(t, "Abel T.", "100")
		env.addMember(t, "Sara G.", "200")
		env.checkInMember(t, event.EventID, voter.MemberID)
		candidate := env.nominate(t, "Sara G.")
		env.setPolicy(t, 1, 2)

		res := env.submitVote(event.EventID, voter.MemberID, []string{candidate.MemberID})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/session?eventId="+event.EventID, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		session := decodeBody[models.SessionResponse](t, res)

		assert.Equal(t, event.EventID, session.Event.EventID)
		require.Len(t, session.CheckIns, 1)
		assert.True(t, session.CheckIns[0].HasVoted)
		require.Len(t, session.Candidates, 1)
		assert.Equal(t, 1, session.Candidates[0].VoteCount)
		assert.Equal(t, 1, session.Policy.MinChoice)
		assert.Equal(t, 2, session.Policy.MaxChoice)
	})

	t.Run("unknown event returns not found", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/session?eventId=nope", nil, nil)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("requires an event id", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/session", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestTerminateEvent(t *testing.T) {
	t.Run("exports the summary, closes the event and clears the roster", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		voter := env.addMember(t, "Abel T.", "100")
		bystander := env.addMember(t, "Sara G.", "200")
		env.addMember(t, "Meron H.", "300")
		env.checkInMember(t, event.EventID, voter.MemberID)
		env.checkInMember(t, event.EventID, bystander.MemberID)
		candidate := env.nominate(t, "Meron H.")

		res := env.submitVote(event.EventID, voter.MemberID, []string{candidate.MemberID})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/terminate", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		summary := decodeBody[models.EventSummaryResponse](t, res)

		assert.False(t, summary.Event.IsOpen)
		assert.Equal(t, 2, summary.Attendance)
		assert.Equal(t, 1, summary.UniqueVoters)
		require.Len(t, summary.Tally, 1)
		assert.Equal(t, 1, summary.Tally[0].VoteCount)

		// The roster is cleared for the next cycle.
		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/candidates", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, decodeBody[[]models.CandidateResponse](t, res))

		// And the category is free for a new event.
		env.createEvent(t, "GENERAL-MEETING")
	})

	t.Run("terminating a closed event returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/terminate", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/terminate", nil, adminHeaders)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("requires the admin token", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/terminate", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
