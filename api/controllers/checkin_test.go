package controllers

import (
	"net/http"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn(t *testing.T) {
	t.Run("first check-in creates an attendance row", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")

		checkIn := env.checkInMember(t, event.EventID, member.MemberID)

		assert.Equal(t, event.EventID, checkIn.EventID)
		assert.Equal(t, member.MemberID, checkIn.MemberID)
		assert.False(t, checkIn.HasVoted)
		assert.False(t, checkIn.Returning)
	})

	t.Run("repeat check-in is flagged returning and keeps one row", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")
		first := env.checkInMember(t, event.EventID, member.MemberID)

		second := env.checkInMember(t, event.EventID, member.MemberID)

		assert.True(t, second.Returning)
		assert.Equal(t, first.CheckInTime, second.CheckInTime)
		assert.False(t, second.UpdatedCheckInTime.Before(first.UpdatedCheckInTime))

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/events/"+event.EventID+"/checkins", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, decodeBody[[]models.CheckInResponse](t, res), 1)
	})

	t.Run("repeat check-in never resets the voted flag", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")
		env.addMember(t, "Sara G.", "200")
		env.checkInMember(t, event.EventID, member.MemberID)
		candidate := env.nominate(t, "Sara G.")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.RegisterVoteRequest{EventID: event.EventID, MemberID: member.MemberID,
				CandidateIDs: []string{candidate.MemberID}}, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		again := env.checkInMember(t, event.EventID, member.MemberID)
		assert.True(t, again.HasVoted)
	})

	t.Run("resolves the member by store number", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{StoreNumber: "100"}, nil)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, member.MemberID, decodeBody[models.CheckInResponse](t, res).MemberID)
	})

	t.Run("resolves the member by name", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{Name: "Abel T."}, nil)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, member.MemberID, decodeBody[models.CheckInResponse](t, res).MemberID)
	})

	t.Run("unknown member returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{StoreNumber: "999"}, nil)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("unknown event returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.addMember(t, "Abel T.", "100")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/nope/checkins",
			models.CheckInRequest{MemberID: member.MemberID}, nil)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("closed event rejects check-ins", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")
		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/close", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{MemberID: member.MemberID}, nil)

		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("board meetings only admit board members", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "BOARD-MEETING")
		regular := env.addMember(t, "Abel T.", "100")

		res := testutils.PerformRequest(env.router, http.MethodPut, "/api/members/board",
			models.BoardStatusRequest{Name: "Sara G.", StoreNumber: "200", IsBoardMember: boolPtr(true)}, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)
		board := decodeBody[models.MemberResponse](t, res)

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{MemberID: regular.MemberID}, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)

		checkIn := env.checkInMember(t, event.EventID, board.MemberID)
		assert.True(t, checkIn.IsBoardMember)
	})

	t.Run("requires a member identifier", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/checkins",
			models.CheckInRequest{}, nil)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestListCheckIns(t *testing.T) {
	t.Run("voted filter returns only voters", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		voter := env.addMember(t, "Abel T.", "100")
		bystander := env.addMember(t, "Sara G.", "200")
		env.addMember(t, "Meron H.", "300")
		env.checkInMember(t, event.EventID, voter.MemberID)
		env.checkInMember(t, event.EventID, bystander.MemberID)
		candidate := env.nominate(t, "Meron H.")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote",
			models.RegisterVoteRequest{EventID: event.EventID, MemberID: voter.MemberID,
				CandidateIDs: []string{candidate.MemberID}}, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/events/"+event.EventID+"/checkins/voted", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		voted := decodeBody[[]models.CheckInResponse](t, res)
		require.Len(t, voted, 1)
		assert.Equal(t, voter.MemberID, voted[0].MemberID)
	})

	t.Run("admin reset clears the ledger", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		member := env.addMember(t, "Abel T.", "100")
		env.checkInMember(t, event.EventID, member.MemberID)

		res := testutils.PerformRequest(env.router, http.MethodDelete, "/api/events/"+event.EventID+"/checkins", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/events/"+event.EventID+"/checkins", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, decodeBody[[]models.CheckInResponse](t, res))
	})
}
