package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominateCandidate(t *testing.T) {
	t.Run("nominates an existing member", func(t *testing.T) {
		env := newTestEnv(t)
		member := env.addMember(t, "Sara G.", "200")

		candidate := env.nominate(t, "Sara G.")

		assert.Equal(t, member.MemberID, candidate.MemberID)
		assert.Equal(t, "Sara G.", candidate.Name)
		assert.Zero(t, candidate.VoteCount)
	})

	t.Run("nominating twice is a no-op that keeps the tally", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")
		voter := env.addMember(t, "Abel T.", "100")
		env.addMember(t, "Sara G.", "200")
		env.checkInMember(t, event.EventID, voter.MemberID)
		candidate := env.nominate(t, "Sara G.")

		res := env.submitVote(event.EventID, voter.MemberID, []string{candidate.MemberID})
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		again := env.nominate(t, "Sara G.")
		assert.Equal(t, candidate.MemberID, again.MemberID)
		assert.Equal(t, 1, again.VoteCount)
	})

	t.Run("unknown member cannot be nominated", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/candidates",
			models.NominateCandidateRequest{Name: "Nobody"}, adminHeaders)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestRemoveCandidates(t *testing.T) {
	t.Run("removing a candidate keeps the member", func(t *testing.T) {
		env := newTestEnv(t)
		env.addMember(t, "Sara G.", "200")
		candidate := env.nominate(t, "Sara G.")

		res := testutils.PerformRequest(env.router, http.MethodDelete, "/api/candidates/"+candidate.MemberID, nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/candidates", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, decodeBody[[]models.CandidateResponse](t, res))

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/members/resolve?name=Sara+G.", nil, nil)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("clear removes every candidate", func(t *testing.T) {
		env := newTestEnv(t)
		env.addMember(t, "Sara G.", "200")
		env.addMember(t, "Meron H.", "300")
		env.nominate(t, "Sara G.")
		env.nominate(t, "Meron H.")

		res := testutils.PerformRequest(env.router, http.MethodDelete, "/api/candidates", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodGet, "/api/candidates", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Empty(t, decodeBody[[]models.CandidateResponse](t, res))
	})
}

func TestUploadPicture(t *testing.T) {
	t.Run("stores the file and returns a public url", func(t *testing.T) {
		env := newTestEnv(t)

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "portrait.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("not-really-a-png"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/candidates/picture", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("x-admin-token", testAdminToken)
		res := httptest.NewRecorder()
		env.router.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		assert.NotEmpty(t, decodeBody[models.MediaUploadResponse](t, res).URL)
	})

	t.Run("missing file is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/candidates/picture", nil, adminHeaders)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
