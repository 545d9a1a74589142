package controllers

import (
	"net/http"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	t.Run("creates an open event with id and code", func(t *testing.T) {
		env := newTestEnv(t)

		event := env.createEvent(t, "GENERAL-MEETING")

		assert.NotEmpty(t, event.EventID)
		assert.Len(t, event.EventCode, 6)
		assert.Equal(t, "GENERAL-MEETING", event.Category)
		assert.True(t, event.IsOpen)
	})

	t.Run("auto events are created closed", func(t *testing.T) {
		env := newTestEnv(t)

		event := env.createEvent(t, "AUTO")

		assert.False(t, event.IsOpen)
	})

	t.Run("rejects a second open event of the same category", func(t *testing.T) {
		env := newTestEnv(t)
		env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events",
			models.CreateEventRequest{Category: "GENERAL-MEETING", CreatedBy: "admin"}, adminHeaders)

		assert.Equal(t, http.StatusConflict, res.Code)
	})

	t.Run("different categories can be open at the same time", func(t *testing.T) {
		env := newTestEnv(t)
		env.createEvent(t, "GENERAL-MEETING")
		env.createEvent(t, "BOARD-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/events/open", nil, nil)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, decodeBody[[]models.EventResponse](t, res), 2)
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events",
			models.CreateEventRequest{Category: "POTLUCK", CreatedBy: "admin"}, adminHeaders)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("requires the admin token", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events",
			models.CreateEventRequest{Category: "GENERAL-MEETING", CreatedBy: "admin"}, nil)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestCloseEvent(t *testing.T) {
	t.Run("closing frees the category for a new event", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/close", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)
		assert.False(t, decodeBody[models.EventResponse](t, res).IsOpen)

		next := env.createEvent(t, "GENERAL-MEETING")
		assert.NotEqual(t, event.EventID, next.EventID)
	})

	t.Run("closing an unknown event returns not found", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/nope/close", nil, adminHeaders)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("closing twice returns not found", func(t *testing.T) {
		env := newTestEnv(t)
		event := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/close", nil, adminHeaders)
		require.Equal(t, http.StatusOK, res.Code)

		res = testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+event.EventID+"/close", nil, adminHeaders)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}

func TestGetLastEvent(t *testing.T) {
	t.Run("returns the most recent event of the category", func(t *testing.T) {
		env := newTestEnv(t)
		first := env.createEvent(t, "GENERAL-MEETING")
		testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+first.EventID+"/close", nil, adminHeaders)
		second := env.createEvent(t, "GENERAL-MEETING")

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/events/last/GENERAL-MEETING", nil, nil)

		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, second.EventID, decodeBody[models.EventResponse](t, res).EventID)
	})

	t.Run("returns not found when the category has no events", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/events/last/BOARD-MEETING", nil, nil)

		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/events/last/POTLUCK", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
