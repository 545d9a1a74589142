package controllers

import (
	"net/http"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPolicy(t *testing.T) {
	t.Run("defaults to exactly one choice", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/policy", nil, nil)

		require.Equal(t, http.StatusOK, res.Code)
		policy := decodeBody[models.PolicyResponse](t, res)
		assert.Equal(t, 1, policy.MinChoice)
		assert.Equal(t, 1, policy.MaxChoice)
	})
}

func TestSetPolicyBounds(t *testing.T) {
	t.Run("bounds can be widened and narrowed", func(t *testing.T) {
		env := newTestEnv(t)
		env.setPolicy(t, 2, 4)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/policy", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)
		policy := decodeBody[models.PolicyResponse](t, res)
		assert.Equal(t, 2, policy.MinChoice)
		assert.Equal(t, 4, policy.MaxChoice)
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.setPolicy(t, 1, 2)

		res := testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/min",
			models.PolicyValueRequest{Value: 3}, adminHeaders)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("max below min is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.setPolicy(t, 2, 4)

		res := testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/max",
			models.PolicyValueRequest{Value: 1}, adminHeaders)

		assert.Equal(t, http.StatusBadRequest, res.Code)
	})

	t.Run("zero and negative values are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		for _, value := range []int{0, -1} {
			res := testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/min",
				models.PolicyValueRequest{Value: value}, adminHeaders)
			assert.Equal(t, http.StatusBadRequest, res.Code)
		}
	})

	t.Run("updates require the admin token", func(t *testing.T) {
		env := newTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/max",
			models.PolicyValueRequest{Value: 2}, nil)

		assert.Equal(t, http.StatusUnauthorized, res.Code)
	})
}
