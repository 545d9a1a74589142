package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	testutils "github.com/dave-sbs/voting-app-sub000/api/controllers/testing"
	"github.com/dave-sbs/voting-app-sub000/api/models"
	"github.com/dave-sbs/voting-app-sub000/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testAdminToken = "test-admin-token"

var adminHeaders = map[string]string{"x-admin-token": testAdminToken}

// testEnv wires every controller against the in-memory fakes so a test can
// drive the whole flow through the HTTP surface.
type testEnv struct {
	events     *testutils.FakeEventStorage
	members    *testutils.FakeMemberStorage
	checkIns   *testutils.FakeCheckInStorage
	candidates *testutils.FakeCandidateStorage
	policy     *testutils.FakePolicyStorage
	media      *testutils.FakeMediaStorage
	router     *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	gin.SetMode(gin.TestMode)
	logging.BoostrapLogger()

	env := &testEnv{
		events:     testutils.NewFakeEventStorage(),
		members:    testutils.NewFakeMemberStorage(),
		checkIns:   testutils.NewFakeCheckInStorage(),
		candidates: testutils.NewFakeCandidateStorage(),
		policy:     testutils.NewFakePolicyStorage(),
		media:      testutils.NewFakeMediaStorage(),
	}
	votes := &testutils.FakeVoteStorage{CheckIns: env.checkIns, Candidates: env.candidates}

	env.router = gin.New()
	NewEventController(env.events).RegisterRoutes(env.router)
	NewMemberController(env.members).RegisterRoutes(env.router)
	NewCheckInController(env.checkIns, env.members, env.events).RegisterRoutes(env.router)
	NewCandidateController(env.candidates, env.members, env.media).RegisterRoutes(env.router)
	NewPolicyController(env.policy).RegisterRoutes(env.router)
	NewVotingController(votes, env.checkIns, env.candidates, env.policy).RegisterRoutes(env.router)
	NewSessionController(env.events, env.checkIns, env.candidates, env.policy).RegisterRoutes(env.router)

	return env
}

func decodeBody[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out
}

// createEvent drives POST /api/events and fails the test on anything but 200.
func (env *testEnv) createEvent(t *testing.T, category string) models.EventResponse {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events",
		models.CreateEventRequest{Category: category, CreatedBy: "admin"}, adminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	return decodeBody[models.EventResponse](t, res)
}

func (env *testEnv) addMember(t *testing.T, name, storeNumber string) models.MemberResponse {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodPost, "/api/members",
		models.MemberCreateRequest{Name: name, StoreNumber: storeNumber}, adminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	return decodeBody[models.MemberResponse](t, res)
}

func (env *testEnv) checkInMember(t *testing.T, eventID, memberID string) models.CheckInResponse {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodPost, "/api/events/"+eventID+"/checkins",
		models.CheckInRequest{MemberID: memberID}, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	return decodeBody[models.CheckInResponse](t, res)
}

func (env *testEnv) nominate(t *testing.T, name string) models.CandidateResponse {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodPost, "/api/candidates",
		models.NominateCandidateRequest{Name: name}, adminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	return decodeBody[models.CandidateResponse](t, res)
}

func (env *testEnv) setPolicy(t *testing.T, minChoice, maxChoice int) {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/max",
		models.PolicyValueRequest{Value: maxChoice}, adminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	res = testutils.PerformRequest(env.router, http.MethodPut, "/api/policy/min",
		models.PolicyValueRequest{Value: minChoice}, adminHeaders)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
}

func (env *testEnv) voteCounts(t *testing.T) map[string]int {
	t.Helper()
	res := testutils.PerformRequest(env.router, http.MethodGet, "/api/candidates", nil, nil)
	require.Equal(t, http.StatusOK, res.Code)
	counts := make(map[string]int)
	for _, candidate := range decodeBody[[]models.CandidateResponse](t, res) {
		counts[candidate.MemberID] = candidate.VoteCount
	}
	return counts
}
