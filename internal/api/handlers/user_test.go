package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/testutil"
)

func doRequest(t *testing.T, method, url string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUserRoutes_RequireSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().WithEmail("victim@example.com").Build(t, ts.DB.DB)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/users/" + user.ID.String()},
		{http.MethodPatch, "/users/" + user.ID.String()},
		{http.MethodDelete, "/users/" + user.ID.String()},
		{http.MethodDelete, "/users/" + user.ID.String() + "/permanent"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			resp := doRequest(t, route.method, ts.BaseURL()+route.path)
			testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "unauthorized")
		})
	}

	// None of the rejected calls may have executed: the user is untouched
	got, err := ts.Services.User.FindOne(t.Context(), user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive, "guarded handlers must not run without a session")
}

func TestUserRoutes_InactiveUserSessionRejected(t *testing.T) {
	ts := testutil.NewTestServer(t)

	inactive, _ := testutil.NewUserBuilder().WithEmail("b@x.com").Inactive().Build(t, ts.DB.DB)
	_, token := testutil.BuildSession(t, ts.DB.DB, inactive, time.Now().Add(time.Hour))

	resp := doRequest(t, http.MethodGet, ts.BaseURL()+"/users/me", testutil.SessionCookie(token))
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "unauthorized")
}

func TestUserRoutes_ActiveInactiveScenario(t *testing.T) {
	ts := testutil.NewTestServer(t)

	u1, password := testutil.NewUserBuilder().WithEmail("a@x.com").Build(t, ts.DB.DB)
	u2, _ := testutil.NewUserBuilder().WithEmail("b@x.com").Inactive().Build(t, ts.DB.DB)
	cookie := testutil.SignIn(t, ts, u1.Email, password)

	// findAll returns exactly [U1]
	resp := doRequest(t, http.MethodGet, ts.BaseURL()+"/users", cookie)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var users []domain.User
	testutil.AssertJSONResponse(t, resp, &users)
	require.Len(t, users, 1)
	assert.Equal(t, u1.ID, users[0].ID)

	// findOne still sees the inactive U2
	resp = doRequest(t, http.MethodGet, ts.BaseURL()+"/users/"+u2.ID.String(), cookie)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var fetched domain.User
	testutil.AssertJSONResponse(t, resp, &fetched)
	assert.Equal(t, u2.ID, fetched.ID)
	assert.False(t, fetched.IsActive)
}

func TestUserRoutes_CreateIsPublic(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := postJSON(t, ts.BaseURL()+"/users", map[string]string{"email": "admin-made@example.com"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var user domain.User
	testutil.AssertJSONResponse(t, resp, &user)
	assert.Equal(t, "admin-made@example.com", user.Email)
	assert.False(t, user.EmailVerified)
	assert.True(t, user.IsActive)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup := postJSON(t, ts.BaseURL()+"/users", map[string]string{"email": "admin-made@example.com"})
		testutil.AssertErrorResponse(t, dup, http.StatusConflict, "email already exists")
	})

	t.Run("malformed body is rejected before the service", func(t *testing.T) {
		resp, err := http.Post(ts.BaseURL()+"/users", "application/json", strings.NewReader("{broken"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "malformed request body")
	})
}

func TestUserRoutes_SoftDeleteIsIdempotent(t *testing.T) {
	ts := testutil.NewTestServer(t)

	admin, password := testutil.NewUserBuilder().WithEmail("admin@example.com").Build(t, ts.DB.DB)
	target, _ := testutil.NewUserBuilder().WithEmail("target@example.com").Build(t, ts.DB.DB)
	cookie := testutil.SignIn(t, ts, admin.Email, password)

	first := doRequest(t, http.MethodDelete, ts.BaseURL()+"/users/"+target.ID.String(), cookie)
	testutil.AssertStatusCode(t, first, http.StatusOK)

	second := doRequest(t, http.MethodDelete, ts.BaseURL()+"/users/"+target.ID.String(), cookie)
	testutil.AssertStatusCode(t, second, http.StatusOK)

	got, err := ts.Services.User.FindOne(t.Context(), target.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserRoutes_HardDeleteCascades(t *testing.T) {
	ts := testutil.NewTestServer(t)

	admin, password := testutil.NewUserBuilder().WithEmail("admin@example.com").Build(t, ts.DB.DB)
	target, _ := testutil.NewUserBuilder().WithEmail("doomed@example.com").Build(t, ts.DB.DB)
	testutil.BuildSession(t, ts.DB.DB, target, time.Now().Add(time.Hour))
	cookie := testutil.SignIn(t, ts, admin.Email, password)

	resp := doRequest(t, http.MethodDelete, ts.BaseURL()+"/users/"+target.ID.String()+"/permanent", cookie)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	notFound := doRequest(t, http.MethodGet, ts.BaseURL()+"/users/"+target.ID.String(), cookie)
	testutil.AssertErrorResponse(t, notFound, http.StatusNotFound, "not found")

	var sessionCount int64
	require.NoError(t, ts.DB.DB.Model(&domain.Session{}).Where("user_id = ?", target.ID).Count(&sessionCount).Error)
	assert.Zero(t, sessionCount, "hard delete must sweep the user's sessions")
}

func TestUserRoutes_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().WithEmail("me@example.com").WithName("Me Myself").Build(t, ts.DB.DB)
	cookie := testutil.SignIn(t, ts, user.Email, password)

	resp := doRequest(t, http.MethodGet, ts.BaseURL()+"/users/me", cookie)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var me domain.User
	testutil.AssertJSONResponse(t, resp, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, user.Email, me.Email)
}
