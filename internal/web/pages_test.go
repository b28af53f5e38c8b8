package web_test

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackkit/auth-starter/internal/testutil"
)

// noRedirect returns the first response instead of following Location.
var noRedirect = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func getPage(t *testing.T, url string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := noRedirect.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPages_GuestOnlyLayoutRedirectsSignedInVisitors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().WithEmail("guest-check@example.com").Build(t, ts.DB.DB)
	cookie := testutil.SignIn(t, ts, user.Email, password)

	for _, path := range []string{"/login", "/register"} {
		t.Run(path, func(t *testing.T) {
			resp := getPage(t, ts.BaseURL()+path, cookie)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
		})
	}

	// Anonymous visitors see the pages
	for _, path := range []string{"/login", "/register"} {
		resp := getPage(t, ts.BaseURL()+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestPages_DashboardRequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		resp := getPage(t, ts.BaseURL()+"/dashboard")
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("deactivated account is treated as signed out", func(t *testing.T) {
		inactive, _ := testutil.NewUserBuilder().WithEmail("ghost@example.com").Inactive().Build(t, ts.DB.DB)
		_, token := testutil.BuildSession(t, ts.DB.DB, inactive, time.Now().Add(time.Hour))

		resp := getPage(t, ts.BaseURL()+"/dashboard", testutil.SessionCookie(token))
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("signed-in visitor sees the dashboard", func(t *testing.T) {
		user, password := testutil.NewUserBuilder().WithEmail("dash@example.com").Build(t, ts.DB.DB)
		cookie := testutil.SignIn(t, ts, user.Email, password)

		resp := getPage(t, ts.BaseURL()+"/dashboard", cookie)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "dash@example.com")
	})
}

func TestPages_LandingIsPublic(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := getPage(t, ts.BaseURL()+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Sign in")
}
