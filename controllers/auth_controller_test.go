package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/middleware"
	"github.com/cppla/portfolio/testutil"
)

func TestLoginSetsCookieAndMe(t *testing.T) {
	e := newEnv(t)

	w := e.public(http.MethodPost, "/api/admin/auth/login",
		map[string]string{"username": testutil.AdminUsername, "password": testutil.AdminPassword})
	require.Equal(t, http.StatusOK, w.Code)

	var cookieValue string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AdminCookieName {
			cookieValue = c.Value
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.False(t, c.Secure, "development cookies are not secure-only")
			assert.Equal(t, 24*3600, c.MaxAge)
		}
	}
	require.NotEmpty(t, cookieValue)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	testutil.Decode(t, w, &data)
	assert.Equal(t, cookieValue, data.Token)
	assert.Equal(t, "admin", data.User.Role)

	me := e.public(http.MethodGet, "/api/admin/auth/me", nil, testutil.WithCookie(middleware.AdminCookieName, cookieValue))
	require.Equal(t, http.StatusOK, me.Code)
	var who map[string]string
	testutil.Decode(t, me, &who)
	assert.Equal(t, testutil.AdminUsername, who["username"])

	me = e.public(http.MethodGet, "/api/admin/auth/me", nil, testutil.WithBearer(data.Token))
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)

	w := e.public(http.MethodPost, "/api/admin/auth/login", map[string]string{"username": "admin", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := testutil.Decode(t, w, nil)
	assert.Equal(t, 40102, env.Code)
	assert.Empty(t, w.Result().Cookies())

	w = e.public(http.MethodPost, "/api/admin/auth/login", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var details struct {
		Fields map[string]string `json:"fields"`
	}
	testutil.Decode(t, w, &details)
	assert.Equal(t, "is required", details.Fields["password"])
}

func TestLoginRateLimited(t *testing.T) {
	e := newEnv(t, func(c *config.AppConfig) { c.RateLimitPerMinute = 2 })
	body := map[string]string{"username": "admin", "password": "nope"}

	assert.Equal(t, http.StatusUnauthorized, e.public(http.MethodPost, "/api/admin/auth/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, e.public(http.MethodPost, "/api/admin/auth/login", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, e.public(http.MethodPost, "/api/admin/auth/login", body).Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newEnv(t)
	w := e.admin(http.MethodPost, "/api/admin/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.AdminCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{
		"/api/admin/auth/me",
		"/api/admin/blog",
		"/api/admin/projects",
		"/api/admin/skills",
		"/api/admin/contacts",
		"/api/admin/stats",
		"/api/admin/analytics",
		"/api/admin/testimonials",
		"/api/admin/uploads",
	} {
		w := e.public(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
