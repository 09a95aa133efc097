package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/routes"
	"github.com/cppla/portfolio/testutil"
)

type env struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func newEnv(t *testing.T, mutate ...func(*config.AppConfig)) *env {
	t.Helper()
	testutil.Config(mutate...)
	db := testutil.NewDB(t)
	return &env{t: t, db: db, router: routes.SetupRouter(db)}
}

func (e *env) login() string {
	e.t.Helper()
	if e.token != "" {
		return e.token
	}
	w := testutil.Do(e.t, e.router, http.MethodPost, "/api/admin/auth/login",
		map[string]string{"username": testutil.AdminUsername, "password": testutil.AdminPassword})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	testutil.Decode(e.t, w, &data)
	require.NotEmpty(e.t, data.Token)
	e.token = data.Token
	return e.token
}

// public serves an unauthenticated request.
func (e *env) public(method, path string, body interface{}, opts ...testutil.Option) *httptest.ResponseRecorder {
	e.t.Helper()
	return testutil.Do(e.t, e.router, method, path, body, opts...)
}

// admin serves a request carrying the admin bearer token.
func (e *env) admin(method, path string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	return testutil.Do(e.t, e.router, method, path, body, testutil.WithBearer(e.login()))
}
