// Package testutil builds isolated configs, in-memory databases and requests for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
)

const (
	AdminUsername = "admin"
	AdminPassword = "admin-pass"
	JWTSecret     = "test-secret"
)

// Config installs a test configuration (sqlite, fixed secrets, silent logs) and returns it.
// mutate may adjust fields before the config is stored.
func Config(mutate ...func(*config.AppConfig)) config.AppConfig {
	gin.SetMode(gin.TestMode)
	c := config.AppConfig{
		AppEnv:                  "development",
		AppPort:                 "8080",
		BaseURL:                 "http://example.test",
		JWTSecret:               JWTSecret,
		RateLimitPerMinute:      1000,
		AllowedOrigins:          []string{"*"},
		GinMode:                 "test",
		SiteTitle:               "Test Portfolio",
		SiteDescription:         "Projects and writing",
		SiteAuthor:              "Test Author",
		AdminUsername:           AdminUsername,
		AdminPassword:           AdminPassword,
		AdminTokenTTLHours:      24,
		DBDriver:                "sqlite",
		DatabaseURI:             ":memory:",
		ContactMinFillSeconds:   3,
		ContactRateLimitPerHour: 100,
		VisitorHashSalt:         "salt",
		UploadDir:               "uploads",
		UploadMaxMB:             1,
		LogLevel:                "silent",
		OTELServiceName:         "portfolio-test",
	}
	for _, fn := range mutate {
		fn(&c)
	}
	config.Set(c)
	return c
}

// NewDB opens a fresh in-memory SQLite database with every model migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{DBDriver: "sqlite", DatabaseURI: ":memory:", LogLevel: "silent"}, models.All()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Option adjusts an outgoing test request.
type Option func(*http.Request)

// WithCookie attaches a cookie.
func WithCookie(name, value string) Option {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: name, Value: value}) }
}

// WithHeader sets a header.
func WithHeader(key, value string) Option {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithBearer sets an Authorization bearer header.
func WithBearer(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

// Do serves one request against h. body may be nil, a string, []byte or any JSON-marshalable value.
func Do(t testing.TB, h http.Handler, method, path string, body interface{}, opts ...Option) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0")
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Envelope mirrors the JSON response envelope with Data left raw.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Decode parses the response envelope and, when out is non-nil, its data field into out.
func Decode(t testing.TB, w *httptest.ResponseRecorder, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), "data: %s", string(env.Data))
	}
	return env
}
