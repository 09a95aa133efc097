package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/controllers"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/testutil"
)

func TestAnalyticsMockOutsideProduction(t *testing.T) {
	e := newEnv(t)

	w := e.admin(http.MethodGet, "/api/admin/analytics?range=7d", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report controllers.Report
	testutil.Decode(t, w, &report)
	assert.True(t, report.Mock)
	assert.Equal(t, "7d", report.Range)
	require.Len(t, report.Series, 7)
	assert.Equal(t, time.Now().Format("2006-01-02"), report.Series[6].Date)

	var sum int64
	for _, p := range report.Series {
		assert.LessOrEqual(t, p.Visitors, p.Views)
		sum += p.Views
	}
	assert.Equal(t, report.Totals.Views, sum)

	// stable across reloads
	var again controllers.Report
	testutil.Decode(t, e.admin(http.MethodGet, "/api/admin/analytics?range=7d", nil), &again)
	assert.Equal(t, report.Series, again.Series)

	w = e.admin(http.MethodGet, "/api/admin/analytics?range=1y", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40090, testutil.Decode(t, w, nil).Code)
}

func TestAnalyticsRecordedInProduction(t *testing.T) {
	e := newEnv(t, func(c *config.AppConfig) {
		c.AppEnv = "production"
		c.AnalyticsEnabled = true
	})

	for _, path := range []string{"/blog/a", "/blog/a", "/"} {
		w := e.public(http.MethodPost, "/api/track", map[string]string{"path": path})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := e.public(http.MethodPost, "/api/track", map[string]string{"path": "/api/blog"})
	var tracked struct {
		Recorded bool `json:"recorded"`
	}
	testutil.Decode(t, w, &tracked)
	assert.False(t, tracked.Recorded)

	w = e.public(http.MethodPost, "/api/track", map[string]string{"path": "/about"}, testutil.WithHeader("DNT", "1"))
	testutil.Decode(t, w, &tracked)
	assert.False(t, tracked.Recorded)

	assert.Equal(t, http.StatusBadRequest, e.public(http.MethodPost, "/api/track", map[string]string{"path": "no-slash"}).Code)

	var report controllers.Report
	testutil.Decode(t, e.admin(http.MethodGet, "/api/admin/analytics?range=7d", nil), &report)
	assert.False(t, report.Mock)
	assert.Equal(t, int64(3), report.Totals.Views)
	assert.Equal(t, int64(1), report.Totals.Visitors)
	require.NotEmpty(t, report.TopPages)
	assert.Equal(t, "/blog/a", report.TopPages[0].Path)
	assert.Equal(t, int64(2), report.TopPages[0].Views)
}

func TestMockReportDeterministic(t *testing.T) {
	dates := []string{"2024-01-01", "2024-01-02"}
	assert.Equal(t, controllers.MockReport(dates), controllers.MockReport(dates))
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	createPost(t, e, map[string]interface{}{"title": "Live", "content": "x", "published": true})
	createPost(t, e, map[string]interface{}{"title": "Draft", "content": "x"})
	createProject(t, e, map[string]interface{}{"title": "P"})
	require.Equal(t, http.StatusCreated, e.public(http.MethodPost, "/api/contact", contactBody(nil)).Code)
	require.NoError(t, e.db.Create(&models.PageView{Date: time.Now().Format("2006-01-02"), Path: "/", Count: 4}).Error)

	var admin struct {
		Posts struct {
			Published int64 `json:"published"`
			Draft     int64 `json:"draft"`
		} `json:"posts"`
		Projects int64 `json:"projects"`
		Contacts struct {
			Total int64 `json:"total"`
			New   int64 `json:"new"`
		} `json:"contacts"`
		Today struct {
			Views int64 `json:"views"`
		} `json:"today"`
		RecentContacts []models.Contact `json:"recent_contacts"`
	}
	testutil.Decode(t, e.admin(http.MethodGet, "/api/admin/stats", nil), &admin)
	assert.Equal(t, int64(1), admin.Posts.Published)
	assert.Equal(t, int64(1), admin.Posts.Draft)
	assert.Equal(t, int64(1), admin.Projects)
	assert.Equal(t, int64(1), admin.Contacts.New)
	assert.Equal(t, int64(4), admin.Today.Views)
	assert.Len(t, admin.RecentContacts, 1)

	var public map[string]int64
	testutil.Decode(t, e.public(http.MethodGet, "/api/stats", nil), &public)
	assert.Equal(t, int64(1), public["published_posts"])
	assert.Equal(t, int64(4), public["total_views"])
}
