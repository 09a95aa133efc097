package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/testutil"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0"

func TestTrackable(t *testing.T) {
	for path, want := range map[string]bool{
		"/":              true,
		"/blog/hello":    true,
		"/projects/site": true,
		"/api/blog":      false,
		"/static/app.js": false,
		"/uploads/a.png": false,
		"/admin/login":   false,
		"/health":        false,
		"/feed.xml":      false,
		"/sitemap.xml":   false,
		"/favicon.ico":   false,
		"":               false,
	} {
		assert.Equal(t, want, Trackable(path), path)
	}
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot(""))
	assert.True(t, IsBot("Googlebot/2.1 (+http://www.google.com/bot.html)"))
	assert.True(t, IsBot("curl/8.1.2"))
	assert.True(t, IsBot("Mozilla/5.0 HeadlessChrome/120.0"))
	assert.False(t, IsBot(browserUA))
}

func TestVisitorHash(t *testing.T) {
	a := VisitorHash("1.2.3.4", browserUA, "2024-05-01", "salt")
	assert.Len(t, a, 16)
	assert.Equal(t, a, VisitorHash("1.2.3.4", browserUA, "2024-05-01", "salt"))
	assert.NotEqual(t, a, VisitorHash("1.2.3.4", browserUA, "2024-05-02", "salt"))
	assert.NotEqual(t, a, VisitorHash("1.2.3.4", browserUA, "2024-05-01", "pepper"))
}

func TestRecordVisitUpserts(t *testing.T) {
	testutil.Config()
	db := testutil.NewDB(t)

	require.NoError(t, RecordVisit(db, "/blog/hello", "1.2.3.4", browserUA, "https://ref.example"))
	require.NoError(t, RecordVisit(db, "/blog/hello", "1.2.3.4", browserUA, ""))
	require.NoError(t, RecordVisit(db, "/blog/hello", "5.6.7.8", browserUA, ""))
	require.NoError(t, RecordVisit(db, "/blog/hello", "9.9.9.9", "curl/8.0", ""))

	var pv models.PageView
	require.NoError(t, db.Where("path = ?", "/blog/hello").First(&pv).Error)
	assert.Equal(t, int64(3), pv.Count)

	var visitors []models.Visitor
	require.NoError(t, db.Order("views DESC").Find(&visitors).Error)
	require.Len(t, visitors, 2)
	assert.Equal(t, int64(2), visitors[0].Views)
	assert.Equal(t, "https://ref.example", visitors[0].Referrer)
	assert.Equal(t, int64(1), visitors[1].Views)
}

func TestPageViewRecorder(t *testing.T) {
	testutil.Config()
	db := testutil.NewDB(t)

	r := gin.New()
	r.Use(PageViewRecorder(db))
	ok := func(ctx *gin.Context) { ctx.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.POST("/", ok)
	r.GET("/api/blog", ok)
	r.GET("/missing", func(ctx *gin.Context) { ctx.String(http.StatusNotFound, "nope") })

	testutil.Do(t, r, http.MethodGet, "/", nil)
	testutil.Do(t, r, http.MethodGet, "/", nil, testutil.WithHeader("DNT", "1"))
	testutil.Do(t, r, http.MethodPost, "/", nil)
	testutil.Do(t, r, http.MethodGet, "/api/blog", nil)
	testutil.Do(t, r, http.MethodGet, "/missing", nil)

	var rows []models.PageView
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "/", rows[0].Path)
	assert.Equal(t, int64(1), rows[0].Count)
}

func TestUpsertCountersAreQualifiedForPostgres(t *testing.T) {
	// DryRun never touches the server, it only builds the statement
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	now := time.Now()

	sql := db.Clauses(pageViewUpsert(now)).Create(&models.PageView{Date: "2024-01-02", Path: "/", Count: 1}).Statement.SQL.String()
	assert.Contains(t, sql, `ON CONFLICT ("date","path") DO UPDATE`)
	assert.Contains(t, sql, `"count"=page_views.count + 1`)

	sql = db.Clauses(visitorUpsert(now)).Create(&models.Visitor{Date: "2024-01-02", Hash: "abc", Views: 1}).Statement.SQL.String()
	assert.Contains(t, sql, `ON CONFLICT ("date","hash") DO UPDATE`)
	assert.Contains(t, sql, `"views"=visitors.views + 1`)
}
