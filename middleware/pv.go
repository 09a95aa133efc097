package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape", "curl", "wget",
	"facebookexternalhit", "headless", "lighthouse",
}

// PageViewRecorder records page views per day and path after successful GETs of site pages.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 400 {
			return
		}
		if c.GetHeader("DNT") == "1" {
			return
		}
		path := c.Request.URL.Path
		if !Trackable(path) {
			return
		}

		if err := RecordVisit(db, path, c.ClientIP(), c.Request.UserAgent(), c.Request.Referer()); err != nil {
			utils.Sugar.Warnw("record page view failed", "path", path, "err", err)
		}
	}
}

// Trackable reports whether path is a content page worth counting.
func Trackable(path string) bool {
	if path == "" || path == "/health" || path == "/feed.xml" || path == "/sitemap.xml" || path == "/favicon.ico" || path == "/robots.txt" {
		return false
	}
	for _, prefix := range []string{"/api/", "/static/", "/uploads/", "/admin"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// IsBot reports whether the user agent looks like a crawler or script. Empty agents count as bots.
func IsBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return true
	}
	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// VisitorHash identifies a visitor for one day without storing the IP.
func VisitorHash(ip, userAgent, date, salt string) string {
	sum := sha256.Sum256([]byte(ip + "|" + userAgent + "|" + date + "|" + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit bumps PageView(date, path) and upserts the day's Visitor row. Bots are ignored.
func RecordVisit(db *gorm.DB, path, ip, userAgent, referrer string) error {
	if IsBot(userAgent) {
		return nil
	}
	if len(path) > 255 {
		path = path[:255]
	}
	if len(referrer) > 255 {
		referrer = referrer[:255]
	}

	now := time.Now().In(time.Local)
	date := now.Format("2006-01-02")

	// Atomic upserts avoid duplicate key errors under concurrency
	err := db.Clauses(pageViewUpsert(now)).Create(&models.PageView{Date: date, Path: path, Count: 1}).Error
	if err != nil {
		return err
	}

	return db.Clauses(visitorUpsert(now)).Create(&models.Visitor{
		Date:       date,
		Hash:       VisitorHash(ip, userAgent, date, config.Get().VisitorHashSalt),
		FirstPath:  path,
		Referrer:   referrer,
		Views:      1,
		LastSeenAt: now,
	}).Error
}

// Counters are table-qualified: postgres also exposes EXCLUDED.count inside DO UPDATE.
func pageViewUpsert(now time.Time) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("page_views.count + 1"), "updated_at": now}),
	}
}

func visitorUpsert(now time.Time) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "hash"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("visitors.views + 1"), "last_seen_at": now}),
	}
}
