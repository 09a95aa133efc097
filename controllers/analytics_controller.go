package controllers

import (
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/middleware"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// AnalyticsController serves traffic time series for the dashboard.
type AnalyticsController struct {
	db *gorm.DB
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db}
}

var analyticsRanges = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// DailyPoint is one day of traffic.
type DailyPoint struct {
	Date     string `json:"date"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
}

// PageCount is the view total for one path.
type PageCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Report is the analytics payload. Mock marks fabricated numbers.
type Report struct {
	Range    string       `json:"range"`
	Mock     bool         `json:"mock"`
	Series   []DailyPoint `json:"series"`
	Totals   DailyTotals  `json:"totals"`
	TopPages []PageCount  `json:"top_pages"`
}

// DailyTotals sums a series.
type DailyTotals struct {
	Views    int64 `json:"views"`
	Visitors int64 `json:"visitors"`
}

// useMockAnalytics reports whether fabricated data should be served instead of recorded traffic.
func useMockAnalytics(cfg config.AppConfig) bool {
	return !cfg.IsProduction() || !cfg.AnalyticsEnabled
}

// Get returns the report for range=7d|30d|90d (default 30d).
func (a *AnalyticsController) Get(ctx *gin.Context) {
	rangeKey := ctx.DefaultQuery("range", "30d")
	days, ok := analyticsRanges[rangeKey]
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40090, "range must be one of 7d, 30d, 90d")
		return
	}

	dates := lastDays(time.Now().In(time.Local), days)
	var report Report
	if useMockAnalytics(config.Get()) {
		report = MockReport(dates)
	} else {
		var err error
		report, err = a.recordedReport(dates)
		if err != nil {
			utils.Sugar.Errorw("analytics query failed", "err", err)
			utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load analytics")
			return
		}
	}
	report.Range = rangeKey
	utils.Success(ctx, report)
}

// lastDays returns the n calendar days ending today, oldest first.
func lastDays(now time.Time, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = now.AddDate(0, 0, i-n+1).Format("2006-01-02")
	}
	return out
}

func seeded(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

var mockPaths = []string{"/", "/blog", "/projects", "/about", "/contact"}

// MockReport fabricates plausible numbers that depend only on the dates, so reloads are stable.
func MockReport(dates []string) Report {
	r := Report{Mock: true, Series: make([]DailyPoint, 0, len(dates)), TopPages: []PageCount{}}
	for _, d := range dates {
		seed := seeded(d)
		views := int64(80 + seed%220)
		visitors := views * int64(30+seed%40) / 100
		r.Series = append(r.Series, DailyPoint{Date: d, Views: views, Visitors: visitors})
		r.Totals.Views += views
		r.Totals.Visitors += visitors
	}
	remaining := r.Totals.Views
	for i, p := range mockPaths {
		share := remaining / int64(len(mockPaths)-i+1)
		r.TopPages = append(r.TopPages, PageCount{Path: p, Views: share})
		remaining -= share
	}
	return r
}

func (a *AnalyticsController) recordedReport(dates []string) (Report, error) {
	from, to := dates[0], dates[len(dates)-1]
	r := Report{Series: make([]DailyPoint, 0, len(dates)), TopPages: []PageCount{}}

	type dayCount struct {
		Date string
		N    int64
	}
	var views, visitors []dayCount
	if err := a.db.Model(&models.PageView{}).Select("date, SUM(count) AS n").
		Where("date BETWEEN ? AND ?", from, to).Group("date").Scan(&views).Error; err != nil {
		return r, err
	}
	if err := a.db.Model(&models.Visitor{}).Select("date, COUNT(*) AS n").
		Where("date BETWEEN ? AND ?", from, to).Group("date").Scan(&visitors).Error; err != nil {
		return r, err
	}
	viewsByDate := make(map[string]int64, len(views))
	for _, v := range views {
		viewsByDate[v.Date] = v.N
	}
	visitorsByDate := make(map[string]int64, len(visitors))
	for _, v := range visitors {
		visitorsByDate[v.Date] = v.N
	}

	for _, d := range dates {
		p := DailyPoint{Date: d, Views: viewsByDate[d], Visitors: visitorsByDate[d]}
		r.Series = append(r.Series, p)
		r.Totals.Views += p.Views
		r.Totals.Visitors += p.Visitors
	}

	if err := a.db.Model(&models.PageView{}).Select("path, SUM(count) AS views").
		Where("date BETWEEN ? AND ?", from, to).Group("path").
		Order("views DESC").Limit(10).Scan(&r.TopPages).Error; err != nil {
		return r, err
	}
	return r, nil
}

// Track records a client-side page view, used by pages served from a CDN or a SPA router.
func (a *AnalyticsController) Track(ctx *gin.Context) {
	var req struct {
		Path     string `json:"path" binding:"required,startswith=/,max=255"`
		Referrer string `json:"referrer" binding:"max=255"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40091, err)
		return
	}

	path := strings.SplitN(req.Path, "?", 2)[0]
	if ctx.GetHeader("DNT") == "1" || !middleware.Trackable(path) {
		utils.Success(ctx, gin.H{"recorded": false})
		return
	}
	if err := middleware.RecordVisit(a.db, path, ctx.ClientIP(), ctx.Request.UserAgent(), req.Referrer); err != nil {
		utils.Sugar.Warnw("track page view failed", "path", path, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to record view")
		return
	}
	utils.Success(ctx, gin.H{"recorded": !middleware.IsBot(ctx.Request.UserAgent())})
}
