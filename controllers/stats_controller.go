package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// StatsController provides dashboard and public counters.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// count returns the row count for model under the optional condition; errors fall back to 0.
func (s *StatsController) count(model interface{}, query string, args ...interface{}) int64 {
	var n int64
	q := s.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		utils.Sugar.Warnw("stats count failed", "err", err)
		return 0
	}
	return n
}

func (s *StatsController) sumViews(query string, args ...interface{}) int64 {
	var n int64
	q := s.db.Model(&models.PageView{})
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Select("COALESCE(SUM(count),0)").Scan(&n).Error; err != nil {
		return 0
	}
	return n
}

// GetAdminStats returns dashboard counters, today's traffic and the latest messages.
func (s *StatsController) GetAdminStats(ctx *gin.Context) {
	// String date equality matches the DATE-formatted column on every driver
	today := time.Now().In(time.Local).Format("2006-01-02")

	recent := []models.Contact{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Limit(5).Find(&recent).Error; err != nil {
		utils.Sugar.Warnw("load recent contacts", "err", err)
	}

	utils.Success(ctx, gin.H{
		"posts": gin.H{
			"published": s.count(&models.BlogPost{}, "published = ?", true),
			"draft":     s.count(&models.BlogPost{}, "published = ?", false),
		},
		"projects":         s.count(&models.Project{}, ""),
		"skills":           s.count(&models.Skill{}, ""),
		"case_studies":     s.count(&models.CaseStudy{}, ""),
		"contacts":         gin.H{"total": s.count(&models.Contact{}, ""), "new": s.count(&models.Contact{}, "status = ?", models.ContactStatusNew)},
		"pending_comments": s.count(&models.Comment{}, "approved = ?", false),
		"today": gin.H{
			"views":    s.sumViews("date = ?", today),
			"visitors": s.count(&models.Visitor{}, "date = ?", today),
		},
		"recent_contacts": recent,
	})
}

// GetPublicStats returns counters safe to show visitors.
func (s *StatsController) GetPublicStats(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"total_views":     s.sumViews(""),
		"published_posts": s.count(&models.BlogPost{}, "published = ?", true),
		"projects":        s.count(&models.Project{}, "status <> ?", models.ProjectStatusArchived),
	})
}
