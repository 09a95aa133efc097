package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// PortfolioController assembles the home page payload in a single call.
type PortfolioController struct {
	db *gorm.DB
}

// NewPortfolioController creates a new PortfolioController instance.
func NewPortfolioController(db *gorm.DB) *PortfolioController {
	return &PortfolioController{db: db}
}

// Profile is the owner's public profile, taken from configuration.
type Profile struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Tagline     string `json:"tagline"`
	About       string `json:"about"`
	Email       string `json:"email"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
	ResumeURL   string `json:"resume_url"`
	GitHubURL   string `json:"github_url"`
	LinkedInURL string `json:"linkedin_url"`
}

// ProfileFromConfig maps the Site* settings onto a Profile.
func ProfileFromConfig(cfg config.AppConfig) Profile {
	return Profile{
		Name:        cfg.SiteAuthor,
		Title:       cfg.SiteTitle,
		Tagline:     cfg.SiteTagline,
		About:       cfg.SiteAbout,
		Email:       cfg.SiteEmail,
		Location:    cfg.SiteLocation,
		AvatarURL:   cfg.SiteAvatarURL,
		ResumeURL:   cfg.SiteResumeURL,
		GitHubURL:   cfg.SiteGitHubURL,
		LinkedInURL: cfg.SiteLinkedInURL,
	}
}

// HomePage is everything the landing page renders.
type HomePage struct {
	Profile        Profile                `json:"profile"`
	Projects       []models.Project       `json:"featured_projects"`
	Skills         []SkillGroup           `json:"skills"`
	Services       []models.Service       `json:"services"`
	Testimonials   []models.Testimonial   `json:"testimonials"`
	Experience     []models.Experience    `json:"experience"`
	Education      []models.Education     `json:"education"`
	Certifications []models.Certification `json:"certifications"`
	LatestPosts    []models.BlogPost      `json:"latest_posts"`
}

// LoadHomePage runs the home page queries. It is shared with the server-rendered index.
func LoadHomePage(db *gorm.DB) (HomePage, error) {
	home := HomePage{
		Profile:        ProfileFromConfig(config.Get()),
		Projects:       []models.Project{},
		Services:       []models.Service{},
		Testimonials:   []models.Testimonial{},
		Experience:     []models.Experience{},
		Education:      []models.Education{},
		Certifications: []models.Certification{},
		LatestPosts:    []models.BlogPost{},
	}

	groups, err := loadSkillGroups(db)
	if err != nil {
		return home, err
	}
	home.Skills = groups

	steps := []func() error{
		func() error {
			return withSkills(db).Where("featured = ? AND status <> ?", true, models.ProjectStatusArchived).
				Order("sort_order ASC").Order("id DESC").Limit(6).Find(&home.Projects).Error
		},
		func() error { return ordered(db).Where("active = ?", true).Find(&home.Services).Error },
		func() error { return ordered(db).Where("featured = ?", true).Find(&home.Testimonials).Error },
		func() error {
			return db.Order("sort_order ASC").Order("start_date DESC").Find(&home.Experience).Error
		},
		func() error { return ordered(db).Find(&home.Education).Error },
		func() error { return ordered(db).Find(&home.Certifications).Error },
		func() error {
			return db.Omit("content").Where("published = ?", true).
				Order("published_at DESC").Order("id DESC").Limit(3).Find(&home.LatestPosts).Error
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return home, err
		}
	}
	return home, nil
}

// Get returns the cached home page payload.
func (p *PortfolioController) Get(ctx *gin.Context) {
	cacheKey := utils.CachePrefixPortfolio + "home"
	if utils.ServeCached(ctx, cacheKey) {
		return
	}
	home, err := LoadHomePage(p.db)
	if err != nil {
		utils.Sugar.Errorw("load portfolio", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load portfolio")
		return
	}
	utils.SuccessCached(ctx, cacheKey, home)
}
