package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/controllers"
	"github.com/cppla/portfolio/middleware"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
	"github.com/cppla/portfolio/web"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if err := utils.RegisterValidation(); err != nil {
		utils.Sugar.Warnw("custom validation disabled", "err", err)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Access log goes to its own rolling file when GinPath is set
	accessLog := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	r.Use(ginzap.GinzapWithConfig(accessLog, &ginzap.Config{
		TimeFormat:   time.RFC3339,
		UTC:          true,
		SkipPaths:    []string{"/health"},
		DefaultLevel: zapcore.InfoLevel,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", c.GetString(middleware.ContextRequestIDKey))}
		},
	}))
	r.Use(ginzap.RecoveryWithZap(accessLog, true))

	if cfg.OTELEndpoint != "" {
		r.Use(otelgin.Middleware(cfg.OTELServiceName))
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.PageViewRecorder(db))

	tmpl, err := web.Templates()
	if err != nil {
		utils.Sugar.Fatalf("parse templates: %v", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Static("/static", "./static")
	r.Static(controllers.UploadsURLPrefix, cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	pages := controllers.NewPageController(db)
	feeds := controllers.NewFeedController(db)
	r.GET("/", pages.Index)
	r.GET("/blog", pages.Blog)
	r.GET("/blog/:slug", pages.BlogPost)
	r.GET("/projects/:slug", pages.Project)
	r.GET("/case-studies/:slug", pages.CaseStudy)
	r.GET("/feed.xml", feeds.RSS)
	r.GET("/sitemap.xml", feeds.Sitemap)

	authController := controllers.NewAuthController()
	portfolioController := controllers.NewPortfolioController(db)
	configController := controllers.NewConfigController()
	statsController := controllers.NewStatsController(db)
	blogController := controllers.NewBlogController(db)
	projectController := controllers.NewProjectController(db)
	skillController := controllers.NewSkillController(db)
	caseStudyController := controllers.NewCaseStudyController(db)
	contactController := controllers.NewContactController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	uploadController := controllers.NewUploadController(db)

	api := r.Group("/api")
	api.GET("/portfolio", portfolioController.Get)
	api.GET("/site", configController.GetSite)
	api.GET("/stats", statsController.GetPublicStats)

	api.GET("/blog", blogController.ListPublished)
	api.GET("/blog/tags", blogController.ListTags)
	api.GET("/blog/:slug", blogController.GetPublished)
	api.POST("/blog/:slug/comments",
		middleware.RateLimitMiddleware("comment", cfg.ContactRateLimitPerHour, time.Hour),
		blogController.CreateComment)

	api.GET("/projects", projectController.ListPublic)
	api.GET("/projects/:slug", projectController.GetPublic)
	api.GET("/skills", skillController.ListPublic)
	api.GET("/case-studies", caseStudyController.ListPublic)
	api.GET("/case-studies/:slug", caseStudyController.GetPublic)

	api.POST("/contact",
		middleware.RateLimitMiddleware("contact", cfg.ContactRateLimitPerHour, time.Hour),
		contactController.Submit)
	api.GET("/contact/captcha", contactController.Captcha)
	api.POST("/track", analyticsController.Track)

	admin := api.Group("/admin")
	admin.POST("/auth/login",
		middleware.RateLimitMiddleware("login", cfg.RateLimitPerMinute, time.Minute),
		authController.Login)

	protected := admin.Group("")
	protected.Use(middleware.AdminRequired())
	protected.POST("/auth/logout", authController.Logout)
	protected.GET("/auth/me", authController.Me)
	protected.GET("/stats", statsController.GetAdminStats)
	protected.GET("/analytics", analyticsController.Get)

	protected.GET("/blog", blogController.AdminList)
	protected.POST("/blog", blogController.Create)
	protected.GET("/blog/:id", blogController.AdminGet)
	protected.PUT("/blog/:id", blogController.Update)
	protected.PATCH("/blog/:id/publish", blogController.SetPublished)
	protected.DELETE("/blog/:id", blogController.Delete)
	protected.GET("/comments", blogController.ListComments)
	protected.PATCH("/comments/:id", blogController.ApproveComment)
	protected.DELETE("/comments/:id", blogController.DeleteComment)

	protected.GET("/projects", projectController.AdminList)
	protected.POST("/projects", projectController.Create)
	protected.GET("/projects/:id", projectController.AdminGet)
	protected.PUT("/projects/:id", projectController.Update)
	protected.DELETE("/projects/:id", projectController.Delete)

	protected.GET("/skills", skillController.AdminList)
	protected.POST("/skills", skillController.Create)
	protected.PUT("/skills/:id", skillController.Update)
	protected.DELETE("/skills/:id", skillController.Delete)

	protected.GET("/case-studies", caseStudyController.AdminList)
	protected.POST("/case-studies", caseStudyController.Create)
	protected.GET("/case-studies/:id", caseStudyController.AdminGet)
	protected.PUT("/case-studies/:id", caseStudyController.Update)
	protected.DELETE("/case-studies/:id", caseStudyController.Delete)

	protected.GET("/contacts", contactController.AdminList)
	protected.GET("/contacts/:id", contactController.AdminGet)
	protected.PATCH("/contacts/:id/status", contactController.UpdateStatus)
	protected.DELETE("/contacts/:id", contactController.Delete)

	protected.GET("/uploads", uploadController.List)
	protected.POST("/uploads", uploadController.Upload)
	protected.DELETE("/uploads/:id", uploadController.Delete)

	registerSection(api, protected, controllers.NewSectionController[models.Testimonial](db, "testimonials", ""))
	registerSection(api, protected, controllers.NewSectionController[models.Experience](db, "experiences", ""))
	registerSection(api, protected, controllers.NewSectionController[models.Education](db, "education", ""))
	registerSection(api, protected, controllers.NewSectionController[models.Certification](db, "certifications", ""))
	registerSection(api, protected, controllers.NewSectionController[models.Service](db, "services", "active"))
	registerSection(api, protected, controllers.NewSectionController[models.FAQ](db, "faqs", "published"))

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		pages.NotFound(ctx)
	})

	return r
}

// sectionRoutes is the handler set shared by every simple portfolio section.
type sectionRoutes interface {
	Name() string
	ListPublic(*gin.Context)
	AdminList(*gin.Context)
	AdminGet(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func registerSection(public, admin *gin.RouterGroup, s sectionRoutes) {
	base := "/" + s.Name()
	public.GET(base, s.ListPublic)
	admin.GET(base, s.AdminList)
	admin.POST(base, s.Create)
	admin.GET(base+"/:id", s.AdminGet)
	admin.PUT(base+"/:id", s.Update)
	admin.DELETE(base+"/:id", s.Delete)
}
