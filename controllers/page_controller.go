package controllers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/markdown"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// PageController renders the public HTML pages.
type PageController struct {
	db *gorm.DB
}

// NewPageController creates a new PageController instance.
func NewPageController(db *gorm.DB) *PageController {
	return &PageController{db: db}
}

type siteMeta struct {
	Title       string
	Description string
	Author      string
}

func (p *PageController) render(ctx *gin.Context, status int, name string, data gin.H) {
	cfg := config.Get()
	data["Site"] = siteMeta{Title: cfg.SiteTitle, Description: cfg.SiteDescription, Author: cfg.SiteAuthor}
	for _, key := range []string{"Title", "Description", "Canonical"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
	ctx.HTML(status, name, data)
}

// NotFound renders the HTML 404 page.
func (p *PageController) NotFound(ctx *gin.Context) {
	p.render(ctx, http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
}

func (p *PageController) failed(ctx *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p.NotFound(ctx)
		return
	}
	utils.Sugar.Errorw("render page", "page", what, "err", err)
	ctx.String(http.StatusInternalServerError, "internal server error")
}

// Index renders the landing page.
func (p *PageController) Index(ctx *gin.Context) {
	home, err := LoadHomePage(p.db)
	if err != nil {
		p.failed(ctx, err, "index")
		return
	}
	p.render(ctx, http.StatusOK, "index.html", gin.H{
		"Home":      home,
		"Canonical": buildURL(config.Get().BaseURL),
	})
}

// Blog renders one page of published posts, optionally narrowed to a tag.
func (p *PageController) Blog(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), "10")
	tag := strings.ToLower(strings.TrimSpace(ctx.Query("tag")))

	query := p.db.Model(&models.BlogPost{}).Where("published = ?", true)
	if tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		p.failed(ctx, err, "blog")
		return
	}
	posts := []models.BlogPost{}
	if err := query.Omit("content").Order("published_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		p.failed(ctx, err, "blog")
		return
	}

	p.render(ctx, http.StatusOK, "blog_list.html", gin.H{
		"Title":     "Blog",
		"Posts":     posts,
		"Tag":       tag,
		"Page":      page,
		"PrevPage":  page - 1,
		"NextPage":  page + 1,
		"HasNext":   int64(page*pageSize) < total,
		"Canonical": buildURL(config.Get().BaseURL, "blog"),
	})
}

// BlogPost renders a published post with its approved comments.
func (p *PageController) BlogPost(ctx *gin.Context) {
	var post models.BlogPost
	err := p.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Where("approved = ?", true).Order("created_at ASC")
	}).Where("slug = ? AND published = ?", ctx.Param("slug"), true).First(&post).Error
	if err != nil {
		p.failed(ctx, err, "post")
		return
	}
	if err := p.db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.Sugar.Warnw("increment views failed", "post", post.ID, "err", err)
	}

	title := post.SEOTitle
	if title == "" {
		title = post.Title
	}
	description := post.SEODescription
	if description == "" {
		description = post.Excerpt
	}
	p.render(ctx, http.StatusOK, "blog_post.html", gin.H{
		"Title":       title,
		"Description": description,
		"Post":        post,
		"ContentHTML": template.HTML(markdown.ToHTML(post.Content)),
		"Canonical":   buildURL(config.Get().BaseURL, "blog", post.Slug),
	})
}

// Project renders a non-archived project and its published case studies.
func (p *PageController) Project(ctx *gin.Context) {
	var project models.Project
	err := withSkills(p.db).Where("slug = ? AND status <> ?", ctx.Param("slug"), models.ProjectStatusArchived).
		First(&project).Error
	if err != nil {
		p.failed(ctx, err, "project")
		return
	}
	studies := []models.CaseStudy{}
	if err := p.db.Where("project_id = ? AND published = ?", project.ID, true).
		Order("sort_order ASC").Find(&studies).Error; err != nil {
		p.failed(ctx, err, "project")
		return
	}

	p.render(ctx, http.StatusOK, "project.html", gin.H{
		"Title":       project.Title,
		"Description": project.Summary,
		"Project":     project,
		"ContentHTML": template.HTML(markdown.ToHTML(project.Description)),
		"CaseStudies": studies,
		"Canonical":   buildURL(config.Get().BaseURL, "projects", project.Slug),
	})
}

// CaseStudy renders a published case study.
func (p *PageController) CaseStudy(ctx *gin.Context) {
	var cs models.CaseStudy
	if err := p.db.Where("slug = ? AND published = ?", ctx.Param("slug"), true).First(&cs).Error; err != nil {
		p.failed(ctx, err, "case study")
		return
	}
	p.render(ctx, http.StatusOK, "case_study.html", gin.H{
		"Title":       cs.Title,
		"Description": cs.Summary,
		"CaseStudy":   cs,
		"Challenge":   template.HTML(markdown.ToHTML(cs.Challenge)),
		"Solution":    template.HTML(markdown.ToHTML(cs.Solution)),
		"Results":     template.HTML(markdown.ToHTML(cs.Results)),
		"Canonical":   buildURL(config.Get().BaseURL, "case-studies", cs.Slug),
	})
}
