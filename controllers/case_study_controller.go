package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/markdown"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// CaseStudyController manages long-form case studies.
type CaseStudyController struct {
	db *gorm.DB
}

// NewCaseStudyController creates a new CaseStudyController instance.
func NewCaseStudyController(db *gorm.DB) *CaseStudyController {
	return &CaseStudyController{db: db}
}

type caseStudyRequest struct {
	Title        string         `json:"title" binding:"required,max=200"`
	Slug         string         `json:"slug" binding:"omitempty,slug,max=200"`
	Client       string         `json:"client" binding:"max=200"`
	Industry     string         `json:"industry" binding:"max=100"`
	Summary      string         `json:"summary" binding:"max=500"`
	Challenge    string         `json:"challenge" binding:"max=50000"`
	Solution     string         `json:"solution" binding:"max=50000"`
	Results      string         `json:"results" binding:"max=50000"`
	Metrics      datatypes.JSON `json:"metrics"`
	Technologies []string       `json:"technologies" binding:"max=50,dive,max=64"`
	CoverImage   string         `json:"cover_image" binding:"max=1024"`
	ProjectID    *uint          `json:"project_id"`
	Published    bool           `json:"published"`
	SortOrder    int            `json:"sort_order"`
}

func (r caseStudyRequest) apply(cs *models.CaseStudy) {
	cs.Title = strings.TrimSpace(r.Title)
	cs.Slug = normalizeSlug(r.Slug, r.Title)
	cs.Client = strings.TrimSpace(r.Client)
	cs.Industry = strings.TrimSpace(r.Industry)
	cs.Summary = strings.TrimSpace(r.Summary)
	cs.Challenge = r.Challenge
	cs.Solution = r.Solution
	cs.Results = r.Results
	cs.Metrics = r.Metrics
	if trimmed := bytes.TrimSpace(r.Metrics); len(trimmed) == 0 || string(trimmed) == "null" {
		cs.Metrics = datatypes.JSON("{}")
	}
	cs.Technologies = datatypes.JSONSlice[string](normalizeList(r.Technologies, false))
	cs.CoverImage = strings.TrimSpace(r.CoverImage)
	cs.ProjectID = r.ProjectID
	if cs.ProjectID != nil && *cs.ProjectID == 0 {
		cs.ProjectID = nil
	}
	cs.Published = r.Published
	cs.SortOrder = r.SortOrder
}

// validate checks slug uniqueness and that a referenced project exists.
func (r caseStudyRequest) validate(tx *gorm.DB, cs *models.CaseStudy) error {
	free, err := slugAvailable(tx, &models.CaseStudy{}, cs.Slug, cs.ID)
	if err != nil {
		return err
	}
	if !free {
		return errSlugTaken
	}
	if cs.ProjectID != nil {
		var n int64
		if err := tx.Model(&models.Project{}).Where("id = ?", *cs.ProjectID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errUnknownProject
		}
	}
	return nil
}

// ListPublic returns published case studies in display order.
func (c *CaseStudyController) ListPublic(ctx *gin.Context) {
	cacheKey := utils.CachePrefixCaseStudies + "list:industry=" + ctx.Query("industry")
	if utils.ServeCached(ctx, cacheKey) {
		return
	}
	query := c.db.Omit("challenge", "solution", "results").Where("published = ?", true)
	if industry := strings.TrimSpace(ctx.Query("industry")); industry != "" {
		query = query.Where("industry = ?", industry)
	}
	studies := []models.CaseStudy{}
	if err := query.Order("sort_order ASC").Order("id DESC").Find(&studies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list case studies")
		return
	}
	utils.SuccessCached(ctx, cacheKey, gin.H{"items": studies})
}

// GetPublic returns a published case study with its markdown sections rendered.
func (c *CaseStudyController) GetPublic(ctx *gin.Context) {
	slug := ctx.Param("slug")
	cacheKey := utils.CachePrefixCaseStudies + "detail:" + slug
	if utils.ServeCached(ctx, cacheKey) {
		return
	}

	var cs models.CaseStudy
	if err := c.db.Where("slug = ? AND published = ?", slug, true).First(&cs).Error; err != nil {
		respondLoadError(ctx, err, 40470, 50071, "case study")
		return
	}
	payload := caseStudyView(c.db, cs)
	utils.SuccessCached(ctx, cacheKey, payload)
}

// caseStudyView bundles the record with rendered sections and a link to its project, if any.
func caseStudyView(db *gorm.DB, cs models.CaseStudy) gin.H {
	view := gin.H{
		"case_study":     cs,
		"challenge_html": markdown.ToHTML(cs.Challenge),
		"solution_html":  markdown.ToHTML(cs.Solution),
		"results_html":   markdown.ToHTML(cs.Results),
	}
	if cs.ProjectID != nil {
		var project models.Project
		if err := db.Select("id", "title", "slug").First(&project, *cs.ProjectID).Error; err == nil {
			view["project"] = gin.H{"id": project.ID, "title": project.Title, "slug": project.Slug}
		}
	}
	return view
}

// AdminList returns every case study.
func (c *CaseStudyController) AdminList(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := c.db.Model(&models.CaseStudy{})
	if published, ok := queryBool(ctx, "published"); ok {
		query = query.Where("published = ?", published)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to count case studies")
		return
	}
	studies := []models.CaseStudy{}
	if err := query.Order("sort_order ASC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&studies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to list case studies")
		return
	}
	utils.Success(ctx, paginated(studies, page, pageSize, total))
}

// AdminGet returns one case study by id.
func (c *CaseStudyController) AdminGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var cs models.CaseStudy
	if err := c.db.First(&cs, id).Error; err != nil {
		respondLoadError(ctx, err, 40471, 50074, "case study")
		return
	}
	utils.Success(ctx, gin.H{"case_study": cs})
}

// Create inserts a case study.
func (c *CaseStudyController) Create(ctx *gin.Context) {
	var req caseStudyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40070, err)
		return
	}
	var cs models.CaseStudy
	req.apply(&cs)
	if cs.Slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "slug cannot be empty")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := req.validate(tx, &cs); err != nil {
			return err
		}
		return tx.Create(&cs).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50075, "create case study")
		return
	}

	c.invalidate()
	utils.Created(ctx, gin.H{"case_study": cs})
}

// Update replaces a case study.
func (c *CaseStudyController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req caseStudyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40072, err)
		return
	}

	var cs models.CaseStudy
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cs, id).Error; err != nil {
			return err
		}
		req.apply(&cs)
		if cs.Slug == "" {
			return errEmptySlug
		}
		if err := req.validate(tx, &cs); err != nil {
			return err
		}
		return tx.Save(&cs).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50076, "update case study")
		return
	}

	c.invalidate()
	utils.Success(ctx, gin.H{"case_study": cs})
}

// Delete removes a case study.
func (c *CaseStudyController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res := c.db.Delete(&models.CaseStudy{}, id)
	if res.Error != nil {
		respondWriteError(ctx, res.Error, 50077, "delete case study")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40472, "case study not found")
		return
	}
	c.invalidate()
	utils.Success(ctx, gin.H{"message": "case study deleted"})
}

func (c *CaseStudyController) invalidate() {
	utils.InvalidateByPrefix(utils.CachePrefixCaseStudies, utils.CachePrefixProjects, utils.CachePrefixFeeds)
}
