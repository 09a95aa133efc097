package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/markdown"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// ProjectController manages portfolio projects and their skill links.
type ProjectController struct {
	db *gorm.DB
}

// NewProjectController creates a new ProjectController instance.
func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{db: db}
}

type projectSkillInput struct {
	SkillID    uint   `json:"skill_id" binding:"required"`
	Importance string `json:"importance" binding:"omitempty,oneof=primary secondary minor"`
}

type projectRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Slug         string     `json:"slug" binding:"omitempty,slug,max=200"`
	Summary      string     `json:"summary" binding:"max=500"`
	Description  string     `json:"description" binding:"max=100000"`
	Category     string     `json:"category" binding:"max=64"`
	Technologies []string   `json:"technologies" binding:"max=50,dive,max=64"`
	Images       []string   `json:"images" binding:"max=30,dive,max=1024"`
	ThumbnailURL string     `json:"thumbnail_url" binding:"max=1024"`
	LiveURL      string     `json:"live_url" binding:"omitempty,url,max=1024"`
	RepoURL      string     `json:"repo_url" binding:"omitempty,url,max=1024"`
	Status       string     `json:"status" binding:"omitempty,oneof=completed in_progress archived"`
	Featured     bool       `json:"featured"`
	SortOrder    int        `json:"sort_order"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	// nil keeps the current links on update; an empty list removes them all
	Skills []projectSkillInput `json:"skills" binding:"omitempty,max=100,dive"`
}

func (r projectRequest) apply(p *models.Project) {
	p.Title = strings.TrimSpace(r.Title)
	p.Slug = normalizeSlug(r.Slug, r.Title)
	p.Summary = strings.TrimSpace(r.Summary)
	p.Description = r.Description
	p.Category = strings.TrimSpace(r.Category)
	p.Technologies = datatypes.JSONSlice[string](normalizeList(r.Technologies, false))
	p.Images = datatypes.JSONSlice[string](normalizeList(r.Images, false))
	p.ThumbnailURL = strings.TrimSpace(r.ThumbnailURL)
	p.LiveURL = strings.TrimSpace(r.LiveURL)
	p.RepoURL = strings.TrimSpace(r.RepoURL)
	p.Status = r.Status
	if p.Status == "" {
		p.Status = models.ProjectStatusCompleted
	}
	p.Featured = r.Featured
	p.SortOrder = r.SortOrder
	p.StartedAt = r.StartedAt
	p.CompletedAt = r.CompletedAt
}

// replaceSkills swaps the project's skill links inside tx. Unknown skill ids abort the transaction.
func replaceSkills(tx *gorm.DB, projectID uint, inputs []projectSkillInput) error {
	links := make([]models.ProjectSkill, 0, len(inputs))
	seen := map[uint]bool{}
	for _, in := range inputs {
		if seen[in.SkillID] {
			continue
		}
		seen[in.SkillID] = true
		importance := in.Importance
		if importance == "" {
			importance = models.ImportanceSecondary
		}
		links = append(links, models.ProjectSkill{ProjectID: projectID, SkillID: in.SkillID, Importance: importance})
	}

	if len(links) > 0 {
		ids := make([]uint, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.SkillID)
		}
		var found int64
		if err := tx.Model(&models.Skill{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(ids) {
			return errUnknownSkill
		}
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectSkill{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Omit("Skill").Create(&links).Error
}

func withSkills(db *gorm.DB) *gorm.DB {
	return db.Preload("ProjectSkills", func(db *gorm.DB) *gorm.DB {
		return db.Order("importance ASC").Order("skill_id ASC")
	}).Preload("ProjectSkills.Skill")
}

// ListPublic returns projects ordered for display; category and featured narrow the list.
func (p *ProjectController) ListPublic(ctx *gin.Context) {
	category := strings.TrimSpace(ctx.Query("category"))
	featured, hasFeatured := queryBool(ctx, "featured")

	cacheKey := fmt.Sprintf("%slist:cat=%s:featured=%s", utils.CachePrefixProjects, category, ctx.Query("featured"))
	if utils.ServeCached(ctx, cacheKey) {
		return
	}

	query := withSkills(p.db).Where("status <> ?", models.ProjectStatusArchived)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if hasFeatured {
		query = query.Where("featured = ?", featured)
	}
	projects := []models.Project{}
	if err := query.Order("sort_order ASC").Order("id DESC").Find(&projects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list projects")
		return
	}
	utils.SuccessCached(ctx, cacheKey, gin.H{"items": projects})
}

// GetPublic returns one project by slug with its skills, rendered description and published case studies.
func (p *ProjectController) GetPublic(ctx *gin.Context) {
	slug := ctx.Param("slug")
	cacheKey := utils.CachePrefixProjects + "detail:" + slug
	if utils.ServeCached(ctx, cacheKey) {
		return
	}

	var project models.Project
	if err := withSkills(p.db).Where("slug = ?", slug).First(&project).Error; err != nil {
		respondLoadError(ctx, err, 40430, 50041, "project")
		return
	}
	studies := []models.CaseStudy{}
	if err := p.db.Where("project_id = ? AND published = ?", project.ID, true).
		Order("sort_order ASC").Find(&studies).Error; err != nil {
		utils.Sugar.Warnw("load case studies for project", "project", project.ID, "err", err)
	}

	utils.SuccessCached(ctx, cacheKey, gin.H{
		"project":          project,
		"description_html": markdown.ToHTML(project.Description),
		"case_studies":     studies,
	})
}

// AdminList returns every project including archived ones.
func (p *ProjectController) AdminList(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := p.db.Model(&models.Project{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := likePattern(search)
		query = query.Where("title LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to count projects")
		return
	}
	projects := []models.Project{}
	if err := withSkills(query).Order("sort_order ASC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&projects).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to list projects")
		return
	}
	utils.Success(ctx, paginated(projects, page, pageSize, total))
}

// AdminGet returns one project by id with skills.
func (p *ProjectController) AdminGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var project models.Project
	if err := withSkills(p.db).First(&project, id).Error; err != nil {
		respondLoadError(ctx, err, 40431, 50044, "project")
		return
	}
	utils.Success(ctx, gin.H{"project": project})
}

// Create inserts a project and its skill links in one transaction.
func (p *ProjectController) Create(ctx *gin.Context) {
	var req projectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40040, err)
		return
	}
	var project models.Project
	req.apply(&project)
	if project.Slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "slug cannot be empty")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		free, err := slugAvailable(tx, &models.Project{}, project.Slug, 0)
		if err != nil {
			return err
		}
		if !free {
			return errSlugTaken
		}
		if err := tx.Omit("ProjectSkills", "CaseStudies").Create(&project).Error; err != nil {
			return err
		}
		return replaceSkills(tx, project.ID, req.Skills)
	})
	if err != nil {
		respondWriteError(ctx, err, 50045, "create project")
		return
	}

	p.reload(ctx, project.ID, true)
}

// Update replaces a project; skills are replaced only when the field is present.
func (p *ProjectController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req projectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40042, err)
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		req.apply(&project)
		if project.Slug == "" {
			return errEmptySlug
		}
		free, err := slugAvailable(tx, &models.Project{}, project.Slug, project.ID)
		if err != nil {
			return err
		}
		if !free {
			return errSlugTaken
		}
		if err := tx.Omit("ProjectSkills", "CaseStudies").Save(&project).Error; err != nil {
			return err
		}
		if req.Skills == nil {
			return nil
		}
		return replaceSkills(tx, project.ID, req.Skills)
	})
	if err != nil {
		respondWriteError(ctx, err, 50046, "update project")
		return
	}

	p.reload(ctx, id, false)
}

// Delete removes the project and its skill links and detaches its case studies.
func (p *ProjectController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	err := p.db.Transaction(func(tx *gorm.DB) error {
		return deleteProject(tx, id)
	})
	if err != nil {
		respondWriteError(ctx, err, 50047, "delete project")
		return
	}

	p.invalidate()
	utils.Success(ctx, gin.H{"message": "project deleted"})
}

// deleteProject runs the cascade by hand because foreign keys are not created at migration time.
func deleteProject(tx *gorm.DB, id uint) error {
	var project models.Project
	if err := tx.Select("id").First(&project, id).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", id).Delete(&models.ProjectSkill{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.CaseStudy{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Project{}, id).Error
}

func (p *ProjectController) reload(ctx *gin.Context, id uint, created bool) {
	p.invalidate()
	var project models.Project
	if err := withSkills(p.db).First(&project, id).Error; err != nil {
		respondLoadError(ctx, err, 40432, 50048, "project")
		return
	}
	if project.ProjectSkills == nil {
		project.ProjectSkills = []models.ProjectSkill{}
	}
	if created {
		utils.Created(ctx, gin.H{"project": project})
		return
	}
	utils.Success(ctx, gin.H{"project": project})
}

func (p *ProjectController) invalidate() {
	utils.InvalidateByPrefix(utils.CachePrefixProjects, utils.CachePrefixPortfolio, utils.CachePrefixCaseStudies, utils.CachePrefixFeeds)
}
