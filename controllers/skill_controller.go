package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// SkillController manages the skills catalogue.
type SkillController struct {
	db *gorm.DB
}

// NewSkillController creates a new SkillController instance.
func NewSkillController(db *gorm.DB) *SkillController {
	return &SkillController{db: db}
}

type skillRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Category  string  `json:"category" binding:"max=64"`
	Level     int     `json:"level" binding:"min=0,max=100"`
	Icon      string  `json:"icon" binding:"max=255"`
	YearsUsed float64 `json:"years_used" binding:"min=0,max=80"`
	SortOrder int     `json:"sort_order"`
}

func (r skillRequest) apply(s *models.Skill) {
	s.Name = strings.TrimSpace(r.Name)
	s.Category = strings.TrimSpace(r.Category)
	if s.Category == "" {
		s.Category = "Other"
	}
	s.Level = r.Level
	s.Icon = strings.TrimSpace(r.Icon)
	s.YearsUsed = r.YearsUsed
	s.SortOrder = r.SortOrder
}

// SkillGroup is one category of skills in display order.
type SkillGroup struct {
	Category string         `json:"category"`
	Skills   []models.Skill `json:"skills"`
}

// loadSkillGroups returns every skill grouped by category, categories in first-seen order.
func loadSkillGroups(db *gorm.DB) ([]SkillGroup, error) {
	var skills []models.Skill
	if err := db.Order("category ASC").Order("sort_order ASC").Order("level DESC").Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	groups := []SkillGroup{}
	index := map[string]int{}
	for _, s := range skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups, nil
}

// ListPublic returns skills grouped by category.
func (s *SkillController) ListPublic(ctx *gin.Context) {
	cacheKey := utils.CachePrefixSkills + "grouped"
	if utils.ServeCached(ctx, cacheKey) {
		return
	}
	groups, err := loadSkillGroups(s.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list skills")
		return
	}
	utils.SuccessCached(ctx, cacheKey, gin.H{"groups": groups})
}

// AdminList returns a flat list with per-skill project counts.
func (s *SkillController) AdminList(ctx *gin.Context) {
	skills := []models.Skill{}
	query := s.db.Model(&models.Skill{})
	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("category ASC").Order("sort_order ASC").Order("name ASC").Find(&skills).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list skills")
		return
	}

	type usage struct {
		SkillID uint
		N       int64
	}
	var rows []usage
	if err := s.db.Model(&models.ProjectSkill{}).Select("skill_id, COUNT(*) AS n").Group("skill_id").Scan(&rows).Error; err != nil {
		utils.Sugar.Warnw("count skill usage", "err", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.SkillID] = r.N
	}

	items := make([]gin.H, 0, len(skills))
	for _, sk := range skills {
		items = append(items, gin.H{"skill": sk, "project_count": counts[sk.ID]})
	}
	utils.Success(ctx, gin.H{"items": items})
}

// nameTaken checks case-insensitive uniqueness, ignoring excludeID.
func nameTaken(tx *gorm.DB, name string, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Skill{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a skill. Names are unique regardless of case.
func (s *SkillController) Create(ctx *gin.Context) {
	var req skillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40050, err)
		return
	}
	var skill models.Skill
	req.apply(&skill)
	if skill.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "name cannot be empty")
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := nameTaken(tx, skill.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return errSkillNameTaken
		}
		return tx.Create(&skill).Error
	})
	if err != nil {
		respondWriteError(ctx, skillConflict(err), 50052, "create skill")
		return
	}

	s.invalidate()
	utils.Created(ctx, gin.H{"skill": skill})
}

// Update replaces a skill.
func (s *SkillController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req skillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40052, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "name cannot be empty")
		return
	}

	var skill models.Skill
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&skill, id).Error; err != nil {
			return err
		}
		req.apply(&skill)
		taken, err := nameTaken(tx, skill.Name, skill.ID)
		if err != nil {
			return err
		}
		if taken {
			return errSkillNameTaken
		}
		return tx.Save(&skill).Error
	})
	if err != nil {
		respondWriteError(ctx, skillConflict(err), 50053, "update skill")
		return
	}

	s.invalidate()
	utils.Success(ctx, gin.H{"skill": skill})
}

// Delete removes a skill and every project link to it.
func (s *SkillController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var skill models.Skill
		if err := tx.Select("id").First(&skill, id).Error; err != nil {
			return err
		}
		if err := tx.Where("skill_id = ?", id).Delete(&models.ProjectSkill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Skill{}, id).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50054, "delete skill")
		return
	}

	s.invalidate()
	utils.Success(ctx, gin.H{"message": "skill deleted"})
}

// skillConflict reports a unique index hit on name as the name conflict rather than a slug one.
func skillConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errSkillNameTaken
	}
	return err
}

func (s *SkillController) invalidate() {
	utils.InvalidateByPrefix(utils.CachePrefixSkills, utils.CachePrefixProjects, utils.CachePrefixPortfolio)
}
