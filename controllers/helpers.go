package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/utils"
)

var (
	errSlugTaken      = errors.New("slug already exists")
	errSkillNameTaken = errors.New("skill name already exists")
	errUnknownSkill   = errors.New("unknown skill")
	errUnknownProject = errors.New("unknown project")
	errEmptySlug      = errors.New("slug cannot be empty")
)

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func paginated(items interface{}, page, pageSize int, total int64) gin.H {
	return gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
}

// parseID reads the :id path parameter and answers 400 itself when it is not a positive integer.
func parseID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// queryBool parses "true"/"false"/"1"/"0"; anything else is reported as unset.
func queryBool(ctx *gin.Context, key string) (bool, bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(ctx.Query(key)))
	if err != nil {
		return false, false
	}
	return v, true
}

func likePattern(s string) string {
	return "%" + s + "%"
}

// slugAvailable reports whether slug is unused in table, ignoring the row with excludeID.
func slugAvailable(db *gorm.DB, model interface{}, slug string, excludeID uint) (bool, error) {
	var count int64
	q := db.Model(model).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// normalizeSlug prefers the explicit slug and falls back to the title.
func normalizeSlug(explicit, title string) string {
	if s := utils.Slugify(explicit); s != "" {
		return s
	}
	return utils.Slugify(title)
}

// normalizeList trims, drops empties and de-duplicates. The result is never nil.
func normalizeList(items []string, lower bool) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if lower {
			it = strings.ToLower(it)
		}
		if it != "" {
			out = append(out, it)
		}
	}
	return utils.Unique(out)
}

// respondLoadError maps a failed single-row lookup to 404 or 500.
func respondLoadError(ctx *gin.Context, err error, notFoundCode, internalCode int, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, notFoundCode, what+" not found")
		return
	}
	utils.Sugar.Errorw("load failed", "what", what, "err", err)
	utils.Error(ctx, http.StatusInternalServerError, internalCode, "failed to load "+what)
}

// respondWriteError maps write failures, including sentinel conflicts and duplicate keys.
func respondWriteError(ctx *gin.Context, err error, internalCode int, action string) {
	switch {
	case errors.Is(err, errSlugTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		utils.Error(ctx, http.StatusConflict, 40901, errSlugTaken.Error())
	case errors.Is(err, errSkillNameTaken):
		utils.Error(ctx, http.StatusConflict, 40902, errSkillNameTaken.Error())
	case errors.Is(err, errUnknownSkill):
		utils.Error(ctx, http.StatusBadRequest, 40002, errUnknownSkill.Error())
	case errors.Is(err, errUnknownProject):
		utils.Error(ctx, http.StatusBadRequest, 40003, errUnknownProject.Error())
	case errors.Is(err, errEmptySlug):
		utils.Error(ctx, http.StatusBadRequest, 40004, errEmptySlug.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "record not found")
	default:
		utils.Sugar.Errorw("write failed", "action", action, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, internalCode, "failed to "+action)
	}
}
