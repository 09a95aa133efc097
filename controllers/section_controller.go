package controllers

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/utils"
)

// SectionController serves one flat, sort-ordered profile section (testimonials, experience, ...).
// The model's binding tags are its request schema.
type SectionController[T any] struct {
	db *gorm.DB
	// name is both the route segment and the key wrapping single records in responses
	name string
	// visibleColumn, when set, is a boolean column that must be true for public listing
	visibleColumn string
}

// NewSectionController creates a controller for the section stored as T.
func NewSectionController[T any](db *gorm.DB, name, visibleColumn string) *SectionController[T] {
	return &SectionController[T]{db: db, name: name, visibleColumn: visibleColumn}
}

// Name returns the route segment.
func (s *SectionController[T]) Name() string {
	return s.name
}

func (s *SectionController[T]) cacheKey() string {
	return utils.CachePrefixSections + s.name
}

func ordered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

// listVisible loads the public rows of the section.
func (s *SectionController[T]) listVisible() ([]T, error) {
	items := []T{}
	query := ordered(s.db)
	if s.visibleColumn != "" {
		query = query.Where(s.visibleColumn+" = ?", true)
	}
	err := query.Find(&items).Error
	return items, err
}

// ListPublic returns visible rows in display order.
func (s *SectionController[T]) ListPublic(ctx *gin.Context) {
	if utils.ServeCached(ctx, s.cacheKey()) {
		return
	}
	items, err := s.listVisible()
	if err != nil {
		utils.Sugar.Errorw("list section", "section", s.name, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to list "+s.name)
		return
	}
	utils.SuccessCached(ctx, s.cacheKey(), gin.H{"items": items})
}

// AdminList returns every row, hidden ones included.
func (s *SectionController[T]) AdminList(ctx *gin.Context) {
	items := []T{}
	if err := ordered(s.db).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to list "+s.name)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// AdminGet returns one row.
func (s *SectionController[T]) AdminGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	item := new(T)
	if err := s.db.First(item, id).Error; err != nil {
		respondLoadError(ctx, err, 40480, 50082, s.name+" entry")
		return
	}
	utils.Success(ctx, gin.H{"item": item})
}

// Create validates the body against T's binding tags and inserts it. Client supplied ids are ignored.
func (s *SectionController[T]) Create(ctx *gin.Context) {
	item := new(T)
	if err := ctx.ShouldBindJSON(item); err != nil {
		utils.BindError(ctx, 40080, err)
		return
	}
	resetID(item)
	if err := s.db.Create(item).Error; err != nil {
		respondWriteError(ctx, err, 50083, "create "+s.name+" entry")
		return
	}
	s.invalidate()
	utils.Created(ctx, gin.H{"item": item})
}

// Update overwrites every column of an existing row except id and created_at.
func (s *SectionController[T]) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	item := new(T)
	if err := ctx.ShouldBindJSON(item); err != nil {
		utils.BindError(ctx, 40081, err)
		return
	}

	var n int64
	if err := s.db.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		respondWriteError(ctx, err, 50084, "update "+s.name+" entry")
		return
	}
	if n == 0 {
		utils.Error(ctx, http.StatusNotFound, 40481, s.name+" entry not found")
		return
	}
	resetID(item)
	if err := s.db.Model(new(T)).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(item).Error; err != nil {
		respondWriteError(ctx, err, 50084, "update "+s.name+" entry")
		return
	}

	updated := new(T)
	if err := s.db.First(updated, id).Error; err != nil {
		respondLoadError(ctx, err, 40481, 50085, s.name+" entry")
		return
	}
	s.invalidate()
	utils.Success(ctx, gin.H{"item": updated})
}

// Delete removes a row.
func (s *SectionController[T]) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res := s.db.Delete(new(T), id)
	if res.Error != nil {
		respondWriteError(ctx, res.Error, 50086, "delete "+s.name+" entry")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40482, s.name+" entry not found")
		return
	}
	s.invalidate()
	utils.Success(ctx, gin.H{"message": s.name + " entry deleted"})
}

// resetID zeroes the ID field so a client cannot pick or move primary keys.
func resetID(item interface{}) {
	v := reflect.ValueOf(item).Elem()
	if f := v.FieldByName("ID"); f.IsValid() && f.CanSet() {
		f.Set(reflect.Zero(f.Type()))
	}
}

func (s *SectionController[T]) invalidate() {
	utils.InvalidateByPrefix(s.cacheKey(), utils.CachePrefixPortfolio)
}
