package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/markdown"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// BlogController manages blog posts and reader comments.
type BlogController struct {
	db *gorm.DB
}

// NewBlogController creates a new BlogController instance.
func NewBlogController(db *gorm.DB) *BlogController {
	return &BlogController{db: db}
}

type blogPostRequest struct {
	Title          string   `json:"title" binding:"required,max=200"`
	Slug           string   `json:"slug" binding:"omitempty,slug,max=200"`
	Excerpt        string   `json:"excerpt" binding:"max=500"`
	Content        string   `json:"content" binding:"required,max=200000"`
	CoverImage     string   `json:"cover_image" binding:"max=1024"`
	Category       string   `json:"category" binding:"max=64"`
	Tags           []string `json:"tags" binding:"max=20,dive,max=40"`
	Published      bool     `json:"published"`
	Featured       bool     `json:"featured"`
	SEOTitle       string   `json:"seo_title" binding:"max=200"`
	SEODescription string   `json:"seo_description" binding:"max=300"`
}

// apply copies the request onto post and derives slug, excerpt, reading time and first publish time.
func (r blogPostRequest) apply(post *models.BlogPost) {
	post.Title = strings.TrimSpace(r.Title)
	post.Slug = normalizeSlug(r.Slug, r.Title)
	post.Content = r.Content
	post.Excerpt = strings.TrimSpace(r.Excerpt)
	if post.Excerpt == "" {
		post.Excerpt = markdown.Excerpt(r.Content, 200)
	}
	post.CoverImage = strings.TrimSpace(r.CoverImage)
	post.Category = strings.TrimSpace(r.Category)
	post.Tags = datatypes.JSONSlice[string](normalizeList(r.Tags, true))
	post.Featured = r.Featured
	post.SEOTitle = strings.TrimSpace(r.SEOTitle)
	post.SEODescription = strings.TrimSpace(r.SEODescription)
	post.ReadingTime = markdown.ReadingTime(r.Content)
	setPublished(post, r.Published)
}

func setPublished(post *models.BlogPost, published bool) {
	post.Published = published
	if published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
}

// ListPublished returns published posts, newest first, filtered by search, tag and category.
func (b *BlogController) ListPublished(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	tag := strings.ToLower(strings.TrimSpace(ctx.Query("tag")))
	category := strings.TrimSpace(ctx.Query("category"))

	// Search terms are not cached to avoid key explosion
	cacheKey := ""
	if search == "" {
		cacheKey = fmt.Sprintf("%slist:tag=%s:cat=%s:page=%d:size=%d", utils.CachePrefixBlog, tag, category, page, pageSize)
		if utils.ServeCached(ctx, cacheKey) {
			return
		}
	}

	query := b.db.Model(&models.BlogPost{}).Where("published = ?", true)
	if search != "" {
		like := likePattern(search)
		query = query.Where("title LIKE ? OR excerpt LIKE ? OR content LIKE ?", like, like, like)
	}
	if tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count posts")
		return
	}

	posts := []models.BlogPost{}
	if err := query.Omit("content").Order("published_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	payload := paginated(posts, page, pageSize, total)
	if cacheKey != "" {
		utils.SuccessCached(ctx, cacheKey, payload)
		return
	}
	utils.Success(ctx, payload)
}

// GetPublished returns one published post by slug with rendered HTML and approved comments.
// Every successful read bumps the view counter.
func (b *BlogController) GetPublished(ctx *gin.Context) {
	var post models.BlogPost
	err := b.db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Where("approved = ?", true).Order("created_at ASC")
	}).Where("slug = ? AND published = ?", ctx.Param("slug"), true).First(&post).Error
	if err != nil {
		respondLoadError(ctx, err, 40420, 50022, "post")
		return
	}

	if err := b.db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		utils.Sugar.Warnw("increment views failed", "post", post.ID, "err", err)
	} else {
		post.Views++
	}

	utils.Success(ctx, gin.H{
		"post":         post,
		"content_html": markdown.ToHTML(post.Content),
		"related":      b.related(post),
	})
}

// related picks up to three other published posts sharing the category.
func (b *BlogController) related(post models.BlogPost) []models.BlogPost {
	out := []models.BlogPost{}
	if post.Category == "" {
		return out
	}
	b.db.Omit("content").Where("published = ? AND category = ? AND id <> ?", true, post.Category, post.ID).
		Order("published_at DESC").Limit(3).Find(&out)
	return out
}

// ListTags returns tag usage counts over published posts, most used first.
func (b *BlogController) ListTags(ctx *gin.Context) {
	cacheKey := utils.CachePrefixBlog + "tags"
	if utils.ServeCached(ctx, cacheKey) {
		return
	}

	var posts []models.BlogPost
	if err := b.db.Select("id", "tags").Where("published = ?", true).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load tags")
		return
	}

	counts := map[string]int{}
	for _, p := range posts {
		for _, t := range p.Tags {
			counts[t]++
		}
	}
	type tagCount struct {
		Tag   string `json:"tag"`
		Count int    `json:"count"`
	}
	tags := make([]tagCount, 0, len(counts))
	for t, n := range counts {
		tags = append(tags, tagCount{Tag: t, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	utils.SuccessCached(ctx, cacheKey, gin.H{"tags": tags})
}

// CreateComment stores a reader comment on a published post. It stays hidden until approved.
func (b *BlogController) CreateComment(ctx *gin.Context) {
	var req struct {
		AuthorName  string `json:"author_name" binding:"required,min=2,max=100"`
		AuthorEmail string `json:"author_email" binding:"required,email,max=255"`
		Website     string `json:"website" binding:"omitempty,url,max=255"`
		Content     string `json:"content" binding:"required,min=2,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40020, err)
		return
	}

	content := utils.StripTags(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}

	var post models.BlogPost
	if err := b.db.Select("id").Where("slug = ? AND published = ?", ctx.Param("slug"), true).First(&post).Error; err != nil {
		respondLoadError(ctx, err, 40421, 50024, "post")
		return
	}

	comment := models.Comment{
		BlogPostID:  post.ID,
		AuthorName:  utils.StripTags(req.AuthorName),
		AuthorEmail: strings.ToLower(strings.TrimSpace(req.AuthorEmail)),
		Website:     strings.TrimSpace(req.Website),
		Content:     content,
		IP:          ctx.ClientIP(),
	}
	if err := b.db.Create(&comment).Error; err != nil {
		respondWriteError(ctx, err, 50025, "create comment")
		return
	}

	utils.Created(ctx, gin.H{"comment": comment, "message": "comment submitted for moderation"})
}

// AdminList returns every post; status=published|draft narrows it.
func (b *BlogController) AdminList(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := b.db.Model(&models.BlogPost{})
	switch ctx.Query("status") {
	case "published":
		query = query.Where("published = ?", true)
	case "draft":
		query = query.Where("published = ?", false)
	}
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := likePattern(search)
		query = query.Where("title LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to count posts")
		return
	}
	posts := []models.BlogPost{}
	if err := query.Omit("content").Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to list posts")
		return
	}
	utils.Success(ctx, paginated(posts, page, pageSize, total))
}

// AdminGet returns one post by id, drafts included.
func (b *BlogController) AdminGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var post models.BlogPost
	if err := b.db.First(&post, id).Error; err != nil {
		respondLoadError(ctx, err, 40422, 50028, "post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// Create inserts a post. A taken slug is a 409 and nothing is written.
func (b *BlogController) Create(ctx *gin.Context) {
	var req blogPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40022, err)
		return
	}

	var post models.BlogPost
	req.apply(&post)
	if post.Slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "slug cannot be empty")
		return
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		free, err := slugAvailable(tx, &models.BlogPost{}, post.Slug, 0)
		if err != nil {
			return err
		}
		if !free {
			return errSlugTaken
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50029, "create post")
		return
	}

	b.invalidate()
	utils.Created(ctx, gin.H{"post": post})
}

// Update replaces an existing post. The slug must stay unique among the other posts.
func (b *BlogController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req blogPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40024, err)
		return
	}

	var post models.BlogPost
	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, id).Error; err != nil {
			return err
		}
		req.apply(&post)
		if post.Slug == "" {
			return errEmptySlug
		}
		free, err := slugAvailable(tx, &models.BlogPost{}, post.Slug, post.ID)
		if err != nil {
			return err
		}
		if !free {
			return errSlugTaken
		}
		return tx.Omit("Comments").Save(&post).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50030, "update post")
		return
	}

	b.invalidate()
	utils.Success(ctx, gin.H{"post": post})
}

// SetPublished toggles visibility; published_at is stamped on the first publish only.
func (b *BlogController) SetPublished(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req struct {
		Published *bool `json:"published" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40025, err)
		return
	}

	var post models.BlogPost
	if err := b.db.First(&post, id).Error; err != nil {
		respondLoadError(ctx, err, 40423, 50031, "post")
		return
	}
	setPublished(&post, *req.Published)
	if err := b.db.Model(&post).Select("published", "published_at").
		Updates(map[string]interface{}{"published": post.Published, "published_at": post.PublishedAt}).Error; err != nil {
		respondWriteError(ctx, err, 50032, "update post")
		return
	}

	b.invalidate()
	utils.Success(ctx, gin.H{"post": post})
}

// Delete removes the post and its comments.
func (b *BlogController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	err := b.db.Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BlogPost{}, id).Error
	})
	if err != nil {
		respondWriteError(ctx, err, 50033, "delete post")
		return
	}

	b.invalidate()
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ListComments returns comments for moderation; approved=true|false filters.
func (b *BlogController) ListComments(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := b.db.Model(&models.Comment{})
	if approved, ok := queryBool(ctx, "approved"); ok {
		query = query.Where("approved = ?", approved)
	}
	if postID := ctx.Query("post_id"); postID != "" {
		query = query.Where("blog_post_id = ?", postID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to count comments")
		return
	}
	comments := []models.Comment{}
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to list comments")
		return
	}

	// Moderators need the email the public JSON hides
	items := make([]gin.H, 0, len(comments))
	for _, c := range comments {
		items = append(items, gin.H{"comment": c, "author_email": c.AuthorEmail, "ip": c.IP})
	}
	utils.Success(ctx, paginated(items, page, pageSize, total))
}

// ApproveComment marks a comment approved (or unapproved with {"approved": false}).
func (b *BlogController) ApproveComment(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req struct {
		Approved *bool `json:"approved"`
	}
	// An empty body means approve
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			utils.BindError(ctx, 40026, err)
			return
		}
	}
	approved := req.Approved == nil || *req.Approved

	var comment models.Comment
	if err := b.db.First(&comment, id).Error; err != nil {
		respondLoadError(ctx, err, 40424, 50036, "comment")
		return
	}
	if err := b.db.Model(&comment).Update("approved", approved).Error; err != nil {
		respondWriteError(ctx, err, 50037, "update comment")
		return
	}
	comment.Approved = approved
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment removes a comment.
func (b *BlogController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res := b.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		respondWriteError(ctx, res.Error, 50038, "delete comment")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40425, "comment not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

func (b *BlogController) invalidate() {
	utils.InvalidateByPrefix(utils.CachePrefixBlog, utils.CachePrefixPortfolio, utils.CachePrefixFeeds)
}
