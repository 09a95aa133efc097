package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/models"
)

func TestIndexPage(t *testing.T) {
	e := newEnv(t)
	createProject(t, e, map[string]interface{}{"title": "Featured Tool", "featured": true})
	createPost(t, e, map[string]interface{}{"title": "Latest Thoughts", "content": "x", "published": true})

	w := e.public(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "<title>Test Portfolio</title>")
	assert.Contains(t, body, `href="/projects/featured-tool"`)
	assert.Contains(t, body, `href="/blog/latest-thoughts"`)
	assert.Contains(t, body, `rel="canonical" href="http://example.test/"`)

	var views models.PageView
	require.NoError(t, e.db.Where("path = ?", "/").First(&views).Error)
	assert.Equal(t, int64(1), views.Count)
}

func TestBlogPages(t *testing.T) {
	e := newEnv(t)
	createPost(t, e, map[string]interface{}{
		"title": "Rendered", "content": "Hello **world** <script>alert(1)</script>", "tags": []string{"go"}, "published": true,
	})
	createPost(t, e, map[string]interface{}{"title": "Secret draft", "content": "x"})

	w := e.public(http.MethodGet, "/blog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rendered")
	assert.NotContains(t, w.Body.String(), "Secret draft")

	w = e.public(http.MethodGet, "/blog/rendered", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<strong>world</strong>")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `href="/blog?tag=go"`)

	require.Equal(t, http.StatusOK, e.public(http.MethodGet, "/blog/rendered", nil).Code)
	var post models.BlogPost
	require.NoError(t, e.db.Where("slug = ?", "rendered").First(&post).Error)
	assert.Equal(t, int64(2), post.Views)

	w = e.public(http.MethodGet, "/blog/secret-draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestProjectAndCaseStudyPages(t *testing.T) {
	e := newEnv(t)
	project := createProject(t, e, map[string]interface{}{"title": "Engine", "description": "Built with _care_"})
	require.Equal(t, http.StatusCreated, e.admin(http.MethodPost, "/api/admin/case-studies", map[string]interface{}{
		"title": "Engine Rollout", "project_id": project.ID, "solution": "Ship it", "published": true,
	}).Code)

	w := e.public(http.MethodGet, "/projects/engine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<em>care</em>")
	assert.Contains(t, w.Body.String(), `href="/case-studies/engine-rollout"`)

	w = e.public(http.MethodGet, "/case-studies/engine-rollout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>Ship it</p>")

	assert.Equal(t, http.StatusNotFound, e.public(http.MethodGet, "/projects/nope", nil).Code)
}
