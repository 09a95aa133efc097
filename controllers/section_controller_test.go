package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/testutil"
)

func TestTestimonialsCRUD(t *testing.T) {
	e := newEnv(t)

	w := e.admin(http.MethodPost, "/api/admin/testimonials", map[string]interface{}{
		"id": 99, "name": "Ada", "company": "Engines Ltd", "quote": "Great work", "rating": 5, "sort_order": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Item models.Testimonial `json:"item"`
	}
	testutil.Decode(t, w, &created)
	assert.NotEqual(t, uint(99), created.Item.ID, "client ids are ignored")

	w = e.admin(http.MethodPost, "/api/admin/testimonials", map[string]interface{}{"name": "Bob", "quote": "Solid", "sort_order": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	var list struct {
		Items []models.Testimonial `json:"items"`
	}
	testutil.Decode(t, e.public(http.MethodGet, "/api/testimonials", nil), &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Bob", list.Items[0].Name, "sorted by sort_order")

	path := fmt.Sprintf("/api/admin/testimonials/%d", created.Item.ID)
	w = e.admin(http.MethodPut, path, map[string]interface{}{"name": "Ada L.", "quote": "Great work", "rating": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated struct {
		Item models.Testimonial `json:"item"`
	}
	testutil.Decode(t, w, &updated)
	assert.Equal(t, created.Item.ID, updated.Item.ID)
	assert.Equal(t, "Ada L.", updated.Item.Name)
	assert.Empty(t, updated.Item.Company, "updates replace every column")
	assert.Equal(t, 4, updated.Item.Rating)

	assert.Equal(t, http.StatusBadRequest, e.admin(http.MethodPut, path, map[string]interface{}{"name": "No quote"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.admin(http.MethodPut, path, map[string]interface{}{"name": "x", "quote": "y", "rating": 9}).Code)
	assert.Equal(t, http.StatusNotFound, e.admin(http.MethodPut, "/api/admin/testimonials/999", map[string]interface{}{"name": "x", "quote": "y"}).Code)

	require.Equal(t, http.StatusOK, e.admin(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.admin(http.MethodGet, path, nil).Code)
}

func TestSectionVisibilityColumn(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, http.StatusCreated, e.admin(http.MethodPost, "/api/admin/services", map[string]interface{}{"title": "Consulting", "active": true}).Code)
	require.Equal(t, http.StatusCreated, e.admin(http.MethodPost, "/api/admin/services", map[string]interface{}{"title": "Retired"}).Code)
	require.Equal(t, http.StatusCreated, e.admin(http.MethodPost, "/api/admin/faqs", map[string]interface{}{"question": "Rates?", "answer": "Ask"}).Code)

	var services struct {
		Items []models.Service `json:"items"`
	}
	testutil.Decode(t, e.public(http.MethodGet, "/api/services", nil), &services)
	require.Len(t, services.Items, 1)
	assert.Equal(t, "Consulting", services.Items[0].Title)

	testutil.Decode(t, e.admin(http.MethodGet, "/api/admin/services", nil), &services)
	assert.Len(t, services.Items, 2)

	var faqs struct {
		Items []models.FAQ `json:"items"`
	}
	testutil.Decode(t, e.public(http.MethodGet, "/api/faqs", nil), &faqs)
	assert.Empty(t, faqs.Items)
}

func TestExperienceRequiresStartDate(t *testing.T) {
	e := newEnv(t)
	w := e.admin(http.MethodPost, "/api/admin/experiences", map[string]interface{}{"company": "Acme", "position": "Engineer"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.admin(http.MethodPost, "/api/admin/experiences", map[string]interface{}{
		"company": "Acme", "position": "Engineer", "start_date": "2020-01-01T00:00:00Z", "current": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
