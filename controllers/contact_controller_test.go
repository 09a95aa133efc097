package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/testutil"
)

func contactBody(extra map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"name":       "Jane <i>Client</i>",
		"email":      "Jane@Example.test",
		"subject":    "Project inquiry",
		"message":    "I would like to hire you for a <script>x</script>website build.",
		"started_at": time.Now().Add(-time.Minute).UnixMilli(),
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func countContacts(t *testing.T, e *env) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Contact{}).Count(&n).Error)
	return n
}

func TestContactSubmitStoresSanitized(t *testing.T) {
	e := newEnv(t)
	w := e.public(http.MethodPost, "/api/contact", contactBody(nil))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.Contact
	require.NoError(t, e.db.First(&stored).Error)
	assert.Equal(t, "Jane Client", stored.Name)
	assert.Equal(t, "jane@example.test", stored.Email)
	assert.NotContains(t, stored.Message, "<script>")
	assert.Equal(t, models.ContactStatusNew, stored.Status)
	assert.NotEmpty(t, stored.UserAgent)
}

func TestContactHoneypotIsSilentlyDropped(t *testing.T) {
	e := newEnv(t)
	w := e.public(http.MethodPost, "/api/contact", contactBody(map[string]interface{}{"website": "http://spam.test"}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Zero(t, countContacts(t, e))

	// same status and keys as a stored message
	genuine := e.public(http.MethodPost, "/api/contact", contactBody(nil))
	require.Equal(t, http.StatusCreated, genuine.Code)
	var trapped, stored map[string]interface{}
	testutil.Decode(t, w, &trapped)
	testutil.Decode(t, genuine, &stored)
	assert.ElementsMatch(t, keysOf(stored), keysOf(trapped))
}

func keysOf(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestContactTooFast(t *testing.T) {
	e := newEnv(t)
	w := e.public(http.MethodPost, "/api/contact", contactBody(map[string]interface{}{"started_at": time.Now().UnixMilli()}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40061, testutil.Decode(t, w, nil).Code)
	assert.Zero(t, countContacts(t, e))

	// clients that do not send a start time are accepted
	body := contactBody(nil)
	delete(body, "started_at")
	assert.Equal(t, http.StatusCreated, e.public(http.MethodPost, "/api/contact", body).Code)
}

func TestContactValidation(t *testing.T) {
	e := newEnv(t)
	w := e.public(http.MethodPost, "/api/contact", contactBody(map[string]interface{}{"email": "not-an-email", "message": "short"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var details struct {
		Fields map[string]string `json:"fields"`
	}
	testutil.Decode(t, w, &details)
	assert.Contains(t, details.Fields, "email")
	assert.Contains(t, details.Fields, "message")

	// long enough before sanitizing, too short after
	w = e.public(http.MethodPost, "/api/contact", contactBody(map[string]interface{}{"message": "<b></b><i></i>hi there"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40063, testutil.Decode(t, w, nil).Code)
}

func TestContactCaptchaRequired(t *testing.T) {
	e := newEnv(t, func(c *config.AppConfig) { c.ContactCaptchaEnabled = true })

	var captcha struct {
		Enabled bool   `json:"enabled"`
		ID      string `json:"id"`
		Image   string `json:"image"`
	}
	testutil.Decode(t, e.public(http.MethodGet, "/api/contact/captcha", nil), &captcha)
	assert.True(t, captcha.Enabled)
	assert.NotEmpty(t, captcha.ID)

	w := e.public(http.MethodPost, "/api/contact", contactBody(map[string]interface{}{"captcha_id": captcha.ID, "captcha_answer": "wrong"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40062, testutil.Decode(t, w, nil).Code)
}

func TestContactRateLimited(t *testing.T) {
	e := newEnv(t, func(c *config.AppConfig) { c.ContactRateLimitPerHour = 1 })
	assert.Equal(t, http.StatusCreated, e.public(http.MethodPost, "/api/contact", contactBody(nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, e.public(http.MethodPost, "/api/contact", contactBody(nil)).Code)
}

func TestContactAdminLifecycle(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, http.StatusCreated, e.public(http.MethodPost, "/api/contact", contactBody(nil)).Code)
	var stored models.Contact
	require.NoError(t, e.db.First(&stored).Error)
	path := fmt.Sprintf("/api/admin/contacts/%d", stored.ID)

	var list struct {
		Items []models.Contact `json:"items"`
	}
	testutil.Decode(t, e.admin(http.MethodGet, "/api/admin/contacts?status=new", nil), &list)
	require.Len(t, list.Items, 1)

	var one struct {
		Contact models.Contact `json:"contact"`
	}
	testutil.Decode(t, e.admin(http.MethodGet, path, nil), &one)
	assert.Equal(t, models.ContactStatusRead, one.Contact.Status)

	w := e.admin(http.MethodPatch, path+"/status", map[string]string{"status": "replied"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.Decode(t, w, &one)
	assert.Equal(t, models.ContactStatusReplied, one.Contact.Status)

	assert.Equal(t, http.StatusBadRequest, e.admin(http.MethodPatch, path+"/status", map[string]string{"status": "spam"}).Code)
	assert.Equal(t, http.StatusNotFound, e.admin(http.MethodPatch, path, map[string]string{"status": "read"}).Code)

	require.Equal(t, http.StatusOK, e.admin(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.admin(http.MethodDelete, path, nil).Code)
}
