package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mojocn/base64Captcha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/portfolio/testutil"
)

type slugRequest struct {
	Slug  string `json:"slug" binding:"required,slug"`
	Email string `json:"email" binding:"omitempty,email"`
	Kind  string `json:"kind" binding:"omitempty,oneof=a b"`
}

func bindRecorder(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	require.NoError(t, RegisterValidation())
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/", func(ctx *gin.Context) {
		var req slugRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			BindError(ctx, 40000, err)
			return
		}
		Success(ctx, req)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestBindErrorFieldDetails(t *testing.T) {
	w := bindRecorder(t, `{"slug":"Not A Slug","email":"nope","kind":"c"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code  int    `json:"code"`
		Error string `json:"error"`
		Data  struct {
			Fields map[string]string `json:"fields"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40000, resp.Code)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, "must contain only lowercase letters, digits and single dashes", resp.Data.Fields["slug"])
	assert.Equal(t, "must be a valid email address", resp.Data.Fields["email"])
	assert.Equal(t, "must be one of: a, b", resp.Data.Fields["kind"])
}

func TestBindErrorMalformedJSON(t *testing.T) {
	w := bindRecorder(t, `{"slug":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request payload")
	assert.NotContains(t, w.Body.String(), "fields")
}

func TestBindValid(t *testing.T) {
	w := bindRecorder(t, `{"slug":"good-slug-2"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCaptchaVerifyConsumes(t *testing.T) {
	testutil.Config()

	id, image, err := GenerateCaptcha()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(image, "data:image/png;base64,"))

	answer := base64Captcha.DefaultMemStore.Get(id, false)
	require.NotEmpty(t, answer)

	assert.False(t, VerifyCaptcha(id, ""))
	assert.True(t, VerifyCaptcha(id, answer))
	assert.False(t, VerifyCaptcha(id, answer), "answers are single use")
}

func TestSendMailNotConfigured(t *testing.T) {
	testutil.Config()
	err := SendMail(Mail{To: "owner@example.test", Subject: "hi", Body: "body"})
	assert.ErrorIs(t, err, errSMTPNotConfigured)
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Abort(ctx, http.StatusNotFound, 40400, "missing")
	assert.True(t, ctx.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":40400,"error":"missing"}`, w.Body.String())
}
