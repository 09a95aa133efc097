package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/middleware"
	"github.com/cppla/portfolio/utils"
)

// AuthController exchanges the configured admin credentials for a session token.
type AuthController struct{}

// NewAuthController creates a new AuthController instance.
func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login verifies the admin pair, issues a JWT and sets it as the adminToken cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,max=100"`
		Password string `json:"password" binding:"required,max=200"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40010, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if !utils.CheckAdminCredentials(username, req.Password) {
		utils.Sugar.Warnw("admin login failed", "ip", ctx.ClientIP())
		utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid username or password")
		return
	}

	ttl := utils.AdminTokenTTL()
	token, expiresAt, err := utils.GenerateAdminToken(username, ttl)
	if err != nil {
		utils.Sugar.Errorw("sign admin token", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to generate token")
		return
	}

	setAdminCookie(ctx, token, int(ttl.Seconds()))
	utils.Sugar.Infow("admin login", "username", username, "ip", ctx.ClientIP())
	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       gin.H{"username": username, "role": utils.AdminRole},
	})
}

// Logout clears the cookie. Tokens are stateless, so a copied token stays valid until it expires.
func (a *AuthController) Logout(ctx *gin.Context) {
	setAdminCookie(ctx, "", -1)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the identity carried by the verified token.
func (a *AuthController) Me(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"username": ctx.GetString(middleware.ContextUsernameKey),
		"role":     ctx.GetString(middleware.ContextRoleKey),
	})
}

func setAdminCookie(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(middleware.AdminCookieName, token, maxAge, "/", "", config.Get().IsProduction(), true)
}
