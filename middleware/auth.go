package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/portfolio/utils"
)

const (
	// AdminCookieName is the cookie carrying the admin session token.
	AdminCookieName = "adminToken"
	// ContextUsernameKey stores the authenticated admin username inside Gin context.
	ContextUsernameKey = "admin_username"
	// ContextRoleKey stores the token role inside Gin context.
	ContextRoleKey = "admin_role"
)

// AdminRequired accepts the session from the adminToken cookie or an Authorization bearer header.
// Any failure (missing, malformed, expired, wrong signature or role) is a plain 401.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := TokenFromRequest(ctx)
		if tokenString == "" {
			utils.Abort(ctx, http.StatusUnauthorized, 40101, "Unauthorized")
			return
		}

		claims, err := utils.ParseAdminToken(tokenString)
		if err != nil {
			utils.Abort(ctx, http.StatusUnauthorized, 40101, "Unauthorized")
			return
		}

		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextRoleKey, claims.Role)
		ctx.Next()
	}
}

// TokenFromRequest returns the cookie token if set, else the bearer token, else "".
func TokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(AdminCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
