package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/portfolio/config"
)

// AdminRole is the only role ever issued.
const AdminRole = "admin"

var errNotAdmin = errors.New("token does not carry the admin role")

// AdminClaims is the admin session payload: username, role, iat and exp.
type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AdminTokenTTL returns the configured session lifetime.
func AdminTokenTTL() time.Duration {
	hours := config.Get().AdminTokenTTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// GenerateAdminToken issues an HS256 token for username that expires after ttl.
func GenerateAdminToken(username string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	token, err := SignAdminClaims(AdminClaims{
		Username: username,
		Role:     AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token, expiresAt, err
}

// SignAdminClaims signs arbitrary admin claims with the configured secret.
func SignAdminClaims(claims AdminClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseAdminToken validates signature, expiry and role, and returns the claims.
func ParseAdminToken(tokenStr string) (*AdminClaims, error) {
	cfg := config.Get()
	parsed, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Role != AdminRole {
		return nil, errNotAdmin
	}
	return claims, nil
}
