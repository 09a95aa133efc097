package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/portfolio/config"
)

// HashPassword returns the bcrypt hash of the password; used to produce ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckAdminCredentials reports whether username and password match the configured admin pair.
// A configured bcrypt hash takes precedence over the plain password.
func CheckAdminCredentials(username, password string) bool {
	cfg := config.Get()
	if cfg.AdminUsername == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1

	var passOK bool
	if cfg.AdminPasswordHash != "" {
		passOK = CheckPassword(cfg.AdminPasswordHash, password)
	} else {
		passOK = cfg.AdminPassword != "" && subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
	}
	return userOK && passOK
}
