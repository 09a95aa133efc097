package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	c, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "development", c.AppEnv)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, 24, c.AdminTokenTTLHours)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, "secret", c.VisitorHashSalt)
	assert.False(t, c.IsProduction())
}

func TestParseGroupedJSONAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"AppPort": "9000",
		"JWTSecret": "from-file",
		"database": {"DBDriver": "postgres", "DBName": "site"},
		"admin": {"AdminUsername": "file-admin", "AdminPassword": "pw"},
		"site": {"SiteTitle": "Jane Doe"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("ADMIN_USERNAME", "env-admin")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("APP_ENV", "production")

	c, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, "site", c.DBName)
	assert.Equal(t, "env-admin", c.AdminUsername)
	assert.Equal(t, "pw", c.AdminPassword)
	assert.Equal(t, "Jane Doe", c.SiteTitle)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.True(t, c.IsProduction())
}

func TestParseInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := AppConfig{JWTSecret: "s", AdminUsername: "admin", AdminPassword: "pw", DBDriver: "sqlite"}
	assert.NoError(t, valid.Validate())

	hashed := valid
	hashed.AdminPassword = ""
	hashed.AdminPasswordHash = "$2a$10$abc"
	assert.NoError(t, hashed.Validate())

	noSecret := valid
	noSecret.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	noAdmin := valid
	noAdmin.AdminPassword = ""
	assert.Error(t, noAdmin.Validate())

	badDriver := valid
	badDriver.DBDriver = "oracle"
	assert.Error(t, badDriver.Validate())
}

func TestOpenDatabaseSQLite(t *testing.T) {
	type widget struct {
		ID   uint
		Name string
	}
	conn, err := OpenDatabase(AppConfig{DBDriver: "sqlite", DatabaseURI: ":memory:", LogLevel: "silent"}, &widget{})
	require.NoError(t, err)

	require.NoError(t, conn.Create(&widget{Name: "x"}).Error)
	var count int64
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
