package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Secrets have no defaults in code and must come from config.json, a .env file or the environment.
type AppConfig struct {
	AppEnv             string   `json:"AppEnv" env:"APP_ENV"`
	AppPort            string   `json:"AppPort" env:"APP_PORT"`
	BaseURL            string   `json:"BaseURL" env:"BASE_URL"`
	JWTSecret          string   `json:"JWTSecret" env:"JWT_SECRET"`
	RateLimitPerMinute int      `json:"RateLimitPerMinute" env:"RATE_LIMIT_PER_MINUTE"`
	AllowedOrigins     []string `json:"AllowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	// Gin framework configuration
	GinMode string `json:"GinMode" env:"GIN_MODE"`
	GinPath string `json:"GinPath" env:"GIN_PATH"`
	// Public profile shown on the home page, feed and sitemap
	SiteTitle       string `json:"SiteTitle" env:"SITE_TITLE"`
	SiteDescription string `json:"SiteDescription" env:"SITE_DESCRIPTION"`
	SiteAuthor      string `json:"SiteAuthor" env:"SITE_AUTHOR"`
	SiteTagline     string `json:"SiteTagline" env:"SITE_TAGLINE"`
	SiteAbout       string `json:"SiteAbout" env:"SITE_ABOUT"`
	SiteEmail       string `json:"SiteEmail" env:"SITE_EMAIL"`
	SiteLocation    string `json:"SiteLocation" env:"SITE_LOCATION"`
	SiteAvatarURL   string `json:"SiteAvatarURL" env:"SITE_AVATAR_URL"`
	SiteResumeURL   string `json:"SiteResumeURL" env:"SITE_RESUME_URL"`
	SiteGitHubURL   string `json:"SiteGitHubURL" env:"SITE_GITHUB_URL"`
	SiteLinkedInURL string `json:"SiteLinkedInURL" env:"SITE_LINKEDIN_URL"`
	// Admin credential pair
	AdminUsername      string `json:"AdminUsername" env:"ADMIN_USERNAME"`
	AdminPassword      string `json:"AdminPassword" env:"ADMIN_PASSWORD"`
	AdminPasswordHash  string `json:"AdminPasswordHash" env:"ADMIN_PASSWORD_HASH"`
	AdminTokenTTLHours int    `json:"AdminTokenTTLHours" env:"ADMIN_TOKEN_TTL_HOURS"`
	// Database
	DBDriver    string `json:"DBDriver" env:"DB_DRIVER"`
	DatabaseURI string `json:"DatabaseURI" env:"DATABASE_URI"`
	DBHost      string `json:"DBHost" env:"DB_HOST"`
	DBPort      string `json:"DBPort" env:"DB_PORT"`
	DBUser      string `json:"DBUser" env:"DB_USER"`
	DBPassword  string `json:"DBPassword" env:"DB_PASSWORD"`
	DBName      string `json:"DBName" env:"DB_NAME"`
	// Redis response cache, disabled when RedisHost is empty
	RedisHost     string `json:"RedisHost" env:"REDIS_HOST"`
	RedisPort     int    `json:"RedisPort" env:"REDIS_PORT"`
	RedisDB       int    `json:"RedisDB" env:"REDIS_DB"`
	RedisPassword string `json:"RedisPassword" env:"REDIS_PASSWORD"`
	// SMTP for contact notifications
	SMTPHost           string `json:"SMTPHost" env:"SMTP_HOST"`
	SMTPPort           int    `json:"SMTPPort" env:"SMTP_PORT"`
	SMTPUsername       string `json:"SMTPUsername" env:"SMTP_USERNAME"`
	SMTPPassword       string `json:"SMTPPassword" env:"SMTP_PASSWORD"`
	SMTPFrom           string `json:"SMTPFrom" env:"SMTP_FROM"`
	SMTPFromName       string `json:"SMTPFromName" env:"SMTP_FROM_NAME"`
	SMTPSSL            bool   `json:"SMTPSSL" env:"SMTP_SSL"`
	ContactNotifyEmail string `json:"ContactNotifyEmail" env:"CONTACT_NOTIFY_EMAIL"`
	// Contact form hardening
	ContactMinFillSeconds   int  `json:"ContactMinFillSeconds" env:"CONTACT_MIN_FILL_SECONDS"`
	ContactCaptchaEnabled   bool `json:"ContactCaptchaEnabled" env:"CONTACT_CAPTCHA_ENABLED"`
	ContactRateLimitPerHour int  `json:"ContactRateLimitPerHour" env:"CONTACT_RATE_LIMIT_PER_HOUR"`
	// Analytics
	AnalyticsEnabled bool   `json:"AnalyticsEnabled" env:"ANALYTICS_ENABLED"`
	VisitorHashSalt  string `json:"VisitorHashSalt" env:"VISITOR_HASH_SALT"`
	// Media uploads
	UploadDir   string `json:"UploadDir" env:"UPLOAD_DIR"`
	UploadMaxMB int    `json:"UploadMaxMB" env:"UPLOAD_MAX_MB"`
	// Logging configuration
	LogLevel      string `json:"LogLevel" env:"LOG_LEVEL"`
	LogPath       string `json:"LogPath" env:"LOG_PATH"`
	LogMaxSizeMB  int    `json:"LogMaxSizeMB" env:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `json:"LogMaxBackups" env:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `json:"LogMaxAgeDays" env:"LOG_MAX_AGE_DAYS"`
	LogCompress   bool   `json:"LogCompress" env:"LOG_COMPRESS"`
	// Tracing, off unless an OTLP endpoint is configured
	OTELEndpoint    string `json:"OTELEndpoint" env:"OTEL_ENDPOINT"`
	OTELServiceName string `json:"OTELServiceName" env:"OTEL_SERVICE_NAME"`
}

// IsProduction reports whether the app runs with production semantics (secure cookies, real analytics).
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Validate reports configuration that makes the service unusable.
func (c AppConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set in environment variables")
	}
	if c.AdminUsername == "" || (c.AdminPassword == "" && c.AdminPasswordHash == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD (or ADMIN_PASSWORD_HASH) must be set")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// sections are the grouped blocks accepted in config.json; each maps onto the flat AppConfig keys.
var sections = []string{"app", "site", "admin", "database", "redis", "smtp", "contact", "analytics", "upload", "log", "otel"}

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.RLock()
	if loaded {
		defer mu.RUnlock()
		return cfg
	}
	mu.RUnlock()

	c, err := Parse(filepath.Join("config", "config.json"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatal(err)
	}

	Set(c)
	return c
}

// Parse builds a configuration with precedence config.json -> defaults -> .env -> environment.
func Parse(jsonPath string) (AppConfig, error) {
	var c AppConfig

	if err := loadJSONConfig(jsonPath, &c); err != nil {
		return c, fmt.Errorf("read %s: %w", jsonPath, err)
	}

	applyDefaults(&c)

	// .env never overrides variables that are already exported
	_ = godotenv.Load()

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}

	applyDerived(&c)
	return c, nil
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.RLock()
	if loaded {
		defer mu.RUnlock()
		return cfg
	}
	mu.RUnlock()
	return Load()
}

// Set replaces the cached configuration.
func Set(c AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
	loaded = true
}

// loadJSONConfig reads the JSON file into out if present. Both flat keys and grouped
// sections ({"database": {"DBDriver": "mysql"}}) are accepted. Missing files are ignored.
func loadJSONConfig(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Flat keys first so grouped sections win on conflict
	if err := json.Unmarshal(b, out); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, name := range sections {
		section, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(section, out); err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppEnv == "" {
		c.AppEnv = "development"
	}
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 10
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.SiteTitle == "" {
		c.SiteTitle = "Portfolio"
	}
	if c.AdminTokenTTLHours == 0 {
		c.AdminTokenTTLHours = 24
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "portfolio"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.ContactMinFillSeconds == 0 {
		c.ContactMinFillSeconds = 3
	}
	if c.ContactRateLimitPerHour == 0 {
		c.ContactRateLimitPerHour = 5
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("static", "uploads")
	}
	if c.UploadMaxMB == 0 {
		c.UploadMaxMB = 10
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.OTELServiceName == "" {
		c.OTELServiceName = "portfolio"
	}
}

// applyDerived fills values that depend on other settings once every source has been applied.
func applyDerived(c *AppConfig) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:" + c.AppPort
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.DBPort == "" {
		if c.DBDriver == "postgres" {
			c.DBPort = "5432"
		} else {
			c.DBPort = "3306"
		}
	}
	if c.VisitorHashSalt == "" {
		c.VisitorHashSalt = c.JWTSecret
	}
}
