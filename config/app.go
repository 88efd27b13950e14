package config

import (
	"time"

	"github.com/adegamar/backend/utils"
)

// AppConfig carries everything outside the database layer: session and
// cookie settings plus the content store layout.
type AppConfig struct {
	Port            string
	Environment     string
	CookieName      string
	SessionDuration time.Duration
	SecureCookies   bool
	ContentDir      string
	BackupDir       string
	AllowedFiles    []string
	RedisURL        string
}

// DefaultAllowedFiles is the content allow-list used when
// CONTENT_ALLOWED_FILES is not set: the JSON documents the admin panel
// can edit. Anything outside this list is rejected before any
// filesystem access.
var DefaultAllowedFiles = []string{
	"locales/en.json",
	"locales/pt.json",
	"menu.json",
	"footer.json",
	"story.json",
}

func LoadAppConfig() AppConfig {
	env := utils.GetEnvAsString("GO_ENV", "development")
	return AppConfig{
		Port:            utils.GetEnvAsString("PORT", "8080"),
		Environment:     env,
		CookieName:      utils.GetEnvAsString("SESSION_COOKIE_NAME", "adegamar_session"),
		SessionDuration: utils.GetEnvAsDuration("SESSION_DURATION", 30*time.Minute),
		SecureCookies:   env == "production",
		ContentDir:      utils.GetEnvAsString("CONTENT_DIR", "content"),
		BackupDir:       utils.GetEnvAsString("CONTENT_BACKUP_DIR", "content-backups"),
		AllowedFiles:    utils.GetEnvAsStringSlice("CONTENT_ALLOWED_FILES", DefaultAllowedFiles),
		RedisURL:        utils.GetEnvAsString("REDIS_URL", ""),
	}
}
