// Package config loads the admin server configuration from YAML and the
// environment using cleanenv.
package config

import (
	"encoding/hex"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
	Email   EmailConfig   `yaml:"email"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// BackendConfig points at the EagleKidz service.
type BackendConfig struct {
	BaseURL       string `yaml:"base_url"       env:"BACKEND_BASE_URL"       env-default:"http://localhost:8080"`
	SummarizePath string `yaml:"summarize_path" env:"BACKEND_SUMMARIZE_PATH" env-default:"/api/v1/ai/summarize"`
}

// WebConfig holds page-rendering and browser-facing settings.
type WebConfig struct {
	Env            string        `yaml:"env"             env:"WEB_ENV"             env-default:"development"`
	CSRFKey        string        `yaml:"csrf_key"        env:"WEB_CSRF_KEY"`
	TemplatesDir   string        `yaml:"templates_dir"   env:"WEB_TEMPLATES_DIR"` // empty serves the embedded templates
	StaticDir      string        `yaml:"static_dir"      env:"WEB_STATIC_DIR"`    // empty serves the embedded assets
	TimeZone       string        `yaml:"time_zone"       env:"WEB_TIME_ZONE"       env-default:"Local"`
	SlowRequest    time.Duration `yaml:"slow_request"    env:"WEB_SLOW_REQUEST"    env-default:"200ms"`
	TrustedOrigins []string      `yaml:"trusted_origins" env:"WEB_TRUSTED_ORIGINS" env-default:"localhost:3000,127.0.0.1:3000" env-separator:","`
	SummarizeRate  int           `yaml:"summarize_rate"  env:"WEB_SUMMARIZE_RATE"  env-default:"10"`
}

// IsProduction reports whether the admin runs behind TLS in production.
func (w WebConfig) IsProduction() bool { return strings.EqualFold(w.Env, "production") }

// CSRFKeyBytes decodes the hex CSRF key. Validate guarantees it is 32 bytes
// or empty.
func (w WebConfig) CSRFKeyBytes() []byte {
	b, _ := hex.DecodeString(w.CSRFKey)
	return b
}

// Location resolves TimeZone; Validate guarantees it loads.
func (w WebConfig) Location() *time.Location {
	loc, err := time.LoadLocation(w.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// EmailConfig holds share-by-email settings. An empty ResendAPIKey selects
// the logging no-op sender.
type EmailConfig struct {
	ResendAPIKey     string   `yaml:"resend_api_key"    env:"EMAIL_RESEND_API_KEY"`
	From             string   `yaml:"from"              env:"EMAIL_FROM"              env-default:"EagleKidz <reviews@eaglekidz.local>"`
	ReplyTo          string   `yaml:"reply_to"          env:"EMAIL_REPLY_TO"`
	ReviewRecipients []string `yaml:"review_recipients" env:"EMAIL_REVIEW_RECIPIENTS" env-separator:","`
}
