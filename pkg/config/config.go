package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the application (not course) configuration: everything the
// server and CLI read from the environment. The course definition itself
// lives in the course configuration file pointed to by Course.Path.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Course CourseFileConfig
	Site   SiteConfig
	CORS   CORSConfig
	Log    LogConfig
	Export ExportConfig
	Canvas CanvasConfig
}

// CourseFileConfig locates the course definition on disk.
type CourseFileConfig struct {
	Path string
}

// SiteConfig describes the public website the schedule belongs to.
type SiteConfig struct {
	URL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig tunes calendar and document export.
type ExportConfig struct {
	// UIDDomain is the host suffix of iCalendar event UIDs.
	UIDDomain string
	OutputDir string
}

// CanvasConfig holds Canvas LMS sync settings. The API token is read
// from the env var named by the course config (apiTokenEnvVar), with
// CANVAS_API_TOKEN as the fallback.
type CanvasConfig struct {
	Enabled        bool
	TokenEnvVar    string
	RequestTimeout time.Duration
	RequestsPerSec float64
}

// Token resolves the Canvas API token, preferring envVarOverride when
// non-empty.
func (c CanvasConfig) Token(envVarOverride string) string {
	name := c.TokenEnvVar
	if envVarOverride != "" {
		name = envVarOverride
	}
	return os.Getenv(name)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Course = CourseFileConfig{
		Path: v.GetString("COURSE_CONFIG"),
	}

	cfg.Site = SiteConfig{
		URL: v.GetString("SITE_URL"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		UIDDomain: v.GetString("EXPORT_UID_DOMAIN"),
		OutputDir: v.GetString("EXPORT_OUTPUT_DIR"),
	}

	cfg.Canvas = CanvasConfig{
		Enabled:        v.GetBool("ENABLE_CANVAS_SYNC"),
		TokenEnvVar:    v.GetString("CANVAS_TOKEN_ENV_VAR"),
		RequestTimeout: parseDuration(v.GetString("CANVAS_REQUEST_TIMEOUT"), 30*time.Second),
		RequestsPerSec: v.GetFloat64("CANVAS_REQUESTS_PER_SEC"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("COURSE_CONFIG", "course.config.yaml")
	v.SetDefault("SITE_URL", "http://localhost:3000")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORT_UID_DOMAIN", "coursegen")
	v.SetDefault("EXPORT_OUTPUT_DIR", "./build")

	v.SetDefault("ENABLE_CANVAS_SYNC", false)
	v.SetDefault("CANVAS_TOKEN_ENV_VAR", "CANVAS_API_TOKEN")
	v.SetDefault("CANVAS_REQUEST_TIMEOUT", "30s")
	v.SetDefault("CANVAS_REQUESTS_PER_SEC", 5.0)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
