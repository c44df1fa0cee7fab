package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Reminder dispatch modes.
const (
	DispatchModeSync  = "sync"
	DispatchModeQueue = "queue"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Datastore DatastoreConfig
	Redis     RedisConfig
	Email     EmailConfig
	Reminders ReminderConfig
	Activity  ActivityConfig
	Auth      AuthConfig
	Cron      CronConfig
	CORS      CORSConfig
	Log       LogConfig
}

// DatastoreConfig points at the hosted Postgres database. ServiceKey is used as
// the connection password and overrides any password embedded in URL.
type DatastoreConfig struct {
	URL          string
	ServiceKey   string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// EmailConfig configures the transactional email API used for reminders.
type EmailConfig struct {
	APIKey      string
	FromAddress string
	BaseURL     string
	Timeout     time.Duration
}

// ReminderConfig tunes delivery of RSVP reminders. The reminder window itself is fixed.
type ReminderConfig struct {
	DisplayTimezone string
	DispatchMode    string
	DispatchWorkers int
	DedupEnabled    bool
	DedupTTL        time.Duration
}

// ActivityConfig governs the public activity listing.
type ActivityConfig struct {
	CacheTTL time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

// CronConfig protects the scheduler-facing endpoint when Secret is set.
type CronConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DatastoreConfigured reports whether both datastore credentials are present.
func (c *Config) DatastoreConfigured() bool {
	return c != nil && c.Datastore.URL != "" && c.Datastore.ServiceKey != ""
}

// EmailConfigured reports whether reminder emails can be sent.
func (c *Config) EmailConfigured() bool {
	return c != nil && c.Email.APIKey != "" && c.Email.FromAddress != ""
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Datastore = DatastoreConfig{
		URL:          v.GetString("DATASTORE_URL"),
		ServiceKey:   v.GetString("DATASTORE_SERVICE_KEY"),
		MaxOpenConns: v.GetInt("DATASTORE_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DATASTORE_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Email = EmailConfig{
		APIKey:      v.GetString("EMAIL_API_KEY"),
		FromAddress: v.GetString("EMAIL_FROM_ADDRESS"),
		BaseURL:     strings.TrimRight(v.GetString("EMAIL_API_BASE_URL"), "/"),
		Timeout:     parseDuration(v.GetString("EMAIL_TIMEOUT"), 10*time.Second),
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString("REMINDER_DISPATCH_MODE")))
	if mode != DispatchModeQueue {
		mode = DispatchModeSync
	}
	cfg.Reminders = ReminderConfig{
		DisplayTimezone: v.GetString("REMINDER_DISPLAY_TIMEZONE"),
		DispatchMode:    mode,
		DispatchWorkers: v.GetInt("REMINDER_DISPATCH_WORKERS"),
		DedupEnabled:    v.GetBool("REMINDER_DEDUP_ENABLED"),
		DedupTTL:        parseDuration(v.GetString("REMINDER_DEDUP_TTL"), 72*time.Hour),
	}

	cfg.Activity = ActivityConfig{
		CacheTTL: parseDuration(v.GetString("ACTIVITY_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Auth = AuthConfig{JWTSecret: v.GetString("AUTH_JWT_SECRET")}
	cfg.Cron = CronConfig{Secret: v.GetString("CRON_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATASTORE_URL", "")
	v.SetDefault("DATASTORE_SERVICE_KEY", "")
	v.SetDefault("DATASTORE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATASTORE_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("EMAIL_API_KEY", "")
	v.SetDefault("EMAIL_FROM_ADDRESS", "")
	v.SetDefault("EMAIL_API_BASE_URL", "https://api.resend.com")
	v.SetDefault("EMAIL_TIMEOUT", "10s")

	v.SetDefault("REMINDER_DISPLAY_TIMEZONE", "Europe/Stockholm")
	v.SetDefault("REMINDER_DISPATCH_MODE", DispatchModeSync)
	v.SetDefault("REMINDER_DISPATCH_WORKERS", 2)
	v.SetDefault("REMINDER_DEDUP_ENABLED", false)
	v.SetDefault("REMINDER_DEDUP_TTL", "72h")

	v.SetDefault("ACTIVITY_CACHE_TTL", "2m")

	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("CRON_SECRET", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// viper reports a missing explicit config file as a path error rather than
// ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
