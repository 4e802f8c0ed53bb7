package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultConfigPath is used when CONFIG_PATH is unset
const DefaultConfigPath = "configs/tms.yaml"

// CacheSettings configures the in-process result cache
type CacheSettings struct {
	Size        int           `mapstructure:"size" validate:"min=1"`
	TopTasksTTL time.Duration `mapstructure:"top_tasks_ttl" validate:"required"`
}

// SchedulerSettings configures periodic jobs run inside the server process
type SchedulerSettings struct {
	Enabled        bool   `mapstructure:"enabled"`
	TopTasksReport string `mapstructure:"top_tasks_report" validate:"required"`
}

// StaticSettings configures where collected static assets live and how they are served
type StaticSettings struct {
	Root      string `mapstructure:"root" validate:"required"`
	URLPrefix string `mapstructure:"url_prefix" validate:"required,startswith=/"`
}

// AppConfig is the full configuration shared by every tms subcommand
type AppConfig struct {
	Server    ServerSettings    `mapstructure:"server"`
	Logger    LoggerSettings    `mapstructure:"logger"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Search    SearchSettings    `mapstructure:"search"`
	Storage   StorageSettings   `mapstructure:"storage"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Mail      MailSettings      `mapstructure:"mail"`
	Cache     CacheSettings     `mapstructure:"cache"`
	Scheduler SchedulerSettings `mapstructure:"scheduler"`
	Static    StaticSettings    `mapstructure:"static"`
}

// envAliases are accepted in addition to the TMS_ prefixed variables, in order of precedence
var envAliases = map[string][]string{
	"server.workers": {"TMS_SERVER_WORKERS", "GUNICORN_WORKERS"},
	"server.bind":    {"TMS_SERVER_BIND", "GUNICORN_BIND"},
	"server.timeout": {"TMS_SERVER_TIMEOUT", "GUNICORN_TIMEOUT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", DefaultServerBind)
	v.SetDefault("server.workers", DefaultServerWorkers)
	v.SetDefault("server.timeout", DefaultServerTimeout)
	v.SetDefault("server.shutdown_grace", 15*time.Second)
	v.SetDefault("server.health_bind", "")
	v.SetDefault("server.allow_root", false)

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "tms.db")
	v.SetDefault("database.name", "")

	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.username", "")
	v.SetDefault("search.password", "")
	v.SetDefault("search.startup_mode", SearchModeRebuild)
	v.SetDefault("search.max_attempts", 10)
	v.SetDefault("search.retry_delay", 5*time.Second)
	v.SetDefault("search.bulk_size", 500)

	v.SetDefault("storage.bucket", "tms-attachments")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.public_endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.path_style", true)
	v.SetDefault("storage.public_bucket", false)
	v.SetDefault("storage.url_expiry_hours", 24)
	v.SetDefault("storage.webhook_token", "")
	v.SetDefault("storage.max_upload_bytes", 32<<20)

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.issuer", "tms")
	v.SetDefault("auth.access_token_ttl", 5*time.Minute)
	v.SetDefault("auth.refresh_token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("mail.host", "localhost")
	v.SetDefault("mail.port", 1025)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "noreply@tms.local")
	v.SetDefault("mail.use_tls", false)
	v.SetDefault("mail.rate_per_second", 5.0)
	v.SetDefault("mail.workers", 4)
	v.SetDefault("mail.queue_size", 256)

	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.top_tasks_ttl", 15*time.Minute)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.top_tasks_report", "0 0 * * 1")

	v.SetDefault("static.root", "staticfiles")
	v.SetDefault("static.url_prefix", "/static")
}

// ResolvePath returns the config file named by CONFIG_PATH, or the default path.
// An empty result means no file exists and only defaults and environment apply.
func ResolvePath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// Load reads the YAML file at path (skipped when empty), applies TMS_ environment
// overrides and returns the resulting configuration. Load does not validate.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every settings block and joins the failures
func (c *AppConfig) Validate() error {
	validate := validator.New()

	var errs []error
	for _, s := range []interface{ Validate() error }{
		&c.Server, &c.Logger, &c.Database, &c.Search, &c.Storage, &c.Auth, &c.Mail,
	} {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for name, s := range map[string]interface{}{"CacheSettings": &c.Cache, "SchedulerSettings": &c.Scheduler, "StaticSettings": &c.Static} {
		if err := validate.Struct(s); err != nil {
			errs = append(errs, fmt.Errorf("validation failed for %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
