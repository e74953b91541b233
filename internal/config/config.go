package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	StrapiURL            string        `mapstructure:"strapi_url"`
	StrapiAPIToken       string        `mapstructure:"strapi_api_token"`
	StrapiTimeoutSeconds int64         `mapstructure:"strapi_timeout_seconds"`
	StrapiTimeout        time.Duration `mapstructure:"-"`

	PublishersFile      string        `mapstructure:"publishers_file"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncInterval        time.Duration `mapstructure:"-"`
	SyncPageSize        int           `mapstructure:"sync_page_size"`

	PreviewEnabled bool          `mapstructure:"preview_enabled"`
	PreviewDelayMs int64         `mapstructure:"preview_delay_ms"`
	PreviewDelay   time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// DefaultStrapiURL is used when STRAPI_URL is unset.
const DefaultStrapiURL = "http://localhost:1337"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "folio-content")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("strapi_url", DefaultStrapiURL)
	v.SetDefault("strapi_api_token", "")
	v.SetDefault("strapi_timeout_seconds", 15)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("sync_interval", 300) // seconds
	v.SetDefault("sync_page_size", 25)
	v.SetDefault("preview_enabled", true)
	v.SetDefault("preview_delay_ms", 250)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/content.db")
	v.SetDefault("storage_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.StrapiURL = strings.TrimSpace(cfg.StrapiURL)
	if cfg.StrapiURL == "" {
		cfg.StrapiURL = DefaultStrapiURL
	}
	cfg.StrapiAPIToken = strings.TrimSpace(cfg.StrapiAPIToken)

	if cfg.StrapiTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid strapi_timeout_seconds (must be positive seconds)")
	}
	cfg.StrapiTimeout = time.Duration(cfg.StrapiTimeoutSeconds) * time.Second

	if cfg.SyncIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second

	if cfg.SyncPageSize <= 0 {
		return nil, fmt.Errorf("invalid sync_page_size (must be positive)")
	}

	if cfg.PreviewDelayMs < 0 {
		return nil, fmt.Errorf("invalid preview_delay_ms (must not be negative)")
	}
	cfg.PreviewDelay = time.Duration(cfg.PreviewDelayMs) * time.Millisecond

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
