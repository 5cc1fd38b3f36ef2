package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultEnvFile = "configs/.env"

// Config holds the application configuration loaded from flags, environment variables
// and the optional .env file.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTPTimeoutSeconds  int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout         time.Duration `mapstructure:"-"`
	HTTPMaxBodyBytes    int64         `mapstructure:"http_max_body_bytes"`
	HTTPMaxConnsPerHost int           `mapstructure:"http_max_conns_per_host"`
	HTTPIdleConnSeconds int64         `mapstructure:"http_idle_conn_timeout_seconds"`
	HTTPIdleConnTimeout time.Duration `mapstructure:"-"`
	HTTPCompression     bool          `mapstructure:"http_compression"`

	AlertsFile string `mapstructure:"alerts_file"`
}

// Load reads configuration. Precedence, highest first: flags set on fs, environment
// variables, values from configs/.env, defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(defaultEnvFile)

	v := viper.New()

	v.SetDefault("app_name", "samvad-rest-facade")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("http_max_body_bytes", int64(5*1024*1024))
	v.SetDefault("http_max_conns_per_host", 100)
	v.SetDefault("http_idle_conn_timeout_seconds", 60)
	v.SetDefault("http_compression", true)
	v.SetDefault("alerts_file", "")

	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	if cfg.HTTPMaxBodyBytes <= 0 {
		return nil, fmt.Errorf("invalid http_max_body_bytes (must be positive)")
	}
	if cfg.HTTPMaxConnsPerHost < 0 {
		return nil, fmt.Errorf("invalid http_max_conns_per_host (must not be negative)")
	}
	if cfg.HTTPIdleConnSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_idle_conn_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second
	cfg.HTTPIdleConnTimeout = time.Duration(cfg.HTTPIdleConnSeconds) * time.Second

	return &cfg, nil
}
