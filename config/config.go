package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Env selects deployment behavior; "production" enables the basic-auth
	// lockdown for interactive routes.
	Env           string `mapstructure:"env"`
	SessionSecret string `mapstructure:"sessionSecret"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	// SitePassword is the single shared secret for browser sessions. Leaving
	// it unset is a deployment error surfaced per-request as 503, not a load
	// failure, so operators can tell it apart from "not logged in".
	SitePassword      string `mapstructure:"sitePassword"`
	DisableSiteAuth   bool   `mapstructure:"disableSiteAuth"`
	BasicAuthUsername string `mapstructure:"basicAuthUsername"`
	BasicAuthPassword string `mapstructure:"basicAuthPassword"`
}

type RateLimitConfig struct {
	Disable bool `mapstructure:"disable"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Metrics  bool   `mapstructure:"metrics"`
}

// Production reports whether the server runs with production lockdown.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// LoadConfig reads config.yaml (from . or ./config, both optional) and
// applies environment overrides. SITE_PASSWORD and the feature flags follow
// the historical environment variable names.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("database.path", "lizard.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("telemetry.endpoint", "localhost:4318")
	viper.SetDefault("telemetry.metrics", true)

	viper.AutomaticEnv()
	_ = viper.BindEnv("auth.sitePassword", "SITE_PASSWORD")
	_ = viper.BindEnv("auth.disableSiteAuth", "DISABLE_SITE_AUTH")
	_ = viper.BindEnv("auth.basicAuthUsername", "BASIC_AUTH_USERNAME")
	_ = viper.BindEnv("auth.basicAuthPassword", "BASIC_AUTH_PASSWORD")
	_ = viper.BindEnv("rateLimit.disable", "DISABLE_RATE_LIMIT")
	_ = viper.BindEnv("server.sessionSecret", "SESSION_SECRET")
	_ = viper.BindEnv("server.addr", "HTTP_ADDR")
	_ = viper.BindEnv("server.env", "APP_ENV")
	_ = viper.BindEnv("database.path", "DATABASE_PATH")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
