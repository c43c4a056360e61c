// Package config loads dashboard settings from an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dashboard/internal/logging"
	"dashboard/internal/policy"
)

type Config struct {
	Host     string
	Port     int
	Database Database
	Auth     Auth
	Logger   logging.Config
	Redis    Redis
}

type Database struct {
	Path string
}

type Auth struct {
	// AllowAnonymousPosts lets visitors without a session author and change posts.
	AllowAnonymousPosts bool
	// RequireAuth hides the dashboard listings from visitors without a session.
	RequireAuth bool
	SessionTTL  time.Duration
	CookieName  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Policy returns the switches the authorization policy reads.
func (c *Config) Policy() policy.Config {
	return policy.Config{AllowAnonymous: c.Auth.AllowAnonymousPosts}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "dashboard.db")
	v.SetDefault("auth.allow_anonymous_posts", false)
	v.SetDefault("auth.require_auth", false)
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.cookie_name", "session_id")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "dashboard:revalidate")
}

// legacy environment names kept from earlier deployments
var legacyEnv = map[string]string{
	"auth.allow_anonymous_posts": "ALLOW_ANONYMOUS_POSTS",
	"auth.require_auth":          "REQUIRE_AUTH",
	"server.port":                "PORT",
	"database.path":              "DB_PATH",
	"redis.addr":                 "REDIS_ADDR",
}

// Load reads path (optional) and overlays DASHBOARD_* environment variables,
// e.g. DASHBOARD_AUTH_REQUIRE_AUTH=true.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("dashboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "DASHBOARD_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Host: v.GetString("server.host"),
		Port: v.GetInt("server.port"),
		Database: Database{
			Path: v.GetString("database.path"),
		},
		Auth: Auth{
			AllowAnonymousPosts: v.GetBool("auth.allow_anonymous_posts"),
			RequireAuth:         v.GetBool("auth.require_auth"),
			SessionTTL:          v.GetDuration("auth.session_ttl"),
			CookieName:          v.GetString("auth.cookie_name"),
		},
		Logger: logging.Config{
			Level:  v.GetString("logger.level"),
			Format: v.GetString("logger.format"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Channel:  v.GetString("redis.channel"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	if c.Auth.CookieName == "" {
		errs = append(errs, errors.New("auth.cookie_name is required"))
	}
	return errors.Join(errs...)
}
