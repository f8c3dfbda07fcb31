package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	DatabaseURL string
	CORSOrigins []string
	Port        string
	LogLevel    string
	LogFile     string

	DB        DBConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig

	// override, exam or merge; see internal/assignment.
	AssignmentPrecedence string

	AdminEmail    string
	AdminPassword string
}

type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	WaitTimeout     time.Duration
	WaitInterval    time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type TracingConfig struct {
	Enabled           bool
	CollectorEndpoint string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

var ErrMissingDatabaseURL = errors.New("Missing required environment variable: DATABASE_URL")

var precedences = map[string]bool{"override": true, "exam": true, "merge": true}

func defaults(v *viper.Viper) {
	v.SetDefault("app_env", "production")
	v.SetDefault("port", "8000")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 25)
	v.SetDefault("db_conn_max_lifetime", "5m")
	v.SetDefault("db_wait_timeout", "60s")
	v.SetDefault("db_wait_interval", "1.5s")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("tracing_enabled", false)
	v.SetDefault("tracing_collector_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("rate_limit_max_requests", 0)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("question_assignment_precedence", "override")
}

// Load reads the process environment once. A blank DATABASE_URL is fatal.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	cfg := &Config{
		AppEnv:      strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		DatabaseURL: strings.TrimSpace(v.GetString("database_url")),
		CORSOrigins: splitList(v.GetString("cors_origins")),
		Port:        strings.TrimSpace(v.GetString("port")),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFile:     strings.TrimSpace(v.GetString("log_file")),
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
		Tracing: TracingConfig{
			Enabled:           v.GetBool("tracing_enabled"),
			CollectorEndpoint: v.GetString("tracing_collector_endpoint"),
		},
		AssignmentPrecedence: strings.ToLower(strings.TrimSpace(v.GetString("question_assignment_precedence"))),
		AdminEmail:           strings.TrimSpace(v.GetString("admin_email")),
		AdminPassword:        v.GetString("admin_password"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "production"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if !cfg.IsProduction() {
			cfg.LogLevel = "debug"
		}
	}
	if !precedences[cfg.AssignmentPrecedence] {
		return nil, fmt.Errorf("QUESTION_ASSIGNMENT_PRECEDENCE must be override, exam or merge, got %q", cfg.AssignmentPrecedence)
	}

	var err error
	cfg.DB.MaxOpenConns = v.GetInt("db_max_open_conns")
	cfg.DB.MaxIdleConns = v.GetInt("db_max_idle_conns")
	if cfg.DB.ConnMaxLifetime, err = duration(v, "db_conn_max_lifetime"); err != nil {
		return nil, err
	}
	if cfg.DB.WaitTimeout, err = duration(v, "db_wait_timeout"); err != nil {
		return nil, err
	}
	if cfg.DB.WaitInterval, err = duration(v, "db_wait_interval"); err != nil {
		return nil, err
	}
	if cfg.DB.WaitTimeout <= 0 {
		return nil, fmt.Errorf("DB_WAIT_TIMEOUT must be positive")
	}
	if cfg.DB.WaitInterval <= 0 {
		return nil, fmt.Errorf("DB_WAIT_INTERVAL must be positive")
	}
	cfg.RateLimit.MaxRequests = v.GetInt("rate_limit_max_requests")
	if cfg.RateLimit.Window, err = duration(v, "rate_limit_window"); err != nil {
		return nil, err
	}
	if cfg.RateLimit.MaxRequests < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must not be negative")
	}
	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// duration accepts Go durations ("90s") and bare numbers of seconds ("1.5").
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToUpper(key), err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
