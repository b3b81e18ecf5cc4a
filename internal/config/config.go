package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings. Values are layered: defaults, then the
// JSON config file, then .env files, then the process environment.
type Config struct {
	Addr                string   `json:"addr"`
	DBDriver            string   `json:"db_driver"` // sqlite3 or pgx
	DBDSN               string   `json:"db_dsn"`
	BidTimeoutSeconds   int      `json:"bid_timeout_seconds"`
	TurnTimeoutSeconds  int      `json:"turn_timeout_seconds"`
	MaxRedeals          int      `json:"max_redeals"`
	AuthSecret          string   `json:"auth_secret"` // Empty disables token checks on /ws
	TokenTTLHours       int      `json:"token_ttl_hours"`
	AllowedOrigins      []string `json:"allowed_origins"`
	ResultRetentionDays int      `json:"result_retention_days"` // Zero keeps results forever
	CleanupSchedule     string   `json:"cleanup_schedule"`
	LogDevelopment      bool     `json:"log_development"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:                ":8080",
		DBDriver:            "sqlite3",
		DBDSN:               "./landlord.db",
		BidTimeoutSeconds:   15,
		TurnTimeoutSeconds:  30,
		MaxRedeals:          3,
		TokenTTLHours:       72,
		AllowedOrigins:      []string{"*"},
		ResultRetentionDays: 30,
		CleanupSchedule:     "@daily",
	}
}

// Load builds the configuration. configFile may be empty, in which case
// CONFIG_FILE is consulted. Missing env files are skipped.
func Load(configFile string, envFiles ...string) (*Config, error) {
	env, err := environment(envFiles)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if configFile == "" {
		configFile = env["CONFIG_FILE"]
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment merges the env files under the process environment, which wins.
func environment(envFiles []string) (map[string]string, error) {
	env := make(map[string]string)
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	str := func(key string, dst *string) {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := env[key]
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("ADDR", &c.Addr)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("AUTH_SECRET", &c.AuthSecret)
	str("CLEANUP_SCHEDULE", &c.CleanupSchedule)
	if v, ok := env["ALLOWED_ORIGINS"]; ok && v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v, ok := env["LOG_DEVELOPMENT"]; ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LOG_DEVELOPMENT %q: %w", v, err)
		}
		c.LogDevelopment = b
	}

	for key, dst := range map[string]*int{
		"BID_TIMEOUT":      &c.BidTimeoutSeconds,
		"TURN_TIMEOUT":     &c.TurnTimeoutSeconds,
		"MAX_REDEALS":      &c.MaxRedeals,
		"TOKEN_TTL":        &c.TokenTTLHours,
		"RESULT_RETENTION": &c.ResultRetentionDays,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("db dsn is required")
	}
	if c.BidTimeoutSeconds < 0 || c.TurnTimeoutSeconds < 0 {
		return errors.New("timeouts must not be negative")
	}
	if c.MaxRedeals < 0 {
		return errors.New("max redeals must not be negative")
	}
	if c.ResultRetentionDays < 0 {
		return errors.New("result retention must not be negative")
	}
	if c.AuthSecret != "" && c.TokenTTLHours <= 0 {
		return errors.New("token ttl must be positive when auth is enabled")
	}
	for _, o := range c.AllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("invalid allowed origin %q", o)
		}
	}
	return nil
}

func (c *Config) BidTimeout() time.Duration {
	return time.Duration(c.BidTimeoutSeconds) * time.Second
}

func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) ResultRetention() time.Duration {
	return time.Duration(c.ResultRetentionDays) * 24 * time.Hour
}

// AuthEnabled reports whether websocket connections must carry a token.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
