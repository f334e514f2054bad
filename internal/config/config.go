package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/auth"
	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/generator"
	"github.com/amtamaddon/analytics.simlane.ai/internal/notify"
	"github.com/amtamaddon/analytics.simlane.ai/internal/risk"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP      HTTPConfig
	Logging   LoggingConfig
	Auth      AuthConfig
	Twilio    TwilioConfig
	Alert     AlertConfig
	Risk      risk.Thresholds
	Generator generator.Config
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// AuthConfig describes API authentication. Auth is optional: with no
// secret or users configured the API runs open and logs a warning.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Users     []auth.User
}

// Enabled reports whether login and token verification are configured.
func (c AuthConfig) Enabled() bool {
	return c.JWTSecret != "" && len(c.Users) > 0
}

// TwilioConfig holds SMS gateway credentials, injected via environment.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Credentials converts the raw settings into delivery credentials.
func (c TwilioConfig) Credentials() notify.Credentials {
	return notify.Credentials{
		AccountSID: c.AccountSID,
		AuthToken:  c.AuthToken,
		FromNumber: c.FromNumber,
	}
}

// AlertConfig governs alert dispatch behaviour.
type AlertConfig struct {
	MinRiskCategory domain.RiskCategory
	DefaultPhone    string
	BulkLimit       int
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultTokenTTL        = time.Hour
	defaultBulkLimit       = 5
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	for _, item := range []struct {
		key  string
		dest *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	} {
		if v := os.Getenv(item.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", item.key, err)
			}
			*item.dest = d
		}
	}

	authCfg, err := loadAuth()
	if err != nil {
		return Config{}, err
	}
	cfg.Auth = authCfg

	alertCfg, err := loadAlert()
	if err != nil {
		return Config{}, err
	}
	cfg.Alert = alertCfg

	thresholds, err := loadThresholds()
	if err != nil {
		return Config{}, err
	}
	cfg.Risk = thresholds

	genCfg, err := loadGenerator()
	if err != nil {
		return Config{}, err
	}
	cfg.Generator = genCfg

	return cfg, nil
}

func loadAuth() (AuthConfig, error) {
	cfg := AuthConfig{
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		TokenTTL:  defaultTokenTTL,
	}

	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("invalid AUTH_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}

	// AUTH_USERS is a comma-separated list of name:bcrypt-hash:role
	// entries. The hash itself contains no colons after the two bcrypt
	// prefix separators, so SplitN from the left is safe.
	raw := os.Getenv("AUTH_USERS")
	if raw == "" {
		return cfg, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return AuthConfig{}, fmt.Errorf("invalid AUTH_USERS entry %q: want name:hash[:role]", entry)
		}
		user := auth.User{Name: parts[0], PasswordHash: parts[1]}
		if len(parts) == 3 {
			user.Role = parts[2]
		}
		cfg.Users = append(cfg.Users, user)
	}
	return cfg, nil
}

func loadAlert() (AlertConfig, error) {
	cfg := AlertConfig{
		MinRiskCategory: domain.RiskHigh,
		DefaultPhone:    os.Getenv("ALERT_PHONE"),
		BulkLimit:       parseIntWithDefault("ALERT_BULK_LIMIT", defaultBulkLimit),
	}

	if v := os.Getenv("ALERT_MIN_RISK"); v != "" {
		category := domain.RiskCategory(strings.ToUpper(strings.TrimSpace(v)))
		if !category.Valid() {
			return AlertConfig{}, fmt.Errorf("invalid ALERT_MIN_RISK value %q", v)
		}
		cfg.MinRiskCategory = category
	}
	return cfg, nil
}

func loadThresholds() (risk.Thresholds, error) {
	t := risk.DefaultThresholds()
	t.Immediate = parseIntWithDefault("RISK_IMMEDIATE_DAYS", t.Immediate)
	t.High = parseIntWithDefault("RISK_HIGH_DAYS", t.High)
	t.Medium = parseIntWithDefault("RISK_MEDIUM_DAYS", t.Medium)
	if err := t.Validate(); err != nil {
		return risk.Thresholds{}, fmt.Errorf("invalid risk thresholds: %w", err)
	}
	return t, nil
}

func loadGenerator() (generator.Config, error) {
	cfg := generator.DefaultConfig()
	cfg.NumMembers = parseIntWithDefault("GENERATOR_MEMBERS", cfg.NumMembers)
	cfg.NumGroups = parseIntWithDefault("GENERATOR_GROUPS", cfg.NumGroups)
	cfg.EnrollmentDays = parseIntWithDefault("GENERATOR_ENROLLMENT_DAYS", cfg.EnrollmentDays)

	if v := os.Getenv("GENERATOR_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return generator.Config{}, fmt.Errorf("invalid GENERATOR_SEED value %q: %w", v, err)
		}
		cfg.Seed = seed
	}

	if cfg.NumMembers <= 0 {
		return generator.Config{}, fmt.Errorf("GENERATOR_MEMBERS must be positive, got %d", cfg.NumMembers)
	}
	if cfg.NumGroups <= 0 {
		return generator.Config{}, fmt.Errorf("GENERATOR_GROUPS must be positive, got %d", cfg.NumGroups)
	}
	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}

// AllowedOrigins splits the configured CSV origin list.
func (c HTTPConfig) AllowedOrigins() []string {
	if c.AllowedOriginsCSV == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(c.AllowedOriginsCSV, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
