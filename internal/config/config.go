package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the dial-out processes.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
//
// Platform credentials are read once at process start; a call attempt is
// never issued with partial configuration.
type Config struct {
	App      AppConfig
	Platform PlatformConfig
	Dial     DialConfig
	DB       DBConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// PlatformConfig identifies the session-room platform and its API credentials.
type PlatformConfig struct {
	// URL is the platform endpoint. ws:// and wss:// schemes are accepted
	// and normalized to http(s) by the API client.
	URL       string
	APIKey    string
	APISecret string

	// TokenTTL bounds the lifetime of per-request access tokens.
	TokenTTL time.Duration
}

type DialConfig struct {
	// TrunkID is the outbound SIP trunk used for every dial.
	TrunkID string

	// RequestTimeout bounds a single call attempt (room creation + dial).
	RequestTimeout time.Duration

	// MaxActivePerNumber caps concurrent dials to one destination.
	// Zero disables the guard.
	MaxActivePerNumber int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// SSLMode accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host string
	Port int
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		// The CLI runs without deployment env plumbing.
		c.App.Env = "local"
	}
	if v := strings.TrimSpace(os.Getenv("APP_PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("APP_PORT must be an integer, got %q", v))
		}
		c.App.Port = n
	} else {
		c.App.Port = 8080
	}

	c.Platform.URL = strings.TrimSpace(os.Getenv("LIVEKIT_URL"))
	c.Platform.APIKey = strings.TrimSpace(os.Getenv("LIVEKIT_API_KEY"))
	c.Platform.APISecret = os.Getenv("LIVEKIT_API_SECRET")
	c.Platform.TokenTTL = mustDuration("LIVEKIT_TOKEN_TTL")

	c.Dial.TrunkID = strings.TrimSpace(os.Getenv("LIVEKIT_TRUNK_ID"))
	if c.Dial.TrunkID == "" {
		// Legacy misspelled variable kept for compatibility with older deployments.
		c.Dial.TrunkID = strings.TrimSpace(os.Getenv("LIVEKIT_TUNK_ID"))
	}
	c.Dial.RequestTimeout = mustDuration("DIAL_REQUEST_TIMEOUT")
	if v := strings.TrimSpace(os.Getenv("DIAL_MAX_ACTIVE_PER_NUMBER")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			parseErrs = append(parseErrs, fmt.Errorf("DIAL_MAX_ACTIVE_PER_NUMBER must be an integer, got %q", v))
		}
		c.Dial.MaxActivePerNumber = n
	}

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	if c.DB.Enabled() {
		n, err := mustInt("DB_PORT")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.DB.Port = n
		c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
		c.DB.Password = os.Getenv("DB_PASSWORD")
		c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
		c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))
	}

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	if c.Redis.Enabled() {
		n, err := mustInt("REDIS_PORT")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.Redis.Port = n
	}

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the loaded values and applies local-friendly defaults.
// Missing platform credentials or trunk id are fatal here, never per call.
func (c *Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.Platform.URL == "" {
		errs = append(errs, errors.New("LIVEKIT_URL is required"))
	} else if u, err := url.Parse(c.Platform.URL); err != nil {
		errs = append(errs, fmt.Errorf("LIVEKIT_URL is not a valid URL: %v", err))
	} else if !isValidScheme(u.Scheme) {
		errs = append(errs, fmt.Errorf("LIVEKIT_URL scheme must be one of http, https, ws, wss, got %q", u.Scheme))
	}
	if c.Platform.APIKey == "" {
		errs = append(errs, errors.New("LIVEKIT_API_KEY is required"))
	}
	if c.Platform.APISecret == "" {
		errs = append(errs, errors.New("LIVEKIT_API_SECRET is required"))
	}
	if c.Platform.TokenTTL <= 0 {
		c.Platform.TokenTTL = 10 * time.Minute
	}

	if c.Dial.TrunkID == "" {
		errs = append(errs, errors.New("LIVEKIT_TRUNK_ID is required"))
	}
	if c.Dial.RequestTimeout <= 0 {
		c.Dial.RequestTimeout = 30 * time.Second
	}
	if c.Dial.MaxActivePerNumber < 0 {
		errs = append(errs, fmt.Errorf("DIAL_MAX_ACTIVE_PER_NUMBER must be >= 0, got %d", c.Dial.MaxActivePerNumber))
	}

	if c.DB.Enabled() {
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_HOST is set"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_HOST is set"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				// Local-friendly default; production must be explicit.
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	}

	if c.Redis.Enabled() {
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
	} else if c.Dial.MaxActivePerNumber > 0 {
		errs = append(errs, errors.New("DIAL_MAX_ACTIVE_PER_NUMBER requires REDIS_HOST"))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Enabled reports whether call attempts should be persisted to Postgres.
func (c DBConfig) Enabled() bool { return c.Host != "" }

// Enabled reports whether the redis-backed dial guard is available.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func mustDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidScheme(v string) bool {
	switch v {
	case "http", "https", "ws", "wss":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
