package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App: AppConfig{Env: "local", Port: 8080},
		Platform: PlatformConfig{
			URL:       "wss://example.livekit.cloud",
			APIKey:    "key",
			APISecret: "secret",
		},
		Dial: DialConfig{TrunkID: "ST_trunk"},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"LIVEKIT_URL", "LIVEKIT_API_KEY", "LIVEKIT_API_SECRET", "LIVEKIT_TRUNK_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate_MinimalDialConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Dial.RequestTimeout != 30*time.Second {
		t.Fatalf("expected default request timeout, got %v", c.Dial.RequestTimeout)
	}
	if c.Platform.TokenTTL != 10*time.Minute {
		t.Fatalf("expected default token ttl, got %v", c.Platform.TokenTTL)
	}
}

func TestValidate_RejectsBadScheme(t *testing.T) {
	c := validConfig()
	c.Platform.URL = "ftp://example.com"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
}

func TestValidate_GuardRequiresRedis(t *testing.T) {
	c := validConfig()
	c.Dial.MaxActivePerNumber = 1
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error: guard without redis")
	}
	c.Redis = RedisConfig{Host: "localhost", Port: 6379}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error with redis, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB = DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "dialout"}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validConfig()
	c.DB = DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "dialout"}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestLoad_TrunkIDFallsBackToLegacyVar(t *testing.T) {
	t.Setenv("LIVEKIT_URL", "wss://example.livekit.cloud")
	t.Setenv("LIVEKIT_API_KEY", "key")
	t.Setenv("LIVEKIT_API_SECRET", "secret")
	t.Setenv("LIVEKIT_TRUNK_ID", "")
	t.Setenv("LIVEKIT_TUNK_ID", "ST_legacy")

	c, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Dial.TrunkID != "ST_legacy" {
		t.Fatalf("expected legacy trunk id, got %q", c.Dial.TrunkID)
	}
}
