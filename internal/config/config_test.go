package config

import (
	"strings"
	"testing"
	"time"
)

func setMandatory(t *testing.T) {
	t.Helper()
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

func TestLoadMissingMandatory(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected missing mandatory keys to fail")
	}
	for _, key := range []string{"SECRET_KEY", "MONGODB_URI"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err, key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	setMandatory(t)
	for _, key := range []string{"APP_ADDR", "MONGODB_DATABASE", "TOKEN_TTL_HOURS", "OTP_DIGITS", "OTP_MINUTES", "SMTP_PORT", "CACHE_TTL_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.MongoDB != "storefront" {
		t.Fatalf("MongoDB = %q", cfg.MongoDB)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.OTPDigits != 6 || cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("OTP config = %d %v", cfg.OTPDigits, cfg.OTPTTL)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("SMTPPort = %d", cfg.SMTPPort)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setMandatory(t)
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("TOKEN_TTL_HOURS", "1")
	t.Setenv("OTP_DIGITS", "8")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
	if cfg.OTPDigits != 8 {
		t.Fatalf("OTPDigits = %d", cfg.OTPDigits)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	setMandatory(t)
	t.Setenv("TOKEN_TTL_HOURS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v", cfg.TokenTTL)
	}
}
