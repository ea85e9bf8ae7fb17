// Package config loads process configuration from the environment (with an
// optional .env file). SECRET_KEY and MONGODB_URI are mandatory; the process
// refuses to start without them. Mail and media credentials are only needed
// by the flows that use them, so their absence is tolerated at startup.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and treated as immutable afterwards.
type Config struct {
	AppEnv string
	Addr   string

	MongoURI string
	MongoDB  string

	SecretKey string
	TokenTTL  time.Duration

	OTPDigits int
	OTPTTL    time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	RedisAddr string
	CacheTTL  time.Duration

	UploadURL    string
	UploadPreset string
}

// Load reads the environment and fails fast on missing mandatory keys.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv: getEnv("APP_ENV", "local"),
		Addr:   getEnv("APP_ADDR", ":8080"),

		MongoURI: os.Getenv("MONGODB_URI"),
		MongoDB:  getEnv("MONGODB_DATABASE", "storefront"),

		SecretKey: os.Getenv("SECRET_KEY"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		OTPDigits: getEnvInt("OTP_DIGITS", 6),
		OTPTTL:    time.Duration(getEnvInt("OTP_MINUTES", 10)) * time.Minute,

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		CacheTTL:  time.Duration(getEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second,

		UploadURL:    os.Getenv("UPLOAD_URL"),
		UploadPreset: os.Getenv("UPLOAD_PRESET"),
	}

	missing := []string{}
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
