// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// GoogleTestSecret is Google's published reCAPTCHA test secret. It accepts
// every proof and exists so local development works without provisioning a
// real site key; production deployments must set CAPTCHA_SECRET.
const GoogleTestSecret = "6LeIxAcTAAAAAGG-vFI1TnRWxMZNFuojJ4WifJWe"

// Config holds all configuration for the lookup service.
type Config struct {
	ListenAddr string // LISTEN_ADDR, default ":8080"

	// Registry
	SaferBaseURL    string        // SAFER_BASE_URL, default the live SAFER query endpoint
	UserAgent       string        // USER_AGENT, default a Chrome browser string
	UpstreamTimeout time.Duration // UPSTREAM_TIMEOUT_MS, default 15000ms

	// CAPTCHA provider
	CaptchaVerifyURL   string // CAPTCHA_VERIFY_URL, default Google siteverify
	CaptchaSecret      string // CAPTCHA_SECRET, default the Google test secret
	CaptchaSuccessPath string // CAPTCHA_SUCCESS_PATH, default ".success"

	// Session tokens
	SessionSecret string        // SESSION_SECRET, defaults to CaptchaSecret
	SessionWindow time.Duration // SESSION_WINDOW_MS, default 600000ms (10m)

	// Result cache
	CacheMaxItems int           // CACHE_MAX_ITEMS, default 256 (0 disables)
	CacheTTL      time.Duration // CACHE_TTL_MS, default 60000ms

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr: getEnvString("LISTEN_ADDR", ":8080"),

		SaferBaseURL:    getEnvString("SAFER_BASE_URL", "https://safer.fmcsa.dot.gov/query.asp"),
		UserAgent:       getEnvString("USER_AGENT", ""),
		UpstreamTimeout: getEnvDurationMs("UPSTREAM_TIMEOUT_MS", 15000),

		CaptchaVerifyURL:   getEnvString("CAPTCHA_VERIFY_URL", ""),
		CaptchaSecret:      getEnvString("CAPTCHA_SECRET", GoogleTestSecret),
		CaptchaSuccessPath: getEnvString("CAPTCHA_SUCCESS_PATH", ""),

		SessionSecret: getEnvString("SESSION_SECRET", ""),
		SessionWindow: getEnvDurationMs("SESSION_WINDOW_MS", 600000),

		CacheMaxItems: getEnvInt("CACHE_MAX_ITEMS", 256),
		CacheTTL:      getEnvDurationMs("CACHE_TTL_MS", 60000),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.CaptchaSecret
	}
	return cfg
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
