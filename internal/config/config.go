package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	AuthMode          string
	JWTHMACSecret     string
	JWTIssuer         string
	JWTAudience       string
	JWKSURL           string
	JWTClockSkewSecs  int
	AdminAPIKey       string
	DeviceEnrollOpen  bool
	OPAPolicyPath     string
	OPAPolicyBundleID string

	RateLimitRequests       int
	RateLimitWindowSeconds  int
	RateLimitIncludeSubject bool
	RateLimitFailClosed     bool
	RateLimitMaxKeys        int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:                addr,
		PostgresDSN:             os.Getenv("POSTGRES_DSN"),
		LogLevel:                envDefault("LOG_LEVEL", "info"),
		AuthMode:                envDefault("AUTH_MODE", "hmac"),
		JWTHMACSecret:           os.Getenv("JWT_HMAC_SECRET"),
		JWTIssuer:               os.Getenv("JWT_ISSUER"),
		JWTAudience:             os.Getenv("JWT_AUDIENCE"),
		JWKSURL:                 os.Getenv("JWKS_URL"),
		JWTClockSkewSecs:        envIntDefault("JWT_CLOCK_SKEW_SECONDS", 60),
		AdminAPIKey:             os.Getenv("ADMIN_API_KEY"),
		DeviceEnrollOpen:        envBoolDefault("DEVICE_ENROLL_OPEN", false),
		OPAPolicyPath:           os.Getenv("OPA_POLICY_PATH"),
		OPAPolicyBundleID:       os.Getenv("OPA_POLICY_BUNDLE_ID"),
		RateLimitRequests:       envIntDefault("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindowSeconds:  envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitIncludeSubject: envBoolDefault("RATE_LIMIT_INCLUDE_SUBJECT", false),
		RateLimitFailClosed:     envBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),
		RateLimitMaxKeys:        envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 envIntDefault("REDIS_DB", 0),
	}
}

func (c Config) JWTClockSkew() time.Duration {
	if c.JWTClockSkewSecs <= 0 {
		return 0
	}
	return time.Duration(c.JWTClockSkewSecs) * time.Second
}

func (c Config) RateLimitWindow() time.Duration {
	if c.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
