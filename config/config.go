package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string
	// Mail transport
	SMTPHost        string
	SMTPPort        string
	MailUser        string
	MailPassword    string
	ContactEmailTo  string
	MailSendTimeout time.Duration
	// HTTP surface
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	// Proxies whose X-Forwarded-For is believed; empty uses the peer address
	TrustedProxies []string
	// Logging
	LogLevel        string
	AuditLogEnabled bool
	// Redis (optional)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitEnabled       bool
	RateLimitRequests      int
	RateLimitWindowSeconds int
	RateLimitFailClosed    bool
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; the platform injects real variables in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "3001"),
		GinMode: getEnv("GIN_MODE", "debug"),
		// Mail transport
		SMTPHost:        getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		MailUser:        getEnv("MAIL_USER", ""),
		MailPassword:    getEnv("MAIL_PASSWORD", ""),
		ContactEmailTo:  getEnv("CONTACT_EMAIL_TO", ""),
		MailSendTimeout: getEnvDuration("MAIL_SEND_TIMEOUT", 10*time.Second),
		// HTTP surface
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),
		SwaggerEnabled:     getEnvBool("SWAGGER_ENABLED", false),
		// Logging
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AuditLogEnabled: getEnvBool("AUDIT_LOG_ENABLED", true),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate limiting is opt-in
		RateLimitEnabled:       getEnvBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequests:      getEnvInt("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitFailClosed:    getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
	}

	if cfg.MailUser == "" || cfg.MailPassword == "" {
		log.Println("WARNING: MAIL_USER or MAIL_PASSWORD is missing. Contact submissions will fail.")
	}
	if cfg.ContactEmailTo == "" {
		log.Println("WARNING: CONTACT_EMAIL_TO is missing. Contact submissions will fail.")
	}
	if cfg.RateLimitEnabled && cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// MailConfigured reports whether every setting the SMTP sender needs is present.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.MailUser != "" && c.MailPassword != "" && c.ContactEmailTo != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("15s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
