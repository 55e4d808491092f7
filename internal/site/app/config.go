package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer          string // Issuer claim stamped on session tokens (default: homesite)
	SessionSecret   string // Required in prod: HMAC secret for session tokens
	PublicURL       string // Base URL reset links point at (default: http://localhost:<port>)
	PrivilegedEmail string // Optional: account granted user management at startup

	DatabaseFile string // Path to SQLite database file (default: ./site.db)
	PepperFile   string // Path to the password-hashing pepper file (default: ./pepper)

	SMTPHost     string // SMTP relay for reset emails
	SMTPPort     int    // SMTP port (default: 587)
	SMTPUsername string
	SMTPPassword string
	MailFrom     string // From address on outgoing mail (default: no-reply@localhost)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:          getEnvOrDefault("SITE_ISSUER", "homesite"),
		SessionSecret:   os.Getenv("SITE_SESSION_SECRET"),
		PrivilegedEmail: os.Getenv("PRIVILEGED_EMAIL"),
		DatabaseFile:    getEnvOrDefault("SITE_DATABASE_FILE", "site.db"),
		PepperFile:      getEnvOrDefault("SITE_PEPPER_FILE", "pepper"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	cfg.PublicURL = getEnvOrDefault("PUBLIC_URL", "http://localhost:"+strconv.Itoa(cfg.Port))

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
