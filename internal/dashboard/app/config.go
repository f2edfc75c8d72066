package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer       string // Issuer claim for access tokens
	DatabaseFile string // Path to SQLite database file (default: ./siged.db)
	DocsDir      string // Directory for uploaded documents (default: ./documentos)
	SigningKey   string // Optional: path to Ed25519 PKCS8 PEM; ephemeral key when empty
	CookieSecure bool   // Mark the session cookie Secure (default: true outside dev)

	AdminEmail    string // Optional: seed super_admin email for an empty database
	AdminNombre   string // Optional: seed super_admin display name
	AdminPassword string // Optional: seed super_admin password

	AccessTTL  time.Duration // Access token lifetime
	RefreshTTL time.Duration // Refresh token lifetime

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:       getEnvOrDefault("SIGED_ISSUER", "siged"),
		DatabaseFile: getEnvOrDefault("SIGED_DATABASE_FILE", "siged.db"),
		DocsDir:      getEnvOrDefault("SIGED_DOCS_DIR", "documentos"),
		SigningKey:   os.Getenv("SIGED_SIGNING_KEY"),

		AdminEmail:    os.Getenv("SIGED_ADMIN_EMAIL"),
		AdminNombre:   getEnvOrDefault("SIGED_ADMIN_NOMBRE", "Administrador"),
		AdminPassword: os.Getenv("SIGED_ADMIN_PASSWORD"),

		AccessTTL:  getEnvDurationOrDefault("SIGED_ACCESS_TTL", 0),
		RefreshTTL: getEnvDurationOrDefault("SIGED_REFRESH_TTL", 0),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// The cookie stays Secure unless explicitly disabled, which only makes
	// sense for local plain-HTTP development.
	cfg.CookieSecure = getEnvOrDefault("SIGED_COOKIE_SECURE", "true") != "false"
	if cfg.Env == "dev" && os.Getenv("SIGED_COOKIE_SECURE") == "" {
		cfg.CookieSecure = false
	}

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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
