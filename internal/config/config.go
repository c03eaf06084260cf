package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Email transports accepted by EMAIL_TRANSPORT.
const (
	TransportReal = "real"
	TransportMock = "mock"
)

// placeholderSender is the sender address shipped in sample .env files; it is treated as unset.
const placeholderSender = "dummy@example.com"

const defaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// MigrateOnStart applies embedded migrations before serving (default true).
	MigrateOnStart bool

	JWTSecret string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string

	SMTPServer   string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	// EmailTransport is "real" or "mock". Left empty in the environment it is derived
	// from the SMTP credentials: no sender (or the placeholder sender) means mock.
	EmailTransport string

	// UploadMaxBytes caps the size of a spreadsheet upload (default 10 MiB).
	UploadMaxBytes int64

	// IngestFile is a spreadsheet ingested at startup and, with IngestCron, on a schedule.
	IngestFile string
	IngestCron string

	// SeedUsers creates the admin/manager/user accounts when they are missing.
	SeedUsers bool
}

func Load() Config {
	cfg := Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "inventorydb"),
		DBUser: getEnv("DB_USER", "inventory"),
		DBPass: getEnv("DB_PASS", "inventory"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		Env:            getEnv("ENV", "dev"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		SMTPServer:   getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPEmail:    getEnv("SMTP_EMAIL", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		UploadMaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 10<<20)),

		IngestFile: getEnv("INGEST_FILE", ""),
		IngestCron: getEnv("INGEST_CRON", ""),

		SeedUsers: getEnvBool("SEED_USERS", false),
	}
	cfg.EmailTransport = resolveTransport(getEnv("EMAIL_TRANSPORT", ""), cfg.SMTPEmail)
	return cfg
}

// Validate reports configuration that must stop the server from starting.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")
	}
	switch c.EmailTransport {
	case TransportMock:
	case TransportReal:
		if !HasSMTPCredentials(c.SMTPEmail) || c.SMTPPassword == "" {
			return errors.New("EMAIL_TRANSPORT=real requires SMTP_EMAIL and SMTP_PASSWORD")
		}
	default:
		return errors.New("EMAIL_TRANSPORT must be real or mock")
	}
	return nil
}

// DatabaseURL returns the postgres URL form of the connection settings (used by migrations).
func (c Config) DatabaseURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPass + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// HasSMTPCredentials reports whether sender is a usable SMTP login.
func HasSMTPCredentials(sender string) bool {
	return sender != "" && sender != placeholderSender
}

func resolveTransport(explicit, sender string) string {
	if t := strings.ToLower(strings.TrimSpace(explicit)); t != "" {
		return t
	}
	if HasSMTPCredentials(sender) {
		return TransportReal
	}
	return TransportMock
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
