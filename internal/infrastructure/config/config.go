package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MaxOCRConcurrency caps OCR_MAX_CONCURRENT.
const MaxOCRConcurrency = 32

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App      AppSettings
	HTTP     HTTPSettings
	Auth     AuthSettings
	Log      LogSettings
	Database DatabaseSettings
	OCR      OCRSettings
	KYC      KYCSettings
}

type AppSettings struct {
	Name        string
	Version     string
	Environment string
}

type HTTPSettings struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthSettings struct {
	Enabled     bool
	IssuerURI   string
	JWKSetURI   string
	ClockSkew   time.Duration
	BypassPaths []string
	// Audience is checked against the aud claim when set.
	Audience string
	// UserIDClaim names the claim that carries the caller's user id.
	UserIDClaim string
}

type LogSettings struct {
	Level string
}

type DatabaseSettings struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OCRSettings configures the image recognition engine behind the upload endpoint.
type OCRSettings struct {
	Enabled       bool
	Languages     []string      // tesseract language packs, e.g. spa,eng
	MaxConcurrent int           // simultaneous recognitions across all requests
	Timeout       time.Duration // request deadline for the upload endpoint
}

// KYCSettings configures document intake and storage.
type KYCSettings struct {
	MaxUploadBytes int64
	PersistEnabled bool
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := AppConfig{
		App: AppSettings{
			Name:        getEnv("APP_NAME", "ms_kyc_core"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Environment: getEnv("APP_ENV", "local"),
		},
		HTTP: HTTPSettings{
			Port:            getEnvAsInt("APP_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 90*time.Second),
			IdleTimeout:     getEnvAsDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthSettings{
			Enabled:     getEnvAsBool("AUTH_ENABLED", true),
			IssuerURI:   strings.TrimSpace(os.Getenv("JWT_ISSUER_URI")),
			JWKSetURI:   strings.TrimSpace(os.Getenv("JWT_JWK_SET_URI")),
			ClockSkew:   getEnvAsDuration("AUTH_CLOCK_SKEW", 2*time.Minute),
			BypassPaths: getEnvAsCSV("AUTH_BYPASS_PATHS", []string{"/health"}),
			Audience:    strings.TrimSpace(os.Getenv("JWT_AUDIENCE")),
			UserIDClaim: getEnv("JWT_USER_ID_CLAIM", "sub"),
		},
		Log: LogSettings{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseSettings{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "ms_kyc_core"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		OCR: OCRSettings{
			Enabled:       getEnvAsBool("OCR_ENABLED", true),
			Languages:     getEnvAsCSV("OCR_LANGUAGES", []string{"spa", "eng"}),
			MaxConcurrent: getEnvAsInt("OCR_MAX_CONCURRENT", 4),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		KYC: KYCSettings{
			MaxUploadBytes: int64(getEnvAsInt("KYC_MAX_UPLOAD_BYTES", 10<<20)),
			PersistEnabled: getEnvAsBool("KYC_PERSIST_ENABLED", true),
		},
	}

	if cfg.OCR.MaxConcurrent <= 0 {
		return cfg, errors.New("invalid config: OCR_MAX_CONCURRENT must be greater than 0")
	}
	if cfg.OCR.MaxConcurrent > MaxOCRConcurrency {
		return cfg, fmt.Errorf("invalid config: OCR_MAX_CONCURRENT cannot exceed %d", MaxOCRConcurrency)
	}
	if cfg.OCR.Timeout <= 0 {
		return cfg, errors.New("invalid config: OCR_TIMEOUT must be greater than 0")
	}
	if cfg.KYC.MaxUploadBytes <= 0 {
		return cfg, errors.New("invalid config: KYC_MAX_UPLOAD_BYTES must be greater than 0")
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.IssuerURI == "" {
			return cfg, errors.New("invalid config: JWT_ISSUER_URI is required when AUTH_ENABLED=true")
		}
		if cfg.Auth.JWKSetURI == "" {
			return cfg, errors.New("invalid config: JWT_JWK_SET_URI is required when AUTH_ENABLED=true")
		}
	}

	return cfg, nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

// Configured reports whether enough is set to open a connection.
func (d DatabaseSettings) Configured() bool {
	return d.Host != "" && d.Database != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
