package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins string
	LogLevel       string
}

// AllowCredentials reports whether CORS may allow credentials. Browsers and
// fiber's cors middleware refuse credentials with a wildcard origin.
func (s ServerConfig) AllowCredentials() bool {
	for _, origin := range strings.Split(s.AllowedOrigins, ",") {
		if strings.TrimSpace(origin) == "*" {
			return false
		}
	}
	return true
}

type StripeConfig struct {
	SecretKey       string
	SuccessURL      string
	CancelURL       string
	PortalReturnURL string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
}

// Session backends for the billing CLI.
const (
	SessionBackendFile    = "file"
	SessionBackendKeyring = "keyring"
)

// ClientConfig is read by the billing CLI.
type ClientConfig struct {
	APIBaseURL     string
	SessionBackend string
	SessionFile    string
}

type Config struct {
	Server      ServerConfig
	DatabaseURL string
	FrontendURL string
	Stripe      StripeConfig
	JWT         JWTConfig
	Email       EmailConfig
	Client      ClientConfig
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	frontendURL := strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/")

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", frontendURL),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FrontendURL: frontendURL,
		Stripe: StripeConfig{
			SecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
			SuccessURL:      getEnv("STRIPE_SUCCESS_URL", frontendURL+"/billing/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:       getEnv("STRIPE_CANCEL_URL", frontendURL+"/billing/cancel"),
			PortalReturnURL: getEnv("STRIPE_PORTAL_RETURN_URL", frontendURL+"/settings/billing"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getEnv("JWT_ISSUER", "study-planner"),
			TTL:    getDurationEnv("JWT_TTL", 7*24*time.Hour),
		},
		Email: EmailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			FromAddress:  getEnv("EMAIL_FROM_ADDRESS", "billing@studyplanner.app"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Study Planner"),
		},
		Client: ClientConfig{
			APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
			SessionBackend: getEnv("SESSION_BACKEND", SessionBackendFile),
			SessionFile:    getEnv("SESSION_FILE", defaultSessionFile()),
		},
	}
}

// defaultSessionFile lives in the user's config dir, e.g.
// ~/.config/study-planner/session.json on Linux.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".study-planner-session.json"
	}
	return filepath.Join(dir, "study-planner", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
