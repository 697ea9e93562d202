package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	TokenCipherKey     string

	// AI provider
	AIProvider    string
	GeminiAPIKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Pipeline tuning
	Timezone             string
	CalendarID           string
	ClassifierMode       string
	SyncMaxMessages      int
	LookbackWindow       time.Duration
	MaxStale             time.Duration
	MaxFuture            time.Duration
	AIFallbackLimit      int
	ResolverHardFallback bool

	// IMAP source (optional alternate mail provider)
	IMAPAddress  string
	IMAPUsername string
	IMAPPassword string
}

// Load reads configuration from the environment (and .env if present).
// Missing required keys fail here, at startup, never mid-request.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback"),
		TokenCipherKey:     os.Getenv("TOKEN_CIPHER_KEY"),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		Timezone:             getEnv("TIMEZONE", "America/New_York"),
		CalendarID:           getEnv("CALENDAR_ID", "primary"),
		ClassifierMode:       getEnv("CLASSIFIER_MODE", "strict"),
		SyncMaxMessages:      getEnvInt("SYNC_MAX_MESSAGES", 50),
		LookbackWindow:       getEnvDuration("SYNC_LOOKBACK", 7*24*time.Hour),
		MaxStale:             getEnvDuration("SANITY_MAX_STALE", 24*time.Hour),
		MaxFuture:            getEnvDuration("SANITY_MAX_FUTURE", 180*24*time.Hour),
		AIFallbackLimit:      getEnvInt("AI_FALLBACK_LIMIT", 8),
		ResolverHardFallback: getEnvBool("RESOLVER_HARD_FALLBACK", false),

		IMAPAddress:  os.Getenv("IMAP_ADDRESS"),
		IMAPUsername: os.Getenv("IMAP_USERNAME"),
		IMAPPassword: os.Getenv("IMAP_PASSWORD"),
	}

	required := map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"GOOGLE_CLIENT_ID":     cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": cfg.GoogleClientSecret,
		"TOKEN_CIPHER_KEY":     cfg.TokenCipherKey,
	}
	for key, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required configuration: %s", key)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
