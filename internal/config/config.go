package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values. It is loaded once in
// main and handed to each component at construction time; nothing else
// reads the environment.
type Config struct {
	AppPort     string
	DatabaseDSN string

	JWTSecret    string
	TokenExpires time.Duration

	EmailHost     string
	EmailPort     int
	EmailUser     string
	EmailPassword string
	EmailFrom     string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	PaymentAPIURL string
	VisionAPIURL  string
	VisionAPIKey  string

	UseMemoryStore bool
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:     getEnv("APP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN()),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenExpires: getEnvDuration("JWT_TTL_HOURS", 24) * time.Hour,

		EmailHost:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:     getEnvInt("EMAIL_PORT", 587),
		EmailUser:     getEnv("EMAIL_USER", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "P2P Rental <no-reply@lalushbella.com>"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       getEnv("TWILIO_PHONE_NUMBER", ""),

		PaymentAPIURL: getEnv("PAYMENT_API_URL", "http://localhost:5002"),
		VisionAPIURL:  getEnv("VISION_API_URL", ""),
		VisionAPIKey:  getEnv("VISION_API_KEY", ""),

		UseMemoryStore: getEnv("USE_MEMORY_STORE", "") == "true",
	}
}

func defaultDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASS", ""),
		getEnv("DB_NAME", "p2prental"))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(fallback)
}
