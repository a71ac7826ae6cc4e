// Package config loads the process-wide settings once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultRecipient   = "professionalbusinessadvisory@gmail.com"
	DefaultSMTPHost    = "smtp.gmail.com"
	DefaultSMTPPort    = 587
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultImageAPIURL = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

	TransportSMTP     = "smtp"
	TransportSendGrid = "sendgrid"
)

type Config struct {
	Port       string
	Env        string
	AppVersion string
	LogLevel   string
	LogFile    string
	SecretKey  string

	EmailAddress        string
	EmailPassword       string
	SuggestionRecipient string
	SMTPHost            string
	SMTPPort            int
	MailTransport       string
	SendGridAPIKey      string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ImageAPIKey string
	ImageAPIURL string

	UpstreamTimeout time.Duration
	SMTPTimeout     time.Duration
	ShutdownTimeout time.Duration

	AllowOrigins string

	RedisAddr  string
	RateLimit  int
	RateWindow time.Duration
}

// Load reads envFile (if present) into the environment and builds a Config.
// A missing env file is not an error; it reports loaded=false so the caller
// can log it.
func Load(envFile string) (cfg *Config, loaded bool, err error) {
	if envFile != "" {
		loaded = godotenv.Load(envFile) == nil
	}

	cfg = FromEnv()
	return cfg, loaded, cfg.Validate()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:       getEnv("PORT", "5000"),
		Env:        getEnv("ENV", "development"),
		AppVersion: getEnv("APP_VERSION", "dev"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    os.Getenv("LOG_FILE"),
		SecretKey:  os.Getenv("SECRET_KEY"),

		EmailAddress:        os.Getenv("EMAIL_ADDRESS"),
		EmailPassword:       os.Getenv("EMAIL_PASSWORD"),
		SuggestionRecipient: getEnv("SUGGESTION_RECIPIENT", DefaultRecipient),
		SMTPHost:            getEnv("SMTP_HOST", DefaultSMTPHost),
		SMTPPort:            getInt("SMTP_PORT", DefaultSMTPPort),
		MailTransport:       strings.ToLower(getEnv("MAIL_TRANSPORT", TransportSMTP)),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", DefaultGeminiModel),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),
		ImageAPIURL: getEnv("IMAGE_API_URL", DefaultImageAPIURL),

		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 60*time.Second),
		SMTPTimeout:     getDuration("SMTP_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),

		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RateLimit:  getInt("RATE_LIMIT", 30),
		RateWindow: getDuration("RATE_WINDOW", time.Minute),
	}
}

// Validate only rejects values that make the process unable to start.
// Missing API keys and credentials are reported by the relays at first use.
func (c *Config) Validate() error {
	switch c.MailTransport {
	case TransportSMTP, TransportSendGrid:
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be %q or %q, got %q", TransportSMTP, TransportSendGrid, c.MailTransport)
	}
	if c.SMTPPort <= 0 {
		return fmt.Errorf("SMTP_PORT must be positive, got %d", c.SMTPPort)
	}
	if c.RedisAddr != "" && (c.RateLimit <= 0 || c.RateWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT and RATE_WINDOW must be positive when REDIS_ADDR is set")
	}
	return nil
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
