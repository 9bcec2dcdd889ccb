package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Telegram settings
	TelegramBotToken   string `json:"-"` // Don't expose in JSON
	TelegramBaseURL    string `json:"telegram_base_url"`
	SourceChannel      string `json:"source_channel"`
	DestinationChannel string `json:"destination_channel"`
	WebhookChannel     string `json:"webhook_channel"`

	// OpenAI API settings
	OpenAIAPIKey  string `json:"-"` // Don't expose in JSON
	OpenAIModel   string `json:"openai_model"`
	OpenAIBaseURL string `json:"openai_base_url"`

	// Summarization settings
	SummaryLang  string `json:"summary_lang"`
	MessageLimit int    `json:"message_limit"`

	// Processed link index (optional, GCS bucket name)
	ProcessedBucket string `json:"processed_bucket"`

	// Webhook settings
	WebhookAuthToken string `json:"-"` // Don't expose in JSON

	// Scheduling (server mode)
	CronSchedule string `json:"cron_schedule"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		TelegramBotToken:   getEnvOrDefault("TELEGRAM_BOT_TOKEN", ""),
		TelegramBaseURL:    getEnvOrDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		SourceChannel:      getEnvOrDefault("SOURCE_CHANNEL", ""),
		DestinationChannel: getEnvOrDefault("DESTINATION_CHANNEL", ""),
		WebhookChannel:     getEnvOrDefault("WEBHOOK_CHANNEL", ""),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		SummaryLang:        getEnvOrDefault("SUMMARY_LANG", "en"),
		MessageLimit:       getEnvOrDefaultInt("MESSAGE_LIMIT", 100),
		ProcessedBucket:    getEnvOrDefault("PROCESSED_BUCKET", ""),
		WebhookAuthToken:   getEnvOrDefault("WEBHOOK_AUTH_TOKEN", ""),
		CronSchedule:       getEnvOrDefault("CRON_SCHEDULE", "0 8 * * *"),
	}

	// Webhook posts go to the destination channel unless overridden
	if config.WebhookChannel == "" {
		config.WebhookChannel = config.DestinationChannel
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "Telegram bot token is required"}
	}
	if !strings.Contains(c.TelegramBotToken, ":") {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "must look like <bot_id>:<secret>"}
	}
	if c.SourceChannel == "" {
		return &ConfigError{Field: "SOURCE_CHANNEL", Message: "source channel is required"}
	}
	if c.DestinationChannel == "" {
		return &ConfigError{Field: "DESTINATION_CHANNEL", Message: "destination channel is required"}
	}
	if c.OpenAIAPIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "OpenAI API key is required"}
	}
	if c.MessageLimit <= 0 {
		return &ConfigError{Field: "MESSAGE_LIMIT", Message: "must be a positive integer"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
