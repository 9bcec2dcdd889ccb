package config

import (
	"errors"
	"os"
	"testing"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"TELEGRAM_BOT_TOKEN":  "123456:test-secret",
		"SOURCE_CHANNEL":      "@technews",
		"DESTINATION_CHANNEL": "@technews_digest",
		"OPENAI_API_KEY":      "sk-test",
	}
	for key, value := range env {
		os.Setenv(key, value)
	}
	t.Cleanup(func() {
		for key := range env {
			os.Unsetenv(key)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	setValidEnv(t)
	os.Setenv("SUMMARY_LANG", "ja")
	os.Setenv("MESSAGE_LIMIT", "25")
	defer os.Unsetenv("SUMMARY_LANG")
	defer os.Unsetenv("MESSAGE_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramBotToken != "123456:test-secret" {
		t.Errorf("Expected TelegramBotToken to be '123456:test-secret', got '%s'", cfg.TelegramBotToken)
	}
	if cfg.SourceChannel != "@technews" {
		t.Errorf("Expected SourceChannel to be '@technews', got '%s'", cfg.SourceChannel)
	}
	if cfg.SummaryLang != "ja" {
		t.Errorf("Expected SummaryLang to be 'ja', got '%s'", cfg.SummaryLang)
	}
	if cfg.MessageLimit != 25 {
		t.Errorf("Expected MessageLimit to be 25, got %d", cfg.MessageLimit)
	}

	// Defaults
	if cfg.Port != "8080" {
		t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected OpenAIModel to be 'gpt-4o-mini', got '%s'", cfg.OpenAIModel)
	}
	if cfg.TelegramBaseURL != "https://api.telegram.org" {
		t.Errorf("Expected TelegramBaseURL to be 'https://api.telegram.org', got '%s'", cfg.TelegramBaseURL)
	}
	if cfg.WebhookChannel != "@technews_digest" {
		t.Errorf("Expected WebhookChannel to fall back to destination channel, got '%s'", cfg.WebhookChannel)
	}
}

func TestWebhookChannelOverride(t *testing.T) {
	setValidEnv(t)
	os.Setenv("WEBHOOK_CHANNEL", "@oneoff")
	defer os.Unsetenv("WEBHOOK_CHANNEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.WebhookChannel != "@oneoff" {
		t.Errorf("Expected WebhookChannel to be '@oneoff', got '%s'", cfg.WebhookChannel)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		unset     string
		set       map[string]string
		wantField string
	}{
		{
			name:      "missing bot token",
			unset:     "TELEGRAM_BOT_TOKEN",
			wantField: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:      "bot token without colon",
			set:       map[string]string{"TELEGRAM_BOT_TOKEN": "not-a-token"},
			wantField: "TELEGRAM_BOT_TOKEN",
		},
		{
			name:      "missing source channel",
			unset:     "SOURCE_CHANNEL",
			wantField: "SOURCE_CHANNEL",
		},
		{
			name:      "missing destination channel",
			unset:     "DESTINATION_CHANNEL",
			wantField: "DESTINATION_CHANNEL",
		},
		{
			name:      "missing OpenAI key",
			unset:     "OPENAI_API_KEY",
			wantField: "OPENAI_API_KEY",
		},
		{
			name:      "non-positive message limit",
			set:       map[string]string{"MESSAGE_LIMIT": "-1"},
			wantField: "MESSAGE_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			if tt.unset != "" {
				os.Unsetenv(tt.unset)
			}
			for key, value := range tt.set {
				os.Setenv(key, value)
				defer os.Unsetenv(key)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected *ConfigError, got %T: %v", err, err)
			}
			if configErr.Field != tt.wantField {
				t.Errorf("Expected error field '%s', got '%s'", tt.wantField, configErr.Field)
			}
		})
	}
}

func TestGetEnvOrDefaultInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset", "", 100},
		{"valid number", "42", 42},
		{"not a number", "lots", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("AUTOGRAM_TEST_INT")
			if tt.value != "" {
				os.Setenv("AUTOGRAM_TEST_INT", tt.value)
				defer os.Unsetenv("AUTOGRAM_TEST_INT")
			}

			result := getEnvOrDefaultInt("AUTOGRAM_TEST_INT", 100)
			if result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}
