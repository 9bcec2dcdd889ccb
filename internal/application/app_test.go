package application

import (
	"context"
	"os"
	"testing"

	"github.com/pep299/autogram/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		TelegramBotToken:   "123456:test-secret",
		TelegramBaseURL:    "https://api.telegram.org",
		SourceChannel:      "@technews",
		DestinationChannel: "@technews_digest",
		WebhookChannel:     "@technews_digest",
		OpenAIAPIKey:       "sk-test",
		OpenAIModel:        "gpt-4o-mini",
		OpenAIBaseURL:      "https://api.openai.com/v1",
		SummaryLang:        "en",
		MessageLimit:       100,
	}
}

func TestNewWithConfig(t *testing.T) {
	app, err := NewWithConfig(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewWithConfig failed: %v", err)
	}
	defer app.Close()

	if app.RunService == nil {
		t.Error("RunService should be wired")
	}
	if app.URLService == nil {
		t.Error("URLService should be wired")
	}
	if app.HealthHandler == nil || app.RunHandler == nil || app.WebhookHandler == nil {
		t.Error("All handlers should be wired")
	}
}

func TestNew(t *testing.T) {
	os.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-secret")
	os.Setenv("SOURCE_CHANNEL", "@technews")
	os.Setenv("DESTINATION_CHANNEL", "@technews_digest")
	os.Setenv("OPENAI_API_KEY", "sk-test")
	t.Cleanup(func() {
		os.Unsetenv("TELEGRAM_BOT_TOKEN")
		os.Unsetenv("SOURCE_CHANNEL")
		os.Unsetenv("DESTINATION_CHANNEL")
		os.Unsetenv("OPENAI_API_KEY")
	})

	app, err := New(context.Background())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Close()

	if app.Config.SourceChannel != "@technews" {
		t.Errorf("Expected source channel from environment, got %s", app.Config.SourceChannel)
	}
}

func TestNew_MissingEnv(t *testing.T) {
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "SOURCE_CHANNEL", "DESTINATION_CHANNEL", "OPENAI_API_KEY"} {
		os.Unsetenv(key)
	}

	if _, err := New(context.Background()); err == nil {
		t.Error("Expected New to fail with missing environment")
	}
}
