package application

import (
	"context"
	"fmt"

	"github.com/pep299/autogram/internal/config"
	"github.com/pep299/autogram/internal/repository"
	"github.com/pep299/autogram/internal/service"
	"github.com/pep299/autogram/internal/transport/handler"
)

// Version is reported by the health endpoint and the CLI.
const Version = "1.0.0"

// App holds every wired component of the application
type App struct {
	Config *config.Config

	RunService *service.Run
	URLService *service.URL

	HealthHandler  *handler.Health
	RunHandler     *handler.Run
	WebhookHandler *handler.Webhook

	processedRepo repository.ProcessedRepository
}

// New loads configuration from the environment and wires all dependencies
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig wires all dependencies from an existing configuration
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	telegramRepo := repository.NewTelegramRepository(cfg.TelegramBotToken, cfg.TelegramBaseURL)
	articleRepo := repository.NewArticleRepository()
	summarizerRepo := repository.NewOpenAIRepository(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SummaryLang, cfg.OpenAIBaseURL)

	// The processed index lives in Cloud Storage when a bucket is
	// configured; otherwise each run starts with an empty in-memory one.
	var processedRepo repository.ProcessedRepository
	if cfg.ProcessedBucket != "" {
		gcsRepo, err := repository.NewGCSProcessedRepository(ctx, cfg.ProcessedBucket)
		if err != nil {
			return nil, fmt.Errorf("creating processed index: %w", err)
		}
		processedRepo = gcsRepo
	} else {
		processedRepo = repository.NewMemoryProcessedRepository()
	}

	runService := service.NewRun(
		telegramRepo,
		articleRepo,
		summarizerRepo,
		processedRepo,
		cfg.SourceChannel,
		cfg.DestinationChannel,
		cfg.MessageLimit,
	)
	urlService := service.NewURL(articleRepo, summarizerRepo, telegramRepo, cfg.WebhookChannel)

	return &App{
		Config:         cfg,
		RunService:     runService,
		URLService:     urlService,
		HealthHandler:  handler.NewHealth(Version),
		RunHandler:     handler.NewRun(runService),
		WebhookHandler: handler.NewWebhook(urlService),
		processedRepo:  processedRepo,
	}, nil
}

// Close releases resources held by the application
func (a *App) Close() error {
	return a.processedRepo.Close()
}
