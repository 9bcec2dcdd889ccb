package service

import (
	"context"
	"log"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/pep299/autogram/internal/repository"
)

// URL summarizes a single article on demand and publishes the result to
// the webhook channel.
type URL struct {
	articleRepo    repository.ArticleRepository
	summarizerRepo repository.SummarizerRepository
	telegramRepo   repository.TelegramRepository

	webhookChannel string
}

func NewURL(
	articleRepo repository.ArticleRepository,
	summarizerRepo repository.SummarizerRepository,
	telegramRepo repository.TelegramRepository,
	webhookChannel string,
) *URL {
	return &URL{
		articleRepo:    articleRepo,
		summarizerRepo: summarizerRepo,
		telegramRepo:   telegramRepo,
		webhookChannel: webhookChannel,
	}
}

func (u *URL) Process(ctx context.Context, url string) error {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	startTime := time.Now()

	logger.Printf("On-demand URL processing started url=%s", url)

	// Fetch phase
	fetchStart := time.Now()
	article, err := u.articleRepo.Fetch(ctx, url)
	if err != nil {
		logger.Printf("Error fetching URL %s: %v", url, err)
		return err
	}
	fetchDuration := time.Since(fetchStart)

	// Summarization phase
	summaryStart := time.Now()
	summary, err := u.summarizerRepo.Summarize(ctx, article)
	if err != nil {
		logger.Printf("Error summarizing URL %s: %v", url, err)
		return err
	}
	summaryDuration := time.Since(summaryStart)

	// Publish phase
	publishStart := time.Now()
	publishedID, err := u.telegramRepo.SendSummary(ctx, u.webhookChannel, summary)
	if err != nil {
		logger.Printf("Error publishing summary for URL %s: %v", url, err)
		return err
	}
	publishDuration := time.Since(publishStart)

	totalDuration := time.Since(startTime)
	logger.Printf("On-demand URL processing completed url=%s published_id=%d total_duration_ms=%d fetch_duration_ms=%d summary_duration_ms=%d publish_duration_ms=%d",
		url, publishedID, totalDuration.Milliseconds(), fetchDuration.Milliseconds(), summaryDuration.Milliseconds(), publishDuration.Milliseconds())

	return nil
}
