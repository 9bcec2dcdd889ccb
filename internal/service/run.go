package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"

	"github.com/pep299/autogram/internal/repository"
)

// Per-link pipeline outcomes
const (
	StatusPublished       = "published"
	StatusSkipped         = "skipped"
	StatusFetchFailed     = "fetch_failed"
	StatusSummarizeFailed = "summarize_failed"
	StatusPublishFailed   = "publish_failed"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Link is a URL found in a source channel message.
type Link struct {
	URL       string    `json:"url"`
	MessageID int64     `json:"message_id"`
	Date      time.Time `json:"date"`
}

// LinkResult records how the pipeline handled one link.
type LinkResult struct {
	Link        Link   `json:"link"`
	Status      string `json:"status"`
	PublishedID int64  `json:"published_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Report summarizes one pipeline run.
type Report struct {
	Messages  int          `json:"messages"`
	Links     int          `json:"links"`
	Published int          `json:"published"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Results   []LinkResult `json:"results"`
}

func (r *Report) String() string {
	return fmt.Sprintf("messages=%d links=%d published=%d skipped=%d failed=%d",
		r.Messages, r.Links, r.Published, r.Skipped, r.Failed)
}

// Run reads recent messages from the source channel, summarizes the
// articles they link to, and publishes the summaries to the destination
// channel.
type Run struct {
	telegramRepo   repository.TelegramRepository
	articleRepo    repository.ArticleRepository
	summarizerRepo repository.SummarizerRepository
	processedRepo  repository.ProcessedRepository

	sourceChannel      string
	destinationChannel string
	messageLimit       int
}

func NewRun(
	telegramRepo repository.TelegramRepository,
	articleRepo repository.ArticleRepository,
	summarizerRepo repository.SummarizerRepository,
	processedRepo repository.ProcessedRepository,
	sourceChannel, destinationChannel string,
	messageLimit int,
) *Run {
	return &Run{
		telegramRepo:   telegramRepo,
		articleRepo:    articleRepo,
		summarizerRepo: summarizerRepo,
		processedRepo:  processedRepo,
		sourceChannel:  sourceChannel,

		destinationChannel: destinationChannel,
		messageLimit:       messageLimit,
	}
}

// Execute performs one pipeline pass. Failing to read the source channel
// aborts the run; every other failure is recorded per link and the run
// continues with the next one.
func (r *Run) Execute(ctx context.Context, limit int) (*Report, error) {
	logger := log.New(funcframework.LogWriter(ctx), "", 0)
	startTime := time.Now()

	if limit <= 0 {
		limit = r.messageLimit
	}

	logger.Printf("Run started source=%s destination=%s limit=%d",
		r.sourceChannel, r.destinationChannel, limit)

	messages, err := r.telegramRepo.RecentMessages(ctx, r.sourceChannel, limit)
	if err != nil {
		logger.Printf("Error reading channel %s: %v", r.sourceChannel, err)
		return nil, fmt.Errorf("reading channel %s: %w", r.sourceChannel, err)
	}

	links := CollectLinks(messages)
	logger.Printf("Collected messages=%d links=%d", len(messages), len(links))

	report := &Report{Messages: len(messages), Links: len(links)}
	for _, link := range links {
		result := r.processLink(ctx, logger, link)
		report.Results = append(report.Results, result)
		switch result.Status {
		case StatusPublished:
			report.Published++
		case StatusSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	logger.Printf("Run completed published=%d skipped=%d failed=%d total_duration_ms=%d",
		report.Published, report.Skipped, report.Failed, time.Since(startTime).Milliseconds())

	return report, nil
}

func (r *Run) processLink(ctx context.Context, logger *log.Logger, link Link) LinkResult {
	result := LinkResult{Link: link}
	startTime := time.Now()

	processed, err := r.processedRepo.IsProcessed(ctx, link.URL)
	if err != nil {
		// An unreadable index should not stall the run; treat the link
		// as new and let publishing proceed.
		logger.Printf("Error checking processed index url=%s: %v", link.URL, err)
	}
	if processed {
		logger.Printf("Link skipped url=%s message_id=%d", link.URL, link.MessageID)
		result.Status = StatusSkipped
		return result
	}

	fetchStart := time.Now()
	article, err := r.articleRepo.Fetch(ctx, link.URL)
	if err != nil {
		logger.Printf("Error fetching article url=%s: %v", link.URL, err)
		result.Status = StatusFetchFailed
		result.Error = err.Error()
		return result
	}
	fetchDuration := time.Since(fetchStart)

	summaryStart := time.Now()
	summary, err := r.summarizerRepo.Summarize(ctx, article)
	if err != nil {
		logger.Printf("Error summarizing article url=%s: %v", link.URL, err)
		result.Status = StatusSummarizeFailed
		result.Error = err.Error()
		return result
	}
	summaryDuration := time.Since(summaryStart)

	publishStart := time.Now()
	publishedID, err := r.telegramRepo.SendSummary(ctx, r.destinationChannel, summary)
	if err != nil {
		logger.Printf("Error publishing summary url=%s: %v", link.URL, err)
		result.Status = StatusPublishFailed
		result.Error = err.Error()
		return result
	}
	publishDuration := time.Since(publishStart)

	if err := r.processedRepo.MarkProcessed(ctx, repository.IndexEntry{
		URL:         link.URL,
		MessageID:   link.MessageID,
		PublishedID: publishedID,
		ProcessedAt: time.Now(),
	}); err != nil {
		logger.Printf("Error marking link processed url=%s: %v", link.URL, err)
	}

	result.Status = StatusPublished
	result.PublishedID = publishedID

	logger.Printf("Link processing completed url=%s message_id=%d published_id=%d fetch_duration_ms=%d summary_duration_ms=%d publish_duration_ms=%d total_duration_ms=%d",
		link.URL,
		link.MessageID,
		publishedID,
		fetchDuration.Milliseconds(),
		summaryDuration.Milliseconds(),
		publishDuration.Milliseconds(),
		time.Since(startTime).Milliseconds())

	return result
}

// CollectLinks extracts every URL from the given messages. Links are
// returned in ascending message id order so summaries are published in
// the order the channel received them.
func CollectLinks(messages []repository.Message) []Link {
	var links []Link
	for _, msg := range messages {
		for _, raw := range urlPattern.FindAllString(msg.Text, -1) {
			links = append(links, Link{
				URL:       raw,
				MessageID: msg.ID,
				Date:      msg.Date,
			})
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].MessageID < links[j].MessageID
	})

	return links
}
