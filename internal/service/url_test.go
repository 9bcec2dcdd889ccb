package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pep299/autogram/internal/mocks"
	"github.com/pep299/autogram/internal/repository"
)

func TestProcessURL(t *testing.T) {
	telegramRepo := &mocks.MockTelegramRepo{}
	articleRepo := &mocks.MockArticleRepo{
		Articles: map[string]*repository.Article{
			"https://example.com/article": {
				URL:   "https://example.com/article",
				Title: "Go Generics in Practice",
				Body:  "Generics landed in Go 1.18 and changed library design.",
			},
		},
	}
	summarizerRepo := &mocks.MockSummarizerRepo{}

	url := NewURL(articleRepo, summarizerRepo, telegramRepo, "@oncall_reading")

	if err := url.Process(context.Background(), "https://example.com/article"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(summarizerRepo.SummarizedURLs) != 1 {
		t.Fatalf("Expected 1 summarization, got %d", len(summarizerRepo.SummarizedURLs))
	}
	if len(telegramRepo.SentSummaries) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(telegramRepo.SentSummaries))
	}
	if telegramRepo.SentChannels[0] != "@oncall_reading" {
		t.Errorf("Expected publish to @oncall_reading, got %s", telegramRepo.SentChannels[0])
	}
	if telegramRepo.SentSummaries[0].Title != "Go Generics in Practice" {
		t.Errorf("Expected article title on summary, got %s", telegramRepo.SentSummaries[0].Title)
	}
}

func TestProcessURLFetchError(t *testing.T) {
	telegramRepo := &mocks.MockTelegramRepo{}
	articleRepo := &mocks.MockArticleRepo{
		Errs: map[string]error{
			"https://example.com/gone": &repository.FetchError{
				URL: "https://example.com/gone",
				Err: errors.New("unexpected status 404"),
			},
		},
	}
	summarizerRepo := &mocks.MockSummarizerRepo{}

	url := NewURL(articleRepo, summarizerRepo, telegramRepo, "@oncall_reading")

	err := url.Process(context.Background(), "https://example.com/gone")
	if err == nil {
		t.Fatal("Expected fetch error")
	}

	var fetchErr *repository.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Expected FetchError, got %T", err)
	}
	if len(summarizerRepo.SummarizedURLs) != 0 {
		t.Errorf("Expected no summarization after fetch failure, got %v", summarizerRepo.SummarizedURLs)
	}
	if len(telegramRepo.SentSummaries) != 0 {
		t.Errorf("Expected no publish after fetch failure, got %d", len(telegramRepo.SentSummaries))
	}
}

func TestProcessURLPublishError(t *testing.T) {
	telegramRepo := &mocks.MockTelegramRepo{
		SendErrs: map[string]error{
			"https://example.com/article": &repository.PublishError{
				Channel: "@oncall_reading",
				Err:     errors.New("chat not found"),
			},
		},
	}
	articleRepo := &mocks.MockArticleRepo{}
	summarizerRepo := &mocks.MockSummarizerRepo{}

	url := NewURL(articleRepo, summarizerRepo, telegramRepo, "@oncall_reading")

	err := url.Process(context.Background(), "https://example.com/article")
	if err == nil {
		t.Fatal("Expected publish error")
	}

	var publishErr *repository.PublishError
	if !errors.As(err, &publishErr) {
		t.Errorf("Expected PublishError, got %T", err)
	}
}
