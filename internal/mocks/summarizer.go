package mocks

import (
	"context"
	"time"

	"github.com/pep299/autogram/internal/repository"
)

// Mock Summarizer Repository
type MockSummarizerRepo struct {
	Errs           map[string]error
	SummarizedURLs []string
}

func (m *MockSummarizerRepo) Summarize(ctx context.Context, article *repository.Article) (*repository.Summary, error) {
	m.SummarizedURLs = append(m.SummarizedURLs, article.URL)
	if err, ok := m.Errs[article.URL]; ok {
		return nil, err
	}
	return &repository.Summary{
		URL:         article.URL,
		Title:       article.Title,
		Text:        "test summary",
		Model:       "test-model",
		ProcessedAt: time.Now(),
	}, nil
}
