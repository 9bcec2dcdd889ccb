package mocks

import (
	"context"

	"github.com/pep299/autogram/internal/repository"
)

// Mock Article Repository
type MockArticleRepo struct {
	Articles    map[string]*repository.Article
	Errs        map[string]error
	FetchedURLs []string
}

func (m *MockArticleRepo) Fetch(ctx context.Context, rawURL string) (*repository.Article, error) {
	m.FetchedURLs = append(m.FetchedURLs, rawURL)
	if err, ok := m.Errs[rawURL]; ok {
		return nil, err
	}
	if article, ok := m.Articles[rawURL]; ok {
		return article, nil
	}
	return &repository.Article{URL: rawURL, Title: "Test Article", Body: "test body"}, nil
}
