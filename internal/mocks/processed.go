package mocks

import (
	"context"

	"github.com/pep299/autogram/internal/repository"
)

// Mock Processed Repository
type MockProcessedRepo struct {
	Processed map[string]bool
	Marked    []repository.IndexEntry
	CheckErr  error
	MarkErr   error
}

func (m *MockProcessedRepo) IsProcessed(ctx context.Context, rawURL string) (bool, error) {
	if m.CheckErr != nil {
		return false, m.CheckErr
	}
	return m.Processed[repository.NormalizeURL(rawURL)], nil
}

func (m *MockProcessedRepo) MarkProcessed(ctx context.Context, entry repository.IndexEntry) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	if m.Processed == nil {
		m.Processed = make(map[string]bool)
	}
	m.Processed[repository.NormalizeURL(entry.URL)] = true
	m.Marked = append(m.Marked, entry)
	return nil
}

func (m *MockProcessedRepo) Close() error {
	return nil
}
