package mocks

import (
	"context"

	"github.com/pep299/autogram/internal/repository"
)

// Mock Telegram Repository
type MockTelegramRepo struct {
	Messages         []repository.Message
	MessagesErr      error
	RequestedChannel string
	RequestedLimit   int

	SentSummaries []repository.Summary
	SentChannels  []string
	SendErrs      map[string]error
	NextID        int64
}

func (m *MockTelegramRepo) RecentMessages(ctx context.Context, channel string, limit int) ([]repository.Message, error) {
	m.RequestedChannel = channel
	m.RequestedLimit = limit
	if m.MessagesErr != nil {
		return nil, m.MessagesErr
	}
	return m.Messages, nil
}

func (m *MockTelegramRepo) SendSummary(ctx context.Context, channel string, summary *repository.Summary) (int64, error) {
	if err, ok := m.SendErrs[summary.URL]; ok {
		return 0, err
	}
	m.SentSummaries = append(m.SentSummaries, *summary)
	m.SentChannels = append(m.SentChannels, channel)
	m.NextID++
	return m.NextID, nil
}
