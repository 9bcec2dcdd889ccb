package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Token budget for one summarization request. Input is truncated so the
// prompt plus the reserved response always fit the model context.
const (
	maxTotalTokens    = 8192
	maxResponseTokens = 1024
	bufferTokens      = 100
	maxInputTokens    = maxTotalTokens - maxResponseTokens - bufferTokens
)

// maxAttempts bounds summarization retries (exponential backoff between)
const maxAttempts = 3

// Summary represents the condensed text produced for one article
type Summary struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	ProcessedAt time.Time `json:"processed_at"`
}

// SummarizerRepository produces summaries for fetched articles
type SummarizerRepository interface {
	Summarize(ctx context.Context, article *Article) (*Summary, error)
}

type openAIRepository struct {
	apiKey     string
	model      string
	lang       string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIRepository creates a chat-completions client. baseURL is
// overridable for tests; empty means the public OpenAI endpoint.
func NewOpenAIRepository(apiKey, model, lang, baseURL string) SummarizerRepository {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &openAIRepository{
		apiKey:  apiKey,
		model:   model,
		lang:    lang,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize truncates the article body to the input budget and requests
// one summary. Rate limits and server errors are retried up to
// maxAttempts with exponential backoff; a delivered but unusable
// response is not retried. All failures surface as *SummarizationError.
func (o *openAIRepository) Summarize(ctx context.Context, article *Article) (*Summary, error) {
	if article.URL == "" {
		return nil, &SummarizationError{URL: article.URL, Err: fmt.Errorf("article has no source URL")}
	}

	content := truncateTokens(article.Body, maxInputTokens)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			case <-ctx.Done():
				return nil, &SummarizationError{URL: article.URL, Err: ctx.Err()}
			}
		}

		text, retryable, err := o.complete(ctx, content)
		if err == nil {
			return &Summary{
				URL:         article.URL,
				Title:       article.Title,
				Text:        text,
				Model:       o.model,
				ProcessedAt: time.Now(),
			}, nil
		}
		if !retryable {
			return nil, &SummarizationError{URL: article.URL, Err: err}
		}
		lastErr = err
	}

	return nil, &SummarizationError{URL: article.URL, Err: lastErr}
}

// complete performs one chat-completions call. The bool reports whether
// the failure is worth retrying.
func (o *openAIRepository) complete(ctx context.Context, content string) (string, bool, error) {
	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: o.systemPrompt()},
			{Role: "user", Content: content},
		},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.7,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", false, fmt.Errorf("decoding response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", false, fmt.Errorf("no content in response")
	}
	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", false, fmt.Errorf("empty summary in response")
	}
	return text, false, nil
}

func (o *openAIRepository) systemPrompt() string {
	return fmt.Sprintf("As an experienced journalist and tech writer, you microblog about lifestyle and cutting-edge technologies, topics that are of great interest to your audience of software developers and engineering managers. Provide a concise, business-focused summary blog post in %s language based on the following content. Include metainformation such as author, tags, publication date and source URL if available, separated from the content with --- (three dashes).", o.lang)
}

// truncateTokens keeps the first max whitespace-delimited tokens,
// rejoined with single spaces. Applying it twice yields the same text.
func truncateTokens(text string, max int) string {
	fields := strings.Fields(text)
	if len(fields) > max {
		fields = fields[:max]
	}
	return strings.Join(fields, " ")
}
