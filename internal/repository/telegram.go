package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Message represents one post read from the source channel
type Message struct {
	ID   int64     `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// TelegramRepository reads recent channel posts and publishes summaries
type TelegramRepository interface {
	// RecentMessages returns up to limit posts from the channel, most recent first
	RecentMessages(ctx context.Context, channel string, limit int) ([]Message, error)

	// SendSummary formats and posts a summary, returning the new message id
	SendSummary(ctx context.Context, channel string, summary *Summary) (int64, error)
}

type telegramRepository struct {
	botToken   string
	baseURL    string
	httpClient *http.Client
}

// NewTelegramRepository creates a Telegram Bot API client.
// baseURL is overridable for tests; empty means api.telegram.org.
func NewTelegramRepository(botToken, baseURL string) TelegramRepository {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &telegramRepository{
		botToken: botToken,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Bot API wire types, only the fields this client reads
type apiResponse struct {
	OK          bool                `json:"ok"`
	Description string              `json:"description,omitempty"`
	Result      json.RawMessage     `json:"result,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

type responseParameters struct {
	RetryAfter int `json:"retry_after"`
}

type update struct {
	UpdateID    int64        `json:"update_id"`
	ChannelPost *channelPost `json:"channel_post"`
}

type channelPost struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
	Chat      chat   `json:"chat"`
}

type chat struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// RecentMessages reads pending channel_post updates for the bot and keeps
// the newest posts from the given channel. No offset is sent, so updates
// stay unconfirmed and every run re-reads the same window.
func (t *telegramRepository) RecentMessages(ctx context.Context, channel string, limit int) ([]Message, error) {
	params := url.Values{}
	params.Set("allowed_updates", `["channel_post"]`)
	params.Set("limit", "100")
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?%s", t.baseURL, t.botToken, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, &ChannelAccessError{Channel: channel, Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &ChannelAccessError{Channel: channel, Err: fmt.Errorf("calling getUpdates: %w", err)}
	}
	defer resp.Body.Close()

	apiResp, err := parseAPIResponse(resp)
	if err != nil {
		return nil, &ChannelAccessError{Channel: channel, Err: err}
	}

	var updates []update
	if err := json.Unmarshal(apiResp.Result, &updates); err != nil {
		return nil, &ChannelAccessError{Channel: channel, Err: fmt.Errorf("decoding updates: %w", err)}
	}

	// Updates can carry posts from other chats the bot belongs to
	var messages []Message
	for _, u := range updates {
		post := u.ChannelPost
		if post == nil || post.Text == "" || !chatMatches(post.Chat, channel) {
			continue
		}
		messages = append(messages, Message{
			ID:   post.MessageID,
			Date: time.Unix(post.Date, 0).UTC(),
			Text: post.Text,
		})
	}

	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// SendSummary posts a formatted summary to the channel. On flood control
// (HTTP 429) it waits the advertised retry_after once and retries.
func (t *telegramRepository) SendSummary(ctx context.Context, channel string, summary *Summary) (int64, error) {
	text := formatPost(summary)

	messageID, retryAfter, err := t.sendMessage(ctx, channel, text)
	if err != nil && retryAfter > 0 {
		select {
		case <-time.After(time.Duration(retryAfter) * time.Second):
		case <-ctx.Done():
			return 0, &PublishError{Channel: channel, Err: ctx.Err()}
		}
		messageID, _, err = t.sendMessage(ctx, channel, text)
	}
	if err != nil {
		return 0, &PublishError{Channel: channel, Err: err}
	}
	return messageID, nil
}

// sendMessage performs one sendMessage call. The second return value is
// the flood-control retry_after in seconds, zero when not rate limited.
func (t *telegramRepository) sendMessage(ctx context.Context, channel, text string) (int64, int, error) {
	reqBody := sendMessageRequest{
		ChatID:                channel,
		Text:                  text,
		DisableWebPagePreview: true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return 0, 0, fmt.Errorf("marshaling message: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return 0, 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("reading response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return 0, 0, fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if !apiResp.OK {
		retryAfter := 0
		if apiResp.Parameters != nil {
			retryAfter = apiResp.Parameters.RetryAfter
		}
		return 0, retryAfter, fmt.Errorf("telegram API error: %s", apiResp.Description)
	}

	var post channelPost
	if err := json.Unmarshal(apiResp.Result, &post); err != nil {
		return 0, 0, fmt.Errorf("decoding sent message: %w", err)
	}
	return post.MessageID, 0, nil
}

// formatPost renders a summary as the channel message body: title,
// condensed text, then the source URL on its own trailing block.
func formatPost(summary *Summary) string {
	var b strings.Builder
	if summary.Title != "" {
		b.WriteString(summary.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(summary.Text)
	b.WriteString("\n\n")
	b.WriteString(summary.URL)
	return b.String()
}

// chatMatches reports whether a post's chat is the configured channel,
// given as @username, bare username, or numeric chat id
func chatMatches(c chat, channel string) bool {
	if name := strings.TrimPrefix(channel, "@"); c.Username != "" && strings.EqualFold(c.Username, name) {
		return true
	}
	return strconv.FormatInt(c.ID, 10) == channel
}

// parseAPIResponse checks the HTTP status and the ok flag, returning the
// decoded envelope on success
func parseAPIResponse(resp *http.Response) (*apiResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("telegram API error: %s", apiResp.Description)
	}
	return &apiResp, nil
}
