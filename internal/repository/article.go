package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// maxBodyBytes caps how much of a page is read before extraction
const maxBodyBytes = 5 << 20

// Article represents fetched content for one extracted link
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ArticleRepository fetches article content for extracted links
type ArticleRepository interface {
	// Fetch downloads the page and extracts its title and body text
	Fetch(ctx context.Context, rawURL string) (*Article, error)
}

type articleRepository struct {
	httpClient *http.Client
	userAgent  string
}

// NewArticleRepository creates an article fetcher with a bounded timeout
func NewArticleRepository() ArticleRepository {
	return &articleRepository{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; Autogram/1.0)",
	}
}

// Fetch downloads the page and extracts readable content. All failure
// modes (bad URL, transport error, non-200, nothing extractable) surface
// as *FetchError so the caller can skip the link and continue.
func (a *articleRepository) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("invalid URL")}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("fetching page: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("page returned status %d", resp.StatusCode)}
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBodyBytes), parsedURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("extracting content: %w", err)}
	}

	body := normalizeWhitespace(article.TextContent)
	if body == "" {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("no readable content")}
	}

	return &Article{
		URL:   rawURL,
		Title: strings.TrimSpace(article.Title),
		Body:  body,
	}, nil
}

// normalizeWhitespace collapses whitespace runs into single spaces
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
