package repository

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// IndexEntry records one published link
type IndexEntry struct {
	URL         string    `json:"url"`
	MessageID   int64     `json:"message_id"`
	PublishedID int64     `json:"published_id"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ProcessedRepository tracks links that were already published so later
// runs (and repeated links within a run) skip them
type ProcessedRepository interface {
	IsProcessed(ctx context.Context, rawURL string) (bool, error)
	MarkProcessed(ctx context.Context, entry IndexEntry) error
	Close() error
}

// NormalizeURL canonicalizes a link for index lookups: scheme and host
// lowercased, fragment dropped, trailing slash trimmed
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// memoryProcessedRepository keeps the index for the current run only
type memoryProcessedRepository struct {
	mu   sync.RWMutex
	seen map[string]IndexEntry
}

// NewMemoryProcessedRepository creates an in-memory index. It dedupes
// repeated links within one run but remembers nothing across runs.
func NewMemoryProcessedRepository() ProcessedRepository {
	return &memoryProcessedRepository{seen: make(map[string]IndexEntry)}
}

func (m *memoryProcessedRepository) IsProcessed(ctx context.Context, rawURL string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.seen[NormalizeURL(rawURL)]
	return ok, nil
}

func (m *memoryProcessedRepository) MarkProcessed(ctx context.Context, entry IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[NormalizeURL(entry.URL)] = entry
	return nil
}

func (m *memoryProcessedRepository) Close() error { return nil }

// gcsProcessedRepository persists the index as one object per link under
// a bucket prefix, so the set survives across runs
type gcsProcessedRepository struct {
	client     *storage.Client
	bucketName string
	prefix     string

	mu     sync.Mutex
	loaded bool
	seen   map[string]struct{}
}

// NewGCSProcessedRepository creates a Cloud Storage backed index
func NewGCSProcessedRepository(ctx context.Context, bucketName string) (ProcessedRepository, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &gcsProcessedRepository{
		client:     client,
		bucketName: bucketName,
		prefix:     "processed/",
	}, nil
}

// load lists the index objects once; later checks are in-memory
func (g *gcsProcessedRepository) load(ctx context.Context) error {
	if g.loaded {
		return nil
	}

	seen := make(map[string]struct{})
	it := g.client.Bucket(g.bucketName).Objects(ctx, &storage.Query{Prefix: g.prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing processed index: %w", err)
		}
		seen[attrs.Name] = struct{}{}
	}

	g.seen = seen
	g.loaded = true
	return nil
}

func (g *gcsProcessedRepository) IsProcessed(ctx context.Context, rawURL string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return false, err
	}
	_, ok := g.seen[g.objectName(rawURL)]
	return ok, nil
}

func (g *gcsProcessedRepository) MarkProcessed(ctx context.Context, entry IndexEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.load(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling index entry: %w", err)
	}

	name := g.objectName(entry.URL)
	writer := g.client.Bucket(g.bucketName).Object(name).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing index entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing index writer: %w", err)
	}

	g.seen[name] = struct{}{}
	return nil
}

func (g *gcsProcessedRepository) Close() error {
	return g.client.Close()
}

// objectName hashes the normalized URL for a consistent object key
func (g *gcsProcessedRepository) objectName(rawURL string) string {
	hash := md5.Sum([]byte(NormalizeURL(rawURL)))
	return fmt.Sprintf("%slink:%x.json", g.prefix, hash)
}
