package repository

import "fmt"

// ChannelAccessError reports that the source channel could not be read.
// It aborts the whole run; the other error types are per-link.
type ChannelAccessError struct {
	Channel string
	Err     error
}

func (e *ChannelAccessError) Error() string {
	return fmt.Sprintf("accessing channel %s: %v", e.Channel, e.Err)
}

func (e *ChannelAccessError) Unwrap() error { return e.Err }

// FetchError reports that an article could not be fetched or parsed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching article %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SummarizationError reports that the language model failed to produce
// a usable summary for an article.
type SummarizationError struct {
	URL string
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarizing article %s: %v", e.URL, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// PublishError reports that the destination channel rejected a post.
type PublishError struct {
	Channel string
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing to channel %s: %v", e.Channel, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
