package newsbrief

import (
	"context"
	"time"
)

// Digest is the outcome of one round trip for a page: extraction followed
// by the independent summary and related-news lookups.
type Digest struct {
	URL     string   `json:"url"`
	Article *Article `json:"-"`

	// Err is set when no article could be obtained from the page.
	// Summary and Related are never requested in that case.
	Err error `json:"-"`

	Summary    *Summary `json:"summary,omitempty"`
	SummaryErr error    `json:"-"`

	Related    []*RelatedArticle `json:"related"`
	RelatedErr error             `json:"-"`
}

// Title returns the title of the extracted article, if any.
func (d *Digest) Title() string {
	if d.Article == nil {
		return ""
	}
	return d.Article.Title
}

// DigestRecord is a persisted history entry for a successful summary.
type DigestRecord struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	ContentHash  string    `json:"contentHash"`
	Summary      string    `json:"summary"`
	Sentiment    string    `json:"sentiment"`
	RelatedCount int       `json:"relatedCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *DigestRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "digest URL required")
	}
	if r.Summary == "" {
		return Errorf(EINVALID, "digest summary required")
	}
	return nil
}

// NewDigestRecord builds a history entry from a digest with a summary.
// The content is kept only long enough to be hashed by the store.
func NewDigestRecord(d *Digest) *DigestRecord {
	rec := &DigestRecord{
		URL:          d.URL,
		Title:        d.Title(),
		RelatedCount: len(d.Related),
	}
	if d.Summary != nil {
		rec.Summary = d.Summary.Summary
		rec.Sentiment = d.Summary.Sentiment
	}
	return rec
}

// DigestService represents a service for managing digest history.
type DigestService interface {
	// CreateDigest records a digest. content is the article text the
	// summary was computed from; only its hash is stored.
	CreateDigest(ctx context.Context, rec *DigestRecord, content string) error

	// FindDigestByID retrieves a digest by ID.
	// Returns ENOTFOUND if the digest does not exist.
	FindDigestByID(ctx context.Context, id string) (*DigestRecord, error)

	// FindDigests retrieves digests matching the filter, newest first.
	FindDigests(ctx context.Context, filter DigestFilter) ([]*DigestRecord, error)

	// DeleteDigest permanently removes a digest.
	// Returns ENOTFOUND if the digest does not exist.
	DeleteDigest(ctx context.Context, id string) error
}

// DigestFilter represents a filter for FindDigests.
type DigestFilter struct {
	ID          *string `json:"id"`
	URL         *string `json:"url"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DigestWriter exports digests outside the history store.
type DigestWriter interface {
	// WriteDigest exports a digest with an extracted article.
	// Returns EINVALID if the digest has no article.
	WriteDigest(ctx context.Context, d *Digest) error
}
