package newsbrief

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Summary is the summarization service's verdict on an article.
type Summary struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// SentimentClass returns the sentiment label case-normalized for styling.
func (s *Summary) SentimentClass() string {
	return strings.ToLower(strings.TrimSpace(s.Sentiment))
}

// SummaryRequest is the body sent to the summarization endpoint.
type SummaryRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// Summarizer produces a summary and sentiment for an article.
type Summarizer interface {
	Summarize(ctx context.Context, req *SummaryRequest) (*Summary, error)
}

// RelatedArticle is a news item related to the summarized article.
type RelatedArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// RelatedNewsFinder looks up news related to an article title.
type RelatedNewsFinder interface {
	// FindRelated returns related articles in the order the service ranks them.
	FindRelated(ctx context.Context, title string) ([]*RelatedArticle, error)
}

// ServiceError is returned when the remote service answers with a non-2xx status.
type ServiceError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("Server responded with %d: %s", e.StatusCode, e.Body)
}

// AccessDenied reports whether the service refused the request outright,
// which usually points at configuration or availability problems rather
// than at the article.
func (e *ServiceError) AccessDenied() bool {
	return e.StatusCode == http.StatusForbidden
}
