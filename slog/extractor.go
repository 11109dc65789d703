package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/goquery"
)

// Ensure LoggingExtractor implements newsbrief.Extractor.
var _ newsbrief.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   newsbrief.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next newsbrief.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the extracted title and content length.
func (e *LoggingExtractor) Extract(html string) (article *newsbrief.Article, err error) {
	defer func(begin time.Time) {
		var title string
		var chars int
		if article != nil {
			title = article.Title
			chars = goquery.TextLength(article.Content)
		}
		e.logger.Log(context.Background(), level(err), "extract",
			"bytes", len(html),
			"title", title,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}
