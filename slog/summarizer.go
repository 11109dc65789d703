package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsbrief"
)

// Ensure LoggingSummarizer implements newsbrief.Summarizer.
var _ newsbrief.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   newsbrief.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next newsbrief.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize logs the request URL and returned sentiment.
func (s *LoggingSummarizer) Summarize(ctx context.Context, req *newsbrief.SummaryRequest) (summary *newsbrief.Summary, err error) {
	defer func(begin time.Time) {
		var sentiment string
		if summary != nil {
			sentiment = summary.Sentiment
		}
		s.logger.Log(ctx, level(err), "summarize",
			"url", req.URL,
			"bytes", len(req.Content),
			"sentiment", sentiment,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, req)
}

// Ensure LoggingRelatedNewsFinder implements newsbrief.RelatedNewsFinder.
var _ newsbrief.RelatedNewsFinder = (*LoggingRelatedNewsFinder)(nil)

// LoggingRelatedNewsFinder wraps a RelatedNewsFinder with logging.
type LoggingRelatedNewsFinder struct {
	next   newsbrief.RelatedNewsFinder
	logger *slog.Logger
}

// NewLoggingRelatedNewsFinder creates a new LoggingRelatedNewsFinder.
func NewLoggingRelatedNewsFinder(next newsbrief.RelatedNewsFinder, logger *slog.Logger) *LoggingRelatedNewsFinder {
	return &LoggingRelatedNewsFinder{next: next, logger: logger}
}

// FindRelated logs the title searched for and the number of results.
func (f *LoggingRelatedNewsFinder) FindRelated(ctx context.Context, title string) (related []*newsbrief.RelatedArticle, err error) {
	defer func(begin time.Time) {
		f.logger.Log(ctx, level(err), "related news",
			"title", title,
			"count", len(related),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FindRelated(ctx, title)
}
