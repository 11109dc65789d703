package mock

import (
	"context"

	"github.com/fwojciec/newsbrief"
)

var _ newsbrief.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of newsbrief.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, req *newsbrief.SummaryRequest) (*newsbrief.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, req *newsbrief.SummaryRequest) (*newsbrief.Summary, error) {
	return s.SummarizeFn(ctx, req)
}

var _ newsbrief.RelatedNewsFinder = (*RelatedNewsFinder)(nil)

// RelatedNewsFinder is a mock implementation of newsbrief.RelatedNewsFinder.
type RelatedNewsFinder struct {
	FindRelatedFn func(ctx context.Context, title string) ([]*newsbrief.RelatedArticle, error)
}

func (f *RelatedNewsFinder) FindRelated(ctx context.Context, title string) ([]*newsbrief.RelatedArticle, error) {
	return f.FindRelatedFn(ctx, title)
}
