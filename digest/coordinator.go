// Package digest runs the article round trip: extraction by the page
// receiver, then summarization and related-news lookup against the
// remote service.
package digest

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/newsbrief"
	"golang.org/x/sync/errgroup"
)

// Coordinator performs one round trip per page.
// Summarizer and Related are called concurrently; each owns its own error
// and neither call cancels the other.
type Coordinator struct {
	Messenger  newsbrief.PageMessenger
	Summarizer newsbrief.Summarizer
	Related    newsbrief.RelatedNewsFinder

	// History, if set, records digests with a successful summary.
	History newsbrief.DigestService

	// Writer, if set, exports every digest with an extracted article.
	Writer newsbrief.DigestWriter

	Logger *slog.Logger
}

// Digest runs a round trip for pageURL. Failures are reported in the
// returned digest and never shared with other round trips.
func (c *Coordinator) Digest(ctx context.Context, pageURL string) *newsbrief.Digest {
	d := &newsbrief.Digest{URL: pageURL}

	resp, err := c.Messenger.SendMessage(ctx, pageURL, newsbrief.Message{Action: newsbrief.ActionExtractArticle})
	if err != nil {
		d.Err = err
		return d
	}

	article, err := resp.Article()
	if err != nil {
		d.Err = err
		return d
	}
	d.Article = article

	var g errgroup.Group
	g.Go(func() error {
		d.Summary, d.SummaryErr = c.Summarizer.Summarize(ctx, &newsbrief.SummaryRequest{
			Content: article.Content,
			Title:   article.Title,
			URL:     pageURL,
		})
		return nil
	})
	g.Go(func() error {
		d.Related, d.RelatedErr = c.Related.FindRelated(ctx, article.Title)
		return nil
	})
	_ = g.Wait()

	c.record(ctx, d)
	c.export(ctx, d)
	return d
}

func (c *Coordinator) record(ctx context.Context, d *newsbrief.Digest) {
	if c.History == nil || d.SummaryErr != nil || d.Summary == nil {
		return
	}
	if err := c.History.CreateDigest(ctx, newsbrief.NewDigestRecord(d), d.Article.Content); err != nil {
		c.logger().Warn("recording digest", "url", d.URL, "err", err)
	}
}

func (c *Coordinator) export(ctx context.Context, d *newsbrief.Digest) {
	if c.Writer == nil {
		return
	}
	if err := c.Writer.WriteDigest(ctx, d); err != nil {
		c.logger().Warn("exporting digest", "url", d.URL, "err", err)
	}
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
