package digest

import (
	"context"
	"net/url"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/bloom"
)

// Observer is notified around each round trip of a batch.
type Observer interface {
	// Started is called before the round trip for pageURL begins.
	Started(pageURL string)

	// Finished is called when the round trip ends, on every exit path.
	// d is nil if the round trip did not produce a digest.
	Finished(d *newsbrief.Digest)
}

// Batch runs independent round trips for several pages, one after the other.
type Batch struct {
	Coordinator *Coordinator

	// RateLimiter, if set, spaces out page loads per host.
	RateLimiter newsbrief.DomainLimiter

	// ExpectedURLs sizes the duplicate filter. Defaults to 1000.
	ExpectedURLs uint
}

// BatchResult holds the outcome of a batch.
type BatchResult struct {
	Digested int
	Failed   int
	Skipped  int
}

// Run digests every URL in order. Duplicate URLs are skipped. A failed
// round trip does not stop the batch; only cancellation of ctx does.
func (b *Batch) Run(ctx context.Context, urls []string, obs Observer) (*BatchResult, error) {
	n := b.ExpectedURLs
	if n == 0 {
		n = 1000
	}
	seen := bloom.NewFilter(n, 0.001)

	res := &BatchResult{}
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if seen.Seen(pageURL) {
			res.Skipped++
			continue
		}

		if b.RateLimiter != nil {
			if err := b.RateLimiter.Wait(ctx, host(pageURL)); err != nil {
				return res, err
			}
		}

		d := b.digest(ctx, pageURL, obs)
		if d == nil || d.Err != nil {
			res.Failed++
			continue
		}
		res.Digested++
	}
	return res, nil
}

func (b *Batch) digest(ctx context.Context, pageURL string, obs Observer) (d *newsbrief.Digest) {
	if obs != nil {
		obs.Started(pageURL)
		defer func() { obs.Finished(d) }()
	}
	return b.Coordinator.Digest(ctx, pageURL)
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}
