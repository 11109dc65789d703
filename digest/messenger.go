package digest

import (
	"context"

	"github.com/fwojciec/newsbrief"
)

// Ensure LocalMessenger implements newsbrief.PageMessenger at compile time.
var _ newsbrief.PageMessenger = (*LocalMessenger)(nil)

// LocalMessenger answers page messages in-process: it loads the page with
// a Fetcher and runs the Extractor over the result.
type LocalMessenger struct {
	fetcher   newsbrief.Fetcher
	extractor newsbrief.Extractor
}

// NewLocalMessenger creates a new LocalMessenger.
func NewLocalMessenger(fetcher newsbrief.Fetcher, extractor newsbrief.Extractor) *LocalMessenger {
	return &LocalMessenger{fetcher: fetcher, extractor: extractor}
}

// SendMessage handles msg for the page at pageURL.
// A page that cannot be loaded has no receiver and returns ENORECEIVER.
// Extraction failures are reported in the response, not as an error.
func (m *LocalMessenger) SendMessage(ctx context.Context, pageURL string, msg newsbrief.Message) (*newsbrief.ExtractResponse, error) {
	if msg.Action != newsbrief.ActionExtractArticle {
		return nil, newsbrief.Errorf(newsbrief.EINVALID, "unknown action: %q", msg.Action)
	}

	html, err := m.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.ENORECEIVER, "Could not establish connection. Receiving end does not exist. (%s)", newsbrief.ErrorMessage(err))
	}

	return newsbrief.NewExtractResponse(m.extractor.Extract(html)), nil
}
