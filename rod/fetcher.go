// Package rod renders pages in headless Chrome for sites that build their
// article body with JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/newsbrief"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements newsbrief.Fetcher at compile time.
var _ newsbrief.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser      *browser
	fetchTimeout time.Duration
	recycleAfter int
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithRecycleAfter sets how many pages are rendered before Chrome is
// restarted. Zero disables recycling.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		fetchTimeout: DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := newBrowser(f.recycleAfter)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML, including the
// contents of open shadow roots.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", newsbrief.Errorf(newsbrief.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	br := f.browser.acquire()
	if br == nil {
		return "", newsbrief.Errorf(newsbrief.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	page, err := br.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", contextError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", contextError(ctx, err)
	}

	res, err := page.Eval(serializeScript)
	if err != nil {
		return "", contextError(ctx, err)
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// contextError prefers the context's error so callers can match
// context.DeadlineExceeded with errors.Is.
func contextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// serializeScript returns the document markup with open shadow roots
// inlined, so client-rendered widgets reach the extractor.
const serializeScript = `() => {
  const voids = new Set(['area','base','br','col','embed','hr','img','input','link','meta','source','track','wbr']);
  const raw = new Set(['script','style']);
  const esc = (s) => s.replace(/&/g, '&amp;').replace(/</g, '&lt;').replace(/>/g, '&gt;');
  const walk = (node, inRaw) => {
    if (node.nodeType === Node.TEXT_NODE) return inRaw ? node.textContent : esc(node.textContent);
    if (node.nodeType !== Node.ELEMENT_NODE) return '';
    const tag = node.tagName.toLowerCase();
    let attrs = '';
    for (const a of node.attributes) attrs += ' ' + a.name + '="' + a.value.replace(/&/g, '&amp;').replace(/"/g, '&quot;') + '"';
    if (voids.has(tag)) return '<' + tag + attrs + '>';
    let inner = '';
    if (node.shadowRoot) for (const c of node.shadowRoot.childNodes) inner += walk(c, false);
    for (const c of node.childNodes) inner += walk(c, raw.has(tag));
    return '<' + tag + attrs + '>' + inner + '</' + tag + '>';
  };
  return '<!DOCTYPE html>' + walk(document.documentElement, false);
}`
