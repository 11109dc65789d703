// Package bloom remembers article URLs already digested in a batch.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a set of canonical article URLs. The Bloom filter answers
// most lookups; its positives are confirmed against the exact set, so a
// URL is never reported as seen unless it was added.
type Filter struct {
	f    *bloom.BloomFilter
	urls map[string]struct{}
}

// NewFilter creates a new Filter whose Bloom filter is sized for n
// expected URLs with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f:    bloom.NewWithEstimates(n, fpRate),
		urls: make(map[string]struct{}, n),
	}
}

// Seen reports whether url was already passed to Seen, and records it.
func (f *Filter) Seen(rawURL string) bool {
	key := Canonical(rawURL)
	if f.f.TestAndAddString(key) {
		if _, ok := f.urls[key]; ok {
			return true
		}
	}
	f.urls[key] = struct{}{}
	return false
}

// Canonical reduces an article URL to the form used for deduplication:
// the scheme and host are lower-cased and the fragment is dropped, since
// share links commonly differ only by an anchor. Unparseable input is
// returned trimmed.
func Canonical(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
