// Package term renders digests to a terminal.
package term

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/digest"
)

// Messages shown in place of a summary or related list.
const (
	LoadingMessage          = "Processing..."
	NoRelatedMessage        = "No related news found"
	RelatedFailedMessage    = "Failed to fetch related news"
	ExtractionFailedMessage = "Failed to extract article content. Try refreshing the page."
	AccessDeniedHint        = "Possible causes: \n1. Server is not running\n2. CORS is blocked\n3. API key is invalid\n\nCheck the server logs for more details."
)

var _ digest.Observer = (*Renderer)(nil)

// Renderer writes digests as text or as JSON lines.
// In text mode a loading line is shown while a round trip runs.
type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	json    bool
	loading bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithJSON selects JSON output, one object per digest.
func WithJSON() Option {
	return func(r *Renderer) {
		r.json = true
	}
}

// NewRenderer creates a new Renderer writing to w.
func NewRenderer(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Started shows the loading indicator.
func (r *Renderer) Started(pageURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.json || r.loading {
		return
	}
	fmt.Fprint(r.w, LoadingMessage)
	r.loading = true
}

// Finished clears the loading indicator and renders d when present.
func (r *Renderer) Finished(d *newsbrief.Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	if d != nil {
		_ = r.render(d)
	}
}

// Render writes d.
func (r *Renderer) Render(d *newsbrief.Digest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear()
	return r.render(d)
}

// clear erases the loading line. Must be called with mu held.
func (r *Renderer) clear() {
	if !r.loading {
		return
	}
	fmt.Fprintf(r.w, "\r%*s\r", len(LoadingMessage), "")
	r.loading = false
}

func (r *Renderer) render(d *newsbrief.Digest) error {
	if r.json {
		return json.NewEncoder(r.w).Encode(newDigestJSON(d))
	}
	_, err := io.WriteString(r.w, FormatDigest(d))
	return err
}

// FormatDigest renders d as plain text.
func FormatDigest(d *newsbrief.Digest) string {
	var b strings.Builder

	if title := d.Title(); title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	b.WriteString(d.URL)
	b.WriteString("\n\n")

	if d.Err != nil {
		b.WriteString(ExtractionError(d.Err))
		b.WriteString("\n\n")
		return b.String()
	}

	b.WriteString("Summary:\n")
	if d.SummaryErr != nil {
		b.WriteString(ServiceFailure(d.SummaryErr))
		b.WriteString("\n")
	} else if d.Summary != nil {
		b.WriteString(d.Summary.Summary)
		b.WriteString("\n")
		if class := d.Summary.SentimentClass(); class != "" {
			fmt.Fprintf(&b, "Sentiment: [%s] %s\n", class, d.Summary.Sentiment)
		}
	}

	b.WriteString("\nRelated news:\n")
	switch {
	case d.RelatedErr != nil:
		b.WriteString(RelatedFailedMessage)
		b.WriteString("\n")
	case len(d.Related) == 0:
		b.WriteString(NoRelatedMessage)
		b.WriteString("\n")
	default:
		for i, a := range d.Related {
			fmt.Fprintf(&b, "  %d. %s\n     %s\n     Source: %s\n", i+1, a.Title, a.URL, a.Source)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// ExtractionError describes why no article could be obtained from a page.
func ExtractionError(err error) string {
	msg := newsbrief.ErrorMessage(err)
	switch newsbrief.ErrorCode(err) {
	case newsbrief.ENOCONTENT:
		if strings.TrimSpace(msg) == "" {
			return ExtractionFailedMessage
		}
		return msg
	case newsbrief.ENORECEIVER:
		return withHint("An error occurred: Content script error: "+msg+". Make sure you're on a webpage with article content.", err)
	default:
		return withHint("An error occurred: "+msg, err)
	}
}

// ServiceFailure describes a failed summarization request.
func ServiceFailure(err error) string {
	return withHint("An error occurred: Failed to process article: "+newsbrief.ErrorMessage(err), err)
}

// withHint appends troubleshooting advice when err is a request the
// service refused with an access-denied status.
func withHint(msg string, err error) string {
	var se *newsbrief.ServiceError
	if errors.As(err, &se) && se.AccessDenied() {
		return msg + "\n\n" + AccessDeniedHint
	}
	return msg
}

type digestJSON struct {
	URL          string                      `json:"url"`
	Title        string                      `json:"title,omitempty"`
	Summary      string                      `json:"summary,omitempty"`
	Sentiment    string                      `json:"sentiment,omitempty"`
	Related      []*newsbrief.RelatedArticle `json:"related,omitempty"`
	Error        string                      `json:"error,omitempty"`
	SummaryError string                      `json:"summaryError,omitempty"`
	RelatedError string                      `json:"relatedError,omitempty"`
}

func newDigestJSON(d *newsbrief.Digest) *digestJSON {
	out := &digestJSON{
		URL:     d.URL,
		Title:   d.Title(),
		Related: d.Related,
	}
	if d.Summary != nil {
		out.Summary = d.Summary.Summary
		out.Sentiment = d.Summary.Sentiment
	}
	if d.Err != nil {
		out.Error = ExtractionError(d.Err)
	}
	if d.SummaryErr != nil {
		out.SummaryError = ServiceFailure(d.SummaryErr)
	}
	if d.RelatedErr != nil {
		out.RelatedError = RelatedFailedMessage
	}
	return out
}
