// Package trafilatura provides an alternative article extractor backed by
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements newsbrief.Extractor at compile time.
var _ newsbrief.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the article body from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article as normalized text.
func (e *Extractor) Extract(rawHTML string) (*newsbrief.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newsbrief.Errorf(newsbrief.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.ENOCONTENT, "%v", err)
	}

	content := goquery.NormalizeWhitespace(result.ContentText)
	if content == "" {
		return nil, newsbrief.Errorf(newsbrief.ENOCONTENT, "%s", newsbrief.NoContentMessage)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &newsbrief.Article{
		Title:       goquery.TitleFromHTML(rawHTML),
		Content:     content,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
