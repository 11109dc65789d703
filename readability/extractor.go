// Package readability provides an alternative article extractor backed by
// go-readability's content scoring.
package readability

import (
	"strings"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements newsbrief.Extractor at compile time.
var _ newsbrief.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the article body from HTML.
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.ENOCONTENT, "%v", err)
	}

	content := goquery.NormalizeWhitespace(article.TextContent)
	if content == "" {
		return nil, newsbrief.Errorf(newsbrief.ENOCONTENT, "%s", newsbrief.NoContentMessage)
	}

	return &newsbrief.Article{
		Title:       goquery.TitleFromHTML(rawHTML),
		Content:     content,
		ContentHTML: article.Content,
	}, nil
}
