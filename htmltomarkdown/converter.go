// Package htmltomarkdown converts extracted article HTML into Markdown for
// exported digests.
package htmltomarkdown

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/newsbrief"
)

// Ensure Converter implements newsbrief.Converter at compile time.
var _ newsbrief.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert article HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFrom(html, "")
}

// ConvertFrom is like Convert but resolves relative links and images
// against the page the HTML was extracted from.
func (c *Converter) ConvertFrom(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", newsbrief.Errorf(newsbrief.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if u, perr := url.Parse(pageURL); perr == nil && u.Host != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(u.Scheme+"://"+u.Host))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
