// Package goquery implements article extraction over goquery documents.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsbrief"
)

// Thresholds used by the default extraction cascade, in characters.
const (
	// ContainerThreshold is the length a container must exceed to be accepted.
	ContainerThreshold = 500

	// ParagraphThreshold is the length a paragraph must exceed to be kept by
	// the fallback. Shorter paragraphs are usually navigation or captions.
	ParagraphThreshold = 100

	// FallbackThreshold is the length the joined paragraphs must exceed.
	FallbackThreshold = 500
)

// ContainerRule pairs a CSS selector with the length its largest match must
// exceed to be accepted as the article container.
type ContainerRule struct {
	Selector  string
	MinLength int
}

// DefaultContainerRules returns the container rules in priority order:
// generic article markup first, then publisher-specific selectors.
func DefaultContainerRules() []ContainerRule {
	selectors := []string{
		"article",
		".article-content",
		".article-body",
		".story-body",
		".entry-content",
		".post-content",
		"#article-body",
		".content-article",
		// lemonde.fr
		".article__content",
		".article__paragraph",
		// lefigaro.fr
		".fig-content",
		".fig-paragraph",
	}
	rules := make([]ContainerRule, len(selectors))
	for i, s := range selectors {
		rules[i] = ContainerRule{Selector: s, MinLength: ContainerThreshold}
	}
	return rules
}

// Ensure Extractor implements newsbrief.Extractor at compile time.
var _ newsbrief.Extractor = (*Extractor)(nil)

// Extractor finds article text with a prioritized cascade of container
// rules, falling back to aggregating long paragraphs.
type Extractor struct {
	rules []ContainerRule
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRules replaces the container rules.
// Defaults to DefaultContainerRules() if not specified.
func WithRules(rules []ContainerRule) Option {
	return func(e *Extractor) {
		e.rules = rules
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{rules: DefaultContainerRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses raw HTML and extracts the article from it.
func (e *Extractor) Extract(html string) (*newsbrief.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, newsbrief.Errorf(newsbrief.EINVALID, "failed to parse HTML: %v", err)
	}
	return ExtractArticleWithRules(doc, e.rules)
}

// ExtractArticle extracts the article from doc using DefaultContainerRules.
func ExtractArticle(doc *goquery.Document) (*newsbrief.Article, error) {
	return ExtractArticleWithRules(doc, DefaultContainerRules())
}

// ExtractArticleWithRules extracts the article from doc.
//
// Rules are evaluated in order. For each rule the match with the longest
// text wins, ties going to the earliest match in document order. The first
// rule whose winner exceeds its MinLength is accepted and later rules are
// not consulted. If no rule is accepted, or the accepted container holds
// only whitespace, paragraphs longer than ParagraphThreshold are joined with
// single spaces and used when the result exceeds FallbackThreshold.
//
// The document is never modified. Returns ENOCONTENT when no article text
// is found and EINTERNAL if extraction faults (e.g. an invalid selector).
func ExtractArticleWithRules(doc *goquery.Document, rules []ContainerRule) (article *newsbrief.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			err = newsbrief.Errorf(newsbrief.EINTERNAL, "%v", r)
		}
	}()

	if doc == nil {
		return nil, newsbrief.Errorf(newsbrief.EINVALID, "nil document")
	}

	container := findContainer(doc.Selection, rules)
	title := ResolveTitle(doc)

	if container != nil {
		if content := NormalizeWhitespace(container.Text()); content != "" {
			contentHTML, err := goquery.OuterHtml(container)
			if err != nil {
				return nil, newsbrief.Errorf(newsbrief.EINTERNAL, "failed to render container: %v", err)
			}
			return &newsbrief.Article{
				Title:       title,
				Content:     content,
				ContentHTML: contentHTML,
			}, nil
		}
	}

	if content := joinParagraphs(doc.Selection); TextLength(content) > FallbackThreshold {
		return &newsbrief.Article{Title: title, Content: content}, nil
	}

	return nil, newsbrief.Errorf(newsbrief.ENOCONTENT, "%s", newsbrief.NoContentMessage)
}

// findContainer returns the winner of the first accepted rule, or nil.
func findContainer(root *goquery.Selection, rules []ContainerRule) *goquery.Selection {
	for _, rule := range rules {
		best, length := largestMatch(root, rule.Selector)
		if best != nil && length > rule.MinLength {
			return best
		}
	}
	return nil
}

// largestMatch returns the match for selector with the longest text.
// Strict comparison keeps the first match on ties.
func largestMatch(root *goquery.Selection, selector string) (*goquery.Selection, int) {
	var best *goquery.Selection
	bestLen := -1
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if n := TextLength(s.Text()); n > bestLen {
			best, bestLen = s, n
		}
	})
	return best, bestLen
}

// joinParagraphs joins the raw text of every paragraph longer than
// ParagraphThreshold with single spaces.
func joinParagraphs(root *goquery.Selection) string {
	var parts []string
	root.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); TextLength(text) > ParagraphThreshold {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// ResolveTitle returns the page title, trying in order the document title,
// the first h1, the Open Graph title and finally newsbrief.UntitledArticle.
func ResolveTitle(doc *goquery.Document) string {
	if title := NormalizeWhitespace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
		return heading
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return newsbrief.UntitledArticle
}

// TitleFromHTML parses html and resolves its title like ResolveTitle, so
// every extractor names articles the same way.
func TitleFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return newsbrief.UntitledArticle
	}
	return ResolveTitle(doc)
}

// NormalizeWhitespace collapses every run of whitespace to a single space
// and trims the ends. It is idempotent.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TextLength returns the length of s in characters.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}
