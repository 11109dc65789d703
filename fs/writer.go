// Package fs exports digests as markdown files.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/newsbrief"
	"gopkg.in/yaml.v3"
)

// URLToPath converts an article URL to a relative file path under a
// directory named after the host.
// Example: https://news.example.com/world/story → news.example.com/world/story.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", newsbrief.Errorf(newsbrief.EINVALID, "URL has no host: %s", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index.md"
	case strings.HasSuffix(path, "/"):
		path += "index.md"
	default:
		path = strings.TrimSuffix(path, ".html")
		path = strings.TrimSuffix(path, ".htm")
		path += ".md"
	}
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(u.Host) || !filepath.IsLocal(rel) {
		return "", newsbrief.Errorf(newsbrief.EINVALID, "URL path escapes export directory: %s", rawURL)
	}
	return filepath.Join(u.Host, rel), nil
}

// FrontMatter is the YAML header of an exported digest.
type FrontMatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title"`
	Sentiment string `yaml:"sentiment,omitempty"`
	Saved     string `yaml:"saved"`
}

// FormatDigest renders a digest as markdown with YAML front matter.
// body is the article text, already converted to markdown.
func FormatDigest(d *newsbrief.Digest, body string, saved time.Time) (string, error) {
	fm := FrontMatter{
		Source: d.URL,
		Title:  d.Title(),
		Saved:  saved.UTC().Format("2006-01-02"),
	}
	if d.Summary != nil {
		fm.Sentiment = d.Summary.SentimentClass()
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString("# ")
	b.WriteString(d.Title())
	b.WriteString("\n\n")

	if d.Summary != nil {
		b.WriteString("## Summary\n\n")
		b.WriteString(d.Summary.Summary)
		b.WriteString("\n\n")
	}

	b.WriteString("## Article\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	if len(d.Related) > 0 {
		b.WriteString("\n## Related\n\n")
		for _, r := range d.Related {
			fmt.Fprintf(&b, "- [%s](%s) (%s)\n", r.Title, r.URL, r.Source)
		}
	}
	return b.String(), nil
}

// Ensure Writer implements newsbrief.DigestWriter at compile time.
var _ newsbrief.DigestWriter = (*Writer)(nil)

// Writer writes digests as markdown files to a directory.
type Writer struct {
	baseDir   string
	converter newsbrief.Converter
	now       func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the time source used for the saved date.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a new Writer that writes to the given base directory.
// converter turns the article's container HTML into markdown; when it is nil
// or the article came from the paragraph fallback, the plain text is used.
func NewWriter(baseDir string, converter newsbrief.Converter, opts ...Option) *Writer {
	w := &Writer{
		baseDir:   baseDir,
		converter: converter,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteDigest writes a digest to disk as a markdown file.
func (w *Writer) WriteDigest(ctx context.Context, d *newsbrief.Digest) error {
	if d.Article == nil {
		return newsbrief.Errorf(newsbrief.EINVALID, "digest has no article")
	}

	relPath, err := URLToPath(d.URL)
	if err != nil {
		return err
	}

	body, err := w.body(d.Article, d.URL)
	if err != nil {
		return err
	}

	content, err := FormatDigest(d, body, w.now())
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// pageConverter is implemented by converters that can resolve relative
// links against the page the HTML came from.
type pageConverter interface {
	ConvertFrom(html, pageURL string) (string, error)
}

func (w *Writer) body(a *newsbrief.Article, pageURL string) (string, error) {
	if w.converter == nil || a.ContentHTML == "" {
		return a.Content, nil
	}

	var md string
	var err error
	if pc, ok := w.converter.(pageConverter); ok {
		md, err = pc.ConvertFrom(a.ContentHTML, pageURL)
	} else {
		md, err = w.converter.Convert(a.ContentHTML)
	}
	if err != nil {
		return "", fmt.Errorf("converting article: %w", err)
	}
	return md, nil
}
