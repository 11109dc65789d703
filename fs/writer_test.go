package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/fs"
	"github.com/fwojciec/newsbrief/htmltomarkdown"
	"github.com/fwojciec/newsbrief/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://news.example.com/world/story",
			want: "news.example.com/world/story.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://news.example.com/world/",
			want: "news.example.com/world/index.md",
		},
		{
			name: "root path becomes index",
			url:  "https://news.example.com/",
			want: "news.example.com/index.md",
		},
		{
			name: "strips html extension",
			url:  "https://www.lemonde.fr/economie/article/2024/05/02/taux.html",
			want: "www.lemonde.fr/economie/article/2024/05/02/taux.md",
		},
		{
			name: "ignores query string",
			url:  "https://news.example.com/world/story?utm_source=x",
			want: "news.example.com/world/story.md",
		},
		{
			name: "ignores fragment",
			url:  "https://news.example.com/world/story#comments",
			want: "news.example.com/world/story.md",
		},
		{
			name: "resolves dot segments inside the host directory",
			url:  "https://news.example.com/world/../economy/rates",
			want: "news.example.com/economy/rates.md",
		},
		{
			name:    "rejects path climbing out of the host directory",
			url:     "https://news.example.com/../../../tmp/pwned",
			wantErr: true,
		},
		{
			name:    "rejects encoded dot segments",
			url:     "https://news.example.com/%2e%2e/%2e%2e/etc/cron",
			wantErr: true,
		},
		{
			name:    "rejects URL without host",
			url:     "/world/story",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func testDigest() *newsbrief.Digest {
	return &newsbrief.Digest{
		URL: "https://news.example.com/world/rates",
		Article: &newsbrief.Article{
			Title:   "Rates: Held Again",
			Content: "The central bank held rates for a third meeting.",
		},
		Summary: &newsbrief.Summary{Summary: "Rates unchanged.", Sentiment: "Neutral"},
		Related: []*newsbrief.RelatedArticle{
			{Title: "Markets react", URL: "https://b.example/markets", Source: "Le Figaro"},
		},
	}
}

func splitFrontMatter(t *testing.T, content string) (fs.FrontMatter, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(content, "---\n"))
	rest := strings.TrimPrefix(content, "---\n")
	idx := strings.Index(rest, "---\n")
	require.NotEqual(t, -1, idx)

	var fm fs.FrontMatter
	require.NoError(t, yaml.Unmarshal([]byte(rest[:idx]), &fm))
	return fm, rest[idx+len("---\n"):]
}

func TestFormatDigest(t *testing.T) {
	t.Parallel()

	t.Run("formats digest with front matter", func(t *testing.T) {
		t.Parallel()

		got, err := fs.FormatDigest(testDigest(), "Body text.", time.Date(2025, 1, 8, 23, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		fm, body := splitFrontMatter(t, got)
		assert.Equal(t, "https://news.example.com/world/rates", fm.Source)
		assert.Equal(t, "Rates: Held Again", fm.Title)
		assert.Equal(t, "neutral", fm.Sentiment)
		assert.Equal(t, "2025-01-08", fm.Saved)

		want := `
# Rates: Held Again

## Summary

Rates unchanged.

## Article

Body text.

## Related

- [Markets react](https://b.example/markets) (Le Figaro)
`
		assert.Equal(t, want, body)
	})

	t.Run("omits summary and related sections when absent", func(t *testing.T) {
		t.Parallel()

		d := testDigest()
		d.Summary = nil
		d.Related = nil

		got, err := fs.FormatDigest(d, "Body text.", time.Now())
		require.NoError(t, err)

		fm, body := splitFrontMatter(t, got)
		assert.Empty(t, fm.Sentiment)
		assert.NotContains(t, body, "## Summary")
		assert.NotContains(t, body, "## Related")
	})
}

func TestWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ newsbrief.DigestWriter = &fs.Writer{}
}

func TestWriter_WriteDigest(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	t.Run("writes file under host directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir, nil, fs.WithClock(clock))

		err := w.WriteDigest(context.Background(), testDigest())
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "news.example.com", "world", "rates.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "2025-03-01")
		assert.Contains(t, string(data), "The central bank held rates for a third meeting.")
	})

	t.Run("converts container HTML with converter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var gotHTML string
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				gotHTML = html
				return "**converted**", nil
			},
		}
		d := testDigest()
		d.Article.ContentHTML = "<article><b>converted</b></article>"

		err := fs.NewWriter(dir, conv, fs.WithClock(clock)).WriteDigest(context.Background(), d)
		require.NoError(t, err)

		assert.Equal(t, "<article><b>converted</b></article>", gotHTML)
		data, err := os.ReadFile(filepath.Join(dir, "news.example.com", "world", "rates.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "**converted**")
	})

	t.Run("resolves relative links against the article URL", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		d := testDigest()
		d.Article.ContentHTML = `<article><p>See the <a href="/world/earlier">earlier report</a>.</p></article>`

		err := fs.NewWriter(dir, htmltomarkdown.NewConverter(), fs.WithClock(clock)).WriteDigest(context.Background(), d)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "news.example.com", "world", "rates.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "[earlier report](https://news.example.com/world/earlier)")
	})

	t.Run("uses plain text for fallback articles", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				t.Fatal("converter must not be called without container HTML")
				return "", nil
			},
		}

		err := fs.NewWriter(dir, conv).WriteDigest(context.Background(), testDigest())

		require.NoError(t, err)
	})

	t.Run("returns converter error", func(t *testing.T) {
		t.Parallel()

		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "", errors.New("bad html")
			},
		}
		d := testDigest()
		d.Article.ContentHTML = "<article>x</article>"

		err := fs.NewWriter(t.TempDir(), conv).WriteDigest(context.Background(), d)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad html")
	})

	t.Run("never writes outside the base directory", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		dir := filepath.Join(root, "exports")
		d := testDigest()
		d.URL = "https://news.example.com/../../pwned"

		err := fs.NewWriter(dir, nil).WriteDigest(context.Background(), d)

		require.Error(t, err)
		assert.Equal(t, newsbrief.EINVALID, newsbrief.ErrorCode(err))
		assert.NoFileExists(t, filepath.Join(root, "pwned.md"))
		assert.NoDirExists(t, dir)
	})

	t.Run("rejects digest without article", func(t *testing.T) {
		t.Parallel()

		d := testDigest()
		d.Article = nil

		err := fs.NewWriter(t.TempDir(), nil).WriteDigest(context.Background(), d)

		require.Error(t, err)
		assert.Equal(t, newsbrief.EINVALID, newsbrief.ErrorCode(err))
	})
}
