//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/goquery"
	"github.com/fwojciec/newsbrief/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ newsbrief.Fetcher = (*rod.Fetcher)(nil)

// newsPage serves markup under the Content-Type publishers use.
func newsPage(t *testing.T, markup string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(markup))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher(t *testing.T, opts ...rod.Option) *rod.Fetcher {
	t.Helper()
	f, err := rod.NewFetcher(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// scriptRenderedStory mimics a publisher that ships an empty shell and
// fills the story body from a JSON payload after load.
const scriptRenderedStory = `<!DOCTYPE html>
<html>
<head><title>Port strike enters second week</title></head>
<body>
<header><nav>Home | Economy | World</nav></header>
<main><div class="article-body" data-state="loading">Loading story...</div></main>
<script>
const payload = {
  paragraphs: [
    "Dock workers at the country's three largest ports extended their strike on Monday, leaving hundreds of containers stranded on the quays.",
    "Union leaders said talks with the port authority had stalled over wage indexation and the pace of automation at the northern terminals.",
    "Exporters warned that perishable goods were already being diverted to neighbouring ports, at an estimated cost of several million euros a day.",
    "The transport minister called both sides to a meeting on Thursday and said the government would not rule out appointing a mediator."
  ]
};
const body = document.querySelector('.article-body');
body.textContent = '';
for (const text of payload.paragraphs) {
  const p = document.createElement('p');
  p.textContent = text;
  body.appendChild(p);
}
body.dataset.state = 'ready';
</script>
</body>
</html>`

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns story body rendered by script", func(t *testing.T) {
		t.Parallel()

		srv := newsPage(t, scriptRenderedStory)

		html, err := newFetcher(t).Fetch(context.Background(), srv.URL+"/economy/port-strike")

		require.NoError(t, err)
		assert.Contains(t, html, `data-state="ready"`)
		assert.Contains(t, html, "<p>Dock workers at the country's three largest ports")
		assert.NotContains(t, html, "Loading story...")
	})

	t.Run("rendered story is extractable", func(t *testing.T) {
		t.Parallel()

		srv := newsPage(t, scriptRenderedStory)

		html, err := newFetcher(t).Fetch(context.Background(), srv.URL)
		require.NoError(t, err)

		article, err := goquery.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Port strike enters second week", article.Title)
		assert.Contains(t, article.Content, "appointing a mediator")
		assert.NotContains(t, article.Content, "Home | Economy")
	})

	t.Run("escapes markup characters in story text", func(t *testing.T) {
		t.Parallel()

		srv := newsPage(t, `<html><body><article><p id="q"></p></article>
<script>document.getElementById('q').textContent = 'Index fell <2% & bonds rose';</script></body></html>`)

		html, err := newFetcher(t).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "Index fell &lt;2% &amp; bonds rose")
	})

	t.Run("inlines story body rendered in an open shadow root", func(t *testing.T) {
		t.Parallel()

		srv := newsPage(t, `<!DOCTYPE html>
<html>
<head><title>Markets open higher</title></head>
<body>
<story-body></story-body>
<script>
customElements.define('story-body', class extends HTMLElement {
  constructor() {
    super();
    this.attachShadow({mode: 'open'}).innerHTML =
      '<p class="shadow-para">Markets opened higher.</p><p class="shadow-para">Analysts expect a cut.</p>';
  }
});
</script>
</body>
</html>`)

		html, err := newFetcher(t).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, `<story-body><p class="shadow-para">Markets opened higher.</p><p class="shadow-para">Analysts expect a cut.</p></story-body>`)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newFetcher(t).Fetch(ctx, srv.URL)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("gives up on a slow page after the fetch timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-r.Context().Done():
				return
			}
			_, _ = w.Write([]byte(`<html><body><article>Late edition</article></body></html>`))
		}))
		defer srv.Close()

		_, err := newFetcher(t, rod.WithFetchTimeout(100*time.Millisecond)).Fetch(context.Background(), srv.URL)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("keeps serving pages across browser recycling", func(t *testing.T) {
		t.Parallel()

		srv := newsPage(t, `<html><body><article>Evening briefing</article></body></html>`)
		fetcher := newFetcher(t, rod.WithRecycleAfter(2))

		first := fetcher.LauncherPID()
		for i := range 3 {
			html, err := fetcher.Fetch(context.Background(), srv.URL)
			require.NoError(t, err, "page %d", i)
			assert.Contains(t, html, "Evening briefing")
		}

		assert.NotEqual(t, first, fetcher.LauncherPID())
	})
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("is safe to call twice", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)

		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close())
	})

	t.Run("rejects fetches afterwards", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		require.NoError(t, fetcher.Close())

		_, err = fetcher.Fetch(context.Background(), "https://news.example.com/world/story")

		require.Error(t, err)
		assert.Equal(t, newsbrief.EINVALID, newsbrief.ErrorCode(err))
		assert.True(t, strings.Contains(newsbrief.ErrorMessage(err), "closed"))
	})
}
