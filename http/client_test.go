package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/newsbrief"
	nbhttp "github.com/fwojciec/newsbrief/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Summarize(t *testing.T) {
	t.Parallel()

	t.Run("posts article and decodes summary", func(t *testing.T) {
		t.Parallel()

		type captured struct {
			method, path, contentType, origin string
			body                              newsbrief.SummaryRequest
		}
		got := make(chan captured, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var c captured
			c.method, c.path = r.Method, r.URL.Path
			c.contentType, c.origin = r.Header.Get("Content-Type"), r.Header.Get("Origin")
			_ = json.NewDecoder(r.Body).Decode(&c.body)
			got <- c
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"summary":"Rates were held.","sentiment":"Neutral"}`))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL+"/"), nbhttp.WithOrigin("newsbrief://test"))
		summary, err := client.Summarize(context.Background(), &newsbrief.SummaryRequest{
			Content: "The central bank held rates.",
			Title:   "Rates Held",
			URL:     "https://news.example.com/rates",
		})

		require.NoError(t, err)
		assert.Equal(t, "Rates were held.", summary.Summary)
		assert.Equal(t, "Neutral", summary.Sentiment)

		c := <-got
		assert.Equal(t, http.MethodPost, c.method)
		assert.Equal(t, "/summarize", c.path)
		assert.Equal(t, "application/json", c.contentType)
		assert.Equal(t, "newsbrief://test", c.origin)
		assert.Equal(t, "The central bank held rates.", c.body.Content)
		assert.Equal(t, "Rates Held", c.body.Title)
		assert.Equal(t, "https://news.example.com/rates", c.body.URL)
	})

	t.Run("returns service error with status and body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Forbidden: origin not allowed\n"))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL))
		_, err := client.Summarize(context.Background(), &newsbrief.SummaryRequest{Content: "x"})

		require.Error(t, err)
		var se *newsbrief.ServiceError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
		assert.Equal(t, "Forbidden: origin not allowed", se.Body)
		assert.Equal(t, "/summarize", se.Endpoint)
		assert.True(t, se.AccessDenied())
		assert.Equal(t, newsbrief.EUPSTREAM, newsbrief.ErrorCode(err))
		assert.Equal(t, "Server responded with 403: Forbidden: origin not allowed", err.Error())
	})

	t.Run("returns error for malformed response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL))
		_, err := client.Summarize(context.Background(), &newsbrief.SummaryRequest{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "/summarize")
	})

	t.Run("returns error when service is unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(url))
		_, err := client.Summarize(context.Background(), &newsbrief.SummaryRequest{})

		require.Error(t, err)
	})
}

func TestClient_FindRelated(t *testing.T) {
	t.Parallel()

	t.Run("posts title and keeps service order", func(t *testing.T) {
		t.Parallel()

		gotTitle := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/related-news", r.URL.Path)
			assert.Empty(t, r.Header.Get("Origin"))
			var body struct {
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotTitle <- body.Title
			_, _ = w.Write([]byte(`[
				{"title":"B story","url":"https://b.example/1","source":"Le Figaro"},
				{"title":"A story","url":"https://a.example/1","source":"Le Monde"}
			]`))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL))
		related, err := client.FindRelated(context.Background(), "Rates Held")

		require.NoError(t, err)
		assert.Equal(t, "Rates Held", <-gotTitle)
		require.Len(t, related, 2)
		assert.Equal(t, "B story", related[0].Title)
		assert.Equal(t, "Le Figaro", related[0].Source)
		assert.Equal(t, "https://a.example/1", related[1].URL)
	})

	t.Run("returns empty slice for empty array", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL))
		related, err := client.FindRelated(context.Background(), "Nothing")

		require.NoError(t, err)
		assert.NotNil(t, related)
		assert.Empty(t, related)
	})

	t.Run("returns service error for non-2xx", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"search failed"}`))
		}))
		defer server.Close()

		client := nbhttp.NewClient(nbhttp.WithBaseURL(server.URL))
		_, err := client.FindRelated(context.Background(), "Rates Held")

		require.Error(t, err)
		var se *newsbrief.ServiceError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
		assert.Equal(t, "/related-news", se.Endpoint)
	})
}
