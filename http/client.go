package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/newsbrief"
)

// DefaultBaseURL is where the summarization service listens by default.
const DefaultBaseURL = "http://localhost:5005"

// DefaultOrigin identifies this client to the service's CORS layer.
const DefaultOrigin = "newsbrief://cli"

// DefaultServiceTimeout bounds each call to the summarization service.
// Summaries come from a language model and are slower than page fetches.
const DefaultServiceTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response is surfaced to the user.
const maxErrorBody = 4 << 10

// Compile-time interface verification.
var (
	_ newsbrief.Summarizer        = (*Client)(nil)
	_ newsbrief.RelatedNewsFinder = (*Client)(nil)
)

// Client calls the remote summarization and related-news endpoints.
type Client struct {
	baseURL string
	origin  string
	timeout time.Duration
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the service base URL.
// Defaults to DefaultBaseURL if not specified.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithOrigin sets the Origin header sent with summarize requests.
func WithOrigin(origin string) ClientOption {
	return func(c *Client) {
		c.origin = origin
	}
}

// WithServiceTimeout sets the timeout for each service call.
// Defaults to DefaultServiceTimeout if not specified.
func WithServiceTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a new Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		origin:  DefaultOrigin,
		timeout: DefaultServiceTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Summarize posts the article to /summarize.
// Non-2xx responses are returned as *newsbrief.ServiceError.
func (c *Client) Summarize(ctx context.Context, req *newsbrief.SummaryRequest) (*newsbrief.Summary, error) {
	var summary newsbrief.Summary
	if err := c.post(ctx, "/summarize", req, &summary, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FindRelated posts the title to /related-news.
// Non-2xx responses are returned as *newsbrief.ServiceError.
func (c *Client) FindRelated(ctx context.Context, title string) ([]*newsbrief.RelatedArticle, error) {
	body := struct {
		Title string `json:"title"`
	}{Title: title}

	var related []*newsbrief.RelatedArticle
	if err := c.post(ctx, "/related-news", body, &related, false); err != nil {
		return nil, err
	}
	if related == nil {
		related = []*newsbrief.RelatedArticle{}
	}
	return related, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any, withOrigin bool) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return newsbrief.Errorf(newsbrief.EINVALID, "invalid service URL: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withOrigin && c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := "Unknown error"
		if b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
			text = strings.TrimSpace(string(b))
		}
		return &newsbrief.ServiceError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       text,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
