package newsbrief

import "context"

// NoContentMessage is the failure reason reported when neither a container
// nor the paragraph fallback yields substantial article text.
const NoContentMessage = "Could not find article content"

// UntitledArticle is the title used when a page carries no title metadata,
// heading or Open Graph title.
const UntitledArticle = "Untitled Article"

// Article holds the text extracted from a news page.
type Article struct {
	// Title is the best-effort page title.
	Title string

	// Content is the article body as whitespace-normalized plain text.
	Content string

	// ContentHTML is the outer HTML of the container the content came from.
	// Empty when the content was assembled from loose paragraphs.
	ContentHTML string
}

// Extractor locates the main article text in an HTML page.
type Extractor interface {
	// Extract processes raw HTML and returns the article.
	// Returns ENOCONTENT if no substantial article text is found.
	Extract(html string) (*Article, error)
}

// ActionExtractArticle is the only action understood by page receivers.
const ActionExtractArticle = "extractArticle"

// Message is a request sent to the receiver attached to a page.
type Message struct {
	Action string `json:"action"`
}

// ExtractResponse is a page receiver's answer to an extractArticle message.
type ExtractResponse struct {
	Success        bool   `json:"success"`
	ArticleContent string `json:"articleContent,omitempty"`
	Title          string `json:"title,omitempty"`
	Error          string `json:"error,omitempty"`

	// ArticleHTML carries the accepted container markup for exports.
	ArticleHTML string `json:"articleHTML,omitempty"`
}

// NewExtractResponse converts the outcome of an extraction into its wire form.
func NewExtractResponse(article *Article, err error) *ExtractResponse {
	if err != nil {
		return &ExtractResponse{Error: ErrorMessage(err)}
	}
	return &ExtractResponse{
		Success:        true,
		ArticleContent: article.Content,
		Title:          article.Title,
		ArticleHTML:    article.ContentHTML,
	}
}

// Article converts the response back into an article.
// Unsuccessful responses return ENOCONTENT carrying the reported reason.
func (r *ExtractResponse) Article() (*Article, error) {
	if !r.Success {
		return nil, &Error{Code: ENOCONTENT, Message: r.Error}
	}
	return &Article{Title: r.Title, Content: r.ArticleContent, ContentHTML: r.ArticleHTML}, nil
}

// PageMessenger delivers messages to the receiver attached to a page.
type PageMessenger interface {
	// SendMessage asks the receiver for pageURL to handle msg.
	// Returns ENORECEIVER if no receiver could be reached for the page.
	// A reachable receiver that fails to extract reports it in the response.
	SendMessage(ctx context.Context, pageURL string, msg Message) (*ExtractResponse, error)
}
