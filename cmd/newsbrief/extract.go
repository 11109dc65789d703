package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/term"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	resp, err := deps.Messenger.SendMessage(deps.Ctx, c.URL, newsbrief.Message{Action: newsbrief.ActionExtractArticle})
	if err != nil {
		fmt.Fprintln(deps.Stderr, term.ExtractionError(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	article, err := resp.Article()
	if err != nil {
		fmt.Fprintln(deps.Stderr, term.ExtractionError(err))
		return err
	}

	body := article.Content
	if c.Markdown && article.ContentHTML != "" {
		md, err := deps.Converter.Convert(article.ContentHTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsbrief.ErrorMessage(err))
			return err
		}
		body = md
	}

	fmt.Fprintf(deps.Stdout, "# %s\n\n%s\n", article.Title, body)
	return nil
}
