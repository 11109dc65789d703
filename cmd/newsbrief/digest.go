package main

import (
	"fmt"

	"github.com/fwojciec/newsbrief"
	"github.com/fwojciec/newsbrief/digest"
	"github.com/fwojciec/newsbrief/term"
)

// Run executes the digest command.
func (c *DigestCmd) Run(deps *Dependencies) error {
	var opts []term.Option
	if c.JSON {
		opts = append(opts, term.WithJSON())
	}
	renderer := term.NewRenderer(deps.Stdout, opts...)

	batch := &digest.Batch{
		Coordinator: &digest.Coordinator{
			Messenger:  deps.Messenger,
			Summarizer: deps.Summarizer,
			Related:    deps.Related,
			History:    deps.History,
			Writer:     deps.Writer,
			Logger:     deps.Logger,
		},
		RateLimiter:  deps.Limiter,
		ExpectedURLs: uint(len(c.URLs)),
	}

	res, err := batch.Run(deps.Ctx, c.URLs, renderer)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsbrief.ErrorMessage(err))
		return err
	}

	if res.Skipped > 0 {
		fmt.Fprintf(deps.Stderr, "skipped %d duplicate URL(s)\n", res.Skipped)
	}
	if res.Digested == 0 {
		return newsbrief.Errorf(newsbrief.ENOCONTENT, "no article could be digested")
	}
	return nil
}
