package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/newsbrief"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.Delete != "" {
		if err := deps.History.DeleteDigest(deps.Ctx, c.Delete); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", newsbrief.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted digest %s\n", c.Delete)
		return nil
	}

	filter := newsbrief.DigestFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	recs, err := deps.History.FindDigests(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsbrief.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No digests recorded. Use 'newsbrief digest --history <url>' to record one.")
		return nil
	}

	for _, rec := range recs {
		title := rec.Title
		if title == "" {
			title = rec.URL
		}
		fmt.Fprintf(deps.Stdout, "%s  [%s] %s\n", rec.CreatedAt.Format("2006-01-02 15:04"), strings.ToLower(rec.Sentiment), title)
		fmt.Fprintf(deps.Stdout, "    id: %s\n    %s\n    %s\n", rec.ID, rec.URL, rec.Summary)
	}
	return nil
}
