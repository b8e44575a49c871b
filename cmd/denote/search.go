package main

import (
	"fmt"

	"github.com/fwojciec/denote"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	index, err := deps.Index.BuildSearchIndex(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
		return err
	}

	if c.Ranked {
		results := denote.Rank(index, c.Query)
		if len(results) == 0 {
			fmt.Fprintf(deps.Stdout, "No results found for %q\n", c.Query)
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(deps.Stdout, "%3d  %s  %s\n", r.Score, r.Title, deps.Site.DocPath(r.Slug))
		}
		return nil
	}

	results := denote.Search(index, c.Query)
	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results found for %q\n", c.Query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", r.Title, deps.Site.DocPath(r.Slug))
		fmt.Fprintf(deps.Stdout, "     %s\n", denote.Truncate(denote.Snippet(r.Excerpt, c.Query), 160))
	}
	return nil
}
