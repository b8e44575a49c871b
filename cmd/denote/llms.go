package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/denote"
)

// Run executes the llms command.
func (c *LlmsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
		return err
	}

	var text string
	if c.Full {
		text = denote.FormatFullDocs(deps.Site.Config.Name, docs)
	} else {
		baseURL := c.BaseURL
		if baseURL == "" {
			baseURL = deps.Site.Config.SEO.URL
		}
		text = denote.FormatLlmsTxt(deps.Site, docs, strings.TrimSuffix(baseURL, "/"))
	}
	fmt.Fprint(deps.Stdout, text)

	if c.CountTokens {
		if deps.TokenCounter == nil {
			fmt.Fprintf(deps.Stderr, "~%d tokens (estimated)\n", denote.EstimateTokens(text))
			return nil
		}
		n, err := deps.TokenCounter.CountTokens(deps.Ctx, text)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "%d tokens\n", n)
	}
	return nil
}
