package main

import (
	"fmt"

	"github.com/fwojciec/denote"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	resp, err := deps.Chat.HandleChat(deps.Ctx, &denote.ChatRequest{
		Messages: []denote.ChatMessage{{Role: denote.RoleUser, Content: c.Question}},
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, resp.Message.Content)
	if resp.Mode == denote.ModeAI && len(resp.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, src := range resp.Sources {
			fmt.Fprintf(deps.Stdout, "  - %s (%s)\n", src.Title, deps.Site.DocPath(src.Slug))
		}
	}
	return nil
}
