package main

import (
	"fmt"

	"github.com/fwojciec/denote"
	"github.com/fwojciec/denote/mcp"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if c.HTML {
		rd, err := deps.Renders.FindRenderedDocument(deps.Ctx, c.Slug)
		if err != nil {
			return c.fail(deps, err)
		}
		fmt.Fprintln(deps.Stdout, rd.HTML)
		return nil
	}

	doc, err := deps.Documents.FindDocument(deps.Ctx, c.Slug)
	if err != nil {
		return c.fail(deps, err)
	}
	fmt.Fprintln(deps.Stdout, mcp.FormatDocument(doc))
	return nil
}

func (c *ShowCmd) fail(deps *Dependencies, err error) error {
	if denote.ErrorCode(err) == denote.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: document %q not found. Use 'denote search' to find pages.\n", c.Slug)
	} else {
		fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
	}
	return err
}
