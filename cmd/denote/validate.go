package main

import (
	"fmt"

	"github.com/fwojciec/denote"
)

// Run executes the validate command. It fails when any issue is an error.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documents.FindDocuments(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", denote.ErrorMessage(err))
		return err
	}

	issues := denote.Validate(deps.Site, docs)
	errs := 0
	for _, issue := range issues {
		fmt.Fprintf(deps.Stdout, "%s: %s\n", issue.Severity, issue.Message)
		if issue.Severity == denote.SeverityError {
			errs++
		}
	}

	if errs > 0 {
		return denote.Errorf(denote.EINVALID, "validation failed with %d error(s)", errs)
	}
	fmt.Fprintf(deps.Stdout, "OK: %d documents, %d warning(s)\n", len(docs), len(issues))
	return nil
}
