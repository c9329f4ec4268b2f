// Package cmd implements the CLI application around the portfolio
// tracker: serving the API, and one-shot instrument search and quote
// lookups.
package cmd

import "github.com/google/subcommands"

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&serveCmd{},
	&searchCmd{},
	&quoteCmd{},
}
