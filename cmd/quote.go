package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/lbreton/folio"
	"github.com/lbreton/folio/alphavantage"
)

type quoteCmd struct {
	apiKey string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetch current prices for symbols" }
func (*quoteCmd) Usage() string {
	return `mp quote [-k <api-key>] <symbol>...

  Fetches the last known price for each symbol, in the reporting
  currency. A symbol the provider cannot quote resolves to a synthetic
  fallback price rather than an error.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiKey, "k", "demo", "Alpha Vantage API key")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := f.Args()
	if len(symbols) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	client := alphavantage.NewClient(c.apiKey, folio.DefaultCatalog())
	prices := client.FetchPrices(ctx, symbols)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, symbol := range symbols {
		fmt.Fprintf(w, "%s\t%s\n", symbol, folio.M(prices[symbol]))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
