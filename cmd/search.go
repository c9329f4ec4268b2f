package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/lbreton/folio"
	"github.com/lbreton/folio/alphavantage"
)

type searchCmd struct {
	apiKey string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search instruments by name or symbol" }
func (*searchCmd) Usage() string {
	return `mp search [-k <api-key>] <query>...

  Searches the built-in catalog first; a query the catalog cannot answer
  goes to the Alpha Vantage symbol search.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiKey, "k", "demo", "Alpha Vantage API key")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if strings.TrimSpace(query) == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	client := alphavantage.NewClient(c.apiKey, folio.DefaultCatalog())
	results := client.Search(ctx, query)
	if len(results) == 0 {
		fmt.Printf("no instruments match %q\n", query)
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tNAME\tEXCHANGE\tTYPE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Symbol, r.Name, r.Exchange, r.Kind)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
