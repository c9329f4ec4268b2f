package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lbreton/folio"
)

// Search looks up instruments by free-text query. The local catalog is
// consulted first; only a query the catalog cannot answer goes upstream
// to SYMBOL_SEARCH. An upstream failure falls back to the local result
// set (which at that point is empty) rather than surfacing an error.
// Empty and single-rune queries yield nothing.
func (c *Client) Search(ctx context.Context, query string) []folio.SearchResult {
	local := c.catalog.Search(query)
	if len(local) > 0 {
		return local
	}
	if len([]rune(strings.TrimSpace(query))) < 2 {
		return nil
	}

	results, err := c.searchUpstream(ctx, query)
	if err != nil {
		return local
	}
	return results
}

func (c *Client) searchUpstream(ctx context.Context, query string) ([]folio.SearchResult, error) {
	addr := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(c.apiKey))

	matches, err := c.breaker.Execute(func() (any, error) {
		var resp struct {
			BestMatches []map[string]string `json:"bestMatches"`
		}
		if err := jwget(ctx, c.searches, addr, &resp); err != nil {
			return nil, err
		}
		return resp.BestMatches, nil
	})
	if err != nil {
		return nil, err
	}

	// Alpha Vantage numbers its keys; see parseQuote.
	results := make([]folio.SearchResult, 0, len(matches.([]map[string]string)))
	for _, match := range matches.([]map[string]string) {
		results = append(results, folio.SearchResult{
			Symbol:   match["1. symbol"],
			Name:     match["2. name"],
			Kind:     match["3. type"],
			Exchange: match["4. region"],
		})
	}
	return results, nil
}
