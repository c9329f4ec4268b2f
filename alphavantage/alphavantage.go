// Package alphavantage implements the market price source on top of the
// Alpha Vantage HTTP API (GLOBAL_QUOTE and SYMBOL_SEARCH).
//
// The client is best-effort by contract: fetching prices for a set of
// symbols always yields a complete price map. A symbol whose upstream
// quote fails in any way (network, rate limit, unparsable body) falls
// back to a deterministic synthetic price instead of being dropped, so
// one bad symbol never blocks the others and the caller never sees an
// error. A circuit breaker short-circuits a dead upstream straight to
// the fallback instead of burning the rate limit on every poll.
package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/sony/gobreaker"

	"github.com/lbreton/folio"
)

const defaultBaseURL = "https://www.alphavantage.co"

var (
	// ErrRateLimited reports that Alpha Vantage answered with a rate
	// limit note instead of a quote.
	ErrRateLimited = errors.New("alphavantage: rate limited")
	// ErrNoQuote reports a well-formed response that carries no usable
	// price (unknown symbol, empty quote object).
	ErrNoQuote = errors.New("alphavantage: no quote in response")
)

// Client fetches quotes and searches instruments. The zero value is not
// usable; call NewClient.
type Client struct {
	apiKey  string
	baseURL string
	catalog *folio.Catalog

	quotes   *http.Client // quote polling, uncached
	searches *http.Client // search, behind the daily disk cache
	breaker  *gobreaker.CircuitBreaker

	throttle time.Duration    // pause between per-symbol quote calls
	now      func() time.Time // seeds the synthetic fallback
}

// NewClient creates a client. The catalog backs the local-first search;
// an empty apiKey is accepted (Alpha Vantage's "demo" tier) and simply
// makes the fallback path more likely.
func NewClient(apiKey string, catalog *folio.Catalog) *Client {
	settings := gobreaker.Settings{
		Name:    "alphavantage",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		catalog:  catalog,
		quotes:   &http.Client{Timeout: 8 * time.Second},
		searches: newDailyCachingClient(),
		breaker:  gobreaker.NewCircuitBreaker(settings),
		throttle: 200 * time.Millisecond,
		now:      time.Now,
	}
}

// FetchPrices returns the last known price for every requested symbol,
// in the reporting currency. The returned map always holds an entry per
// symbol: upstream failures degrade per symbol to the deterministic
// synthetic price. It never returns an error.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) folio.Prices {
	prices := make(folio.Prices, len(symbols))
	for i, symbol := range symbols {
		if i > 0 {
			c.pause(ctx)
		}
		if ctx.Err() != nil {
			// Cancelled mid-batch: the remaining symbols still resolve.
			prices[symbol] = MockPrice(symbol, c.now())
			continue
		}
		price, err := c.quote(ctx, symbol)
		if err != nil {
			price = MockPrice(symbol, c.now())
		}
		prices[symbol] = price
	}
	return prices
}

// quote fetches a single GLOBAL_QUOTE through the circuit breaker.
func (c *Client) quote(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	price, err := c.breaker.Execute(func() (any, error) {
		var jobj any
		if err := jwget(ctx, c.quotes, addr, &jobj); err != nil {
			return nil, err
		}
		return parseQuote(jobj)
	})
	if err != nil {
		return 0, err
	}
	return price.(float64), nil
}

// parseQuote extracts the price from a GLOBAL_QUOTE response body.
// Alpha Vantage numbers quoted keys ("05. price") and smuggles rate
// limit notices into otherwise well-formed bodies, hence jsonpath
// rather than a struct decode.
func parseQuote(jobj any) (float64, error) {
	if m, ok := jobj.(map[string]any); ok {
		if _, found := m["Note"]; found {
			return 0, ErrRateLimited
		}
		if _, found := m["Information"]; found {
			return 0, ErrRateLimited
		}
	}

	jval, err := jsonpath.Get(`$["Global Quote"]["05. price"]`, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoQuote, err)
	}
	s, ok := jval.(string)
	if !ok {
		return 0, ErrNoQuote
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price <= 0 {
		return 0, ErrNoQuote
	}
	return price, nil
}

// pause sleeps the inter-quote throttle, unless the context ends first.
func (c *Client) pause(ctx context.Context) {
	if c.throttle <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.throttle):
	}
}
