package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbreton/folio"
)

// testClient returns a client wired to the given test server, with the
// throttle and disk cache disabled and a pinned clock for the fallback.
func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient("test-key", folio.DefaultCatalog())
	c.baseURL = srv.URL
	c.quotes = srv.Client()
	c.searches = srv.Client()
	c.throttle = 0
	c.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func globalQuoteBody(symbol string, price float64) string {
	return fmt.Sprintf(`{"Global Quote": {"01. symbol": %q, "05. price": %q, "07. latest trading day": "2025-06-01"}}`,
		symbol, fmt.Sprintf("%.4f", price))
}

func TestFetchPrices_LiveQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		fmt.Fprint(w, globalQuoteBody(r.URL.Query().Get("symbol"), 187.31))
	}))
	defer srv.Close()

	prices := testClient(t, srv).FetchPrices(context.Background(), []string{"AAPL"})

	require.Contains(t, prices, "AAPL")
	assert.InDelta(t, 187.31, prices["AAPL"], 1e-9)
}

func TestFetchPrices_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	prices := c.FetchPrices(context.Background(), []string{"AAPL"})

	require.Contains(t, prices, "AAPL")
	assert.Equal(t, MockPrice("AAPL", c.now()), prices["AAPL"])
}

func TestFetchPrices_FallsBackOnRateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	prices := c.FetchPrices(context.Background(), []string{"MSFT"})

	require.Contains(t, prices, "MSFT")
	assert.Equal(t, MockPrice("MSFT", c.now()), prices["MSFT"])
}

func TestFetchPrices_PerSymbolIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "AAPL" {
			fmt.Fprint(w, globalQuoteBody("AAPL", 180.5))
			return
		}
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	prices := c.FetchPrices(context.Background(), []string{"AAPL", "MSFT", "TSLA"})

	// The broken symbols resolve to the fallback; the healthy one stays live.
	require.Len(t, prices, 3)
	assert.InDelta(t, 180.5, prices["AAPL"], 1e-9)
	assert.Equal(t, MockPrice("MSFT", c.now()), prices["MSFT"])
	assert.Equal(t, MockPrice("TSLA", c.now()), prices["TSLA"])
}

func TestFetchPrices_CancelledContextStillResolvesAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, globalQuoteBody(r.URL.Query().Get("symbol"), 100))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prices := c.FetchPrices(ctx, []string{"AAPL", "MSFT"})

	require.Len(t, prices, 2)
	assert.Equal(t, MockPrice("AAPL", c.now()), prices["AAPL"])
	assert.Equal(t, MockPrice("MSFT", c.now()), prices["MSFT"])
}

func TestParseQuote(t *testing.T) {
	testCases := []struct {
		name    string
		body    any
		want    float64
		wantErr error
	}{
		{
			name: "valid quote",
			body: map[string]any{"Global Quote": map[string]any{"05. price": "42.5000"}},
			want: 42.5,
		},
		{
			name:    "rate limit information",
			body:    map[string]any{"Information": "please subscribe"},
			wantErr: ErrRateLimited,
		},
		{
			name:    "empty quote object",
			body:    map[string]any{"Global Quote": map[string]any{}},
			wantErr: ErrNoQuote,
		},
		{
			name:    "unparsable price",
			body:    map[string]any{"Global Quote": map[string]any{"05. price": "n/a"}},
			wantErr: ErrNoQuote,
		},
		{
			name:    "non-positive price",
			body:    map[string]any{"Global Quote": map[string]any{"05. price": "0.0000"}},
			wantErr: ErrNoQuote,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := parseQuote(tc.body)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, price, 1e-9)
		})
	}
}

func TestMockPrice_Deterministic(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, MockPrice("BTC-EUR", at), MockPrice("BTC-EUR", at))
	assert.NotEqual(t, MockPrice("BTC-EUR", at), MockPrice("ETH-EUR", at))

	// Known symbols stay anchored to their base magnitude.
	assert.InDelta(t, 35000, MockPrice("BTC-EUR", at), 1000)
	// Unknown symbols still resolve to something positive.
	assert.Greater(t, MockPrice("ZZZZ.XX", at), 0.0)
}
