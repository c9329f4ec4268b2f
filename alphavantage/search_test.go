package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbreton/folio"
)

func TestSearch_LocalCatalogFirst(t *testing.T) {
	var upstreamCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		fmt.Fprint(w, `{"bestMatches": []}`)
	}))
	defer srv.Close()

	results := testClient(t, srv).Search(context.Background(), "bitcoin")

	require.Len(t, results, 1)
	assert.Equal(t, "BTC-EUR", results[0].Symbol)
	assert.Equal(t, int32(0), upstreamCalls.Load(), "a local hit must not go upstream")
}

func TestSearch_UpstreamWhenLocalMisses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		assert.Equal(t, "berkshire", r.URL.Query().Get("keywords"))
		fmt.Fprint(w, `{"bestMatches": [
			{"1. symbol": "BRK.B", "2. name": "Berkshire Hathaway Inc.", "3. type": "Equity", "4. region": "United States"}
		]}`)
	}))
	defer srv.Close()

	results := testClient(t, srv).Search(context.Background(), "berkshire")

	require.Len(t, results, 1)
	assert.Equal(t, folio.SearchResult{
		Symbol:   "BRK.B",
		Name:     "Berkshire Hathaway Inc.",
		Kind:     "Equity",
		Exchange: "United States",
	}, results[0])
}

func TestSearch_UpstreamFailureYieldsLocalResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	results := testClient(t, srv).Search(context.Background(), "berkshire")

	assert.Empty(t, results)
}

func TestSearch_ShortQueriesYieldNothing(t *testing.T) {
	var upstreamCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	assert.Empty(t, c.Search(context.Background(), ""))
	assert.Empty(t, c.Search(context.Background(), "a"))
	assert.Equal(t, int32(0), upstreamCalls.Load())
}
