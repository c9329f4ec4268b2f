package folio

import "strings"

// Instrument is one entry of the tradable catalog: a free-form display
// name (the identifier used by transactions) and the distinct symbol
// used as key by the price source.
type Instrument struct {
	Name   string
	Symbol string
}

// Venue returns the trading venue, classified from the symbol's
// conventions: "-EUR" pairs are crypto, ".PA"/".AS"/".DE" suffixes are
// the named European exchanges, anything else trades on the US market.
func (i Instrument) Venue() string {
	switch {
	case strings.Contains(i.Symbol, "-EUR"):
		return "Crypto"
	case strings.HasSuffix(i.Symbol, ".PA"):
		return "Euronext Paris"
	case strings.HasSuffix(i.Symbol, ".AS"):
		return "Euronext Amsterdam"
	case strings.HasSuffix(i.Symbol, ".DE"):
		return "Deutsche Börse"
	default:
		return "US Market"
	}
}

// Kind returns the instrument class derived from the symbol.
func (i Instrument) Kind() string {
	if strings.Contains(i.Symbol, "-EUR") {
		return "CRYPTO"
	}
	return "EQUITY"
}

// SearchResult is one match returned by Catalog.Search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Kind     string `json:"type"`
}

// Catalog is the static table of known instruments. It is the single
// resolver from display names to price-source symbols; both the
// aggregation engine and any grouping logic go through it so the two
// never diverge.
type Catalog struct {
	instruments []Instrument
	byName      map[string]Instrument
}

// NewCatalog creates a catalog from the given instruments.
func NewCatalog(instruments ...Instrument) *Catalog {
	c := &Catalog{
		instruments: instruments,
		byName:      make(map[string]Instrument, len(instruments)),
	}
	for _, i := range instruments {
		c.byName[i.Name] = i
	}
	return c
}

// Resolve translates an instrument display name into its price-source
// symbol.
func (c *Catalog) Resolve(name string) (symbol string, ok bool) {
	i, ok := c.byName[name]
	return i.Symbol, ok
}

// Symbols returns the price-source symbols of the whole catalog, in
// catalog order. This is the set the price poller refreshes.
func (c *Catalog) Symbols() []string {
	out := make([]string, len(c.instruments))
	for i, ins := range c.instruments {
		out[i] = ins.Symbol
	}
	return out
}

// Instruments returns the catalog entries in catalog order.
func (c *Catalog) Instruments() []Instrument {
	out := make([]Instrument, len(c.instruments))
	copy(out, c.instruments)
	return out
}

// Search matches instruments case-insensitively: every whitespace
// separated token of the query must be a substring of the candidate's
// name or symbol. Empty and single-rune queries match nothing.
func (c *Catalog) Search(query string) []SearchResult {
	query = strings.TrimSpace(strings.ToLower(query))
	if len([]rune(query)) < 2 {
		return nil
	}
	tokens := strings.Fields(query)

	var results []SearchResult
	for _, ins := range c.instruments {
		name := strings.ToLower(ins.Name)
		symbol := strings.ToLower(ins.Symbol)
		match := true
		for _, tok := range tokens {
			if !strings.Contains(name, tok) && !strings.Contains(symbol, tok) {
				match = false
				break
			}
		}
		if match {
			results = append(results, SearchResult{
				Symbol:   ins.Symbol,
				Name:     ins.Name,
				Exchange: ins.Venue(),
				Kind:     ins.Kind(),
			})
		}
	}
	return results
}

// DefaultCatalog returns the built-in instrument universe: euro crypto
// pairs, US large caps, CAC 40 names and a few European index ETFs.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		// Crypto
		Instrument{Name: "Bitcoin", Symbol: "BTC-EUR"},
		Instrument{Name: "Ethereum", Symbol: "ETH-EUR"},
		Instrument{Name: "Ripple", Symbol: "XRP-EUR"},
		Instrument{Name: "Solana", Symbol: "SOL-EUR"},
		Instrument{Name: "Cardano", Symbol: "ADA-EUR"},
		Instrument{Name: "Polkadot", Symbol: "DOT-EUR"},
		Instrument{Name: "Polygon", Symbol: "MATIC-EUR"},

		// US tech
		Instrument{Name: "Apple", Symbol: "AAPL"},
		Instrument{Name: "Microsoft", Symbol: "MSFT"},
		Instrument{Name: "Alphabet", Symbol: "GOOGL"},
		Instrument{Name: "Amazon", Symbol: "AMZN"},
		Instrument{Name: "Meta Platforms", Symbol: "META"},
		Instrument{Name: "Nvidia", Symbol: "NVDA"},
		Instrument{Name: "Tesla", Symbol: "TSLA"},

		// CAC 40
		Instrument{Name: "Air Liquide", Symbol: "AI.PA"},
		Instrument{Name: "LVMH", Symbol: "MC.PA"},
		Instrument{Name: "L'Oréal", Symbol: "OR.PA"},
		Instrument{Name: "BNP Paribas Easy S&P 500", Symbol: "ESE.PA"},
		Instrument{Name: "BNP Paribas", Symbol: "BNP.PA"},
		Instrument{Name: "Sanofi", Symbol: "SAN.PA"},

		// ETFs
		Instrument{Name: "Amundi MSCI World", Symbol: "CW8.PA"},
		Instrument{Name: "Amundi S&P 500", Symbol: "500.PA"},
		Instrument{Name: "Lyxor S&P 500", Symbol: "EP500.PA"},
		Instrument{Name: "Lyxor MSCI World", Symbol: "EWRD.PA"},
		Instrument{Name: "iShares Core MSCI World", Symbol: "IWDA.AS"},
		Instrument{Name: "Vanguard FTSE All-World", Symbol: "VWCE.DE"},
		Instrument{Name: "Lyxor PEA S&P 500", Symbol: "ESP0.PA"},
		Instrument{Name: "iShares Core S&P 500", Symbol: "CSPX.AS"},
		Instrument{Name: "Vanguard S&P 500", Symbol: "VUSA.AS"},
	)
}
