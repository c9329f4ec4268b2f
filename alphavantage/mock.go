package alphavantage

import (
	"math"
	"time"
)

// mockBases holds the synthetic base price and wobble scale for the
// default catalog's symbols, roughly anchored to real magnitudes so the
// fallback reads plausibly next to live quotes.
var mockBases = map[string]struct{ base, scale float64 }{
	// Crypto
	"BTC-EUR":   {35000, 100},
	"ETH-EUR":   {2000, 10},
	"XRP-EUR":   {0.5, 0.01},
	"SOL-EUR":   {80, 1},
	"ADA-EUR":   {0.4, 0.01},
	"DOT-EUR":   {6, 0.1},
	"MATIC-EUR": {0.8, 0.01},

	// US tech
	"AAPL":  {180, 1},
	"MSFT":  {350, 1},
	"GOOGL": {140, 1},
	"AMZN":  {170, 1},
	"META":  {450, 1},
	"NVDA":  {780, 1},
	"TSLA":  {180, 1},

	// CAC 40
	"AI.PA":  {160, 1},
	"MC.PA":  {780, 1},
	"OR.PA":  {420, 1},
	"ESE.PA": {174, 1},
	"BNP.PA": {62, 1},
	"SAN.PA": {87, 1},

	// ETFs
	"CW8.PA":   {420, 1},
	"500.PA":   {78, 1},
	"EP500.PA": {15, 1},
	"EWRD.PA":  {280, 1},
	"IWDA.AS":  {75, 1},
	"VWCE.DE":  {98, 1},
	"ESP0.PA":  {42, 1},
	"CSPX.AS":  {460, 1},
	"VUSA.AS":  {82, 1},
}

// MockPrice returns the deterministic synthetic price for a symbol at a
// given moment: a fixed per-symbol base plus a slow sinusoidal wobble,
// so successive polls move a little without ever going negative. A
// symbol outside the table derives its base from the symbol's bytes.
// Same symbol, same instant: same price.
func MockPrice(symbol string, at time.Time) float64 {
	variation := math.Sin(float64(at.UnixMilli())/10000) * 10

	if m, ok := mockBases[symbol]; ok {
		return m.base + variation*m.scale
	}

	var sum int
	for _, b := range []byte(symbol) {
		sum += int(b)
	}
	return float64(sum%100) + 20 + variation
}
