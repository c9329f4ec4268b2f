package folio

import (
	"encoding/json"
	"sort"
)

// Prices maps a price-source symbol to its last known price in the
// reporting currency. A missing key means the price is unknown, which
// is not the same as an explicit zero; Aggregate substitutes 0 for
// missing keys, so callers that care about the difference must consult
// the map itself.
type Prices map[string]float64

// Position is the current open holding in one instrument, derived from
// the transaction history. It only ever appears in a Snapshot with a
// strictly positive quantity.
type Position struct {
	Instrument   string
	Quantity     Quantity
	AverageCost  Money // weighted-average purchase price per unit
	CurrentPrice Money // 0 when the symbol is absent from the price map
}

// MarketValue returns quantity times current price.
func (p Position) MarketValue() Money {
	return p.CurrentPrice.Mul(p.Quantity)
}

// UnrealizedPct returns the percent change of the current price over
// the average cost.
func (p Position) UnrealizedPct() Percent {
	return p.CurrentPrice.PctOver(p.AverageCost)
}

// MarshalJSON implements the json.Marshaler interface.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name          string   `json:"name"`
		Quantity      Quantity `json:"quantity"`
		AveragePrice  Money    `json:"averagePrice"`
		CurrentPrice  Money    `json:"currentPrice"`
		MarketValue   Money    `json:"marketValue"`
		UnrealizedPct float64  `json:"unrealizedPct"`
	}{
		Name:          p.Instrument,
		Quantity:      p.Quantity,
		AveragePrice:  p.AverageCost,
		CurrentPrice:  p.CurrentPrice,
		MarketValue:   p.MarketValue(),
		UnrealizedPct: float64(p.UnrealizedPct()),
	})
}

// Snapshot is the complete recomputed portfolio state produced by one
// Aggregate call: open positions, the transactions they derive from,
// and the portfolio totals.
type Snapshot struct {
	Positions        []Position
	Transactions     []Transaction
	TotalValue       Money
	TotalPerformance Percent
}

// Position returns the open position for the named instrument.
func (s *Snapshot) Position(instrument string) (Position, bool) {
	for _, p := range s.Positions {
		if p.Instrument == instrument {
			return p, true
		}
	}
	return Position{}, false
}

// MarshalJSON implements the json.Marshaler interface.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	txs := s.Transactions
	if txs == nil {
		txs = []Transaction{}
	}
	positions := s.Positions
	if positions == nil {
		positions = []Position{}
	}
	return json.Marshal(struct {
		Assets       []Position    `json:"assets"`
		Transactions []Transaction `json:"transactions"`
		TotalValue   Money         `json:"totalValue"`
		Performance  float64       `json:"performance"`
	}{
		Assets:       positions,
		Transactions: txs,
		TotalValue:   s.TotalValue,
		Performance:  float64(s.TotalPerformance),
	})
}

// Aggregate folds a transaction list and a price map into a portfolio
// snapshot. It is a pure function: no I/O, no state carried between
// invocations, identical inputs produce identical output.
//
// Transactions must be supplied in chronological order (the Ledger
// guarantees this); the result is order-sensitive because a buy
// reweights the average cost with whatever quantity is already open.
// The fold per transaction:
//
//   - Buy: the running average cost becomes the quantity-weighted mean
//     of the open cost basis and the new lot.
//   - Sell: the quantity shrinks, the average cost stays. Realized
//     gains are not tracked, only the open-position cost basis.
//   - A running position whose quantity drops to zero or below is
//     removed outright, cost basis included. A later buy of the same
//     instrument starts a fresh average from zero.
//
// Surviving positions resolve their current price by symbol through the
// catalog; an unresolvable name or a symbol missing from the price map
// yields a price of 0.
//
// Aggregate does not re-validate its input: the Ledger's entry contract
// (quantity and unit price strictly positive) is assumed to hold.
func Aggregate(transactions []Transaction, prices Prices, catalog *Catalog) *Snapshot {
	running := make(map[string]Position)

	for _, tx := range transactions {
		pos := running[tx.Instrument] // zero Position if absent
		pos.Instrument = tx.Instrument

		switch tx.Kind {
		case Buy:
			newQuantity := pos.Quantity.Add(tx.Quantity)
			openCost := pos.AverageCost.Mul(pos.Quantity)
			newCost := openCost.Add(tx.UnitPrice.Mul(tx.Quantity))
			pos.AverageCost = newCost.Div(newQuantity)
			pos.Quantity = newQuantity
		case Sell:
			pos.Quantity = pos.Quantity.Sub(tx.Quantity)
		}

		if pos.Quantity.IsPositive() {
			running[tx.Instrument] = pos
		} else {
			delete(running, tx.Instrument)
		}
	}

	positions := make([]Position, 0, len(running))
	for _, pos := range running {
		if symbol, ok := catalog.Resolve(pos.Instrument); ok {
			pos.CurrentPrice = M(prices[symbol])
		}
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Instrument < positions[j].Instrument
	})

	totalValue := M(0)
	totalCost := M(0)
	for _, pos := range positions {
		totalValue = totalValue.Add(pos.MarketValue())
		totalCost = totalCost.Add(pos.AverageCost.Mul(pos.Quantity))
	}

	return &Snapshot{
		Positions:        positions,
		Transactions:     transactions,
		TotalValue:       totalValue,
		TotalPerformance: totalValue.PctOver(totalCost),
	}
}
