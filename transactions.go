package folio

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TradeKind identifies the direction of a trade.
type TradeKind string

const (
	Buy  TradeKind = "buy"
	Sell TradeKind = "sell"
)

// ParseTradeKind parses a string into a TradeKind.
func ParseTradeKind(s string) (TradeKind, error) {
	switch TradeKind(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown trade kind: %q", s)
	}
}

// Transaction is an immutable record of one trade. The ID is assigned
// at creation and never reused; an update replaces every other field.
type Transaction struct {
	ID         uuid.UUID
	Kind       TradeKind
	Instrument string // catalog display name, not a ticker symbol
	Quantity   Quantity
	UnitPrice  Money // price per unit at trade time
	TradeDate  time.Time
}

// NewBuy records the purchase of quantity units of an instrument.
func NewBuy(day time.Time, instrument string, quantity, unitPrice float64) Transaction {
	return Transaction{
		ID:         uuid.New(),
		Kind:       Buy,
		Instrument: instrument,
		Quantity:   Q(quantity),
		UnitPrice:  M(unitPrice),
		TradeDate:  day,
	}
}

// NewSell records the sale of quantity units of an instrument.
func NewSell(day time.Time, instrument string, quantity, unitPrice float64) Transaction {
	return Transaction{
		ID:         uuid.New(),
		Kind:       Sell,
		Instrument: instrument,
		Quantity:   Q(quantity),
		UnitPrice:  M(unitPrice),
		TradeDate:  day,
	}
}

// Validate checks the transaction against the ledger's entry contract:
// a known kind, a named instrument, and strictly positive quantity and
// unit price. The aggregation engine relies on this holding for every
// transaction it sees, so the check happens here, at the boundary.
func (t Transaction) Validate() error {
	if _, err := ParseTradeKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Instrument == "" {
		return errors.New("instrument name is missing")
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("quantity must be positive, got %s", t.Quantity)
	}
	if !t.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be positive, got %s", t.UnitPrice)
	}
	return nil
}

// Equal reports whether two transactions are identical, field by field.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Kind == o.Kind &&
		t.Instrument == o.Instrument &&
		t.Quantity.Equal(o.Quantity) &&
		t.UnitPrice.Equal(o.UnitPrice) &&
		t.TradeDate.Equal(o.TradeDate)
}

// jsonTransaction is the wire shape consumed and produced by the API.
type jsonTransaction struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Asset    string    `json:"asset"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"`
	Date     time.Time `json:"date"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonTransaction{
		ID:       t.ID,
		Type:     string(t.Kind),
		Asset:    t.Instrument,
		Quantity: t.Quantity,
		Price:    t.UnitPrice,
		Date:     t.TradeDate,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j jsonTransaction
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	kind, err := ParseTradeKind(j.Type)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:         j.ID,
		Kind:       kind,
		Instrument: j.Asset,
		Quantity:   j.Quantity,
		UnitPrice:  j.Price,
		TradeDate:  j.Date,
	}
	return nil
}
