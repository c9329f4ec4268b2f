package folio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ReportingCurrency is the single currency all prices and values are
// expressed in. There is no conversion layer: the price source already
// quotes in this currency.
const ReportingCurrency = "EUR"

// Money is a monetary value in the reporting currency.
type Money struct {
	value decimal.Decimal
}

func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func (m Money) Add(n Money) Money    { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money    { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money { return Money{value: m.value.Div(q.value)} }
func (m Money) Equal(n Money) bool   { return m.value.Equal(n.value) }
func (m Money) IsZero() bool         { return m.value.IsZero() }
func (m Money) IsPositive() bool     { return m.value.IsPositive() }
func (m Money) Float64() float64     { return m.value.InexactFloat64() }

// PctOver returns the relative change of m over the base n, in percent.
// It is 0 when the base is 0, so an empty cost basis never divides by zero.
func (m Money) PctOver(n Money) Percent {
	if n.IsZero() {
		return 0
	}
	pct := m.value.Sub(n.value).Div(n.value).Mul(decimal.NewFromInt(100))
	return Percent(pct.InexactFloat64())
}

// String formats the value with the reporting currency's formatter,
// e.g. "€1,234.56".
func (m Money) String() string {
	cur := money.GetCurrency(ReportingCurrency)
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// MarshalJSON implements the json.Marshaler interface. The value is a
// plain JSON number: the currency is implied by the reporting currency.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
