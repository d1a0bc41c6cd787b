package microcap

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// The whole book is denominated in US dollars.
const currency = "USD"

// Money represents a monetary value with exact decimal semantics.
// Arithmetic keeps full precision; rounding happens only when formatting.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// String returns the money formatted in the book currency, e.g. "$298.50".
func (m Money) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, currency).Currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// Fixed2 returns the bare value with exactly two decimals, e.g. "298.50".
// This is the form persisted in data files.
func (m Money) Fixed2() string { return m.value.StringFixed(2) }

// Fixed4 returns the bare value with exactly four decimals, e.g. "1.5000".
// Share prices are quoted this way in action messages.
func (m Money) Fixed4() string { return m.value.StringFixed(4) }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }

// MulShares returns the value of n shares at price m.
func (m Money) MulShares(n int64) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(n))}
}

// WholeShares returns how many whole shares the amount buys at the given
// price, truncating any fractional remainder.
func (m Money) WholeShares(price Money) int64 {
	return m.value.Div(price.value).Floor().IntPart()
}

// Deprecated: AsFloat should no longer be used, the purpose is to keep the calculation exact.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

// MarshalJSON writes the exact value as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}

// PctOf returns the change m as a percentage of the base value.
// A non-positive base yields 0.
func (m Money) PctOf(base Money) Percent {
	if !base.IsPositive() {
		return 0
	}
	return Percent(m.value.Div(base.value).InexactFloat64() * 100)
}
