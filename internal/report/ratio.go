// Package report aggregates expense and income records into summaries:
// category totals, budget consumption, monthly trends and financial health.
//
// Every function here is pure. Callers fetch records from the store and hand
// them in; nothing in this package touches I/O.
package report

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Ratio is a quotient whose denominator may have been zero.
// An undefined Ratio serializes as JSON null.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined returns the ratio used when the denominator is zero.
func Undefined() Ratio {
	return Ratio{}
}

// Percent returns part/whole*100 rounded to two decimals.
func Percent(part, whole decimal.Decimal) Ratio {
	if whole.IsZero() {
		return Undefined()
	}
	return Ratio{
		Value:   part.Mul(hundred).Div(whole).Round(2).InexactFloat64(),
		Defined: true,
	}
}

// String renders the ratio as a percentage or "n/a".
func (r Ratio) String() string {
	if !r.Defined {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64) + "%"
}

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}
