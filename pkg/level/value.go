// Package level provides the fixed-precision scalar used for Reeb graph
// function values.
//
// # Overview
//
// Smoothing repeatedly subtracts, halves and averages function values. Doing
// that in binary floating point produces spurious near-ties (0.1+0.2 != 0.3)
// that split what should be one critical level into two. Every function value
// is therefore a [Value]: a decimal number rounded to a fixed number of
// decimal places.
//
// There is no global rounding context. All arithmetic that can produce digits
// beyond the configured places goes through a [Precision], which callers
// thread explicitly into every operation:
//
//	p := level.DefaultPrecision
//	l, _ := p.Parse("0.1")
//	r, _ := p.Parse("0.3")
//	mid := p.Mid(l, r) // 0.2
//
// Inputs are expected to already conform to the precision they are smoothed
// with. [Precision.Of] and [Precision.Parse] round on the way in, so
// conforming is only a concern for values built directly from decimals.
package level

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Value is a function value attached to a Reeb graph node. The zero Value is 0.
type Value struct {
	d decimal.Decimal
}

// Zero is the zero function value.
var Zero = Value{}

// FromDecimal wraps a decimal without rounding it.
func FromDecimal(d decimal.Decimal) Value { return Value{d: d} }

// Decimal returns the underlying decimal.
func (v Value) Decimal() decimal.Decimal { return v.d }

// Cmp returns -1, 0 or +1 depending on whether v is less than, equal to, or
// greater than w.
func (v Value) Cmp(w Value) int { return v.d.Cmp(w.d) }

// Equal reports whether v and w denote the same number.
func (v Value) Equal(w Value) bool { return v.d.Equal(w.d) }

// Less reports whether v < w.
func (v Value) Less(w Value) bool { return v.d.LessThan(w.d) }

// Sign returns -1, 0 or +1.
func (v Value) Sign() int { return v.d.Sign() }

// IsZero reports whether v is 0.
func (v Value) IsZero() bool { return v.d.IsZero() }

// Abs returns |v|. It never needs rounding.
func (v Value) Abs() Value { return Value{d: v.d.Abs()} }

// Neg returns -v.
func (v Value) Neg() Value { return Value{d: v.d.Neg()} }

// Float64 returns the nearest float64. Use it for layout and display only.
func (v Value) Float64() float64 { return v.d.InexactFloat64() }

// String returns the shortest decimal representation ("0.1", "3").
func (v Value) String() string { return v.d.String() }

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) { return []byte(v.d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. The result is not
// rounded; pass it through [Precision.Round] before smoothing.
func (v *Value) UnmarshalText(b []byte) error {
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("parse value %q: %w", b, err)
	}
	v.d = d
	return nil
}

// Min returns the smaller of a and b.
func Min(a, b Value) Value {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Value) Value {
	if a.Less(b) {
		return b
	}
	return a
}

// Compare is [Value.Cmp] as a free function, for slices.SortFunc.
func Compare(a, b Value) int { return a.Cmp(b) }

// Format renders v with exactly places decimals ("0.100000").
func Format(v Value, places int32) string {
	return v.d.StringFixed(places)
}
