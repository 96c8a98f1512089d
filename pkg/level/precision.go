package level

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultPlaces is the number of decimal places used when nothing else
	// is configured.
	DefaultPlaces int32 = 6

	// MaxPlaces bounds the configurable precision.
	MaxPlaces int32 = 18
)

// ErrInvalidPrecision is returned by [NewPrecision] for out-of-range places.
var ErrInvalidPrecision = errors.New("precision out of range")

// DefaultPrecision rounds to [DefaultPlaces] decimal places.
var DefaultPrecision = Precision{places: DefaultPlaces}

var two = decimal.NewFromInt(2)

// Precision is the explicit rounding context for function-value arithmetic.
// Results are rounded half away from zero to a fixed number of decimal places.
//
// The zero Precision rounds to whole numbers.
type Precision struct {
	places int32
}

// NewPrecision returns a Precision with the given number of decimal places.
func NewPrecision(places int32) (Precision, error) {
	if places < 0 || places > MaxPlaces {
		return Precision{}, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidPrecision, places, MaxPlaces)
	}
	return Precision{places: places}, nil
}

// MustPrecision is like [NewPrecision] but panics on error.
func MustPrecision(places int32) Precision {
	p, err := NewPrecision(places)
	if err != nil {
		panic(err)
	}
	return p
}

// Places returns the number of decimal places.
func (p Precision) Places() int32 { return p.places }

// Unit returns the smallest positive representable value, 10^-places.
func (p Precision) Unit() Value { return Value{d: decimal.New(1, -p.places)} }

// Round rounds v to p.
func (p Precision) Round(v Value) Value { return Value{d: v.d.Round(p.places)} }

// Conforms reports whether v is already representable at p.
func (p Precision) Conforms(v Value) bool { return v.d.Equal(v.d.Round(p.places)) }

// Of converts a float64, rounding to p.
func (p Precision) Of(f float64) Value {
	return Value{d: decimal.NewFromFloat(f).Round(p.places)}
}

// Int converts an integer.
func (p Precision) Int(i int64) Value { return Value{d: decimal.NewFromInt(i)} }

// Parse reads a decimal string ("0.1", "-3", "1e-2"), rounding to p.
func (p Precision) Parse(s string) (Value, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Value{}, fmt.Errorf("parse value %q: %w", s, err)
	}
	return Value{d: d.Round(p.places)}, nil
}

// MustParse is like [Precision.Parse] but panics on error. Intended for tests
// and literals.
func (p Precision) MustParse(s string) Value {
	v, err := p.Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Add returns a+b rounded to p.
func (p Precision) Add(a, b Value) Value { return Value{d: a.d.Add(b.d).Round(p.places)} }

// Sub returns a-b rounded to p.
func (p Precision) Sub(a, b Value) Value { return Value{d: a.d.Sub(b.d).Round(p.places)} }

// Mul returns a*b rounded to p.
func (p Precision) Mul(a, b Value) Value { return Value{d: a.d.Mul(b.d).Round(p.places)} }

// Half returns v/2 rounded to p. A value of one unit halves to one unit.
func (p Precision) Half(v Value) Value { return Value{d: v.d.DivRound(two, p.places)} }

// Mid returns (a+b)/2 rounded to p.
func (p Precision) Mid(a, b Value) Value { return Value{d: a.d.Add(b.d).DivRound(two, p.places)} }

// Scale returns v*num/den rounded to p. den must be non-zero.
func (p Precision) Scale(v Value, num, den int64) Value {
	return Value{d: v.d.Mul(decimal.NewFromInt(num)).DivRound(decimal.NewFromInt(den), p.places)}
}
