package fixed

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/govalues/decimal"
)

var ErrOutOfRange = errors.New("value out of decimal range")

// Point is an unsafe wrapper around decimal implementation. Caller must make sure the calculations
// are correct and will not result in an error state, otherwise it will panic
type Point struct {
	v decimal.Decimal
}

func FromInt(value int, scale int) Point {
	return Point{must(decimal.New(int64(value), scale))}
}

func FromInt64(value int64, scale int) Point {
	return Point{must(decimal.New(value, scale))}
}

func FromFloat64(value float64) Point {
	return Point{must(decimal.NewFromFloat64(value))}
}

// TryFromFloat64 is FromFloat64 for values that may be non-finite or too large.
func TryFromFloat64(value float64) (Point, error) {
	d, err := decimal.NewFromFloat64(value)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	return Point{d}, nil
}

// RoundFloat64 rounds the exact binary value of value to scale decimals, half to even on exact
// ties. FromFloat64(value).Rescale(scale) rounds the shortest decimal representation instead,
// so 2.675 gives 2.68 there and 2.67 here.
func RoundFloat64(value float64, scale int) (Point, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Point{}, fmt.Errorf("%w: %v", ErrOutOfRange, value)
	}
	d, err := decimal.Parse(strconv.FormatFloat(value, 'f', scale, 64))
	if err != nil {
		return Point{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	if d.Scale() != scale {
		return Point{}, fmt.Errorf("%w: %v does not fit %d decimals", ErrOutOfRange, value, scale)
	}
	return Point{d}, nil
}

// FromCents builds a two decimal point from an integer amount of hundredths.
func FromCents(cents int64) Point {
	return FromInt64(cents, 2)
}

func (p Point) String() string           { return p.v.String() }
func (p Point) Float64() (float64, bool) { return p.v.Float64() }

func (p Point) Abs() Point { return Point{p.v.Abs()} }
func (p Point) Neg() Point { return Point{p.v.Neg()} }

func (p Point) Add(o Point) Point { return Point{must(p.v.Add(o.v))} }
func (p Point) Sub(o Point) Point { return Point{must(p.v.Sub(o.v))} }
func (p Point) Mul(o Point) Point { return Point{must(p.v.Mul(o.v))} }
func (p Point) Div(o Point) Point { return Point{must(p.v.Quo(o.v))} }

func (p Point) CheckedAdd(o Point) (Point, error) { return checked(p.v.Add(o.v)) }
func (p Point) CheckedSub(o Point) (Point, error) { return checked(p.v.Sub(o.v)) }
func (p Point) CheckedMul(o Point) (Point, error) { return checked(p.v.Mul(o.v)) }
func (p Point) CheckedDiv(o Point) (Point, error) { return checked(p.v.Quo(o.v)) }

func (p Point) DivInt(o int) Point { return Point{must(p.v.Quo(decimal.MustNew(int64(o), 0)))} }

func (p Point) Eq(o Point) bool  { return p.v.Cmp(o.v) == 0 }
func (p Point) Gt(o Point) bool  { return p.v.Cmp(o.v) > 0 }
func (p Point) Lt(o Point) bool  { return p.v.Cmp(o.v) < 0 }
func (p Point) Gte(o Point) bool { return p.v.Cmp(o.v) >= 0 }
func (p Point) Lte(o Point) bool { return p.v.Cmp(o.v) <= 0 }

func (p Point) IsZero() bool { return p.v.IsZero() }
func (p Point) IsNeg() bool  { return p.v.IsNeg() }
func (p Point) Scale() int   { return p.v.Scale() }

// Rescale rounds half to even when the scale shrinks and pads with zeros when it grows.
func (p Point) Rescale(scale int) Point { return Point{p.v.Rescale(scale)} }

func (p Point) Sqrt() Point { return Point{must(p.v.Sqrt())} }

// Cents returns the value rounded to two decimals as an integer amount of hundredths.
func (p Point) Cents() int64 {
	r := p.v.Rescale(2)
	c := int64(r.Coef()) // #nosec G115
	if r.IsNeg() {
		return -c
	}
	return c
}

func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func checked(v decimal.Decimal, err error) (Point, error) {
	if err != nil {
		return Point{}, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	return Point{v}, nil
}

func must(v decimal.Decimal, err error) decimal.Decimal {
	if err == nil {
		// Return in the happy path
		return v
	}
	panic(err)
}
