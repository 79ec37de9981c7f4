// Package triangle classifies triangles from three loosely typed side lengths.
//
// Side values may be Go numbers, numeric strings, or anything else. Each side
// is validated twice: the raw value must coerce to a number as a whole, and
// its leading numeric prefix must parse to a positive number. A side failing
// either check makes the call return InvalidArgs. Classification never fails;
// rejection is reported through the returned Label.
//
// Shape comparisons use exact float64 equality.
package triangle

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotNumeric reports a side that does not coerce to a number.
	ErrNotNumeric = errors.New("not a number")
	// ErrNonPositive reports a side that is zero or negative.
	ErrNonPositive = errors.New("not a positive number")
)

// SideNames are the positional names of the three sides.
var SideNames = [3]string{"a", "b", "c"}

// SideError describes why a single side was rejected.
type SideError struct {
	Side  string // "a", "b", "c", or empty when parsed on its own
	Value any
	Err   error
}

func (e *SideError) Error() string {
	if e.Side == "" {
		return fmt.Sprintf("triangle: %#v: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("triangle: side %s (%#v): %v", e.Side, e.Value, e.Err)
}

func (e *SideError) Unwrap() error { return e.Err }

// ParseSide converts a raw side value into a positive length.
//
// The raw value is checked for being numeric before its parsed value is
// checked for positivity, so a value failing both reports ErrNotNumeric.
func ParseSide(v any) (float64, error) {
	strict, loose := coerce(v)
	if math.IsNaN(strict) || math.IsNaN(loose) {
		return 0, &SideError{Value: v, Err: ErrNotNumeric}
	}
	if loose <= 0 {
		return 0, &SideError{Value: v, Err: ErrNonPositive}
	}
	return loose, nil
}

// Verdict is the outcome of Evaluate.
type Verdict struct {
	Label Label
	// Sides holds the parsed lengths. It is only meaningful when Err is nil.
	Sides [3]float64
	// Err is the first side rejection, in a, b, c order.
	Err error
}

// Evaluate parses and classifies the three sides.
func Evaluate(a, b, c any) Verdict {
	var v Verdict
	for i, raw := range [3]any{a, b, c} {
		side, err := ParseSide(raw)
		if err != nil {
			var se *SideError
			if errors.As(err, &se) {
				se.Side = SideNames[i]
			}
			v.Err = err
			v.Label = InvalidArgs
			return v
		}
		v.Sides[i] = side
	}
	v.Label = ClassifySides(v.Sides[0], v.Sides[1], v.Sides[2])
	return v
}

// Classify returns the label for three raw side values.
func Classify(a, b, c any) Label {
	return Evaluate(a, b, c).Label
}

// ClassifySides returns the label for three parsed lengths. Non-positive or
// NaN lengths yield InvalidArgs.
func ClassifySides(a, b, c float64) Label {
	if !(a > 0) || !(b > 0) || !(c > 0) {
		return InvalidArgs
	}
	if b+c <= a || a+c <= b || a+b <= c {
		return NotATriangle
	}
	switch {
	case a == b && b == c:
		return Equilateral
	case a == b || a == c || b == c:
		return Isosceles
	default:
		return Scalene
	}
}

// ViolatingSide returns the index of the side that is not shorter than the sum
// of the other two, or -1 when the triangle inequality holds.
func ViolatingSide(a, b, c float64) int {
	switch {
	case b+c <= a:
		return 0
	case a+c <= b:
		return 1
	case a+b <= c:
		return 2
	}
	return -1
}
