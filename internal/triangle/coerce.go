package triangle

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// maxIndirect bounds how many pointers or interfaces coerce follows.
const maxIndirect = 8

var (
	// wholeDecimal matches a complete unsigned-or-signed decimal literal.
	wholeDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

	// leadingDecimal matches the longest decimal prefix accepted by loose parsing.
	leadingDecimal = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
)

// coerce converts v twice: strictly, where the whole value must be numeric,
// and loosely, where only a leading numeric prefix is required. Either
// result may be NaN.
func coerce(v any) (strict, loose float64) {
	switch x := v.(type) {
	case nil:
		return 0, math.NaN()
	case bool:
		if x {
			return 1, math.NaN()
		}
		return 0, math.NaN()
	case string:
		return strictString(x), looseString(x)
	case json.Number:
		return strictString(string(x)), looseString(string(x))
	case float64:
		return x, x
	case float32:
		return float64(x), float64(x)
	case int:
		return float64(x), float64(x)
	case int64:
		return float64(x), float64(x)
	case int32:
		return float64(x), float64(x)
	case uint:
		return float64(x), float64(x)
	case uint64:
		return float64(x), float64(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f := float64(rv.Int())
		return f, f
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f := float64(rv.Uint())
		return f, f
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, f
	case reflect.String:
		return strictString(rv.String()), looseString(rv.String())
	case reflect.Bool:
		return coerce(rv.Bool())
	case reflect.Pointer, reflect.Interface:
		for depth := 0; depth < maxIndirect; depth++ {
			if rv.IsNil() {
				return math.NaN(), math.NaN()
			}
			rv = rv.Elem()
			if k := rv.Kind(); k != reflect.Pointer && k != reflect.Interface {
				return coerce(rv.Interface())
			}
		}
		// Too deep, or a pointer cycle.
		return math.NaN(), math.NaN()
	}

	if s, ok := v.(fmt.Stringer); ok {
		text := s.String()
		return strictString(text), looseString(text)
	}
	return math.NaN(), math.NaN()
}

// strictString accepts a string only when, after trimming whitespace, the
// whole of it is a numeric literal. The empty string is zero.
func strictString(s string) float64 {
	s = strings.TrimFunc(s, isSpace)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		if base := radix(s[1]); base != 0 {
			return integerLiteral(s[2:], base)
		}
	}
	if !wholeDecimal.MatchString(s) {
		return math.NaN()
	}
	return parseDecimal(s)
}

// looseString parses the longest decimal prefix after leading whitespace.
func looseString(s string) float64 {
	s = strings.TrimLeftFunc(s, isSpace)
	m := leadingDecimal.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if m[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return parseDecimal(m)
}

func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals still carry ±Inf or 0 from ParseFloat.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func radix(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

// integerLiteral accumulates digits in float64 so that literals wider than
// 64 bits round instead of failing.
func integerLiteral(digits string, base int) float64 {
	if digits == "" {
		return math.NaN()
	}
	var f float64
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d < 0 || d >= base {
			return math.NaN()
		}
		f = f*float64(base) + float64(d)
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
