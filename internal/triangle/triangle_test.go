package triangle

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meters float64

type textSide struct{ text string }

func (s textSide) String() string { return s.text }

func TestClassify(t *testing.T) {
	var cycle any
	cycle = &cycle
	deep := ptr(ptr(ptr(ptr(ptr(ptr(ptr(ptr(ptr(5.0)))))))))

	tests := []struct {
		name    string
		a, b, c any
		want    Label
	}{
		{"sides are not numbers", "A", "B", "C", InvalidArgs},
		{"first side negative", -1, 0, 0, InvalidArgs},
		{"second side negative", 1, -2, 0, InvalidArgs},
		{"third side negative", 1, 1, -2, InvalidArgs},
		{"first side too long", 5, 2, 2, NotATriangle},
		{"second side too long", 1, 8, 6, NotATriangle},
		{"third side too long", 1, 2, 6, NotATriangle},
		{"degenerate", 1, 2, 3, NotATriangle},
		{"all equal", "2", "2", "2", Equilateral},
		{"first and second equal", "2", "2", "3", Isosceles},
		{"first and third equal", "3", "5", "3", Isosceles},
		{"second and third equal", "4", "5", "5", Isosceles},
		{"all different", "4", "6", "5", Scalene},
		{"numbers scalene", 3, 4, 5, Scalene},
		{"mixed types", "2.0", 2, float32(2), Equilateral},
		{"trailing garbage", "2abc", "2", "2", InvalidArgs},
		{"padded strings", " 3 ", "\t4\n", "5", Scalene},
		{"empty string", "", 1, 1, InvalidArgs},
		{"nil side", nil, 1, 1, InvalidArgs},
		{"bool side", true, 1, 1, InvalidArgs},
		{"hex literal", "0x10", 16, 16, InvalidArgs},
		{"exponent", "1e1", 10, "10", Equilateral},
		{"infinite side", "Infinity", 1, 1, NotATriangle},
		{"all infinite", math.Inf(1), math.Inf(1), math.Inf(1), NotATriangle},
		{"NaN side", math.NaN(), 1, 1, InvalidArgs},
		{"named float type", meters(3), meters(3), 3, Equilateral},
		{"stringer side", textSide{"4"}, 4, "4", Equilateral},
		{"slice side", []int{1}, 1, 1, InvalidArgs},
		{"pointer side", ptr(3.0), 3, "3", Equilateral},
		{"nil stringer pointer", (*textSide)(nil), 1, 1, InvalidArgs},
		{"pointer cycle", cycle, 1, 1, InvalidArgs},
		{"pointer to pointer", ptr(ptr(2)), 2, 2, Equilateral},
		{"pointers too deep", deep, 5, 5, InvalidArgs},
		{"zero", 0, 1, 1, InvalidArgs},
		{"negative zero string", "-0", 1, 1, InvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.a, tt.b, tt.c))
		})
	}
}

func TestClassify_ExactEquality(t *testing.T) {
	x, y := 0.1, 0.2
	// 0.1+0.2 is not 0.3 in float64, so only b and c compare equal.
	assert.Equal(t, Isosceles, Classify(x+y, 0.3, 0.3))
	assert.Equal(t, Equilateral, Classify(0.3, 0.3, 0.3))
}

func TestClassify_StringNumberEquivalence(t *testing.T) {
	triples := [][3]float64{{2, 2, 2}, {2, 2, 3}, {4, 6, 5}, {5, 2, 2}, {1.5, 2.5, 3.5}}
	for _, tr := range triples {
		fromNumbers := Classify(tr[0], tr[1], tr[2])
		fromStrings := Classify(format(tr[0]), format(tr[1]), format(tr[2]))
		assert.Equal(t, fromNumbers, fromStrings, "triple %v", tr)
	}
}

func TestClassify_Total(t *testing.T) {
	values := []any{nil, "", "A", "-1", "0", "1", "2.5", "1e3", "Infinity", "0x1f",
		-1, 0, 1, 2, 3, 1.5, math.NaN(), math.Inf(-1), true, false, []string{"x"}, struct{}{}}

	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				got := Classify(a, b, c)
				require.True(t, got.Valid(), "Classify(%#v, %#v, %#v) = %d", a, b, c, got)
			}
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	first := Classify("4", "5", "5")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Classify("4", "5", "5"))
	}
}

func TestClassify_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, Scalene, Classify("4", "6", "5"))
			}
		}()
	}
	wg.Wait()
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    float64
		wantErr error
	}{
		{"integer", 3, 3, nil},
		{"string", "2.5", 2.5, nil},
		{"whitespace string", " 5 ", 5, nil},
		{"plus sign", "+7", 7, nil},
		{"letters", "A", 0, ErrNotNumeric},
		{"numeric prefix", "2abc", 0, ErrNotNumeric},
		{"empty", "", 0, ErrNotNumeric},
		{"nil", nil, 0, ErrNotNumeric},
		{"zero", 0, 0, ErrNonPositive},
		{"negative", "-3", 0, ErrNonPositive},
		{"hex parses to zero prefix", "0x10", 0, ErrNonPositive},
		{"negative infinity", "-Infinity", 0, ErrNonPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v is not %v", err, tt.wantErr)
				var se *SideError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.in, se.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate(t *testing.T) {
	v := Evaluate("3", 4, "x")
	assert.Equal(t, InvalidArgs, v.Label)
	require.Error(t, v.Err)
	assert.ErrorIs(t, v.Err, ErrNotNumeric)
	assert.Equal(t, `triangle: side c ("x"): not a number`, v.Err.Error())

	v = Evaluate("3", 4, "5")
	require.NoError(t, v.Err)
	assert.Equal(t, Scalene, v.Label)
	assert.Equal(t, [3]float64{3, 4, 5}, v.Sides)

	// The first rejected side is reported.
	v = Evaluate(-1, "B", 0)
	assert.ErrorIs(t, v.Err, ErrNonPositive)
	var se *SideError
	require.True(t, errors.As(v.Err, &se))
	assert.Equal(t, "a", se.Side)
}

func TestClassifySides(t *testing.T) {
	assert.Equal(t, InvalidArgs, ClassifySides(math.NaN(), 1, 1))
	assert.Equal(t, InvalidArgs, ClassifySides(1, 0, 1))
	assert.Equal(t, NotATriangle, ClassifySides(2, 1, 1))
	assert.Equal(t, Equilateral, ClassifySides(1, 1, 1))
	assert.Equal(t, Isosceles, ClassifySides(2, 3, 3))
	assert.Equal(t, Scalene, ClassifySides(2, 3, 4))
}

func TestViolatingSide(t *testing.T) {
	assert.Equal(t, 0, ViolatingSide(5, 2, 2))
	assert.Equal(t, 1, ViolatingSide(1, 8, 6))
	assert.Equal(t, 2, ViolatingSide(1, 2, 6))
	assert.Equal(t, -1, ViolatingSide(3, 4, 5))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in            string
		strict, loose float64
	}{
		{"1e", math.NaN(), 1},
		{"1.5e3x", math.NaN(), 1500},
		{"  +.5abc", math.NaN(), 0.5},
		{"Infinityx", math.NaN(), math.Inf(1)},
		{"-Infinity", math.Inf(-1), math.Inf(-1)},
		{"1e400", math.Inf(1), math.Inf(1)},
		{"0b101", 5, 0},
		{"0o17", 15, 0},
		{"0x", math.NaN(), 0},
		{"-0x10", math.NaN(), 0},
		{".", math.NaN(), math.NaN()},
		{"1.", 1, 1},
		{"   ", 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			strict, loose := coerce(tt.in)
			assertFloat(t, tt.strict, strict, "strict")
			assertFloat(t, tt.loose, loose, "loose")
		})
	}
}

func assertFloat(t *testing.T, want, got float64, what string) {
	t.Helper()
	if math.IsNaN(want) {
		assert.True(t, math.IsNaN(got), "%s: got %v, want NaN", what, got)
		return
	}
	assert.Equal(t, want, got, what)
}

func ptr[T any](v T) *T { return &v }

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
