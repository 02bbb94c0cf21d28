// Table-driven tests in the teacher's style (quorem_test.go), ported from
// raw t.Errorf checks to testify assertions per the ambient test tooling
// chosen in SPEC_FULL.md.
package decimal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalization(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.20", "1.2"},
		{"-0.0", "0"},
		{"0", "0"},
		{"0.0", "0"},
		{"007", "7"},
		{"-007.100", "-7.1"},
		{"123", "123"},
		{"-123.456", "-123.456"},
		{"0.001", "0.001"},
	}
	for _, tt := range tests {
		d, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d.String(), "Parse(%q)", tt.in)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1.", ".1", "1-2"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestAddSub(t *testing.T) {
	tests := []struct {
		a, b, sum, diff string
	}{
		{"1", "2", "3", "-1"},
		{"1.5", "2.25", "3.75", "-0.75"},
		{"-1.5", "2.25", "0.75", "-3.75"},
		{"-1.5", "-2.25", "-3.75", "0.75"},
		{"100", "-100", "0", "200"},
		{"0", "0", "0", "0"},
	}
	for _, tt := range tests {
		a, err := Parse(tt.a)
		require.NoError(t, err)
		b, err := Parse(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.sum, a.Add(b).String(), "%s+%s", tt.a, tt.b)
		assert.Equal(t, tt.diff, a.Sub(b).String(), "%s-%s", tt.a, tt.b)
	}
}

func TestMul(t *testing.T) {
	tests := []struct{ a, b, want string }{
		{"2", "3", "6"},
		{"1.5", "2", "3"},
		{"-1.5", "2", "-3"},
		{"0.1", "0.1", "0.01"},
		{"999999999", "999999999", "999999998000000001"},
		{"0", "123.456", "0"},
	}
	for _, tt := range tests {
		a, err := Parse(tt.a)
		require.NoError(t, err)
		b, err := Parse(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Mul(b).String(), "%s*%s", tt.a, tt.b)
	}
}

func TestDivTruncates(t *testing.T) {
	a, err := Parse("1")
	require.NoError(t, err)
	b, err := Parse("3")
	require.NoError(t, err)
	q, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(t, DivPrecision, q.Scale())
	assert.Equal(t, "0."+"3"+repeat("3", DivPrecision-1), q.String())
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s[0])
	}
	return string(out)
}

func TestDivisionByZero(t *testing.T) {
	a, _ := Parse("1")
	_, err := a.Div(Zero)
	assert.Error(t, err)
}

func TestDivisionPrecisionProperty(t *testing.T) {
	// |a - q*b| < b * 10^-49 (§8 property 4).
	pairs := [][2]string{{"22", "7"}, {"1", "3"}, {"100", "6"}, {"-17", "5"}}
	tol, _ := Parse("1")
	tol = tol.scaleShift(49)
	for _, p := range pairs {
		a, _ := Parse(p[0])
		b, _ := Parse(p[1])
		q, err := a.Div(b)
		require.NoError(t, err)
		diff := a.Sub(q.Mul(b)).Abs()
		bound := b.Abs().Mul(tol)
		assert.True(t, diff.Cmp(bound) < 0, "pair %v: diff=%s bound=%s", p, diff, bound)
	}
}

func TestPowParity(t *testing.T) {
	base, _ := Parse("-2")
	for k := int64(0); k <= 6; k++ {
		exp := New(k)
		got, err := base.Pow(exp)
		require.NoError(t, err)
		if k == 0 {
			assert.Equal(t, "1", got.String())
			continue
		}
		wantNeg := k%2 == 1
		assert.Equal(t, wantNeg, got.IsNeg(), "(-2)^%d", k)
	}
}

func TestPowZeroToPositive(t *testing.T) {
	z := Zero
	got, err := z.Pow(New(5))
	require.NoError(t, err)
	assert.Equal(t, "0", got.String())
}

func TestPowNonIntegerExponent(t *testing.T) {
	base := New(2)
	frac, _ := Parse("1.5")
	_, err := base.Pow(frac)
	assert.Error(t, err)
}

func TestRootSquareConverges(t *testing.T) {
	x := New(2)
	r, err := x.Root(2, DivPrecision)
	require.NoError(t, err)
	square := r.Mul(r)
	diff := square.Sub(x).Abs()
	tol := x.scaleShift(45)
	assert.True(t, diff.Cmp(tol) < 0, "sqrt(2)^2 = %s, diff=%s", square, diff)
}

func TestRootEvenOfNegative(t *testing.T) {
	x := New(-4)
	_, err := x.Root(2, DivPrecision)
	assert.Error(t, err)
}

func TestRootNonPositiveIndex(t *testing.T) {
	x := New(4)
	_, err := x.Root(0, DivPrecision)
	assert.Error(t, err)
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"2", "1", 1},
		{"1", "1", 0},
		{"-1", "1", -1},
		{"-1", "-2", 1},
		{"0", "-0.0", 0},
	}
	for _, tt := range tests {
		a, _ := Parse(tt.a)
		b, _ := Parse(tt.b)
		assert.Equal(t, tt.want, a.Cmp(b), "%s vs %s", tt.a, tt.b)
	}
}

func TestToMachineIntOverflow(t *testing.T) {
	huge, _ := Parse("99999999999999999999999999999999")
	_, err := huge.ToMachineInt()
	assert.Error(t, err)
}

func TestToMachineInt(t *testing.T) {
	d := New(-42)
	n, err := d.ToMachineInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-42), n)
}
