package decimal

import "github.com/rill-lang/rill/internal/rillerr"

// Root computes the real n-th root of x by Newton iteration, grounded on
// the teacher's floatSqrt (value/sqrt.go) generalized from a fixed square
// root to an arbitrary integer root, following the original source's
// BigNumber::root (Newton's method on f(z) = z^n - x).
//
// Fails with EvenRootOfNegative when x<0 and n is even; with
// NonPositiveRoot when n<=0. Iterates up to 100 times, stopping early when
// the step size falls below 10^-(precision+5).
func (x Decimal) Root(n int, precision int) (Decimal, error) {
	if n <= 0 {
		return Decimal{}, rillerr.New(rillerr.NonPositiveRoot, "root index must be a positive integer, got %d", n)
	}
	if x.IsNeg() && n%2 == 0 {
		return Decimal{}, rillerr.New(rillerr.EvenRootOfNegative, "even root of a negative number is not real")
	}
	if x.IsZero() {
		return Zero, nil
	}

	abs := x.Abs()
	nDec := New(int64(n))
	nMinus1 := New(int64(n - 1))

	z, err := abs.Div(nDec)
	if err != nil {
		return Decimal{}, err
	}
	if z.IsZero() {
		z = One
	}

	limit := New(1).scaleShift(precision + 5)

	for i := 0; i < 100; i++ {
		zPowNMinus1, err := z.Pow(nMinus1)
		if err != nil {
			return Decimal{}, err
		}
		zPowN := zPowNMinus1.Mul(z)
		fz := zPowN.Sub(abs)
		fPrimeZ := nDec.Mul(zPowNMinus1)
		if fPrimeZ.IsZero() {
			break
		}
		delta, err := fz.Div(fPrimeZ)
		if err != nil {
			return Decimal{}, err
		}
		z = z.Sub(delta)
		if delta.Abs().Cmp(limit) < 0 {
			break
		}
	}
	if x.IsNeg() {
		z = z.Negate()
	}
	return z, nil
}

// scaleShift returns d×10^-shift, i.e. d's digits moved shift places
// right of the decimal point: 1.scaleShift(3) == 0.001, 2.scaleShift(3) == 0.002.
func (d Decimal) scaleShift(shift int) Decimal {
	if shift <= 0 {
		return d
	}
	return fromParts(d.neg, d.digits, d.scale+shift)
}
