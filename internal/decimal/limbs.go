package decimal

// limbBase is the chunk size used for the hot multiplication path: base
// 10⁹, little-endian limbs, so that a limb-by-limb product (up to
// (10⁹-1)²) still fits comfortably in a uint64 intermediate.
const limbBase = 1_000_000_000

// digitsToLimbs converts an unsigned decimal digit string into little-endian
// base-10⁹ limbs.
func digitsToLimbs(digits string) []uint32 {
	digits = stripLeadingZeros(digits)
	n := len(digits)
	limbCount := (n + 8) / 9
	if limbCount == 0 {
		limbCount = 1
	}
	limbs := make([]uint32, limbCount)
	end := n
	for i := 0; i < limbCount; i++ {
		start := end - 9
		if start < 0 {
			start = 0
		}
		var v uint32
		for _, c := range digits[start:end] {
			v = v*10 + uint32(c-'0')
		}
		limbs[i] = v
		end = start
	}
	return trimLimbs(limbs)
}

// limbsToDigits converts little-endian base-10⁹ limbs back to a decimal
// digit string.
func limbsToDigits(limbs []uint32) string {
	limbs = trimLimbs(limbs)
	if len(limbs) == 0 {
		return "0"
	}
	out := make([]byte, 0, len(limbs)*9)
	top := limbs[len(limbs)-1]
	out = appendDigits(out, top, false)
	for i := len(limbs) - 2; i >= 0; i-- {
		out = appendDigits(out, limbs[i], true)
	}
	return string(out)
}

// appendDigits appends the base-10 digits of v to out. When padded is true
// v is zero-padded to exactly 9 digits (used for every limb but the most
// significant).
func appendDigits(out []byte, v uint32, padded bool) []byte {
	var buf [9]byte
	for i := 8; i >= 0; i-- {
		buf[i] = byte(v%10) + '0'
		v /= 10
	}
	if padded {
		return append(out, buf[:]...)
	}
	i := 0
	for i < 8 && buf[i] == '0' {
		i++
	}
	return append(out, buf[i:]...)
}

func trimLimbs(limbs []uint32) []uint32 {
	n := len(limbs)
	for n > 1 && limbs[n-1] == 0 {
		n--
	}
	return limbs[:n]
}

// mulLimbs multiplies two little-endian base-10⁹ limb slices, schoolbook,
// with 64-bit intermediate products, as in the teacher's integerPower.
func mulLimbs(a, b []uint32) []uint32 {
	if (len(a) == 1 && a[0] == 0) || (len(b) == 1 && b[0] == 0) {
		return []uint32{0}
	}
	out := make([]uint64, len(a)+len(b))
	for i, av := range a {
		if av == 0 {
			continue
		}
		var carry uint64
		for j, bv := range b {
			prod := uint64(av)*uint64(bv) + out[i+j] + carry
			out[i+j] = prod % limbBase
			carry = prod / limbBase
		}
		k := i + len(b)
		for carry > 0 {
			prod := out[k] + carry
			out[k] = prod % limbBase
			carry = prod / limbBase
			k++
		}
	}
	result := make([]uint32, len(out))
	for i, v := range out {
		result[i] = uint32(v)
	}
	return trimLimbs(result)
}

// limbPow raises base to a non-negative integer power by exponentiation-by-
// squaring over the limb representation, mirroring the teacher's
// integerPower (value/power.go) generalized from *big.Float to limbs.
func limbPow(base []uint32, exp int64) []uint32 {
	result := []uint32{1}
	b := base
	for exp > 0 {
		if exp&1 == 1 {
			result = mulLimbs(result, b)
		}
		exp >>= 1
		if exp > 0 {
			b = mulLimbs(b, b)
		}
	}
	return result
}
