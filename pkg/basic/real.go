package basic

import "math"

// EncodeReal converts a value to the 5-byte Microsoft Binary Format used by
// Locomotive BASIC: a 32-bit mantissa stored little-endian, followed by an
// exponent byte biased by 128. The mantissa is normalized to [0.5, 1); its
// top bit, always 1 after normalization, is replaced in storage by the sign
// (1 = negative). Zero encodes as five zero bytes.
func EncodeReal(v float64) [5]byte {
	var out [5]byte
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return out
	}
	sign := byte(0)
	if v < 0 {
		sign = 0x80
		v = -v
	}
	frac, exp := math.Frexp(v) // v = frac * 2^exp, frac in [0.5, 1)
	mant := uint64(math.Round(frac * (1 << 32)))
	if mant >= 1<<32 {
		mant >>= 1
		exp++
	}
	// Exponents above the biased byte range saturate to the largest
	// magnitude; those below it encode as zero. The lexer accepts any
	// literal that fits a float64, so both cases can occur.
	if exp > 127 {
		exp = 127
		mant = 0xFFFFFFFF
	}
	if exp < -127 {
		return out
	}
	out[0] = byte(mant)
	out[1] = byte(mant >> 8)
	out[2] = byte(mant >> 16)
	out[3] = byte(mant>>24) & 0x7F
	out[3] |= sign
	out[4] = byte(128 + exp)
	return out
}
