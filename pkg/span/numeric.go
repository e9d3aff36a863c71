package span

import (
	"math"

	"github.com/diwise/iot-core-sdk/pkg/result"
)

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// AtoU32 parses s as an unsigned 32-bit decimal integer with an optional
// leading '+'. The entire span must be consumed.
func AtoU32(s Span) (uint32, result.Code) {
	v, code := atoUnsigned(s, 0xFFFFFFFF)
	return uint32(v), code
}

// AtoU64 parses s as an unsigned 64-bit decimal integer with an optional
// leading '+'. The entire span must be consumed.
func AtoU64(s Span) (uint64, result.Code) {
	return atoUnsigned(s, ^uint64(0))
}

func atoUnsigned(s Span, max uint64) (uint64, result.Code) {
	if len(s) < 1 {
		return 0, result.UnexpectedChar
	}
	start := 0
	if !isDigit(s[0]) {
		if s[0] != '+' || len(s) < 2 {
			return 0, result.UnexpectedChar
		}
		start = 1
	}
	var value uint64
	for i := start; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) {
			return 0, result.UnexpectedChar
		}
		d := uint64(c - '0')
		if (max-d)/10 < value {
			return 0, result.UnexpectedChar
		}
		value = value*10 + d
	}
	return value, result.Ok
}

// AtoI32 parses s as a signed 32-bit decimal integer with an optional
// leading '+' or '-'. The entire span must be consumed.
func AtoI32(s Span) (int32, result.Code) {
	v, code := atoSigned(s, 1<<31-1)
	return int32(v), code
}

// AtoI64 parses s as a signed 64-bit decimal integer with an optional
// leading '+' or '-'. The entire span must be consumed.
func AtoI64(s Span) (int64, result.Code) {
	return atoSigned(s, 1<<63-1)
}

func atoSigned(s Span, maxPositive int64) (int64, result.Code) {
	if len(s) < 1 {
		return 0, result.UnexpectedChar
	}
	start := 0
	sign := int64(1)
	if !isDigit(s[0]) {
		switch s[0] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		default:
			return 0, result.UnexpectedChar
		}
		if len(s) < 2 {
			return 0, result.UnexpectedChar
		}
		start = 1
	}

	// signFactor accounts for the asymmetric range of two's-complement
	// signed integers (|MIN| == |MAX|+1).
	var signFactor uint64
	if sign < 0 {
		signFactor = 1
	}
	maxMagnitude := uint64(maxPositive) + signFactor

	var value uint64
	for i := start; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) {
			return 0, result.UnexpectedChar
		}
		d := uint64(c - '0')
		if (maxMagnitude-d)/10 < value {
			return 0, result.UnexpectedChar
		}
		value = value*10 + d
	}
	return int64(value) * sign, result.Ok
}

// U32ToA formats source as decimal into destination, returning the unused
// tail. Fails NotEnoughSpace if destination is too short.
func U32ToA(destination Span, source uint32) (Span, result.Code) {
	return appendUint(destination, uint64(source))
}

// I32ToA formats source as decimal (with leading '-' if negative) into
// destination, returning the unused tail.
func I32ToA(destination Span, source int32) (Span, result.Code) {
	return appendInt(destination, int64(source))
}

// U64ToA formats source as decimal into destination, returning the unused tail.
func U64ToA(destination Span, source uint64) (Span, result.Code) {
	return appendUint(destination, source)
}

// I64ToA formats source as decimal (with leading '-' if negative) into
// destination, returning the unused tail.
func I64ToA(destination Span, source int64) (Span, result.Code) {
	return appendInt(destination, source)
}

func appendInt(destination Span, source int64) (Span, result.Code) {
	if source < 0 {
		if len(destination) < 1 {
			return nil, result.NotEnoughSpace
		}
		destination[0] = '-'
		return appendUint(destination[1:], uint64(-source))
	}
	return appendUint(destination, uint64(source))
}

func appendUint(destination Span, n uint64) (Span, result.Code) {
	if len(destination) < 1 {
		return nil, result.NotEnoughSpace
	}
	if n == 0 {
		destination[0] = '0'
		return destination[1:], result.Ok
	}

	digitCount := 0
	for nn := n; nn > 0; nn /= 10 {
		digitCount++
	}
	if len(destination) < digitCount {
		return nil, result.NotEnoughSpace
	}

	for i := digitCount - 1; i >= 0; i-- {
		destination[i] = '0' + byte(n%10)
		n /= 10
	}
	return destination[digitCount:], result.Ok
}

const maxSafeInteger = 1<<53 - 1
const maxSupportedFractionalDigits = 15

// DToA formats source with fractionalDigits (0..15) digits after the
// decimal point, trimming insignificant trailing zeros, into destination.
// Rejects non-finite inputs and integer parts beyond 2^53-1.
func DToA(destination Span, source float64, fractionalDigits int) (Span, result.Code) {
	if fractionalDigits < 0 || fractionalDigits > maxSupportedFractionalDigits {
		return nil, result.InvalidArgument
	}
	if math.IsInf(source, 0) || math.IsNaN(source) {
		return nil, result.NotSupported
	}

	out := destination
	if source < 0 {
		if len(out) < 1 {
			return nil, result.NotEnoughSpace
		}
		out[0] = '-'
		out = out[1:]
		source = -source
	}

	if source > maxSafeInteger {
		return nil, result.NotSupported
	}
	integerPart := float64(int64(source))
	fractionalPart := source - integerPart

	var code result.Code
	out, code = appendUint(out, uint64(integerPart))
	if code != result.Ok {
		return nil, code
	}

	if fractionalDigits <= 0 {
		return out, result.Ok
	}

	leadingZeros := 0
	shifted := fractionalPart
	for d := 0; d < fractionalDigits; d++ {
		shifted *= 10
		if shifted < 1 {
			leadingZeros++
		}
	}

	fracInt := uint64(shifted)
	if fracInt == 0 {
		return out, result.Ok
	}
	for fracInt%10 == 0 {
		fracInt /= 10
	}

	if len(out) < 1+leadingZeros {
		return nil, result.NotEnoughSpace
	}
	out[0] = '.'
	out = out[1:]
	for z := 0; z < leadingZeros; z++ {
		out[z] = '0'
	}
	out = out[leadingZeros:]

	return appendUint(out, fracInt)
}

func isValidStartOfDouble(c byte) bool {
	return isDigit(c) || c == '+' || c == '-'
}

// AtoD parses s (1..99 bytes) as a decimal floating-point number, requiring
// the entire span to be consumed. Non-finite textual forms ("nan", "inf")
// are rejected by construction: they don't start with a digit or sign.
func AtoD(s Span) (float64, result.Code) {
	if len(s) < 1 || len(s) > 99 {
		return 0, result.UnexpectedChar
	}
	if !isValidStartOfDouble(s[0]) {
		return 0, result.UnexpectedChar
	}

	i := 0
	sign := 1.0
	if s[i] == '+' || s[i] == '-' {
		if s[i] == '-' {
			sign = -1.0
		}
		i++
	}
	start := i
	var intPart float64
	for i < len(s) && isDigit(s[i]) {
		intPart = intPart*10 + float64(s[i]-'0')
		i++
	}
	if i == start {
		return 0, result.UnexpectedChar
	}

	frac := 0.0
	if i < len(s) && s[i] == '.' {
		i++
		fracStart := i
		scale := 1.0
		for i < len(s) && isDigit(s[i]) {
			scale *= 10
			frac += float64(s[i]-'0') / scale
			i++
		}
		if i == fracStart {
			return 0, result.UnexpectedChar
		}
	}

	exp := 0
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		expSign := 1
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			if s[i] == '-' {
				expSign = -1
			}
			i++
		}
		expStart := i
		for i < len(s) && isDigit(s[i]) {
			exp = exp*10 + int(s[i]-'0')
			i++
		}
		if i == expStart {
			return 0, result.UnexpectedChar
		}
		exp *= expSign
	}

	if i != len(s) {
		return 0, result.UnexpectedChar
	}

	value := sign * (intPart + frac)
	if exp != 0 {
		value *= pow10(exp)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, result.UnexpectedChar
	}
	return value, result.Ok
}

func pow10(exp int) float64 {
	neg := exp < 0
	if neg {
		exp = -exp
	}
	result := 1.0
	base := 10.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	if neg {
		return 1 / result
	}
	return result
}
