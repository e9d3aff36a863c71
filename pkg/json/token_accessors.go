package json

import (
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// GetBool returns the token's boolean value. Fails JSONInvalidState unless
// the token kind is True or False.
func (t Token) GetBool() (bool, result.Code) {
	switch t.Kind {
	case KindTrue:
		return true, result.Ok
	case KindFalse:
		return false, result.Ok
	default:
		return false, result.JSONInvalidState
	}
}

// GetInt32 decodes the token's numeric text as an int32.
func (t Token) GetInt32() (int32, result.Code) {
	if t.Kind != KindNumber {
		return 0, result.JSONInvalidState
	}
	return numberSpan(t.Slice).atoi32()
}

// GetInt64 decodes the token's numeric text as an int64.
func (t Token) GetInt64() (int64, result.Code) {
	if t.Kind != KindNumber {
		return 0, result.JSONInvalidState
	}
	return numberSpan(t.Slice).atoi64()
}

// GetUint32 decodes the token's numeric text as a uint32.
func (t Token) GetUint32() (uint32, result.Code) {
	if t.Kind != KindNumber {
		return 0, result.JSONInvalidState
	}
	return numberSpan(t.Slice).atou32()
}

// GetUint64 decodes the token's numeric text as a uint64.
func (t Token) GetUint64() (uint64, result.Code) {
	if t.Kind != KindNumber {
		return 0, result.JSONInvalidState
	}
	return numberSpan(t.Slice).atou64()
}

// GetDouble decodes the token's numeric text as a float64.
func (t Token) GetDouble() (float64, result.Code) {
	if t.Kind != KindNumber {
		return 0, result.JSONInvalidState
	}
	return span.AtoD(t.Slice)
}

type numberSpan span.Span

func (n numberSpan) atoi32() (int32, result.Code) { return span.AtoI32(span.Span(n)) }
func (n numberSpan) atoi64() (int64, result.Code) { return span.AtoI64(span.Span(n)) }
func (n numberSpan) atou32() (uint32, result.Code) { return span.AtoU32(span.Span(n)) }
func (n numberSpan) atou64() (uint64, result.Code) { return span.AtoU64(span.Span(n)) }

// maxUnescapedSize returns the number of bytes the unescaped form of a
// String/PropertyName token slice would occupy, or -1 if the slice
// contains any \uXXXX escape (unsupported, see GetString).
func maxUnescapedSize(slice span.Span) int {
	n := 0
	for i := 0; i < len(slice); i++ {
		if slice[i] == '\\' {
			i++
			if i >= len(slice) {
				return n
			}
			if slice[i] == 'u' {
				return -1
			}
			n++
			continue
		}
		n++
	}
	return n
}

// GetString writes the unescaped string value into dst, NUL-terminating it.
// Fails JSONInvalidState if the token is not a String or PropertyName, and
// NotEnoughSpace unless len(dst) >= max_unescaped_size+1. If the slice
// contains a \uXXXX escape, the SDK does not perform UTF-16 surrogate-pair
// expansion and returns NotImplemented, matching Azure's explicit
// non-goal for this accessor.
func (t Token) GetString(dst []byte) (int, result.Code) {
	if t.Kind != KindString && t.Kind != KindPropertyName {
		return 0, result.JSONInvalidState
	}
	maxSize := maxUnescapedSize(t.Slice)
	if maxSize < 0 {
		return 0, result.NotImplemented
	}
	if len(dst) < maxSize+1 {
		return 0, result.NotEnoughSpace
	}

	w := 0
	slice := t.Slice
	for i := 0; i < len(slice); i++ {
		c := slice[i]
		if c != '\\' {
			dst[w] = c
			w++
			continue
		}
		i++
		switch slice[i] {
		case '"':
			dst[w] = '"'
		case '\\':
			dst[w] = '\\'
		case '/':
			dst[w] = '/'
		case 'b':
			dst[w] = '\b'
		case 'f':
			dst[w] = '\f'
		case 'n':
			dst[w] = '\n'
		case 'r':
			dst[w] = '\r'
		case 't':
			dst[w] = '\t'
		}
		w++
	}
	dst[w] = 0
	return w, result.Ok
}

func unescapeByte(c byte) (byte, bool) {
	switch c {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// IsTextEqual compares the token's (possibly escaped) slice against a plain
// UTF-8 expected value, unescaping the token side on the fly. A \uXXXX
// escape anywhere in the token compares unequal to any expected text,
// matching GetString's non-goal on surrogate-pair expansion.
func (t Token) IsTextEqual(expected span.Span) bool {
	if t.Kind != KindString && t.Kind != KindPropertyName {
		return false
	}
	if !t.HasEscapes {
		return span.IsContentEqual(t.Slice, expected)
	}

	slice := t.Slice
	ei := 0
	for i := 0; i < len(slice); i++ {
		c := slice[i]
		if c != '\\' {
			if ei >= len(expected) || expected[ei] != c {
				return false
			}
			ei++
			continue
		}
		i++
		if i >= len(slice) {
			return false
		}
		if slice[i] == 'u' {
			return false
		}
		unescaped, ok := unescapeByte(slice[i])
		if !ok {
			return false
		}
		if ei >= len(expected) || expected[ei] != unescaped {
			return false
		}
		ei++
	}
	return ei == len(expected)
}
