// Package span implements the ownership-neutral byte-region view that is
// the universal currency for the JSON and IoT-protocol engines. A Span
// borrows from a caller-provided []byte, the same way Azure's az_span
// borrows from a caller-provided buffer; the one exception is FromString,
// which copies a string's bytes into a newly allocated slice.
package span

import "github.com/diwise/iot-core-sdk/pkg/result"

// Span is a borrowed view over a byte region. The zero value is the empty
// span. A nil Span and an empty non-nil Span are distinct by identity only;
// every operation here treats them identically.
type Span []byte

// Of wraps an existing []byte as a Span without copying.
func Of(b []byte) Span { return Span(b) }

// FromString returns a Span holding a copy of the bytes of s.
func FromString(s string) Span { return Span(s) }

// Size returns the number of bytes in s.
func (s Span) Size() int { return len(s) }

// Slice returns the sub-span [start, end). Requires 0 <= start <= end <= Size(s).
func (s Span) Slice(start, end int) (Span, result.Code) {
	if start < 0 || end < start || end > len(s) {
		return nil, result.InvalidArgument
	}
	return s[start:end], result.Ok
}

// SliceToEnd returns the sub-span [start, Size(s)).
func (s Span) SliceToEnd(start int) (Span, result.Code) {
	return s.Slice(start, len(s))
}

// Copy copies min(len(src), len(dst)) bytes from src into dst (memmove-safe
// for overlapping regions, matching az_span_copy) and returns the unused
// tail of dst.
func Copy(dst, src Span) Span {
	n := copy(dst, src)
	return dst[n:]
}

// IsContentEqual reports whether a and b have identical bytes.
func IsContentEqual(a, b Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func asciiToLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// IsContentEqualIgnoringCase reports byte-equality after ASCII-only case
// folding; non-ASCII bytes compare by raw value, matching
// az_span_is_content_equal_ignoring_case.
func IsContentEqualIgnoringCase(a, b Span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if asciiToLower(a[i]) != asciiToLower(b[i]) {
			return false
		}
	}
	return true
}

// Find returns the index of the first occurrence of needle in haystack, or
// -1 if absent. A naive O(n*m) search is used deliberately, matching
// az_span_find's choice of code size over asymptotic speed. A bounded
// Boyer-Moore-Horspool variant would be a drop-in replacement if profiling
// ever calls for it.
func Find(haystack, needle Span) int {
	n, m := len(haystack), len(needle)
	if m == 0 {
		return 0
	}
	if n < m {
		return -1
	}
	for i := 0; i <= n-m; i++ {
		if haystack[i] != needle[0] {
			continue
		}
		j := 1
		for ; j < m; j++ {
			if haystack[i+j] != needle[j] {
				break
			}
		}
		if j == m {
			return i
		}
	}
	return -1
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// TrimWhitespaceStart trims leading ASCII space/tab/newline/CR.
func TrimWhitespaceStart(s Span) Span {
	i := 0
	for i < len(s) && isWhitespace(s[i]) {
		i++
	}
	return s[i:]
}

// TrimWhitespaceEnd trims trailing ASCII space/tab/newline/CR.
func TrimWhitespaceEnd(s Span) Span {
	i := len(s)
	for i > 0 && isWhitespace(s[i-1]) {
		i--
	}
	return s[:i]
}

// TrimWhitespaceBoth trims both ends.
func TrimWhitespaceBoth(s Span) Span {
	return TrimWhitespaceEnd(TrimWhitespaceStart(s))
}

// Token splits source at the first occurrence of delimiter, returning the
// portion before it and writing the remainder (after the delimiter) to
// *remainder. If delimiter is not found, the whole source is returned and
// *remainder is set to nil.
func Token(source, delimiter Span, remainder *Span) Span {
	if len(source) == 0 {
		*remainder = nil
		return nil
	}
	idx := Find(source, delimiter)
	if idx == -1 {
		*remainder = nil
		return source
	}
	*remainder = source[idx+len(delimiter):]
	return source[:idx]
}

func urlShouldEncode(c byte) bool {
	switch c {
	case '-', '_', '.', '~':
		return false
	default:
		return !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'))
	}
}

const upperHex = "0123456789ABCDEF"

// URLEncodedLen returns the length url_encode(src) would produce.
func URLEncodedLen(src Span) int {
	n := len(src)
	for _, c := range src {
		if urlShouldEncode(c) {
			n += 2
		}
	}
	return n
}

// URLEncode percent-encodes src into dst, preserving A-Z a-z 0-9 - _ . ~
// unchanged and encoding every other byte as an uppercase %HH. dst and src
// must not overlap. Returns the number of bytes written to dst, or
// NotEnoughSpace if dst cannot hold the encoded result.
func URLEncode(dst, src Span) (int, result.Code) {
	need := URLEncodedLen(src)
	if len(dst) < need {
		return 0, result.NotEnoughSpace
	}
	w := 0
	for _, c := range src {
		if urlShouldEncode(c) {
			dst[w] = '%'
			dst[w+1] = upperHex[c>>4]
			dst[w+2] = upperHex[c&0x0F]
			w += 3
		} else {
			dst[w] = c
			w++
		}
	}
	return w, result.Ok
}

// Replace splices content into destination's logical range [start, end),
// given destination currently holds currentSize valid bytes, shifting the
// unaffected tail left or right in place. Fails InvalidArgument if [start,
// end) is not a valid range within currentSize, or if the resulting total
// length would exceed cap(destination); shrinking (a
// shorter replacement for a longer range) always succeeds. Returns the new
// logical size of destination.
func Replace(destination Span, currentSize, start, end int, content Span) (int, result.Code) {
	if start < 0 || end < start || end > currentSize || start > currentSize {
		return 0, result.InvalidArgument
	}
	replacedSize := end - start
	newSize := currentSize - replacedSize + len(content)
	if newSize > cap(destination) {
		return 0, result.InvalidArgument
	}
	// Grow destination's addressable window to the new size before shifting.
	destination = destination[:cap(destination)]

	if start == currentSize {
		copy(destination[start:], content)
		return newSize, result.Ok
	}
	if currentSize == replacedSize {
		copy(destination, content)
		return newSize, result.Ok
	}

	// copy is memmove-safe for overlapping slices of the same backing array,
	// so the tail can be shifted to its new home directly.
	tail := destination[end:currentSize]
	copy(destination[start+len(content):], tail)
	copy(destination[start:], content)
	return newSize, result.Ok
}
