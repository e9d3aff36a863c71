// Package propbag implements the ordered "k=v&k=v" property bag appended
// to outbound telemetry topics and parsed from inbound C2D topics. It is a
// mutable view over a caller-provided buffer with two cursors (written,
// retryStart), adapted from Azure's az_iot_message_properties.
package propbag

import (
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// Bag is a mutable key/value sequence over buf[0:written]. Appends never
// move existing bytes.
type Bag struct {
	buf        span.Span
	written    int
	retryStart int
}

// New wraps buf as a Bag, with initialWritten pre-existing valid bytes
// (used when wrapping bytes already parsed from an incoming topic).
func New(buf span.Span, initialWritten int) (*Bag, result.Code) {
	if initialWritten < 0 || initialWritten > len(buf) {
		return nil, result.InvalidArgument
	}
	return &Bag{buf: buf, written: initialWritten, retryStart: initialWritten}, result.Ok
}

// Bytes returns the bag's current valid content.
func (b *Bag) Bytes() span.Span { return b.buf[:b.written] }

// Append writes "&name=value" (or "name=value" for the first pair) to the
// tail of the buffer. Neither name nor value is URL-encoded by the bag
// itself, callers that need reserved bytes escaped must pre-encode with
// pkg/span.URLEncode.
func (b *Bag) Append(name, value span.Span) result.Code {
	need := len(name) + 1 + len(value)
	if b.written > 0 {
		need++
	}
	if len(b.buf)-b.written < need {
		return result.NotEnoughSpace
	}

	tail := b.buf[b.written:]
	if b.written > 0 {
		tail[0] = '&'
		tail = tail[1:]
	}
	tail = span.Copy(tail, name)
	tail[0] = '='
	tail = tail[1:]
	span.Copy(tail, value)

	b.written += need
	return result.Ok
}

// RemoveRetryHeaders truncates the bag back to the offset recorded when it
// was constructed, discarding any pairs appended since (used to strip
// HTTP-retry-only headers before a subsequent retry attempt).
func (b *Bag) RemoveRetryHeaders() {
	b.written = b.retryStart
}

// Find returns the value of the first pair whose name equals name
// byte-for-byte, requiring correct delimiting: the match must be preceded
// by the start of the bag or '&', and followed by '='. Substring matches
// and matches against a value (rather than a name) are rejected.
func (b *Bag) Find(name span.Span) (span.Span, result.Code) {
	content := b.buf[:b.written]
	pos := 0
	for pos < len(content) {
		end := span.Find(content[pos:], span.FromString("&"))
		var pair span.Span
		if end == -1 {
			pair = content[pos:]
		} else {
			pair = content[pos : pos+end]
		}

		eq := span.Find(pair, span.FromString("="))
		if eq != -1 {
			pairName := pair[:eq]
			if span.IsContentEqual(pairName, name) {
				return pair[eq+1:], result.Ok
			}
		}

		if end == -1 {
			break
		}
		pos += end + 1
	}
	return nil, result.ItemNotFound
}

// Iterator is a stateful cursor over a Bag's pairs.
type Iterator struct {
	remaining span.Span
}

// NewIterator returns an iterator positioned before the first pair.
func (b *Bag) NewIterator() Iterator {
	return Iterator{remaining: b.buf[:b.written]}
}

// Next advances the iterator, returning the next (name, value) pair in
// order, or result.EndOfProperties once exhausted.
func (it *Iterator) Next() (name, value span.Span, code result.Code) {
	if len(it.remaining) == 0 {
		return nil, nil, result.EndOfProperties
	}

	end := span.Find(it.remaining, span.FromString("&"))
	var pair span.Span
	if end == -1 {
		pair = it.remaining
		it.remaining = nil
	} else {
		pair = it.remaining[:end]
		it.remaining = it.remaining[end+1:]
	}

	eq := span.Find(pair, span.FromString("="))
	if eq == -1 {
		return nil, nil, result.UnexpectedChar
	}
	return pair[:eq], pair[eq+1:], result.Ok
}
