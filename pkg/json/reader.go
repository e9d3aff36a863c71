package json

import (
	"github.com/diwise/iot-core-sdk/internal/bitstack"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// ReaderOptions reserves room for future reader configuration, mirroring
// az_json_reader_options. It carries no fields today.
type ReaderOptions struct{}

// Reader is a single-pass pull tokenizer over a borrowed span. It performs
// no allocation once constructed and never mutates its input.
type Reader struct {
	buf           span.Span
	total         int
	token         Token
	stack         bitstack.Stack
	isComplexJSON bool
	done          bool
	err           result.Code
	opts          ReaderOptions
}

// NewReader constructs a reader over input. A genuinely empty input is
// accepted here rather than rejected as a precondition violation: the first
// NextToken call then reports it as the grammar error it is
// (result.UnexpectedChar, "no value present"), matching the empty-document
// case in the reader's strict-failure test matrix.
func NewReader(input span.Span, opts ReaderOptions) (*Reader, result.Code) {
	return &Reader{buf: input, total: len(input), opts: opts}, result.Ok
}

// NewReaderChunked constructs a reader over the logical concatenation of
// chunks, in order. The reader crosses chunk boundaries transparently: the
// chunks are joined once, up front, into a single contiguous view, since a
// Span is a flat byte region and the grammar needs to look across a
// boundary without copying mid-token.
func NewReaderChunked(chunks []span.Span, opts ReaderOptions) (*Reader, result.Code) {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	joined := make([]byte, 0, total)
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	return &Reader{buf: span.Of(joined), total: len(joined)}, result.Ok
}

// Token returns the most recently produced token.
func (r *Reader) Token() Token { return r.token }

func isWS(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func (r *Reader) skipWS() {
	r.buf = span.TrimWhitespaceStart(r.buf)
}

func (r *Reader) fail(code result.Code) result.Code {
	r.err = code
	r.token = Token{}
	return code
}

func (r *Reader) setToken(kind TokenKind, slice span.Span, hasEscapes bool) result.Code {
	r.token = Token{Kind: kind, Slice: slice, HasEscapes: hasEscapes}
	return result.Ok
}

// NextToken advances by one token. It returns result.EndOfJSON once the
// root value has been fully consumed; further calls keep returning the same
// outcome deterministically (success repeats EndOfJSON, failure repeats the
// same error).
func (r *Reader) NextToken() result.Code {
	if r.err != result.Ok {
		return r.err
	}
	if r.done {
		return result.EndOfJSON
	}

	r.skipWS()
	prev := r.token.Kind

	switch prev {
	case KindNone:
		return r.beginValue(true)
	case KindBeginObject:
		return r.afterBeginObject()
	case KindBeginArray:
		return r.afterBeginArray()
	case KindPropertyName:
		return r.afterPropertyName()
	default:
		return r.afterValue()
	}
}

func (r *Reader) afterBeginObject() result.Code {
	if len(r.buf) == 0 {
		return r.fail(result.UnexpectedChar)
	}
	switch r.buf[0] {
	case '}':
		return r.closeContainer(true)
	case '"':
		return r.readPropertyName()
	default:
		return r.fail(result.UnexpectedChar)
	}
}

func (r *Reader) afterBeginArray() result.Code {
	if len(r.buf) == 0 {
		return r.fail(result.UnexpectedChar)
	}
	if r.buf[0] == ']' {
		return r.closeContainer(false)
	}
	return r.beginValue(false)
}

func (r *Reader) afterPropertyName() result.Code {
	if len(r.buf) == 0 || r.buf[0] != ':' {
		return r.fail(result.UnexpectedChar)
	}
	r.buf = r.buf[1:]
	r.skipWS()
	return r.beginValue(false)
}

func (r *Reader) closeContainer(isObject bool) result.Code {
	if r.stack.Depth() == 0 || r.stack.CurrentIsObject() != isObject {
		return r.fail(result.UnexpectedChar)
	}
	if code := r.stack.Pop(); code != result.Ok {
		return r.fail(code)
	}
	r.buf = r.buf[1:]
	if isObject {
		return r.setToken(KindEndObject, nil, false)
	}
	return r.setToken(KindEndArray, nil, false)
}

func (r *Reader) afterValue() result.Code {
	if r.stack.Depth() == 0 {
		r.skipWS()
		if len(r.buf) != 0 {
			return r.fail(result.UnexpectedChar)
		}
		r.done = true
		return result.EndOfJSON
	}

	if len(r.buf) == 0 {
		return r.fail(result.UnexpectedChar)
	}
	switch r.buf[0] {
	case '}':
		return r.closeContainer(true)
	case ']':
		return r.closeContainer(false)
	case ',':
		r.buf = r.buf[1:]
		r.skipWS()
		if r.stack.CurrentIsObject() {
			if len(r.buf) == 0 || r.buf[0] != '"' {
				return r.fail(result.UnexpectedChar)
			}
			return r.readPropertyName()
		}
		return r.beginValue(false)
	default:
		return r.fail(result.UnexpectedChar)
	}
}

func (r *Reader) beginValue(isRoot bool) result.Code {
	if len(r.buf) == 0 {
		return r.fail(result.UnexpectedChar)
	}

	var code result.Code
	switch r.buf[0] {
	case '{':
		r.buf = r.buf[1:]
		if code = r.stack.PushObject(); code != result.Ok {
			return r.fail(code)
		}
		code = r.setToken(KindBeginObject, nil, false)
	case '[':
		r.buf = r.buf[1:]
		if code = r.stack.PushArray(); code != result.Ok {
			return r.fail(code)
		}
		code = r.setToken(KindBeginArray, nil, false)
	case '"':
		code = r.readString()
	case 't':
		code = r.readLiteral("true", KindTrue)
	case 'f':
		code = r.readLiteral("false", KindFalse)
	case 'n':
		code = r.readLiteral("null", KindNull)
	case '-':
		code = r.readNumber()
	default:
		if isDigit(r.buf[0]) {
			code = r.readNumber()
		} else {
			return r.fail(result.UnexpectedChar)
		}
	}
	if code != result.Ok {
		return code
	}
	if isRoot {
		r.isComplexJSON = r.token.Kind == KindBeginObject || r.token.Kind == KindBeginArray
	}
	return result.Ok
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isTerminator(c byte) bool {
	switch c {
	case ',', '}', ']':
		return true
	default:
		return isWS(c)
	}
}

func (r *Reader) readPropertyName() result.Code {
	slice, hasEscapes, code := r.scanStringBody()
	if code != result.Ok {
		return r.fail(code)
	}
	return r.setToken(KindPropertyName, slice, hasEscapes)
}

func (r *Reader) readString() result.Code {
	slice, hasEscapes, code := r.scanStringBody()
	if code != result.Ok {
		return r.fail(code)
	}
	return r.setToken(KindString, slice, hasEscapes)
}

// scanStringBody assumes r.buf[0] == '"' and consumes through the closing
// quote, returning the unescaped-source slice (excluding quotes).
func (r *Reader) scanStringBody() (span.Span, bool, result.Code) {
	buf := r.buf
	i := 1
	hasEscapes := false
	for {
		if i >= len(buf) {
			return nil, false, result.UnexpectedChar
		}
		c := buf[i]
		if c == '"' {
			slice := buf[1:i]
			r.buf = buf[i+1:]
			return slice, hasEscapes, result.Ok
		}
		if c == '\\' {
			hasEscapes = true
			i++
			if i >= len(buf) {
				return nil, false, result.UnexpectedChar
			}
			switch buf[i] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i++
			case 'u':
				i++
				if i+4 > len(buf) {
					return nil, false, result.UnexpectedChar
				}
				for k := 0; k < 4; k++ {
					if !isHexDigit(buf[i+k]) {
						return nil, false, result.UnexpectedChar
					}
				}
				i += 4
			default:
				return nil, false, result.UnexpectedChar
			}
			continue
		}
		if c < 0x20 {
			return nil, false, result.UnexpectedChar
		}
		i++
	}
}

func (r *Reader) readLiteral(text string, kind TokenKind) result.Code {
	buf := r.buf
	if len(buf) < len(text) {
		return r.fail(result.UnexpectedChar)
	}
	for i := 0; i < len(text); i++ {
		if buf[i] != text[i] {
			return r.fail(result.UnexpectedChar)
		}
	}
	rest := buf[len(text):]
	if len(rest) != 0 && !isTerminator(rest[0]) {
		return r.fail(result.UnexpectedChar)
	}
	r.buf = rest
	return r.setToken(kind, buf[:len(text)], false)
}

func (r *Reader) readNumber() result.Code {
	buf := r.buf
	i := 0
	if buf[i] == '-' {
		i++
	}
	if i >= len(buf) {
		return r.fail(result.UnexpectedChar)
	}
	if buf[i] == '0' {
		i++
	} else if isDigit(buf[i]) {
		i++
		for i < len(buf) && isDigit(buf[i]) {
			i++
		}
	} else {
		return r.fail(result.UnexpectedChar)
	}

	if i < len(buf) && buf[i] == '.' {
		i++
		start := i
		for i < len(buf) && isDigit(buf[i]) {
			i++
		}
		if i == start {
			return r.fail(result.UnexpectedChar)
		}
	}

	if i < len(buf) && (buf[i] == 'e' || buf[i] == 'E') {
		i++
		if i < len(buf) && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		start := i
		for i < len(buf) && isDigit(buf[i]) {
			i++
		}
		if i == start {
			return r.fail(result.UnexpectedChar)
		}
	}

	if i < len(buf) && !isTerminator(buf[i]) {
		return r.fail(result.UnexpectedChar)
	}

	numberSlice := buf[:i]
	r.buf = buf[i:]
	return r.setToken(KindNumber, numberSlice, false)
}

// SkipChildren advances past the value of the current token. If positioned
// at a property name, it first advances to the value; if that value is a
// container, it consumes tokens until the reader returns to the pre-entry
// depth. It is a no-op for a completed primitive token.
func (r *Reader) SkipChildren() result.Code {
	if r.token.Kind == KindPropertyName {
		if code := r.NextToken(); code != result.Ok {
			return code
		}
	}

	switch r.token.Kind {
	case KindBeginObject, KindBeginArray:
		entryDepth := r.stack.Depth()
		for r.stack.Depth() >= entryDepth {
			code := r.NextToken()
			if code != result.Ok {
				return code
			}
		}
	}
	return result.Ok
}

// Depth returns the reader's current nesting depth.
func (r *Reader) Depth() int { return r.stack.Depth() }

// Offset returns the number of input bytes consumed so far, usable as a
// cheap fingerprint of reader progress (e.g. to detect whether a caller
// advanced the reader between two calls into a stateful iterator).
func (r *Reader) Offset() int { return r.total - len(r.buf) }

// IsComplexJSON reports whether the root value is an object or array (as
// opposed to a lone primitive), set once the first token is read.
func (r *Reader) IsComplexJSON() bool { return r.isComplexJSON }
