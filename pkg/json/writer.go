package json

import (
	"github.com/diwise/iot-core-sdk/internal/bitstack"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// WriterOptions reserves room for future writer configuration, mirroring
// az_json_writer_options.
type WriterOptions struct{}

// Writer is a push encoder over a borrowed destination span. Each append
// validates the write against the current nesting state before emitting
// any bytes.
type Writer struct {
	dst         span.Span
	written     int
	stack       bitstack.Stack
	lastKind    TokenKind
	needComma   bool
	hasRootBeen bool
	opts        WriterOptions
}

// NewWriter constructs a writer over destination.
func NewWriter(destination span.Span, opts WriterOptions) *Writer {
	return &Writer{dst: destination, opts: opts}
}

// BytesWritten returns the number of bytes emitted so far.
func (w *Writer) BytesWritten() int { return w.written }

// Bytes returns the portion of the destination written so far.
func (w *Writer) Bytes() span.Span { return w.dst[:w.written] }

func (w *Writer) remaining() span.Span { return w.dst[w.written:] }

func (w *Writer) canWriteValue() bool {
	if w.stack.Depth() == 0 {
		return !w.hasRootBeen
	}
	if w.stack.CurrentIsObject() {
		return w.lastKind == KindPropertyName
	}
	return true
}

func (w *Writer) canWritePropertyName() bool {
	return w.stack.Depth() > 0 && w.stack.CurrentIsObject() && w.lastKind != KindPropertyName
}

// emit writes raw bytes (optionally preceded by a comma) and updates
// writer bookkeeping; it assumes the caller already validated legality and
// pre-computed the exact length.
func (w *Writer) emit(data []byte, kind TokenKind, needCommaAfter bool) result.Code {
	need := len(data)
	if w.needComma {
		need++
	}
	if len(w.remaining()) < need {
		return result.NotEnoughSpace
	}
	dst := w.remaining()
	if w.needComma {
		dst[0] = ','
		dst = dst[1:]
		w.written++
	}
	copy(dst, data)
	w.written += len(data)
	w.lastKind = kind
	w.needComma = needCommaAfter
	if w.stack.Depth() == 0 {
		w.hasRootBeen = true
	}
	return result.Ok
}

// AppendBeginObject opens a new object.
func (w *Writer) AppendBeginObject() result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	if code := w.stack.PushObject(); code != result.Ok {
		return code
	}
	if code := w.emit([]byte{'{'}, KindBeginObject, false); code != result.Ok {
		w.stack.Pop()
		return code
	}
	return result.Ok
}

// AppendBeginArray opens a new array.
func (w *Writer) AppendBeginArray() result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	if code := w.stack.PushArray(); code != result.Ok {
		return code
	}
	if code := w.emit([]byte{'['}, KindBeginArray, false); code != result.Ok {
		w.stack.Pop()
		return code
	}
	return result.Ok
}

// AppendEndObject closes the innermost object. The innermost open container
// must in fact be an object.
func (w *Writer) AppendEndObject() result.Code {
	if w.stack.Depth() == 0 || !w.stack.CurrentIsObject() {
		return result.JSONInvalidState
	}
	if code := w.stack.Pop(); code != result.Ok {
		return code
	}
	w.needComma = false
	return w.emit([]byte{'}'}, KindEndObject, true)
}

// AppendEndArray closes the innermost array. The innermost open container
// must in fact be an array.
func (w *Writer) AppendEndArray() result.Code {
	if w.stack.Depth() == 0 || w.stack.CurrentIsObject() {
		return result.JSONInvalidState
	}
	if code := w.stack.Pop(); code != result.Ok {
		return code
	}
	w.needComma = false
	return w.emit([]byte{']'}, KindEndArray, true)
}

// AppendPropertyName writes a property name inside the innermost object.
func (w *Writer) AppendPropertyName(name span.Span) result.Code {
	if !w.canWritePropertyName() {
		return result.JSONInvalidState
	}
	encoded, code := escapedStringBytes(name)
	if code != result.Ok {
		return code
	}
	data := append(append([]byte{'"'}, encoded...), '"', ':')
	return w.emit(data, KindPropertyName, false)
}

// AppendString writes a JSON string value.
func (w *Writer) AppendString(value span.Span) result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	encoded, code := escapedStringBytes(value)
	if code != result.Ok {
		return code
	}
	data := append(append([]byte{'"'}, encoded...), '"')
	return w.emit(data, KindString, true)
}

// AppendBool writes a JSON boolean value.
func (w *Writer) AppendBool(value bool) result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	if value {
		return w.emit([]byte("true"), KindTrue, true)
	}
	return w.emit([]byte("false"), KindFalse, true)
}

// AppendNull writes a JSON null value.
func (w *Writer) AppendNull() result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	return w.emit([]byte("null"), KindNull, true)
}

// AppendInt32 writes an integer value.
func (w *Writer) AppendInt32(value int32) result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	var buf [16]byte
	tail, code := span.I32ToA(span.Of(buf[:]), value)
	if code != result.Ok {
		return code
	}
	n := len(buf) - len(tail)
	return w.emit(buf[:n], KindNumber, true)
}

// AppendDouble writes a floating-point value with fractionalDigits (0..15)
// digits of precision after the decimal point.
func (w *Writer) AppendDouble(value float64, fractionalDigits int) result.Code {
	if !w.canWriteValue() {
		return result.JSONInvalidState
	}
	var buf [40]byte
	tail, code := span.DToA(span.Of(buf[:]), value, fractionalDigits)
	if code != result.Ok {
		return code
	}
	n := len(buf) - len(tail)
	return w.emit(buf[:n], KindNumber, true)
}

const maxEscapableStringLen = (1<<31 - 1) / 6

func escapedStringBytes(s span.Span) ([]byte, result.Code) {
	if len(s) > maxEscapableStringLen {
		return nil, result.InvalidArgument
	}
	// First pass: compute the exact escaped length.
	n := 0
	for _, c := range s {
		switch c {
		case '"', '\\', '\b', '\f', '\n', '\r', '\t':
			n += 2
		default:
			if c < 0x20 {
				n += 6
			} else {
				n++
			}
		}
	}
	out := make([]byte, 0, n)
	for _, c := range s {
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\b':
			out = append(out, '\\', 'b')
		case '\f':
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if c < 0x20 {
				out = append(out, '\\', 'u', '0', '0', upperHexDigit(c>>4), upperHexDigit(c&0x0F))
			} else {
				out = append(out, c)
			}
		}
	}
	return out, result.Ok
}

func upperHexDigit(nibble byte) byte {
	const hex = "0123456789ABCDEF"
	return hex[nibble]
}
