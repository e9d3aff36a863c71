// Package json implements the streaming pull reader and push writer over
// pkg/span: a single-pass JSON engine with strict RFC 8259 grammar
// validation and a 64-level nesting bound, adapted from Azure's
// az_json_reader/az_json_writer. The reader allocates nothing while
// tokenizing; NewReaderChunked copies its chunks into one new buffer. The
// writer is not allocation-free: each string or property name is escaped
// into a temporary heap slice before being copied into the destination.
package json

import "github.com/diwise/iot-core-sdk/pkg/span"

// TokenKind enumerates the shapes a Token can take.
type TokenKind int

const (
	KindNone TokenKind = iota
	KindBeginObject
	KindEndObject
	KindBeginArray
	KindEndArray
	KindPropertyName
	KindString
	KindNumber
	KindTrue
	KindFalse
	KindNull
)

func (k TokenKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindPropertyName:
		return "property_name"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Token is the result of one reader advance: a kind, the raw (possibly
// escaped) source slice, and whether that slice contains any `\x` escape.
// Numbers are never converted during tokenization; accessors in
// token_accessors.go decode them on demand.
type Token struct {
	Kind       TokenKind
	Slice      span.Span
	HasEscapes bool
}
