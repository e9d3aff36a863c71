package json

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

func TestWriterObject(t *testing.T) {
	is := is.New(t)

	var buf [128]byte
	w := NewWriter(span.Of(buf[:]), WriterOptions{})

	is.Equal(w.AppendBeginObject(), result.Ok)
	is.Equal(w.AppendPropertyName(span.FromString("a")), result.Ok)
	is.Equal(w.AppendInt32(1), result.Ok)
	is.Equal(w.AppendPropertyName(span.FromString("b")), result.Ok)
	is.Equal(w.AppendString(span.FromString("two")), result.Ok)
	is.Equal(w.AppendEndObject(), result.Ok)

	is.Equal(string(w.Bytes()), `{"a":1,"b":"two"}`)
}

func TestWriterRejectsValueWithoutPropertyName(t *testing.T) {
	is := is.New(t)

	var buf [64]byte
	w := NewWriter(span.Of(buf[:]), WriterOptions{})
	is.Equal(w.AppendBeginObject(), result.Ok)
	is.Equal(w.AppendInt32(1), result.JSONInvalidState)
}

func TestWriterEscapesStrings(t *testing.T) {
	is := is.New(t)

	var buf [64]byte
	w := NewWriter(span.Of(buf[:]), WriterOptions{})
	is.Equal(w.AppendString(span.FromString("line\nbreak\t\"quoted\"")), result.Ok)
	is.Equal(string(w.Bytes()), `"line\nbreak\t\"quoted\""`)
}

func TestWriterNotEnoughSpace(t *testing.T) {
	is := is.New(t)

	var buf [3]byte
	w := NewWriter(span.Of(buf[:]), WriterOptions{})
	is.Equal(w.AppendString(span.FromString("too long")), result.NotEnoughSpace)
}

func TestWriterMismatchedCloseFails(t *testing.T) {
	is := is.New(t)

	var buf [64]byte
	w := NewWriter(span.Of(buf[:]), WriterOptions{})
	is.Equal(w.AppendBeginArray(), result.Ok)
	is.Equal(w.AppendEndObject(), result.JSONInvalidState)
}
