package propbag

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

func TestFind(t *testing.T) {
	is := is.New(t)

	buf := span.FromString("key_one=value_one")
	bag, code := New(buf, len(buf))
	is.Equal(code, result.Ok)

	v, code := bag.Find(span.FromString("key_one"))
	is.Equal(code, result.Ok)
	is.Equal(string(v), "value_one")
}

func TestFindRejectsValueAndSubstring(t *testing.T) {
	is := is.New(t)

	buf := span.FromString("key_one=value_one")
	bag, code := New(buf, len(buf))
	is.Equal(code, result.Ok)

	_, code = bag.Find(span.FromString("value_one"))
	is.Equal(code, result.ItemNotFound)

	_, code = bag.Find(span.FromString("one"))
	is.Equal(code, result.ItemNotFound)
}

func TestIteratorYieldsInOrder(t *testing.T) {
	is := is.New(t)

	buf := span.FromString("key_one=value_one&key_two=value_two&key_three=value_three")
	bag, code := New(buf, len(buf))
	is.Equal(code, result.Ok)

	it := bag.NewIterator()

	type pair struct{ name, value string }
	var got []pair
	for {
		name, value, code := it.Next()
		if code == result.EndOfProperties {
			break
		}
		is.Equal(code, result.Ok)
		got = append(got, pair{string(name), string(value)})
	}

	is.Equal(got, []pair{
		{"key_one", "value_one"},
		{"key_two", "value_two"},
		{"key_three", "value_three"},
	})
}

func TestAppend(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 64)
	bag, code := New(span.Of(buf), 0)
	is.Equal(code, result.Ok)

	is.Equal(bag.Append(span.FromString("a"), span.FromString("1")), result.Ok)
	is.Equal(bag.Append(span.FromString("b"), span.FromString("2")), result.Ok)
	is.Equal(string(bag.Bytes()), "a=1&b=2")
}

func TestAppendNotEnoughSpace(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 2)
	bag, code := New(span.Of(buf), 0)
	is.Equal(code, result.Ok)
	is.Equal(bag.Append(span.FromString("a"), span.FromString("1")), result.NotEnoughSpace)
}

func TestRemoveRetryHeaders(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 64)
	n := copy(buf, "a=1")
	bag, code := New(span.Of(buf), n)
	is.Equal(code, result.Ok)

	is.Equal(bag.Append(span.FromString("retry"), span.FromString("1")), result.Ok)
	is.Equal(string(bag.Bytes()), "a=1&retry=1")

	bag.RemoveRetryHeaders()
	is.Equal(string(bag.Bytes()), "a=1")
}
