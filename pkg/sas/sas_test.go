package sas

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

func TestGetDocument(t *testing.T) {
	is := is.New(t)

	var buf [128]byte
	out, code := GetDocument(span.FromString("myiothub.azure-devices.net"), span.FromString("mytest_deviceid"), 1578941692, span.Of(buf[:]))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:len(buf)-len(out)]), "myiothub.azure-devices.net/devices/mytest_deviceid\n1578941692")
}

func TestGenerate(t *testing.T) {
	is := is.New(t)

	var buf [256]byte
	out, code := Generate(
		span.FromString("myiothub.azure-devices.net"),
		span.FromString("mytest_deviceid"),
		span.FromString("cS1eHM%2FlDjsRsrZV9508wOFrgmZk4g8FNg8NwHVSiSQ"),
		1578941692,
		span.FromString("iothubowner"),
		span.Of(buf[:]),
	)
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:len(buf)-len(out)]), "SharedAccessSignature sr=myiothub.azure-devices.net/devices/mytest_deviceid&sig=cS1eHM%2FlDjsRsrZV9508wOFrgmZk4g8FNg8NwHVSiSQ&se=1578941692&skn=iothubowner")
}

func TestGenerateWithoutKeyName(t *testing.T) {
	is := is.New(t)

	var buf [256]byte
	out, code := Generate(
		span.FromString("myiothub.azure-devices.net"),
		span.FromString("mytest_deviceid"),
		span.FromString("sig"),
		1578941692,
		nil,
		span.Of(buf[:]),
	)
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:len(buf)-len(out)]), "SharedAccessSignature sr=myiothub.azure-devices.net/devices/mytest_deviceid&sig=sig&se=1578941692")
}

func TestGetDocumentNotEnoughSpace(t *testing.T) {
	is := is.New(t)

	var buf [4]byte
	_, code := GetDocument(span.FromString("myiothub.azure-devices.net"), span.FromString("mytest_deviceid"), 1578941692, span.Of(buf[:]))
	is.Equal(code, result.NotEnoughSpace)
}
