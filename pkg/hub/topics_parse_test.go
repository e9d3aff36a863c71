package hub

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

func TestParseTwinMessageDesiredPatch(t *testing.T) {
	is := is.New(t)

	m, code := ParseTwinMessage(span.FromString("$iothub/twin/PATCH/properties/desired/?$version=id_one"))
	is.Equal(code, result.Ok)
	is.Equal(m.Kind, TwinDesiredProperties)
	is.Equal(string(m.Version), "id_one")
	is.Equal(len(m.RequestID), 0)
	is.Equal(m.Status, 200)
}

func TestParseTwinMessageGet(t *testing.T) {
	is := is.New(t)

	m, code := ParseTwinMessage(span.FromString("$iothub/twin/res/200/?$rid=id_one"))
	is.Equal(code, result.Ok)
	is.Equal(m.Kind, TwinGet)
	is.Equal(string(m.RequestID), "id_one")
	is.Equal(m.Status, 200)
}

func TestParseTwinMessageReportedProperties(t *testing.T) {
	is := is.New(t)

	m, code := ParseTwinMessage(span.FromString("$iothub/twin/res/204/?$rid=id_one&$version=16"))
	is.Equal(code, result.Ok)
	is.Equal(m.Kind, TwinReportedProperties)
	is.Equal(string(m.Version), "16")
	is.Equal(m.Status, 204)
}

func TestParseTwinMessageNoMatch(t *testing.T) {
	is := is.New(t)

	_, code := ParseTwinMessage(span.FromString("$iothub/twin/rez/200"))
	is.Equal(code, result.IoTTopicNoMatch)
}

func TestParseMethodRequest(t *testing.T) {
	is := is.New(t)

	m, code := ParseMethodRequest(span.FromString("$iothub/methods/POST/TestMethod/?$rid=1"))
	is.Equal(code, result.Ok)
	is.Equal(string(m.Name), "TestMethod")
	is.Equal(string(m.RequestID), "1")
}

func TestParseC2DMessage(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	msg, code := c.ParseC2DMessage(span.FromString("devices/my_device/messages/devicebound/key=value"))
	is.Equal(code, result.Ok)

	v, code := msg.Properties.Find(span.FromString("key"))
	is.Equal(code, result.Ok)
	is.Equal(string(v), "value")
}

func TestParseC2DMessageNoMatch(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	_, code = c.ParseC2DMessage(span.FromString("devices/other_device/messages/devicebound/key=value"))
	is.Equal(code, result.IoTTopicNoMatch)
}
