package hub

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

func TestUserNameAndClientIDDefaults(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.UserName(span.Of(buf[:]))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "myiothub.azure-devices.net/my_device/?api-version=2020-09-30&DeviceClientType=c/"+SDKVersion)

	n, code = c.ClientID(span.Of(buf[:]))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "my_device")
}

func TestUserNameAndClientIDWithModule(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", &Options{
		ModuleID:  "my_module_id",
		UserAgent: "os=azrtos",
	})
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.UserName(span.Of(buf[:]))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "myiothub.azure-devices.net/my_device/my_module_id/?api-version=2020-09-30&os=azrtos")

	n, code = c.ClientID(span.Of(buf[:]))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "my_device/my_module_id")
}

func TestUserNameWithModelID(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", &Options{
		ModelID: "dtmi:YOUR_COMPANY_NAME_HERE:sample_device;1",
	})
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.UserName(span.Of(buf[:]))
	is.Equal(code, result.Ok)
	got := string(buf[:n])
	want := "myiothub.azure-devices.net/my_device/?api-version=2020-09-30&DeviceClientType=c/" + SDKVersion + "&model-id=dtmi%3AYOUR_COMPANY_NAME_HERE%3Asample_device%3B1"
	is.Equal(got, want)
}

func TestTelemetryPublishTopic(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.TelemetryPublishTopic(span.Of(buf[:]), span.FromString("key=value&key_two=value2"))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "devices/my_device/messages/events/key=value&key_two=value2")
}

func TestMethodResponsePublishTopic(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.MethodResponsePublishTopic(span.Of(buf[:]), 200, span.FromString("2"))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "$iothub/methods/res/200/?$rid=2")
}

func TestTwinGETPublishTopic(t *testing.T) {
	is := is.New(t)

	c, code := NewClient("myiothub.azure-devices.net", "my_device", nil)
	is.Equal(code, result.Ok)

	var buf [256]byte
	n, code := c.TwinGETPublishTopic(span.Of(buf[:]), span.FromString("id_one"))
	is.Equal(code, result.Ok)
	is.Equal(string(buf[:n]), "$iothub/twin/GET/?$rid=id_one")
}
