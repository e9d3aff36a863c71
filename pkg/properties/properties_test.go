package properties

import (
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/hub"
	"github.com/diwise/iot-core-sdk/pkg/json"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

const scenarioPayload = `{"component_one":{"prop_one":1,"prop_two":"string"},"component_two":{"prop_three":45,"prop_four":"string"},"not_component":42,"$version":5}`

func scenarioClient(t *testing.T) *hub.Client {
	t.Helper()
	c, code := hub.NewClient("myiothub.azure-devices.net", "my_device", &hub.Options{
		Components: []string{"component_one", "component_two"},
	})
	if code != result.Ok {
		t.Fatalf("NewClient: %v", code)
	}
	return c
}

func TestGetPropertiesVersionDesiredPatch(t *testing.T) {
	is := is.New(t)

	v, code := GetPropertiesVersion(span.FromString(scenarioPayload), DocumentDesiredPatch)
	is.Equal(code, result.Ok)
	is.Equal(v, int32(5))
}

func TestGetPropertiesVersionGet(t *testing.T) {
	is := is.New(t)

	doc := `{"desired":{"a":1,"$version":7},"reported":{"b":2}}`
	v, code := GetPropertiesVersion(span.FromString(doc), DocumentGet)
	is.Equal(code, result.Ok)
	is.Equal(v, int32(7))
}

type yield struct {
	component, name string
	value           string
}

func TestIteratorLiteralScenario(t *testing.T) {
	is := is.New(t)

	client := scenarioClient(t)
	it, code := NewIterator(client, span.FromString(scenarioPayload), DocumentDesiredPatch, WriteableFromCloud)
	is.Equal(code, result.Ok)

	var got []yield
	for {
		component, name, code := it.Next()
		if code == result.IoTEndOfProperties {
			break
		}
		is.Equal(code, result.Ok)
		is.Equal(it.Reader().NextToken(), result.Ok)

		got = append(got, yield{
			component: string(component),
			name:      string(name),
			value:     string(it.Reader().Token().Slice),
		})
	}

	is.Equal(got, []yield{
		{"component_one", "prop_one", "1"},
		{"component_one", "prop_two", "string"},
		{"component_two", "prop_three", "45"},
		{"component_two", "prop_four", "string"},
		{"", "not_component", "42"},
	})
}

func TestIteratorUserAdvanceDiscipline(t *testing.T) {
	is := is.New(t)

	client := scenarioClient(t)
	it, code := NewIterator(client, span.FromString(scenarioPayload), DocumentDesiredPatch, WriteableFromCloud)
	is.Equal(code, result.Ok)

	component, name, code := it.Next()
	is.Equal(code, result.Ok)
	is.Equal(string(component), "component_one")
	is.Equal(string(name), "prop_one")

	_, _, code = it.Next()
	is.Equal(code, result.JSONInvalidState)
}

func TestIteratorRejectsReportedOnDesiredPatch(t *testing.T) {
	is := is.New(t)

	client := scenarioClient(t)
	_, code := NewIterator(client, span.FromString(scenarioPayload), DocumentDesiredPatch, ReportedFromDevice)
	is.Equal(code, result.InvalidArgument)
}

func TestBuilderBeginEndComponent(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 128)
	w := json.NewWriter(span.Of(buf), json.WriterOptions{})

	is.Equal(w.AppendBeginObject(), result.Ok)
	is.Equal(BuilderBeginComponent(w, "thermostat"), result.Ok)
	is.Equal(w.AppendPropertyName(span.FromString("target_temperature")), result.Ok)
	is.Equal(w.AppendInt32(21), result.Ok)
	is.Equal(BuilderEndComponent(w), result.Ok)
	is.Equal(w.AppendEndObject(), result.Ok)

	is.Equal(string(w.Bytes()), `{"thermostat":{"__t":"c","target_temperature":21}}`)
}

func TestBuilderBeginEndResponseStatus(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 128)
	w := json.NewWriter(span.Of(buf), json.WriterOptions{})

	is.Equal(w.AppendBeginObject(), result.Ok)
	is.Equal(BuilderBeginResponseStatus(w, "target_temperature", 200, 3, "success"), result.Ok)
	is.Equal(w.AppendInt32(21), result.Ok)
	is.Equal(BuilderEndResponseStatus(w), result.Ok)
	is.Equal(w.AppendEndObject(), result.Ok)

	is.Equal(string(w.Bytes()), `{"target_temperature":{"ac":200,"av":3,"ad":"success","value":21}}`)
}

func TestBuilderBeginResponseStatusOmitsEmptyDescription(t *testing.T) {
	is := is.New(t)

	buf := make([]byte, 128)
	w := json.NewWriter(span.Of(buf), json.WriterOptions{})

	is.Equal(w.AppendBeginObject(), result.Ok)
	is.Equal(BuilderBeginResponseStatus(w, "target_temperature", 200, 3, ""), result.Ok)
	is.Equal(w.AppendInt32(21), result.Ok)
	is.Equal(BuilderEndResponseStatus(w), result.Ok)
	is.Equal(w.AppendEndObject(), result.Ok)

	is.Equal(string(w.Bytes()), `{"target_temperature":{"ac":200,"av":3,"value":21}}`)
}
