package hub

import (
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// UserName formats the MQTT username into dst and returns the written
// length. Query ordering is fixed: api-version first, then the
// user-agent, then default-content-type when CBOR is selected, then
// model-id when configured.
func (c *Client) UserName(dst span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, c.hostname)
	if code != result.Ok {
		return 0, code
	}
	out, code = appendStr(out, "/"+c.deviceID)
	if code != result.Ok {
		return 0, code
	}
	if c.opts.ModuleID != "" {
		out, code = appendStr(out, "/"+c.opts.ModuleID)
		if code != result.Ok {
			return 0, code
		}
	}
	out, code = appendStr(out, "/?api-version="+APIVersion+"&"+c.opts.UserAgent)
	if code != result.Ok {
		return 0, code
	}
	if c.opts.MethodTwinContentType == ContentTypeCBOR {
		out, code = appendStr(out, "&default-content-type=application%2Fcbor")
		if code != result.Ok {
			return 0, code
		}
	}
	if c.opts.ModelID != "" {
		out, code = appendStr(out, "&model-id=")
		if code != result.Ok {
			return 0, code
		}
		n, ec := span.URLEncode(out, span.FromString(c.opts.ModelID))
		if ec != result.Ok {
			return 0, ec
		}
		out = out[n:]
	}
	return writtenLen(dst, out), result.Ok
}

// ClientID formats the MQTT client-id into dst and returns the written length.
func (c *Client) ClientID(dst span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, c.deviceID)
	if code != result.Ok {
		return 0, code
	}
	if c.opts.ModuleID != "" {
		out, code = appendStr(out, "/"+c.opts.ModuleID)
		if code != result.Ok {
			return 0, code
		}
	}
	return writtenLen(dst, out), result.Ok
}

func (c *Client) devicePathPrefix() string {
	if c.opts.ModuleID != "" {
		return "devices/" + c.deviceID + "/modules/" + c.opts.ModuleID
	}
	return "devices/" + c.deviceID
}

// TelemetryPublishTopic formats the telemetry-publish topic, appending
// properties verbatim (the caller is responsible for URL-encoding any
// reserved bytes in the property bag beforehand).
func (c *Client) TelemetryPublishTopic(dst span.Span, properties span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, c.devicePathPrefix()+"/messages/events/")
	if code != result.Ok {
		return 0, code
	}
	out, code = appendSpan(out, properties)
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// C2DSubscribeTopic formats the cloud-to-device subscribe topic.
func (c *Client) C2DSubscribeTopic(dst span.Span) (int, result.Code) {
	out, code := appendStr(dst, "devices/"+c.deviceID+"/messages/devicebound/#")
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// MethodSubscribeTopic formats the direct-method subscribe topic.
func (c *Client) MethodSubscribeTopic(dst span.Span) (int, result.Code) {
	out, code := appendStr(dst, "$iothub/methods/POST/#")
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// MethodResponsePublishTopic formats the direct-method response topic.
func (c *Client) MethodResponsePublishTopic(dst span.Span, status int, requestID span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, "$iothub/methods/res/")
	if code != result.Ok {
		return 0, code
	}
	out, code = span.I32ToA(out, int32(status))
	if code != result.Ok {
		return 0, code
	}
	out, code = appendStr(out, "/?$rid=")
	if code != result.Ok {
		return 0, code
	}
	out, code = appendSpan(out, requestID)
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// TwinResponseSubscribeTopic formats the twin-response subscribe topic.
func (c *Client) TwinResponseSubscribeTopic(dst span.Span) (int, result.Code) {
	out, code := appendStr(dst, "$iothub/twin/res/#")
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// TwinGETPublishTopic formats the twin-GET-request publish topic.
func (c *Client) TwinGETPublishTopic(dst span.Span, requestID span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, "$iothub/twin/GET/?$rid=")
	if code != result.Ok {
		return 0, code
	}
	out, code = appendSpan(out, requestID)
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// TwinReportedPropertiesPatchTopic formats the reported-properties PATCH
// publish topic.
func (c *Client) TwinReportedPropertiesPatchTopic(dst span.Span, requestID span.Span) (int, result.Code) {
	out := dst
	var code result.Code

	out, code = appendStr(out, "$iothub/twin/PATCH/properties/reported/?$rid=")
	if code != result.Ok {
		return 0, code
	}
	out, code = appendSpan(out, requestID)
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}

// DesiredPropertiesSubscribeTopic formats the desired-property-patch
// subscribe topic.
func (c *Client) DesiredPropertiesSubscribeTopic(dst span.Span) (int, result.Code) {
	out, code := appendStr(dst, "$iothub/twin/PATCH/properties/desired/#")
	if code != result.Ok {
		return 0, code
	}
	return writtenLen(dst, out), result.Ok
}
