package hub

import (
	"github.com/diwise/iot-core-sdk/pkg/propbag"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// C2DMessage is the parse result of an inbound cloud-to-device topic.
type C2DMessage struct {
	Properties *propbag.Bag
}

// ParseC2DMessage matches topic against
// "devices/{deviceID}/messages/devicebound/..." and returns a property-bag
// view over everything after the trailing slash. An empty bag (the
// metadata-only C2D case) is a valid parse.
func (c *Client) ParseC2DMessage(topic span.Span) (C2DMessage, result.Code) {
	prefix := span.FromString("devices/" + c.deviceID + "/messages/devicebound/")
	if len(topic) < len(prefix) || !span.IsContentEqual(topic[:len(prefix)], prefix) {
		return C2DMessage{}, result.IoTTopicNoMatch
	}
	rest := topic[len(prefix):]
	bag, code := propbag.New(rest, len(rest))
	if code != result.Ok {
		return C2DMessage{}, code
	}
	return C2DMessage{Properties: bag}, result.Ok
}

// MethodRequest is the parse result of an inbound direct-method topic.
type MethodRequest struct {
	Name      span.Span
	RequestID span.Span
}

const methodPrefix = "$iothub/methods/"

// ParseMethodRequest matches topic against
// "$iothub/methods/POST/{name}/?$rid={id}".
func ParseMethodRequest(topic span.Span) (MethodRequest, result.Code) {
	if !hasPrefix(topic, methodPrefix) {
		return MethodRequest{}, result.IoTTopicNoMatch
	}
	rest := topic[len(methodPrefix):]
	if !hasPrefix(rest, "POST/") {
		return MethodRequest{}, result.UnexpectedChar
	}
	rest = rest[len("POST/"):]

	slash := span.Find(rest, span.FromString("/"))
	if slash == -1 {
		return MethodRequest{}, result.UnexpectedChar
	}
	name := rest[:slash]
	query := rest[slash+1:]
	if hasPrefix(query, "?") {
		query = query[1:]
	}

	rid, code := queryValue(query, "$rid")
	if code != result.Ok {
		return MethodRequest{}, result.UnexpectedChar
	}
	return MethodRequest{Name: name, RequestID: rid}, result.Ok
}

// TwinResponseKind classifies an inbound twin message.
type TwinResponseKind int

const (
	TwinGet TwinResponseKind = iota
	TwinReportedProperties
	TwinDesiredProperties
)

// TwinResponse is the parse result of an inbound twin-response or
// desired-property-patch topic.
type TwinResponse struct {
	Kind      TwinResponseKind
	Status    int
	RequestID span.Span
	Version   span.Span
}

const twinPrefix = "$iothub/twin/"
const twinResPrefix = twinPrefix + "res/"
const twinDesiredPatchPrefix = twinPrefix + "PATCH/properties/desired/"

// ParseTwinMessage matches topic against either
// "$iothub/twin/res/{status}/?$rid=..&$version=.." (twin GET or reported
// properties acknowledgement) or
// "$iothub/twin/PATCH/properties/desired/?$version=.." (a desired property
// patch notification).
func ParseTwinMessage(topic span.Span) (TwinResponse, result.Code) {
	if !hasPrefix(topic, twinPrefix) {
		return TwinResponse{}, result.IoTTopicNoMatch
	}

	if hasPrefix(topic, twinDesiredPatchPrefix) {
		rest := topic[len(twinDesiredPatchPrefix):]
		if hasPrefix(rest, "?") {
			rest = rest[1:]
		}
		version, _ := queryValue(rest, "$version")
		return TwinResponse{Kind: TwinDesiredProperties, Status: 200, Version: version}, result.Ok
	}

	if !hasPrefix(topic, twinResPrefix) {
		return TwinResponse{}, result.IoTTopicNoMatch
	}
	rest := topic[len(twinResPrefix):]
	if len(rest) < 3 {
		return TwinResponse{}, result.UnexpectedChar
	}
	statusSlice := rest[:3]
	status, code := span.AtoI32(statusSlice)
	if code != result.Ok {
		return TwinResponse{}, result.UnexpectedChar
	}
	rest = rest[3:]
	if hasPrefix(rest, "/") {
		rest = rest[1:]
	}
	if hasPrefix(rest, "?") {
		rest = rest[1:]
	}

	requestID, hasRID := queryValue(rest, "$rid")
	version, hasVersion := queryValue(rest, "$version")

	var kind TwinResponseKind
	switch {
	case hasRID == result.Ok && hasVersion == result.Ok:
		kind = TwinReportedProperties
	case hasRID == result.Ok:
		kind = TwinGet
	case status == 200:
		kind = TwinDesiredProperties
	default:
		return TwinResponse{}, result.UnexpectedChar
	}

	return TwinResponse{
		Kind:      kind,
		Status:    int(status),
		RequestID: requestID,
		Version:   version,
	}, result.Ok
}

func hasPrefix(s span.Span, prefix string) bool {
	p := span.FromString(prefix)
	return len(s) >= len(p) && span.IsContentEqual(s[:len(p)], p)
}

// queryValue extracts the value of key from an MQTT query string of the
// form "k1=v1&k2=v2". Returns result.ItemNotFound if key is absent.
func queryValue(query span.Span, key string) (span.Span, result.Code) {
	bag, code := propbagFromQuery(query)
	if code != result.Ok {
		return nil, code
	}
	return bag.Find(span.FromString(key))
}

func propbagFromQuery(query span.Span) (*bagView, result.Code) {
	return &bagView{buf: query}, result.Ok
}

// bagView is a minimal read-only "k=v&k=v" scanner local to topic parsing
// (query strings here are never appended to, only searched).
type bagView struct {
	buf span.Span
}

func (v *bagView) Find(name span.Span) (span.Span, result.Code) {
	content := v.buf
	pos := 0
	for pos < len(content) {
		end := span.Find(content[pos:], span.FromString("&"))
		var pair span.Span
		if end == -1 {
			pair = content[pos:]
		} else {
			pair = content[pos : pos+end]
		}
		eq := span.Find(pair, span.FromString("="))
		if eq != -1 && span.IsContentEqual(pair[:eq], name) {
			return pair[eq+1:], result.Ok
		}
		if end == -1 {
			break
		}
		pos += end + 1
	}
	return nil, result.ItemNotFound
}
