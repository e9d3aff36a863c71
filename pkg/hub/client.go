// Package hub builds and parses the opaque MQTT topic strings the cloud's
// device protocol uses for telemetry, cloud-to-device messages, direct
// methods, and twin/property synchronization, plus the immutable client
// state those builders and parsers are pure functions over. Adapted from
// Azure's az_iot_hub_client family.
package hub

import (
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// APIVersion is the cloud protocol version this client advertises in its
// MQTT user-name.
const APIVersion = "2020-09-30"

// SDKVersion identifies this module's release for the default user-agent.
const SDKVersion = "1.0.0"

// ContentType selects the wire format advertised for method/twin payloads.
type ContentType int

const (
	ContentTypeJSON ContentType = iota
	ContentTypeCBOR
)

// Options configures a Client beyond the required hostname/device id.
// Components lists the sub-device names the Properties layer should treat
// as components; a nil or empty table is valid and makes every property
// root-scoped (see pkg/properties).
type Options struct {
	ModuleID              string
	UserAgent             string
	ModelID               string
	MethodTwinContentType ContentType
	Components            []string
}

// Client is immutable, pure state over caller-supplied strings: no function
// below it blocks. They are not allocation-free: the topic builders and
// parsers concatenate strings, and ParseC2DMessage allocates its Bag.
type Client struct {
	hostname string
	deviceID string
	opts     Options
}

// NewClient stores references to hostname and deviceID (no copy) and
// applies opts (nil is equivalent to the zero Options).
func NewClient(hostname, deviceID string, opts *Options) (*Client, result.Code) {
	if hostname == "" || deviceID == "" {
		return nil, result.InvalidArgument
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.UserAgent == "" {
		o.UserAgent = "DeviceClientType=c/" + SDKVersion
	}
	return &Client{hostname: hostname, deviceID: deviceID, opts: o}, result.Ok
}

// Hostname returns the IoT hub hostname this client was constructed with.
func (c *Client) Hostname() string { return c.hostname }

// DeviceID returns the device id this client was constructed with.
func (c *Client) DeviceID() string { return c.deviceID }

// ModuleID returns the module id, if configured, and whether one is set.
func (c *Client) ModuleID() (string, bool) {
	return c.opts.ModuleID, c.opts.ModuleID != ""
}

// Components returns the configured component-name table (possibly empty).
func (c *Client) Components() []string { return c.opts.Components }

func appendSpan(dst, src span.Span) (span.Span, result.Code) {
	if len(dst) < len(src) {
		return nil, result.NotEnoughSpace
	}
	return span.Copy(dst, src), result.Ok
}

func appendStr(dst span.Span, s string) (span.Span, result.Code) {
	return appendSpan(dst, span.FromString(s))
}

// writtenLen computes how many bytes of dst were written given the
// remaining tail after a chain of appends.
func writtenLen(dst, tail span.Span) int {
	return len(dst) - len(tail)
}
