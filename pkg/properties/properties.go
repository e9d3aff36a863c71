// Package properties wraps the JSON reader/writer with the cloud's
// component-framing convention for device twin documents: a
// `"name":{"__t":"c",...}` discriminator marking a sub-device component,
// and a `{"ac":...,"av":...,"ad":"...","value":...}` acknowledgement
// envelope for writeable-property responses. Adapted from Azure's
// az_iot_hub_client_properties_* family.
package properties

import (
	"github.com/diwise/iot-core-sdk/pkg/hub"
	"github.com/diwise/iot-core-sdk/pkg/json"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// DocumentKind distinguishes the two shapes a twin payload arrives in.
type DocumentKind int

const (
	// DocumentGet is a full twin response: {"desired":{...},"reported":{...}}.
	DocumentGet DocumentKind = iota
	// DocumentDesiredPatch is a flat desired-property patch notification:
	// {...,"$version":N}.
	DocumentDesiredPatch
)

// PropertyKind selects which subtree of a DocumentGet document to walk.
// A DocumentDesiredPatch has only one subtree, and NewIterator accepts only
// WriteableFromCloud for it.
type PropertyKind int

const (
	// WriteableFromCloud walks the "desired" subtree.
	WriteableFromCloud PropertyKind = iota
	// ReportedFromDevice walks the "reported" subtree.
	ReportedFromDevice
)

const versionKey = "$version"
const componentSentinelKey = "__t"

// BuilderBeginComponent emits `"name":{"__t":"c"` into w, opening a
// sub-device component object. Matched by BuilderEndComponent.
func BuilderBeginComponent(w *json.Writer, name string) result.Code {
	if code := w.AppendPropertyName(span.FromString(name)); code != result.Ok {
		return code
	}
	if code := w.AppendBeginObject(); code != result.Ok {
		return code
	}
	if code := w.AppendPropertyName(span.FromString(componentSentinelKey)); code != result.Ok {
		return code
	}
	return w.AppendString(span.FromString("c"))
}

// BuilderEndComponent closes the object opened by BuilderBeginComponent.
func BuilderEndComponent(w *json.Writer) result.Code {
	return w.AppendEndObject()
}

// BuilderBeginResponseStatus emits
// `"propertyName":{"ac":ackCode,"av":ackVersion[,"ad":"ackDescription"],"value":`
// into w. The caller writes any single JSON value next, then calls
// BuilderEndResponseStatus. ackDescription is omitted from the envelope
// when empty.
func BuilderBeginResponseStatus(w *json.Writer, propertyName string, ackCode, ackVersion int32, ackDescription string) result.Code {
	if code := w.AppendPropertyName(span.FromString(propertyName)); code != result.Ok {
		return code
	}
	if code := w.AppendBeginObject(); code != result.Ok {
		return code
	}
	if code := w.AppendPropertyName(span.FromString("ac")); code != result.Ok {
		return code
	}
	if code := w.AppendInt32(ackCode); code != result.Ok {
		return code
	}
	if code := w.AppendPropertyName(span.FromString("av")); code != result.Ok {
		return code
	}
	if code := w.AppendInt32(ackVersion); code != result.Ok {
		return code
	}
	if ackDescription != "" {
		if code := w.AppendPropertyName(span.FromString("ad")); code != result.Ok {
			return code
		}
		if code := w.AppendString(span.FromString(ackDescription)); code != result.Ok {
			return code
		}
	}
	return w.AppendPropertyName(span.FromString("value"))
}

// BuilderEndResponseStatus closes the wrapper opened by
// BuilderBeginResponseStatus, after the caller has written the value.
func BuilderEndResponseStatus(w *json.Writer) result.Code {
	return w.AppendEndObject()
}

// GetPropertiesVersion parses a fresh reader over buf and returns the
// integer value of the document's "$version" key at the appropriate depth
// for docKind. Because the underlying reader is forward-only, this always
// starts from the beginning of buf, it never shares state with an
// in-progress Iterator over the same document.
func GetPropertiesVersion(buf span.Span, docKind DocumentKind) (int32, result.Code) {
	r, code := json.NewReader(buf, json.ReaderOptions{})
	if code != result.Ok {
		return 0, code
	}
	if code := r.NextToken(); code != result.Ok {
		return 0, code
	}
	if r.Token().Kind != json.KindBeginObject {
		return 0, result.JSONInvalidState
	}

	if docKind == DocumentGet {
		if code := descendTo(r, "desired"); code != result.Ok {
			return 0, code
		}
	}

	for {
		if code := r.NextToken(); code != result.Ok {
			return 0, code
		}
		switch r.Token().Kind {
		case json.KindEndObject:
			return 0, result.ItemNotFound
		case json.KindPropertyName:
			if r.Token().IsTextEqual(span.FromString(versionKey)) {
				if code := r.NextToken(); code != result.Ok {
					return 0, code
				}
				return r.Token().GetInt32()
			}
			if code := r.SkipChildren(); code != result.Ok {
				return 0, code
			}
		default:
			return 0, result.JSONInvalidState
		}
	}
}

// descendTo advances r, currently positioned just inside an open object,
// to just inside the child object named key.
func descendTo(r *json.Reader, key string) result.Code {
	for {
		if code := r.NextToken(); code != result.Ok {
			return code
		}
		switch r.Token().Kind {
		case json.KindEndObject:
			return result.ItemNotFound
		case json.KindPropertyName:
			if r.Token().IsTextEqual(span.FromString(key)) {
				if code := r.NextToken(); code != result.Ok {
					return code
				}
				if r.Token().Kind != json.KindBeginObject {
					return result.JSONInvalidState
				}
				return result.Ok
			}
			if code := r.SkipChildren(); code != result.Ok {
				return code
			}
		default:
			return result.JSONInvalidState
		}
	}
}

// Iterator walks the writeable- or reported-property subtree of a twin
// document in order, descending into configured components and skipping
// their "__t" sentinel transparently.
//
// Discipline: after Next yields a property, the caller must advance the
// underlying Reader before calling Next again, either by reading the
// value (calling Reader().NextToken() once, for a primitive) or by
// skipping it (calling Reader().SkipChildren(), for a container). Calling
// Next again without doing either deterministically returns
// result.JSONInvalidState.
type Iterator struct {
	client        *hub.Client
	r             *json.Reader
	componentName span.Span
	started       bool
	offsetAtYield int
}

// NewIterator constructs an Iterator over buf for docKind/propKind,
// positioning the reader just inside the relevant subtree; Next transparently
// skips "$version" wherever it occurs at root scope. Querying a
// DocumentDesiredPatch with propKind ReportedFromDevice is a precondition
// violation, reported here as InvalidArgument.
func NewIterator(client *hub.Client, buf span.Span, docKind DocumentKind, propKind PropertyKind) (*Iterator, result.Code) {
	if docKind == DocumentDesiredPatch && propKind == ReportedFromDevice {
		return nil, result.InvalidArgument
	}

	r, code := json.NewReader(buf, json.ReaderOptions{})
	if code != result.Ok {
		return nil, code
	}
	if code := r.NextToken(); code != result.Ok {
		return nil, code
	}
	if r.Token().Kind != json.KindBeginObject {
		return nil, result.JSONInvalidState
	}

	if docKind == DocumentGet {
		key := "desired"
		if propKind == ReportedFromDevice {
			key = "reported"
		}
		if code := descendTo(r, key); code != result.Ok {
			return nil, code
		}
	}

	return &Iterator{client: client, r: r}, result.Ok
}

// Reader returns the underlying JSON reader, positioned at the
// most-recently-yielded property's value, for the caller to read or skip.
func (it *Iterator) Reader() *json.Reader { return it.r }

// Next yields the next (component, name) pair in document order, where
// component is empty for a root-scoped property. Returns
// result.IoTEndOfProperties once the subtree is exhausted.
func (it *Iterator) Next() (component, name span.Span, code result.Code) {
	if it.started && it.r.Offset() == it.offsetAtYield {
		return nil, nil, result.JSONInvalidState
	}

	advance := true
	for {
		if advance {
			if code := it.r.NextToken(); code != result.Ok {
				return nil, nil, code
			}
		}
		advance = true

		switch it.r.Token().Kind {
		case json.KindEndObject:
			if it.componentName != nil {
				it.componentName = nil
				continue
			}
			return nil, nil, result.IoTEndOfProperties

		case json.KindPropertyName:
			propName := it.r.Token().Slice

			if it.componentName == nil && it.r.Token().IsTextEqual(span.FromString(versionKey)) {
				if code := it.r.NextToken(); code != result.Ok { // skip $version's value
					return nil, nil, code
				}
				continue
			}

			if it.componentName == nil && isComponentName(it.client, it.r.Token()) {
				it.componentName = propName
				if code := it.r.NextToken(); code != result.Ok { // enter component object
					return nil, nil, code
				}
				if it.r.Token().Kind != json.KindBeginObject {
					return nil, nil, result.JSONInvalidState
				}
				if code := it.r.NextToken(); code != result.Ok {
					return nil, nil, code
				}
				if it.r.Token().Kind == json.KindPropertyName && it.r.Token().IsTextEqual(span.FromString(componentSentinelKey)) {
					if code := it.r.NextToken(); code != result.Ok { // skip sentinel value
						return nil, nil, code
					}
					// advance stays true: the current token is the
					// sentinel's value, not a property name.
					continue
				}
				advance = false
				continue
			}

			it.started = true
			it.offsetAtYield = it.r.Offset()
			return it.componentName, propName, result.Ok

		default:
			return nil, nil, result.JSONInvalidState
		}
	}
}

func isComponentName(client *hub.Client, t json.Token) bool {
	if client == nil {
		return false
	}
	for _, c := range client.Components() {
		if t.IsTextEqual(span.FromString(c)) {
			return true
		}
	}
	return false
}
