// Package sas formats the shared-access-signature string-to-sign document
// and the assembled SAS token. It never computes or base64-encodes the
// HMAC digest itself, that's the platform.Hooks.HMACSHA256/Base64Encode
// boundary's job; sas only assembles caller-supplied pieces into the exact
// wire text, adapted from Azure's az_iot_hub_client_sas_* family.
package sas

import (
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// GetDocument produces "{hostname}/devices/{deviceID}\n{expirySeconds}"
// into dst, returning the unused tail.
func GetDocument(hostname, deviceID span.Span, expirySeconds uint64, dst span.Span) (span.Span, result.Code) {
	out := dst
	var code result.Code

	out, code = appendSpan(out, hostname)
	if code != result.Ok {
		return nil, code
	}
	out, code = appendSpan(out, span.FromString("/devices/"))
	if code != result.Ok {
		return nil, code
	}
	out, code = appendSpan(out, deviceID)
	if code != result.Ok {
		return nil, code
	}
	out, code = appendSpan(out, span.FromString("\n"))
	if code != result.Ok {
		return nil, code
	}
	out, code = span.U64ToA(out, expirySeconds)
	if code != result.Ok {
		return nil, code
	}
	return out, result.Ok
}

// Generate produces the full SAS token:
//
//	SharedAccessSignature sr={hostname}/devices/{deviceID}&sig={signature}&se={expirySeconds}[&skn={keyName}]
//
// signature is a caller-supplied, already-URL-encoded HMAC-SHA256 base64
// digest; the SDK never computes it.
func Generate(hostname, deviceID, signature span.Span, expirySeconds uint64, keyName span.Span, dst span.Span) (span.Span, result.Code) {
	out := dst
	var code result.Code

	parts := []span.Span{
		span.FromString("SharedAccessSignature sr="),
		hostname,
		span.FromString("/devices/"),
		deviceID,
		span.FromString("&sig="),
		signature,
	}
	for _, p := range parts {
		out, code = appendSpan(out, p)
		if code != result.Ok {
			return nil, code
		}
	}

	out, code = appendSpan(out, span.FromString("&se="))
	if code != result.Ok {
		return nil, code
	}
	out, code = span.U64ToA(out, expirySeconds)
	if code != result.Ok {
		return nil, code
	}

	if len(keyName) > 0 {
		out, code = appendSpan(out, span.FromString("&skn="))
		if code != result.Ok {
			return nil, code
		}
		out, code = appendSpan(out, keyName)
		if code != result.Ok {
			return nil, code
		}
	}

	return out, result.Ok
}

func appendSpan(dst, src span.Span) (span.Span, result.Code) {
	if len(dst) < len(src) {
		return nil, result.NotEnoughSpace
	}
	return span.Copy(dst, src), result.Ok
}
