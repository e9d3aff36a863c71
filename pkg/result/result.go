// Package result defines the closed set of outcomes returned by every
// public function in the core engines. It is deliberately not the stdlib
// error interface: callers need a comparable, allocation-free error kind
// they can switch on, not an opaque value.
package result

// Code is a closed, comparable error kind. The zero value is Ok.
type Code int

const (
	Ok Code = iota
	UnexpectedEnd
	UnexpectedChar
	NotEnoughSpace
	InvalidArgument
	NotSupported
	NotImplemented
	ItemNotFound
	EndOfProperties
	EndOfJSON
	JSONNestingOverflow
	JSONInvalidState
	JSONUnexpectedToken
	IoTTopicNoMatch
	IoTEndOfProperties
	HTTPCorruptResponse
	HTTPPipelineInvalidPolicy
	Canceled
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "ok"
	case UnexpectedEnd:
		return "unexpected end of input"
	case UnexpectedChar:
		return "unexpected character"
	case NotEnoughSpace:
		return "not enough space in destination"
	case InvalidArgument:
		return "invalid argument"
	case NotSupported:
		return "not supported"
	case NotImplemented:
		return "not implemented"
	case ItemNotFound:
		return "item not found"
	case EndOfProperties:
		return "end of properties"
	case EndOfJSON:
		return "end of json"
	case JSONNestingOverflow:
		return "json nesting overflow"
	case JSONInvalidState:
		return "json invalid state"
	case JSONUnexpectedToken:
		return "json unexpected token"
	case IoTTopicNoMatch:
		return "topic does not match"
	case IoTEndOfProperties:
		return "end of iot properties"
	case HTTPCorruptResponse:
		return "corrupt http response"
	case HTTPPipelineInvalidPolicy:
		return "invalid http pipeline policy"
	case Canceled:
		return "canceled"
	default:
		return "unknown result"
	}
}

// Error adapts a Code to the standard error interface, for the rare
// collaborator boundary (cmd/ samples, pkg/retry) that needs to participate
// in errors.Is/errors.As chains. The core packages themselves never return
// error, they return Code directly.
type Error struct {
	Code Code
}

func (e Error) Error() string { return e.Code.String() }

// Is lets errors.Is(err, result.Err(SomeCode)) work across wrapped errors.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

// Err wraps a Code as a standard error, for use at collaborator boundaries.
func Err(c Code) error {
	if c == Ok {
		return nil
	}
	return Error{Code: c}
}

// IsTerminator reports whether c is a loop-terminating marker rather than a
// true failure (EndOfProperties, EndOfJSON, IoTEndOfProperties).
func IsTerminator(c Code) bool {
	switch c {
	case EndOfProperties, EndOfJSON, IoTEndOfProperties:
		return true
	default:
		return false
	}
}
