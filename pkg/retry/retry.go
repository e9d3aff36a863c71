// Package retry implements the HTTP retry-header parsing and backoff
// policy, not part of the allocation-free core, but a real piece of a
// complete device SDK, built the way the core's platform hooks are meant
// to be driven. Adapted from Azure's az_http_policy_retry.c.
package retry

import (
	"math/rand"

	"github.com/diwise/iot-core-sdk/pkg/platform"
	"github.com/diwise/iot-core-sdk/pkg/result"
	"github.com/diwise/iot-core-sdk/pkg/span"
)

// Options configures the retry policy. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	MaxRetries        int16
	RetryDelayMsec    int32
	MaxRetryDelayMsec int32
	StatusCodes       []int
}

// DefaultOptions mirrors az_http_policy_retry_options_default: 4 retries,
// a 4-second base delay, a 2-minute cap, and the standard transient status
// codes (408, 429, 500, 502, 503, 504).
func DefaultOptions() Options {
	return Options{
		MaxRetries:        4,
		RetryDelayMsec:    4000,
		MaxRetryDelayMsec: 120000,
		StatusCodes:       []int{408, 429, 500, 502, 503, 504},
	}
}

func isRetryableStatus(opts Options, status int) bool {
	for _, c := range opts.StatusCodes {
		if c == status {
			return true
		}
	}
	return false
}

// ParseRetryAfterMsec parses an unsigned 32-bit decimal millisecond count
// (the value of a retry-after-ms or x-ms-retry-after-ms header), clamping
// to int32 max. Returns false if value isn't a valid unsigned decimal.
func ParseRetryAfterMsec(value span.Span) (int32, bool) {
	v, code := span.AtoU32(value)
	if code != result.Ok {
		return 0, false
	}
	if v > 1<<31-1 {
		return 1<<31 - 1, true
	}
	return int32(v), true
}

// ParseRetryAfterSeconds parses an unsigned 32-bit decimal second count
// (the value of a Retry-After header) and converts to milliseconds,
// clamping to int32 max. HTTP-Date form is not supported, matching
// Azure's stated non-goal for this header; an unparseable value returns
// false.
func ParseRetryAfterSeconds(value span.Span) (int32, bool) {
	seconds, code := span.AtoU32(value)
	if code != result.Ok {
		return 0, false
	}
	const maxSeconds = (1<<31 - 1) / 1000
	if seconds > maxSeconds {
		return 1<<31 - 1, true
	}
	return int32(seconds) * 1000, true
}

// Header is a single HTTP response header as used by GetRetryAfter. Name
// comparison is case-insensitive, per RFC 7230.
type Header struct {
	Name  string
	Value string
}

// GetRetryAfter inspects status and headers and reports whether the
// request should be retried and, if so, how long to wait before retrying
// (-1 when no explicit retry-after header was present and the caller
// should fall back to CalcDelay).
func GetRetryAfter(opts Options, status int, headers []Header) (shouldRetry bool, delayMsec int32) {
	if !isRetryableStatus(opts, status) {
		return false, -1
	}

	for _, h := range headers {
		if span.IsContentEqualIgnoringCase(span.FromString(h.Name), span.FromString("retry-after-ms")) ||
			span.IsContentEqualIgnoringCase(span.FromString(h.Name), span.FromString("x-ms-retry-after-ms")) {
			if msec, ok := ParseRetryAfterMsec(span.FromString(h.Value)); ok {
				return true, msec
			}
			continue
		}
		if span.IsContentEqualIgnoringCase(span.FromString(h.Name), span.FromString("Retry-After")) {
			if msec, ok := ParseRetryAfterSeconds(span.FromString(h.Value)); ok {
				return true, msec
			}
		}
	}

	return true, -1
}

// CalcDelay computes the exponential backoff delay for the given attempt
// (1-based): RetryDelayMsec doubled per attempt after the first, multiplied
// by a random factor in [0.9, 1.1), and capped at opts.MaxRetryDelayMsec.
// The original C SDK's exact jitter formula lives in az_retry.c, which was
// not part of the retrieved source pack; this plain exponential backoff
// with jitter stands in its place.
func CalcDelay(opts Options, attempt int16) int32 {
	if attempt < 1 {
		attempt = 1
	}
	delay := int64(opts.RetryDelayMsec)
	for i := int16(1); i < attempt; i++ {
		delay *= 2
		if delay > int64(opts.MaxRetryDelayMsec) {
			delay = int64(opts.MaxRetryDelayMsec)
			break
		}
	}
	jitter := 1.0 + (rand.Float64()*0.2 - 0.1)
	delay = int64(float64(delay) * jitter)
	if delay > int64(opts.MaxRetryDelayMsec) {
		delay = int64(opts.MaxRetryDelayMsec)
	}
	if delay < 0 {
		delay = 0
	}
	return int32(delay)
}

// Attempt is a single try of the underlying operation: it performs the
// request and reports the response status and headers observed (or an
// error if the transport itself failed, which is never retried).
type Attempt func() (status int, headers []Header, err error)

// Do drives Attempt through up to opts.MaxRetries retries, sleeping
// between attempts via hooks.SleepMsec and honoring deadlineMsec (a
// hooks.ClockMsec-scale deadline; zero means no deadline). It returns
// result.Canceled if the deadline elapses before the next attempt, and
// otherwise propagates the last attempt's transport error via
// result.HTTPCorruptResponse.
func Do(opts Options, hooks platform.Hooks, deadlineMsec int64, do Attempt) (status int, code result.Code) {
	var attempt int16 = 1
	for {
		st, headers, err := do()
		if err != nil {
			return 0, result.HTTPCorruptResponse
		}

		if attempt > opts.MaxRetries {
			return st, result.Ok
		}

		shouldRetry, retryAfter := GetRetryAfter(opts, st, headers)
		if !shouldRetry {
			return st, result.Ok
		}

		attempt++
		if retryAfter < 0 {
			retryAfter = CalcDelay(opts, attempt)
		}

		hooks.SleepMsec(int64(retryAfter))

		if deadlineMsec != 0 && hooks.ClockMsec() >= deadlineMsec {
			return st, result.Canceled
		}
	}
}
