// Package platform declares the function-pointer hooks the core delegates
// to at its boundary: HMAC-SHA256, base64, a monotonic clock, and sleep.
// The core itself never calls these; only the retry policy does (the clock
// and sleep hooks), synchronously, on the caller's behalf.
package platform

import "time"

// Hooks bundles the four platform services the core treats as external
// collaborators. A zero-value Hooks is invalid; callers must supply at
// least ClockMsec and SleepMsec for pkg/retry, and HMACSHA256 for anything
// that needs to compute (rather than merely format) a SAS token.
type Hooks struct {
	// HMACSHA256 returns the HMAC-SHA256 digest of message under key.
	HMACSHA256 func(key, message []byte) ([]byte, error)
	// Base64Encode returns the standard base64 encoding of data.
	Base64Encode func(data []byte) string
	// ClockMsec returns a monotonically increasing millisecond counter.
	// It is never wall-clock time; only differences between two calls are
	// meaningful.
	ClockMsec func() int64
	// SleepMsec blocks the calling goroutine for the given duration.
	SleepMsec func(d int64)
}

// DefaultSleep implements Hooks.SleepMsec using the standard library timer,
// for callers (samples, tests) that don't need a custom scheduler.
func DefaultSleep(d int64) {
	time.Sleep(time.Duration(d) * time.Millisecond)
}

var clockStart = time.Now()

// DefaultClockMsec implements Hooks.ClockMsec using a monotonic
// time.Now() reading, for callers that don't need a custom clock source.
func DefaultClockMsec() int64 {
	return time.Since(clockStart).Milliseconds()
}
