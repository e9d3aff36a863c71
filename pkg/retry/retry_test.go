package retry

import (
	"errors"
	"testing"

	"github.com/diwise/iot-core-sdk/pkg/platform"
	"github.com/diwise/iot-core-sdk/pkg/span"
	"github.com/matryer/is"
)

var errTransport = errors.New("transport failed")

func TestParseRetryAfterMsec(t *testing.T) {
	is := is.New(t)

	v, ok := ParseRetryAfterMsec(span.FromString("1500"))
	is.True(ok)
	is.Equal(v, int32(1500))

	_, ok = ParseRetryAfterMsec(span.FromString("not-a-number"))
	is.True(!ok)

	v, ok = ParseRetryAfterMsec(span.FromString("9999999999"))
	is.True(ok)
	is.Equal(v, int32(1<<31-1))
}

func TestParseRetryAfterSeconds(t *testing.T) {
	is := is.New(t)

	v, ok := ParseRetryAfterSeconds(span.FromString("5"))
	is.True(ok)
	is.Equal(v, int32(5000))

	_, ok = ParseRetryAfterSeconds(span.FromString("Wed, 21 Oct 2015 07:28:00 GMT"))
	is.True(!ok)
}

func TestGetRetryAfterNonRetryableStatus(t *testing.T) {
	is := is.New(t)

	shouldRetry, delay := GetRetryAfter(DefaultOptions(), 404, nil)
	is.True(!shouldRetry)
	is.Equal(delay, int32(-1))
}

func TestGetRetryAfterNoHeader(t *testing.T) {
	is := is.New(t)

	shouldRetry, delay := GetRetryAfter(DefaultOptions(), 503, nil)
	is.True(shouldRetry)
	is.Equal(delay, int32(-1))
}

func TestGetRetryAfterMsecHeader(t *testing.T) {
	is := is.New(t)

	shouldRetry, delay := GetRetryAfter(DefaultOptions(), 429, []Header{
		{Name: "x-ms-retry-after-ms", Value: "250"},
	})
	is.True(shouldRetry)
	is.Equal(delay, int32(250))
}

func TestGetRetryAfterSecondsHeader(t *testing.T) {
	is := is.New(t)

	shouldRetry, delay := GetRetryAfter(DefaultOptions(), 503, []Header{
		{Name: "Retry-After", Value: "2"},
	})
	is.True(shouldRetry)
	is.Equal(delay, int32(2000))
}

func TestCalcDelayGrowsAndCaps(t *testing.T) {
	is := is.New(t)

	opts := Options{RetryDelayMsec: 1000, MaxRetryDelayMsec: 4000}

	d1 := CalcDelay(opts, 1)
	d3 := CalcDelay(opts, 3)
	d10 := CalcDelay(opts, 10)

	is.True(d1 > 0)
	is.True(d3 > d1/2)
	is.True(d10 <= int32(opts.MaxRetryDelayMsec))
}

func fakeHooks(clock *int64) platform.Hooks {
	return platform.Hooks{
		ClockMsec: func() int64 { return *clock },
		SleepMsec: func(d int64) { *clock += d },
	}
}

func TestDoSucceedsWithoutRetry(t *testing.T) {
	is := is.New(t)

	var clock int64
	calls := 0
	status, code := Do(DefaultOptions(), fakeHooks(&clock), 0, func() (int, []Header, error) {
		calls++
		return 200, nil, nil
	})

	is.Equal(code.String(), "ok")
	is.Equal(status, 200)
	is.Equal(calls, 1)
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	is := is.New(t)

	var clock int64
	calls := 0
	status, code := Do(DefaultOptions(), fakeHooks(&clock), 0, func() (int, []Header, error) {
		calls++
		if calls < 3 {
			return 503, nil, nil
		}
		return 200, nil, nil
	})

	is.Equal(code.String(), "ok")
	is.Equal(status, 200)
	is.Equal(calls, 3)
}

func TestDoHonorsDeadline(t *testing.T) {
	is := is.New(t)

	var clock int64
	status, code := Do(DefaultOptions(), fakeHooks(&clock), 1, func() (int, []Header, error) {
		return 503, nil, nil
	})

	is.Equal(code.String(), "canceled")
	is.Equal(status, 503)
}

func TestDoPropagatesTransportError(t *testing.T) {
	is := is.New(t)

	var clock int64
	_, code := Do(DefaultOptions(), fakeHooks(&clock), 0, func() (int, []Header, error) {
		return 0, nil, errTransport
	})

	is.Equal(code.String(), "corrupt http response")
}
