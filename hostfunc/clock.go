package hostfunc

import (
	"context"
	"time"
)

// ClockImport is the name of the millisecond clock import.
const ClockImport = "clock_ms"

// ClockMillis returns a Func reporting milliseconds since the Unix epoch as
// read from now. The value is truncated to 32 bits; the guest only ever
// subtracts two readings, so wraparound is harmless.
func ClockMillis(now func() time.Time) Func {
	return func(ctx context.Context) uint32 {
		return uint32(now().UnixMilli())
	}
}

// SystemClock is ClockMillis backed by time.Now.
func SystemClock() Func {
	return ClockMillis(time.Now)
}
