//go:build linux

package platform

import (
	"time"

	"golang.org/x/sys/unix"
)

// Monotonic returns a monotonic clock reading from an arbitrary fixed
// origin. The coarse clock source is preferred: its tick granularity is
// plenty for poll-interval and timeout bookkeeping, and it stays cheap on
// kernels where the precise read leaves the vDSO. Kernels without the
// coarse source fall back to the precise one.
func Monotonic() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_COARSE, &ts); err != nil {
		if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
			return time.Since(start)
		}
	}
	return time.Duration(ts.Nano())
}
