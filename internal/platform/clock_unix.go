//go:build darwin || freebsd || netbsd || openbsd || dragonfly || solaris

package platform

import (
	"time"

	"golang.org/x/sys/unix"
)

// Monotonic returns a monotonic clock reading from an arbitrary fixed
// origin. These platforms have no coarse clock ID; the precise monotonic
// source serves directly.
func Monotonic() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return time.Since(start)
	}
	return time.Duration(ts.Nano())
}
