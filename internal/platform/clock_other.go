//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !solaris

package platform

import "time"

// Monotonic returns a monotonic clock reading from an arbitrary fixed
// origin, derived from the runtime's monotonic time.
func Monotonic() time.Duration {
	return time.Since(start)
}
