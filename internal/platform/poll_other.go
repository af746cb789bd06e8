//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package platform

import "time"

// WaitReadable is unavailable here; callers fall back to blocking reads.
func WaitReadable(fd uintptr, timeout time.Duration) (bool, error) {
	return false, ErrUnsupported
}
