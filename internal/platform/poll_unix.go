//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package platform

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// WaitReadable blocks until fd has data to read, reporting false without
// error when the timeout passes first. A negative timeout waits forever.
// Both the normal-priority band bit and the plain readable bit are armed,
// since platforms disagree about which one a regular descriptor raises;
// hangup and error conditions also count as readable so a closed peer wakes
// the caller into the read that will report it.
func WaitReadable(fd uintptr, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{
		Fd:     int32(fd),
		Events: unix.POLLIN | pollRDNORM,
	}}

	ms := -1
	var deadline time.Duration
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
		deadline = Monotonic() + timeout
	}

	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			if timeout >= 0 {
				remaining := deadline - Monotonic()
				if remaining <= 0 {
					return false, nil
				}
				ms = int(remaining.Milliseconds())
			}
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, nil
		}

		revents := fds[0].Revents
		return revents&(unix.POLLIN|pollRDNORM|unix.POLLHUP|unix.POLLERR) != 0, nil
	}
}
