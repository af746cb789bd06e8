// Package platform isolates the few OS-specific primitives the tool needs:
// a coarse monotonic clock and file-descriptor readiness polling. Platform
// differences (clock IDs, poll event bits) stay normalized in here so no
// conditional OS logic leaks into stream or command code.
package platform

import (
	"errors"
	"time"
)

// ErrUnsupported reports a primitive the current platform cannot provide.
var ErrUnsupported = errors.New("platform: not supported")

// start anchors the fallback monotonic reading on platforms without a
// usable monotonic clock syscall.
var start = time.Now()
