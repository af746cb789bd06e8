//go:build linux

package platform

// golang.org/x/sys/unix does not export POLLRDNORM for linux; the value is
// 0x40 in <poll.h> on every linux architecture.
const pollRDNORM = 0x40
