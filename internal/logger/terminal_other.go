//go:build !linux && !darwin && !windows

package logger

// isTerminal reports false on platforms without terminal detection; output
// stays uncolored there.
func isTerminal(fd uintptr) bool {
	return false
}
