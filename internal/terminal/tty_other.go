//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package terminal

func isTerminal(fd int) bool {
	return false
}

func windowWidth(fd int) int {
	return 0
}
