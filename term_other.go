//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd
// +build !linux,!darwin,!dragonfly,!freebsd,!netbsd,!openbsd

package main

// isTerminal always answers false where termios isn't available; the
// interactive prompt can still be had by passing -i.
func isTerminal(fd uintptr) bool { return false }
