//go:build linux

package threadid

import "golang.org/x/sys/unix"

func current() uint64 {
	return uint64(unix.Gettid())
}
