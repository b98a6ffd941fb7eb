//go:build !linux

package threadid

import (
	"bytes"
	"runtime"
	"strconv"
)

// On platforms without a cheap thread-id syscall we fall back to the
// goroutine id. For callers that follow the LockOSThread discipline a
// goroutine maps 1:1 onto an OS thread, so the value serves the same
// purpose: distinguishing concurrent callers from one another.
func current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// The first line reads "goroutine <id> [running]:".
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
