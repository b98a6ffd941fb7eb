// Package threadid resolves a stable identifier for the calling OS thread.
//
// Graphics contexts are current per thread, not per process, so the
// interception layer needs to know which thread a call arrived on. Callers
// that bind a context are expected to have pinned their goroutine with
// runtime.LockOSThread, which is the normal discipline for any code that
// touches a GL context from Go.
package threadid

// Current returns an identifier for the calling OS thread. The value is
// stable for the lifetime of the thread and never reused while the thread
// is alive.
func Current() uint64 {
	return current()
}
