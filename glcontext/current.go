package glcontext

import (
	"sync"

	"github.com/veilgpu/veil/internal/threadid"
)

// The current context is scoped to the calling OS thread, mirroring how GL
// itself binds contexts. It is never shared across threads: MakeCurrent on
// one thread is invisible on every other.
//
// Callers are expected to have pinned their goroutine with
// runtime.LockOSThread before binding, which is the standard discipline
// for GL work in Go.

var (
	currentMu sync.RWMutex
	current   = make(map[uint64]*Context)
)

// MakeCurrent binds ctx as the calling thread's current context. Passing
// nil is equivalent to ClearCurrent.
func MakeCurrent(ctx *Context) {
	tid := threadid.Current()
	currentMu.Lock()
	defer currentMu.Unlock()
	if ctx == nil {
		delete(current, tid)
		return
	}
	current[tid] = ctx
}

// Current returns the calling thread's current context, or nil.
func Current() *Context {
	tid := threadid.Current()
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current[tid]
}

// ClearCurrent unbinds the calling thread's current context.
func ClearCurrent() {
	MakeCurrent(nil)
}

// DetachAll removes ctx from every thread binding. Called on context
// destruction so a torn-down context can never be resolved again.
func DetachAll(ctx *Context) {
	currentMu.Lock()
	defer currentMu.Unlock()
	for tid, c := range current {
		if c == ctx {
			delete(current, tid)
		}
	}
}
