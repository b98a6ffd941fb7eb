// Package intercept dispatches intercepted graphics calls to per-call
// handlers that decide whether the real call runs, is replaced, or runs
// with modified arguments.
//
// The dispatcher fails open: with no current context or no handler for a
// call, the verdict is Continue and the real call executes untouched. An
// unspoofed call is recoverable; a crashed renderer is not.
package intercept

import (
	"sync"

	"github.com/veilgpu/veil/glcontext"
	"github.com/veilgpu/veil/profile"
)

// Action is the verdict a handler returns for one intercepted call.
type Action uint8

const (
	// Continue lets the real call execute unmodified.
	Continue Action = iota
	// Handled means the handler produced the result; skip the real call.
	Handled
	// Modified means arguments were rewritten; the real call still runs.
	Modified
	// ActionError means the handler failed; the real call runs and the
	// error is recorded in statistics.
	ActionError
)

func (a Action) String() string {
	switch a {
	case Handled:
		return "handled"
	case Modified:
		return "modified"
	case ActionError:
		return "error"
	default:
		return "continue"
	}
}

// Invocation carries one intercepted call through dispatch. Input fields
// are set by the caller; handlers write their results into the Out fields
// when they return Handled, or rewrite inputs when they return Modified.
type Invocation struct {
	Call    Call
	Context *glcontext.Context

	// Inputs, populated per call kind.
	Param      profile.Param
	StringName profile.StringName
	Stage      profile.ShaderStage
	Level      profile.PrecisionLevel
	Generation profile.APIGeneration
	ObjectID   uint32
	Source     string
	Pixels     []byte
	Width      int
	Height     int

	// Outputs.
	OutInt        int64
	OutFloat      float64
	OutString     string
	OutPrecision  profile.Precision
	OutExtensions []string
	Err           error
}

// Handler inspects an invocation and returns a verdict.
type Handler func(inv *Invocation) Action

// Stats counts dispatch outcomes. The zero value is ready to use.
type Stats struct {
	Total    uint64
	Handled  uint64
	Modified uint64
	Errors   uint64
	PerCall  map[Call]uint64
}

// Interceptor routes intercepted calls to registered handlers.
// It is safe for concurrent use; the handler table and the statistics are
// guarded by separate locks so stats updates never serialize dispatch.
type Interceptor struct {
	mu       sync.RWMutex
	handlers map[Call]Handler

	statsMu sync.Mutex
	stats   Stats
}

// New creates an interceptor with an empty handler table.
func New() *Interceptor {
	return &Interceptor{
		handlers: make(map[Call]Handler),
		stats:    Stats{PerCall: make(map[Call]uint64)},
	}
}

// Register installs (or replaces) the handler for a call.
func (i *Interceptor) Register(c Call, h Handler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handlers[c] = h
}

// Unregister removes the handler for a call.
func (i *Interceptor) Unregister(c Call) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.handlers, c)
}

// Dispatch resolves the active context, runs the call's handler, and
// returns its verdict.
//
// If inv.Context is nil it is filled from the calling thread's current
// context. No current context means no spoofing: the verdict is Continue.
func (i *Interceptor) Dispatch(inv *Invocation) Action {
	i.countTotal(inv.Call)

	if inv.Context == nil {
		inv.Context = glcontext.Current()
	}
	if inv.Context == nil {
		return Continue
	}

	i.mu.RLock()
	h := i.handlers[inv.Call]
	i.mu.RUnlock()
	if h == nil {
		return Continue
	}

	a := h(inv)
	switch a {
	case Handled:
		i.statsMu.Lock()
		i.stats.Handled++
		i.statsMu.Unlock()
	case Modified:
		i.statsMu.Lock()
		i.stats.Modified++
		i.statsMu.Unlock()
	case ActionError:
		i.statsMu.Lock()
		i.stats.Errors++
		i.statsMu.Unlock()
	}
	return a
}

func (i *Interceptor) countTotal(c Call) {
	i.statsMu.Lock()
	i.stats.Total++
	i.stats.PerCall[c]++
	i.statsMu.Unlock()
}

// Stats returns a copy of the current statistics.
func (i *Interceptor) Stats() Stats {
	i.statsMu.Lock()
	defer i.statsMu.Unlock()
	out := i.stats
	out.PerCall = make(map[Call]uint64, len(i.stats.PerCall))
	for k, v := range i.stats.PerCall {
		out.PerCall[k] = v
	}
	return out
}

// ResetStats zeroes the statistics.
func (i *Interceptor) ResetStats() {
	i.statsMu.Lock()
	defer i.statsMu.Unlock()
	i.stats = Stats{PerCall: make(map[Call]uint64)}
}
