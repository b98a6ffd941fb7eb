package shim

import (
	"sort"

	"github.com/veilgpu/veil/intercept"
)

// RealProcLookup resolves a function name to the real library's opaque
// handle. The interception backend provides it; zero means unresolved.
type RealProcLookup func(name string) uintptr

// ProcHandle is the result of a function-pointer lookup through the
// shim. A wrapped handle routes through the shim's own entry point; an
// unwrapped one carries the real library's address untouched.
type ProcHandle struct {
	// Name is the requested function name.
	Name string
	// Wrapped is true when the shim overrides this entry point.
	Wrapped bool
	// Call identifies the shim entry point when Wrapped.
	Call intercept.Call
	// Addr is the real library's handle when not Wrapped, zero otherwise.
	Addr uintptr
}

// overrideTable maps function names to their interceptor call id. It is
// derived from the intercept.Call enum so that "which calls are
// intercepted" has exactly one source of truth.
var overrideTable = buildOverrideTable()

func buildOverrideTable() map[string]intercept.Call {
	t := make(map[string]intercept.Call)
	for _, c := range intercept.Calls() {
		t[c.String()] = c
	}
	return t
}

// IsOverridden reports whether the shim wraps the named entry point.
func IsOverridden(name string) bool {
	_, ok := overrideTable[name]
	return ok
}

// Overrides returns the sorted list of wrapped entry point names.
func Overrides() []string {
	names := make([]string, 0, len(overrideTable))
	for name := range overrideTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProcAddress intercepts the real library's function-pointer lookup.
// Entry points the shim overrides resolve to wrapped handles; everything
// else resolves through real and passes straight through. Callers that
// resolve functions dynamically see exactly the same identity surface
// as direct linkage.
func (s *Shim) GetProcAddress(name string, real RealProcLookup) ProcHandle {
	if call, ok := overrideTable[name]; ok {
		s.mu.RLock()
		verbose := s.cfg.Verbose
		s.mu.RUnlock()
		if verbose {
			Logger().Debug("shim: proc lookup wrapped", "name", name)
		}
		return ProcHandle{Name: name, Wrapped: true, Call: call}
	}

	var addr uintptr
	if real != nil {
		addr = real(name)
	}
	return ProcHandle{Name: name, Addr: addr}
}
