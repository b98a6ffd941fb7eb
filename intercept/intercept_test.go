package intercept

import (
	"runtime"
	"testing"

	"github.com/veilgpu/veil/glcontext"
	"github.com/veilgpu/veil/profile"
)

func TestDispatchWithoutContextContinues(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	glcontext.ClearCurrent()

	i := New()
	i.Register(CallGetString, func(inv *Invocation) Action {
		t.Error("handler ran without a current context")
		return Handled
	})

	inv := &Invocation{Call: CallGetString, StringName: profile.StringVendor}
	if a := i.Dispatch(inv); a != Continue {
		t.Errorf("Dispatch = %v, want Continue", a)
	}
}

func TestDispatchWithoutHandlerContinues(t *testing.T) {
	i := New()
	ctx := glcontext.Create(profile.NewNVIDIARTX3060())
	inv := &Invocation{Call: CallReadPixels, Context: ctx}
	if a := i.Dispatch(inv); a != Continue {
		t.Errorf("Dispatch = %v, want Continue", a)
	}
}

func TestDispatchRunsHandler(t *testing.T) {
	i := New()
	ctx := glcontext.Create(profile.NewNVIDIARTX3060())

	i.Register(CallGetString, func(inv *Invocation) Action {
		s, ok := inv.Context.GetSpoofedString(inv.StringName)
		if !ok {
			return Continue
		}
		inv.OutString = s
		return Handled
	})

	inv := &Invocation{Call: CallGetString, Context: ctx, StringName: profile.StringRenderer}
	if a := i.Dispatch(inv); a != Handled {
		t.Fatalf("Dispatch = %v, want Handled", a)
	}
	if inv.OutString != ctx.Profile().Caps.Renderer {
		t.Errorf("OutString = %q", inv.OutString)
	}
}

func TestDispatchUsesThreadCurrentContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx := glcontext.Create(profile.NewAppleM1())
	glcontext.MakeCurrent(ctx)
	defer glcontext.ClearCurrent()

	i := New()
	var seen *glcontext.Context
	i.Register(CallDrawArrays, func(inv *Invocation) Action {
		seen = inv.Context
		return Continue
	})

	i.Dispatch(&Invocation{Call: CallDrawArrays})
	if seen != ctx {
		t.Error("dispatch did not resolve the thread's current context")
	}
}

func TestStats(t *testing.T) {
	i := New()
	ctx := glcontext.Create(profile.NewNVIDIARTX3060())

	i.Register(CallGetIntegerv, func(inv *Invocation) Action { return Handled })
	i.Register(CallShaderSource, func(inv *Invocation) Action { return Modified })
	i.Register(CallLinkProgram, func(inv *Invocation) Action { return ActionError })

	i.Dispatch(&Invocation{Call: CallGetIntegerv, Context: ctx})
	i.Dispatch(&Invocation{Call: CallGetIntegerv, Context: ctx})
	i.Dispatch(&Invocation{Call: CallShaderSource, Context: ctx})
	i.Dispatch(&Invocation{Call: CallLinkProgram, Context: ctx})
	i.Dispatch(&Invocation{Call: CallDrawArrays, Context: ctx}) // no handler

	s := i.Stats()
	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.Handled != 2 || s.Modified != 1 || s.Errors != 1 {
		t.Errorf("Handled/Modified/Errors = %d/%d/%d, want 2/1/1", s.Handled, s.Modified, s.Errors)
	}
	if s.PerCall[CallGetIntegerv] != 2 {
		t.Errorf("PerCall[glGetIntegerv] = %d, want 2", s.PerCall[CallGetIntegerv])
	}

	// The returned stats are a copy.
	s.PerCall[CallGetIntegerv] = 99
	if i.Stats().PerCall[CallGetIntegerv] != 2 {
		t.Error("Stats() exposed internal map")
	}

	i.ResetStats()
	if i.Stats().Total != 0 {
		t.Error("ResetStats did not zero totals")
	}
}

func TestCallString(t *testing.T) {
	if CallGetString.String() != "glGetString" {
		t.Errorf("CallGetString.String() = %q", CallGetString.String())
	}
	if Call(9999).String() != "unknown" {
		t.Error("out-of-range call id should stringify as unknown")
	}
	if len(Calls()) == 0 {
		t.Error("Calls() is empty")
	}
}
