package veil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/veilgpu/veil/backend"
	"github.com/veilgpu/veil/glcontext"
	"github.com/veilgpu/veil/intercept"
	"github.com/veilgpu/veil/profile"
	"github.com/veilgpu/veil/render"
	"github.com/veilgpu/veil/shader"
	"github.com/veilgpu/veil/timing"
)

// Common system errors.
var (
	// ErrSystemClosed is returned when operations run after Shutdown.
	ErrSystemClosed = errors.New("veil: system closed")

	// ErrContextNotFound is returned for an unknown context id.
	ErrContextNotFound = errors.New("veil: context not found")
)

// System is the engine's root object. It owns the profile registry, the
// interceptor, the shader translator, the pixel and timing normalizers,
// the live context table, and the hardware probe.
//
// System is safe for concurrent use. Each subsystem carries its own
// lock; the system lock guards only the context table and lifecycle.
type System struct {
	mu       sync.RWMutex
	contexts map[uint64]*glcontext.Context
	closed   bool

	registry    *profile.Registry
	interceptor *intercept.Interceptor
	translator  *shader.Translator
	normalizer  *render.Normalizer
	timing      *timing.Normalizer
	clock       *timing.TimerProtection
	defense     *timing.DrawnApartDefense
	probe       backend.Backend
}

// NewSystem creates a system with the built-in profiles registered and
// default handlers installed for every intercepted call.
//
// A probe init failure is not fatal: the system logs it and falls back
// to the null backend, so identity queries answer from configuration
// only.
func NewSystem(opts ...Option) (*System, error) {
	o := defaultSystemOptions()
	for _, opt := range opts {
		opt(&o)
	}

	registry := profile.NewRegistry()
	if !o.skipBuiltin {
		if err := registry.RegisterBuiltin(); err != nil {
			return nil, fmt.Errorf("veil: builtin profiles: %w", err)
		}
	}
	for _, p := range o.profiles {
		if err := registry.Register(p); err != nil {
			return nil, fmt.Errorf("veil: profile %q: %w", p.ID, err)
		}
	}

	probe := o.backend
	if probe == nil {
		probe = backend.Default()
	}
	if probe == nil {
		probe = backend.NewNullBackend()
	}
	if err := probe.Init(); err != nil {
		Logger().Warn("veil: probe init failed, using null backend",
			"backend", probe.Name(), "error", err)
		probe = backend.NewNullBackend()
		_ = probe.Init()
	}

	defense := timing.NewDrawnApartDefense()
	sys := &System{
		contexts:    make(map[uint64]*glcontext.Context),
		registry:    registry,
		interceptor: intercept.New(),
		translator:  shader.NewTranslator(o.shaderOpts),
		normalizer:  render.NewNormalizer(o.renderCfg),
		timing:      timing.NewNormalizer(o.timingCfg, defense),
		clock:       timing.NewTimerProtection(o.timingCfg),
		defense:     defense,
		probe:       probe,
	}
	sys.installHandlers()

	Logger().Info("veil: system created",
		"profiles", registry.Len(), "backend", probe.Name())
	return sys, nil
}

// Registry returns the profile registry.
func (s *System) Registry() *profile.Registry { return s.registry }

// Interceptor returns the call dispatcher.
func (s *System) Interceptor() *intercept.Interceptor { return s.interceptor }

// Translator returns the shader translator.
func (s *System) Translator() *shader.Translator { return s.translator }

// Normalizer returns the pixel normalizer.
func (s *System) Normalizer() *render.Normalizer { return s.normalizer }

// Timing returns the operation timing normalizer.
func (s *System) Timing() *timing.Normalizer { return s.timing }

// Clock returns the protected high-resolution clock.
func (s *System) Clock() *timing.TimerProtection { return s.clock }

// Backend returns the hardware probe in use.
func (s *System) Backend() backend.Backend { return s.probe }

// CreateContext creates a rendering context bound to the named profile.
// The context's pixel read-backs route through the system normalizer.
func (s *System) CreateContext(profileID string) (*glcontext.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSystemClosed
	}

	p, err := s.registry.Get(profileID)
	if err != nil {
		return nil, err
	}

	ctx := glcontext.Create(p, glcontext.WithNormalizer(s.normalizer))
	s.contexts[ctx.ID()] = ctx

	Logger().Info("veil: context created", "id", ctx.ID(), "profile", profileID)
	return ctx, nil
}

// Context returns a live context by id.
func (s *System) Context(id uint64) (*glcontext.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrSystemClosed
	}
	ctx, ok := s.contexts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrContextNotFound, id)
	}
	return ctx, nil
}

// MakeCurrent binds a context to the calling thread. Identity queries
// dispatched from this thread resolve against it until it is cleared
// or another context becomes current.
func (s *System) MakeCurrent(id uint64) error {
	ctx, err := s.Context(id)
	if err != nil {
		return err
	}
	glcontext.MakeCurrent(ctx)
	return nil
}

// ClearCurrent unbinds the calling thread's context.
func (s *System) ClearCurrent() {
	glcontext.ClearCurrent()
}

// DestroyContext tears a context down and detaches it from every thread
// it was current on. Destroying an unknown id is a no-op.
func (s *System) DestroyContext(id uint64) {
	s.mu.Lock()
	ctx, ok := s.contexts[id]
	if ok {
		delete(s.contexts, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	glcontext.DetachAll(ctx)
	ctx.Destroy()
	Logger().Info("veil: context destroyed", "id", id)
}

// Intercept dispatches one intercepted call. With no current context
// and no inv.Context set, the verdict is Continue and the real call
// runs untouched.
func (s *System) Intercept(inv *intercept.Invocation) intercept.Action {
	return s.interceptor.Dispatch(inv)
}

// Shutdown destroys all contexts and releases the probe. The system
// rejects further context operations; statistics remain readable.
func (s *System) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	contexts := s.contexts
	s.contexts = make(map[uint64]*glcontext.Context)
	s.mu.Unlock()

	for _, ctx := range contexts {
		glcontext.DetachAll(ctx)
		ctx.Destroy()
	}
	s.probe.Close()
	Logger().Info("veil: system shut down", "contexts", len(contexts))
}

// installHandlers registers the default handler for every intercepted
// call. Handlers answer from the invocation's context; the dispatcher
// already guarantees one is present.
func (s *System) installHandlers() {
	i := s.interceptor

	i.Register(intercept.CallGetString, func(inv *intercept.Invocation) intercept.Action {
		v, ok := inv.Context.GetSpoofedString(inv.StringName)
		if !ok {
			return intercept.Continue
		}
		inv.OutString = v
		return intercept.Handled
	})

	i.Register(intercept.CallGetIntegerv, func(inv *intercept.Invocation) intercept.Action {
		v, ok := inv.Context.GetSpoofedParameter(inv.Param)
		if !ok {
			return intercept.Continue
		}
		inv.OutInt = v
		return intercept.Handled
	})

	i.Register(intercept.CallGetFloatv, func(inv *intercept.Invocation) intercept.Action {
		v, ok := inv.Context.GetSpoofedParameter(inv.Param)
		if !ok {
			return intercept.Continue
		}
		inv.OutFloat = float64(v)
		return intercept.Handled
	})

	i.Register(intercept.CallGetShaderPrecisionFormat, func(inv *intercept.Invocation) intercept.Action {
		p, ok := inv.Context.GetSpoofedPrecision(inv.Stage, inv.Level)
		if !ok {
			return intercept.Continue
		}
		inv.OutPrecision = p
		return intercept.Handled
	})

	i.Register(intercept.CallGetExtensions, func(inv *intercept.Invocation) intercept.Action {
		inv.OutExtensions = inv.Context.GetSpoofedExtensions(inv.Generation)
		return intercept.Handled
	})

	i.Register(intercept.CallShaderSource, func(inv *intercept.Invocation) intercept.Action {
		if !s.translator.NeedsTranslation(inv.Source) {
			inv.Context.TrackShader(inv.ObjectID, inv.Stage, false)
			return intercept.Continue
		}
		res, err := s.translator.Translate(inv.Source, inv.Stage, inv.Context.Profile())
		if err != nil {
			inv.Err = err
			return intercept.ActionError
		}
		inv.Source = res.Source
		inv.Context.TrackShader(inv.ObjectID, inv.Stage, true)
		return intercept.Modified
	})

	i.Register(intercept.CallCompileShader, s.timedHandler(timing.OpCompileShader))
	i.Register(intercept.CallLinkProgram, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.TrackProgram(inv.ObjectID)
		return s.timedHandler(timing.OpLinkProgram)(inv)
	})
	i.Register(intercept.CallDrawArrays, s.timedHandler(timing.OpDraw))
	i.Register(intercept.CallDrawElements, s.timedHandler(timing.OpDraw))

	i.Register(intercept.CallReadPixels, func(inv *intercept.Invocation) intercept.Action {
		id := s.timing.BeginOperation(timing.OpReadPixels, inv.Context.Profile())
		inv.Context.NormalizePixels(inv.Pixels, inv.Width, inv.Height)
		if _, err := s.timing.EndOperation(id); err != nil {
			inv.Err = err
			return intercept.ActionError
		}
		return intercept.Modified
	})

	i.Register(intercept.CallCreateShader, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.TrackShader(inv.ObjectID, inv.Stage, false)
		return intercept.Continue
	})
	i.Register(intercept.CallDeleteShader, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.RemoveShader(inv.ObjectID)
		return intercept.Continue
	})
	i.Register(intercept.CallCreateProgram, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.TrackProgram(inv.ObjectID)
		return intercept.Continue
	})
	i.Register(intercept.CallDeleteProgram, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.RemoveProgram(inv.ObjectID)
		return intercept.Continue
	})
	i.Register(intercept.CallGenTextures, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.TrackTexture(inv.ObjectID, inv.Width, inv.Height)
		return intercept.Continue
	})
	i.Register(intercept.CallDeleteTextures, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.RemoveTexture(inv.ObjectID)
		return intercept.Continue
	})
	i.Register(intercept.CallGenFramebuffers, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.TrackFramebuffer(inv.ObjectID)
		return intercept.Continue
	})
	i.Register(intercept.CallDeleteFramebuffers, func(inv *intercept.Invocation) intercept.Action {
		inv.Context.RemoveFramebuffer(inv.ObjectID)
		return intercept.Continue
	})
}

// timedHandler wraps the real call in the timing normalizer: a bounded
// busy-delay stretches the observed duration onto the quantized grid.
func (s *System) timedHandler(kind timing.OpKind) intercept.Handler {
	return func(inv *intercept.Invocation) intercept.Action {
		id := s.timing.BeginOperation(kind, inv.Context.Profile())
		if _, err := s.timing.EndOperation(id); err != nil {
			inv.Err = err
			return intercept.ActionError
		}
		return intercept.Modified
	}
}

// ProtectedNow reads the protected clock: quantized, jittered, and
// monotone. Pages that difference timestamps see the grid, not the GPU.
func (s *System) ProtectedNow() time.Duration {
	return s.clock.Now()
}
