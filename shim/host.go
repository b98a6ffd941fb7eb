package shim

import (
	"github.com/veilgpu/veil/glcontext"
	"github.com/veilgpu/veil/profile"
)

// HostAPI is the host application's exported per-context identity
// surface. The shim calls it first on every identity query; the session
// fallback and the real hardware answer only when the host is silent.
//
// Every method returns a found flag distinct from the zero value.
type HostAPI interface {
	// SpoofingEnabled reports whether the host wants identity
	// spoofing for the active context.
	SpoofingEnabled() bool

	// ContextString answers an identity-string query for the
	// active context.
	ContextString(name profile.StringName) (string, bool)

	// ContextInteger answers a numeric capability query for the
	// active context.
	ContextInteger(p profile.Param) (int64, bool)

	// ContextFloat answers a float capability query for the
	// active context.
	ContextFloat(p profile.Param) (float64, bool)

	// ContextPrecision answers a shader precision query for the
	// active context.
	ContextPrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, bool)

	// ContextExtensions answers the extension list for the active
	// context. The found flag is false when no context is active.
	ContextExtensions(gen profile.APIGeneration) ([]string, bool)
}

// ContextHost adapts the in-process context layer to HostAPI. The
// active context is the thread-current one, so the adapter carries no
// state of its own.
type ContextHost struct{}

// SpoofingEnabled reports true when a context is current on the
// calling thread.
func (ContextHost) SpoofingEnabled() bool {
	return glcontext.Current() != nil
}

// ContextString answers from the thread-current context's profile.
func (ContextHost) ContextString(name profile.StringName) (string, bool) {
	ctx := glcontext.Current()
	if ctx == nil {
		return "", false
	}
	return ctx.GetSpoofedString(name)
}

// ContextInteger answers from the thread-current context's profile.
func (ContextHost) ContextInteger(p profile.Param) (int64, bool) {
	ctx := glcontext.Current()
	if ctx == nil {
		return 0, false
	}
	return ctx.GetSpoofedParameter(p)
}

// ContextFloat answers from the thread-current context's profile.
// Capability floats share the integer table; the conversion is exact
// for every limit the table carries.
func (ContextHost) ContextFloat(p profile.Param) (float64, bool) {
	ctx := glcontext.Current()
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.GetSpoofedParameter(p)
	return float64(v), ok
}

// ContextPrecision answers from the thread-current context's profile.
func (ContextHost) ContextPrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, bool) {
	ctx := glcontext.Current()
	if ctx == nil {
		return profile.Precision{}, false
	}
	return ctx.GetSpoofedPrecision(stage, level)
}

// ContextExtensions answers from the thread-current context's profile.
func (ContextHost) ContextExtensions(gen profile.APIGeneration) ([]string, bool) {
	ctx := glcontext.Current()
	if ctx == nil {
		return nil, false
	}
	return ctx.GetSpoofedExtensions(gen), true
}

// Interface compliance check.
var _ HostAPI = ContextHost{}
