// Package shim implements the process-boundary identity layer. It is
// the piece loaded into a rendering process in place of the real
// graphics-translation library: every identity-revealing entry point
// resolves through the chain per-context, then session, then real
// hardware, and answers not-found only when all three are silent.
package shim

import (
	"strings"
	"sync"

	"github.com/veilgpu/veil/backend"
	"github.com/veilgpu/veil/profile"
)

// Source identifies which layer of the resolution chain answered.
type Source uint8

const (
	// SourceNone means every layer was silent.
	SourceNone Source = iota
	// SourceContext means the host's per-context lookup answered.
	SourceContext
	// SourceSession means the process-wide fallback answered.
	SourceSession
	// SourceReal means the hardware probe answered.
	SourceReal
)

func (s Source) String() string {
	switch s {
	case SourceContext:
		return "context"
	case SourceSession:
		return "session"
	case SourceReal:
		return "real"
	default:
		return "none"
	}
}

// Shim routes identity queries through the resolution chain. One Shim
// per process; Init runs exactly once regardless of call count.
//
// The zero Shim is inert: before Init every resolver answers not-found.
type Shim struct {
	initOnce sync.Once

	mu   sync.RWMutex
	cfg  SessionConfig
	host HostAPI
	real backend.Backend

	// passthrough is set when the hardware probe failed to initialize.
	// Interception then answers not-found instead of guessing.
	passthrough bool
	initialized bool
}

// New creates an uninitialized Shim.
func New() *Shim {
	return &Shim{}
}

// Init wires the shim to its configuration, the host's per-context
// lookup, and a hardware probe. It never fails the host process: if the
// probe cannot initialize, the shim logs the failure, swaps in the null
// backend, and enters pass-through mode.
//
// Only the first call has any effect. host may be nil when the process
// has no per-context layer; real may be nil to select the default
// registered backend.
func (s *Shim) Init(cfg SessionConfig, host HostAPI, real backend.Backend) {
	s.initOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.cfg = cfg
		s.host = host

		if real == nil {
			real = backend.Default()
		}
		if real == nil {
			real = backend.NewNullBackend()
		}
		if err := real.Init(); err != nil {
			Logger().Warn("shim: probe init failed, entering pass-through",
				"backend", real.Name(), "error", err)
			real = backend.NewNullBackend()
			_ = real.Init()
			s.passthrough = true
		}
		s.real = real
		s.initialized = true

		Logger().Info("shim: initialized",
			"enabled", cfg.Enabled,
			"backend", real.Name(),
			"passthrough", s.passthrough,
			"vendor", cfg.Vendor,
			"renderer", cfg.Renderer)
	})
}

// Close releases the hardware probe. The shim answers not-found after.
func (s *Shim) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.real != nil {
		s.real.Close()
		s.real = nil
	}
	s.initialized = false
}

// Passthrough reports whether the shim runs without a hardware probe.
func (s *Shim) Passthrough() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passthrough
}

// Config returns the session configuration the shim was built with.
func (s *Shim) Config() SessionConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// hostEnabled reports whether per-context lookups should run.
func (s *Shim) hostEnabled() bool {
	return s.cfg.Enabled && s.host != nil && s.host.SpoofingEnabled()
}

// ResolveString answers an identity-string query through the chain.
func (s *Shim) ResolveString(name profile.StringName) (string, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return "", SourceNone, false
	}

	if s.hostEnabled() {
		if v, ok := s.host.ContextString(name); ok {
			s.logResolve("string", name.String(), SourceContext)
			return v, SourceContext, true
		}
	}
	if s.cfg.Enabled {
		if v, ok := s.cfg.LookupString(name); ok {
			s.logResolve("string", name.String(), SourceSession)
			return v, SourceSession, true
		}
	}
	if v, ok := s.real.RealString(name); ok {
		s.logResolve("string", name.String(), SourceReal)
		return v, SourceReal, true
	}
	s.logResolve("string", name.String(), SourceNone)
	return "", SourceNone, false
}

// ResolveInteger answers a numeric capability query through the chain.
func (s *Shim) ResolveInteger(p profile.Param) (int64, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return 0, SourceNone, false
	}

	if s.hostEnabled() {
		if v, ok := s.host.ContextInteger(p); ok {
			s.logResolve("integer", p.String(), SourceContext)
			return v, SourceContext, true
		}
	}
	if s.cfg.Enabled {
		if v, ok := s.cfg.LookupLimit(p); ok {
			s.logResolve("integer", p.String(), SourceSession)
			return v, SourceSession, true
		}
	}
	if v, ok := s.real.RealInteger(p); ok {
		s.logResolve("integer", p.String(), SourceReal)
		return v, SourceReal, true
	}
	s.logResolve("integer", p.String(), SourceNone)
	return 0, SourceNone, false
}

// ResolveFloat answers a float capability query through the chain.
// Session limits are integer-valued; they serve float queries too.
func (s *Shim) ResolveFloat(p profile.Param) (float64, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return 0, SourceNone, false
	}

	if s.hostEnabled() {
		if v, ok := s.host.ContextFloat(p); ok {
			s.logResolve("float", p.String(), SourceContext)
			return v, SourceContext, true
		}
	}
	if s.cfg.Enabled {
		if v, ok := s.cfg.LookupLimit(p); ok {
			s.logResolve("float", p.String(), SourceSession)
			return float64(v), SourceSession, true
		}
	}
	if v, ok := s.real.RealFloat(p); ok {
		s.logResolve("float", p.String(), SourceReal)
		return v, SourceReal, true
	}
	s.logResolve("float", p.String(), SourceNone)
	return 0, SourceNone, false
}

// ResolvePrecision answers a shader precision query through the chain.
func (s *Shim) ResolvePrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return profile.Precision{}, SourceNone, false
	}

	if s.hostEnabled() {
		if v, ok := s.host.ContextPrecision(stage, level); ok {
			s.logResolve("precision", stage.String(), SourceContext)
			return v, SourceContext, true
		}
	}
	if s.cfg.Enabled {
		if v, ok := s.cfg.LookupPrecision(stage, level); ok {
			s.logResolve("precision", stage.String(), SourceSession)
			return v, SourceSession, true
		}
	}
	if v, ok := s.real.RealShaderPrecision(stage, level); ok {
		s.logResolve("precision", stage.String(), SourceReal)
		return v, SourceReal, true
	}
	s.logResolve("precision", stage.String(), SourceNone)
	return profile.Precision{}, SourceNone, false
}

// ResolveExtensions answers the extension list through the chain and
// filters out vendor-tagged extensions inconsistent with the spoofed
// vendor.
func (s *Shim) ResolveExtensions(gen profile.APIGeneration) ([]string, Source) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, SourceNone
	}

	var (
		exts []string
		src  Source
	)
	switch {
	case s.hostEnabled():
		if v, ok := s.host.ContextExtensions(gen); ok {
			exts, src = v, SourceContext
		}
	}
	if exts == nil {
		if v := s.real.RealExtensions(gen); v != nil {
			exts, src = v, SourceReal
		}
	}
	if exts == nil {
		return nil, SourceNone
	}

	vendor := s.spoofedVendorLocked()
	filtered := FilterExtensions(exts, vendor)
	s.logResolve("extensions", gen.String(), src)
	return filtered, src
}

// spoofedVendorLocked reports the vendor the process is claiming,
// resolving context before session. Caller holds mu.
func (s *Shim) spoofedVendorLocked() string {
	if s.hostEnabled() {
		if v, ok := s.host.ContextString(profile.StringVendor); ok {
			return v
		}
	}
	if s.cfg.Enabled {
		return s.cfg.Vendor
	}
	return ""
}

func (s *Shim) logResolve(kind, what string, src Source) {
	if !s.cfg.Verbose {
		return
	}
	Logger().Debug("shim: resolve", "kind", kind, "query", what, "source", src.String())
}

// vendorPrefixes maps GL extension name prefixes to the vendor that
// owns them. An extension with a foreign prefix betrays the real GPU.
var vendorPrefixes = []struct {
	prefix string
	vendor profile.Vendor
}{
	{"GL_NV_", profile.VendorNVIDIA},
	{"GL_NVX_", profile.VendorNVIDIA},
	{"GL_AMD_", profile.VendorAMD},
	{"GL_ATI_", profile.VendorAMD},
	{"GL_INTEL_", profile.VendorIntel},
	{"GL_APPLE_", profile.VendorApple},
	{"GL_QCOM_", profile.VendorQualcomm},
	{"GL_ARM_", profile.VendorARM},
}

// FilterExtensions removes vendor-tagged extensions that contradict
// the spoofed vendor string. Unprefixed and cross-vendor (EXT/ARB/OES)
// extensions pass through untouched.
func FilterExtensions(exts []string, spoofedVendor string) []string {
	if spoofedVendor == "" {
		out := make([]string, len(exts))
		copy(out, exts)
		return out
	}

	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		keep := true
		for _, vp := range vendorPrefixes {
			if strings.HasPrefix(ext, vp.prefix) {
				keep = strings.Contains(spoofedVendor, vp.vendor.String())
				break
			}
		}
		if keep {
			out = append(out, ext)
		}
	}
	return out
}
