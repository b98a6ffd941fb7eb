// Package glcontext binds one virtual GPU profile to the live state of a
// browser rendering context: bound objects, GL state, and per-object
// bookkeeping tables. A context is created when a tab's rendering context
// comes up and destroyed when the tab closes.
package glcontext

import (
	"sync"
	"sync/atomic"

	"github.com/veilgpu/veil/profile"
)

// nextID allocates context ids process-wide. Ids are monotonically
// increasing and never reused.
var nextID atomic.Uint64

// GLState mirrors the subset of GL state the interceptor cares about.
type GLState struct {
	BoundArrayBuffer   uint32
	BoundElementBuffer uint32
	BoundTexture2D     uint32
	BoundFramebuffer   uint32
	BoundProgram       uint32

	Viewport [4]int32
	Scissor  [4]int32

	ScissorEnabled bool
	BlendEnabled   bool
	DepthEnabled   bool
	StencilEnabled bool
}

// ShaderInfo records what the context knows about a native shader object.
type ShaderInfo struct {
	Stage      profile.ShaderStage
	Translated bool
}

// TextureInfo records the dimensions of a tracked texture.
type TextureInfo struct {
	Width, Height int
}

// Normalizer is the pixel normalization dependency of a context. The
// render package's Normalizer satisfies it; tests substitute stubs.
type Normalizer interface {
	NormalizeRGBA8(pix []byte, width, height int, p *profile.Profile)
}

// Context is one live rendering context bound to exactly one profile.
//
// The object tables are advisory bookkeeping: queries about objects the
// context never saw fall through the resolution chain instead of failing.
// All methods are safe for concurrent use, though in practice a context's
// GL calls arrive on its dedicated thread.
type Context struct {
	id      uint64
	profile *profile.Profile

	mu           sync.Mutex
	state        GLState
	shaders      map[uint32]ShaderInfo
	programs     map[uint32]struct{}
	textures     map[uint32]TextureInfo
	framebuffers map[uint32]struct{}
	destroyed    bool

	normalizer Normalizer
}

// Create allocates a new context bound to p. The profile is shared, not
// copied: registered profiles are immutable.
func Create(p *profile.Profile, opts ...Option) *Context {
	c := &Context{
		id:           nextID.Add(1),
		profile:      p,
		shaders:      make(map[uint32]ShaderInfo),
		programs:     make(map[uint32]struct{}),
		textures:     make(map[uint32]TextureInfo),
		framebuffers: make(map[uint32]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Context at creation.
type Option func(*Context)

// WithNormalizer injects the pixel normalizer used by NormalizePixels.
func WithNormalizer(n Normalizer) Option {
	return func(c *Context) { c.normalizer = n }
}

// ID returns the context's unique id.
func (c *Context) ID() uint64 { return c.id }

// Profile returns the bound profile.
func (c *Context) Profile() *profile.Profile { return c.profile }

// GetSpoofedParameter returns the profile's value for a numeric parameter.
// The second return is false when the profile does not define it; the
// caller then continues down the resolution chain.
func (c *Context) GetSpoofedParameter(p profile.Param) (int64, bool) {
	return c.profile.Caps.Lookup(p)
}

// GetSpoofedString returns the profile's identity string for name. The
// native version string is never answered here; see the capability table.
func (c *Context) GetSpoofedString(n profile.StringName) (string, bool) {
	return c.profile.Caps.LookupString(n)
}

// GetSpoofedPrecision returns the profile's shader precision triple.
func (c *Context) GetSpoofedPrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, bool) {
	return c.profile.Caps.PrecisionFor(stage, level)
}

// GetSpoofedExtensions returns the profile's extension list for gen.
func (c *Context) GetSpoofedExtensions(gen profile.APIGeneration) []string {
	return c.profile.Caps.Extensions(gen)
}

// NormalizePixels runs the configured pixel normalizer over an RGBA8
// read-back buffer in place. Without a normalizer it is a no-op.
func (c *Context) NormalizePixels(pix []byte, width, height int) {
	if c.normalizer == nil {
		return
	}
	c.normalizer.NormalizeRGBA8(pix, width, height, c.profile)
}

// State returns a copy of the context's GL state.
func (c *Context) State() GLState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UpdateState applies fn to the context's GL state under the lock.
func (c *Context) UpdateState(fn func(*GLState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// TrackShader records a native shader object.
func (c *Context) TrackShader(id uint32, stage profile.ShaderStage, translated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.shaders[id] = ShaderInfo{Stage: stage, Translated: translated}
}

// Shader returns the tracked info for a shader object.
func (c *Context) Shader(id uint32) (ShaderInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.shaders[id]
	return info, ok
}

// RemoveShader drops a shader from the table. Unknown ids are ignored.
func (c *Context) RemoveShader(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.shaders, id)
}

// TrackProgram records a native program object.
func (c *Context) TrackProgram(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.programs[id] = struct{}{}
}

// RemoveProgram drops a program from the table.
func (c *Context) RemoveProgram(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.programs, id)
}

// TrackTexture records a native texture object and its dimensions.
func (c *Context) TrackTexture(id uint32, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.textures[id] = TextureInfo{Width: width, Height: height}
}

// Texture returns the tracked info for a texture object.
func (c *Context) Texture(id uint32) (TextureInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.textures[id]
	return info, ok
}

// RemoveTexture drops a texture from the table.
func (c *Context) RemoveTexture(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.textures, id)
}

// TrackFramebuffer records a native framebuffer object.
func (c *Context) TrackFramebuffer(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.framebuffers[id] = struct{}{}
}

// RemoveFramebuffer drops a framebuffer from the table.
func (c *Context) RemoveFramebuffer(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.framebuffers, id)
}

// ObjectCounts reports the sizes of the tracking tables.
func (c *Context) ObjectCounts() (shaders, programs, textures, framebuffers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shaders), len(c.programs), len(c.textures), len(c.framebuffers)
}

// Destroy clears the object tables and marks the context dead. Queries on
// a destroyed context still answer from the profile; only bookkeeping
// stops. Destroy is idempotent.
func (c *Context) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.shaders = make(map[uint32]ShaderInfo)
	c.programs = make(map[uint32]struct{})
	c.textures = make(map[uint32]TextureInfo)
	c.framebuffers = make(map[uint32]struct{})
}

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
