package backend

import (
	"github.com/veilgpu/veil/profile"
)

// Backend name constants.
const (
	// BackendNull is the name of the backend that answers no queries.
	BackendNull = "null"
	// BackendWGPU is the name of the hardware probe backed by gogpu/wgpu.
	BackendWGPU = "wgpu"
)

// NullBackend answers no hardware queries. Every lookup reports
// not-found, which forces the resolution chain to stop at configured
// values. It is the fallback when no GPU probe is available, and the
// standard backend for tests.
type NullBackend struct {
	initialized bool
}

// init registers the null backend on package import.
func init() {
	Register(BackendNull, func() Backend {
		return &NullBackend{}
	})
}

// NewNullBackend creates a backend that answers no queries.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

// Name returns the backend identifier.
func (b *NullBackend) Name() string {
	return BackendNull
}

// Init initializes the backend.
func (b *NullBackend) Init() error {
	b.initialized = true
	return nil
}

// Close releases all backend resources.
func (b *NullBackend) Close() {
	b.initialized = false
}

// RealString reports not-found for every identity string.
func (b *NullBackend) RealString(profile.StringName) (string, bool) {
	return "", false
}

// RealInteger reports not-found for every numeric limit.
func (b *NullBackend) RealInteger(profile.Param) (int64, bool) {
	return 0, false
}

// RealFloat reports not-found for every float limit.
func (b *NullBackend) RealFloat(profile.Param) (float64, bool) {
	return 0, false
}

// RealShaderPrecision reports not-found for every precision query.
func (b *NullBackend) RealShaderPrecision(profile.ShaderStage, profile.PrecisionLevel) (profile.Precision, bool) {
	return profile.Precision{}, false
}

// RealExtensions reports no extensions.
func (b *NullBackend) RealExtensions(profile.APIGeneration) []string {
	return nil
}

// Interface compliance check.
var _ Backend = (*NullBackend)(nil)
