package backend

import (
	"errors"

	"github.com/veilgpu/veil/profile"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend answers queries about the real GPU the process is running on.
// The engine consults it when a spoofed value is not configured and the
// resolution chain falls through to hardware truth.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "wgpu", "null").
	Name() string

	// Init acquires the resources needed to answer queries.
	// This should be called before any Real* methods.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// RealString reports the hardware's value for an identity string.
	// The second return is false when the backend cannot answer.
	RealString(name profile.StringName) (string, bool)

	// RealInteger reports the hardware's value for a numeric limit.
	RealInteger(p profile.Param) (int64, bool)

	// RealFloat reports the hardware's value for a float-valued limit.
	RealFloat(p profile.Param) (float64, bool)

	// RealShaderPrecision reports the hardware's shader precision format.
	RealShaderPrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, bool)

	// RealExtensions reports the hardware's extension list for a
	// WebGL generation. Returns nil when the backend cannot answer.
	RealExtensions(gen profile.APIGeneration) []string
}
