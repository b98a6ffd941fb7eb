package veil

import (
	"github.com/veilgpu/veil/backend"
	"github.com/veilgpu/veil/profile"
	"github.com/veilgpu/veil/render"
	"github.com/veilgpu/veil/shader"
	"github.com/veilgpu/veil/timing"
)

// Option configures a System during creation.
// Use functional options to customize System behavior.
//
// Example:
//
//	// Default system: built-in profiles, null hardware probe
//	sys, err := veil.NewSystem()
//
//	// Custom hardware probe (dependency injection)
//	sys, err := veil.NewSystem(veil.WithBackend(wgpu.NewBackend()))
type Option func(*systemOptions)

// systemOptions holds optional configuration for System creation.
type systemOptions struct {
	backend     backend.Backend
	renderCfg   render.Config
	timingCfg   timing.Config
	shaderOpts  shader.Options
	profiles    []*profile.Profile
	skipBuiltin bool
}

// defaultSystemOptions returns the default system options.
func defaultSystemOptions() systemOptions {
	return systemOptions{
		backend:   nil, // Will be resolved from the backend registry if nil
		renderCfg: render.DefaultConfig(),
		timingCfg: timing.DefaultConfig(),
		shaderOpts: shader.Options{
			EmulatePrecision:   true,
			InjectPerturbation: true,
		},
	}
}

// WithBackend sets the hardware probe the system falls back to when no
// spoofed value is configured.
//
// Example:
//
//	import "github.com/veilgpu/veil/backend/wgpu"
//
//	sys, err := veil.NewSystem(veil.WithBackend(wgpu.NewBackend()))
func WithBackend(b backend.Backend) Option {
	return func(o *systemOptions) {
		o.backend = b
	}
}

// WithRenderConfig sets the pixel normalization configuration.
func WithRenderConfig(cfg render.Config) Option {
	return func(o *systemOptions) {
		o.renderCfg = cfg
	}
}

// WithRenderIntensity sets only the perturbation intensity, keeping the
// rest of the render defaults. Zero disables perturbation; passes that
// hash output still run.
func WithRenderIntensity(intensity float64) Option {
	return func(o *systemOptions) {
		o.renderCfg.Intensity = intensity
	}
}

// WithTimingConfig sets the timing normalization configuration shared
// by the operation normalizer and the protected clock.
func WithTimingConfig(cfg timing.Config) Option {
	return func(o *systemOptions) {
		o.timingCfg = cfg
	}
}

// WithShaderOptions sets the shader translation options.
func WithShaderOptions(opts shader.Options) Option {
	return func(o *systemOptions) {
		o.shaderOpts = opts
	}
}

// WithProfiles registers extra profiles at system creation, after the
// built-in set. Each profile is validated like any other registration.
func WithProfiles(profiles ...*profile.Profile) Option {
	return func(o *systemOptions) {
		o.profiles = append(o.profiles, profiles...)
	}
}

// WithoutBuiltinProfiles skips registration of the factory presets.
// Useful when the registry should contain exactly the caller's profiles.
func WithoutBuiltinProfiles() Option {
	return func(o *systemOptions) {
		o.skipBuiltin = true
	}
}
