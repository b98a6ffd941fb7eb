// Package veil provides a GPU identity virtualization engine.
//
// # Overview
//
// veil sits between a rendering process and its graphics stack and
// replaces every observable trace of the real GPU with a coherent
// virtual identity: vendor and renderer strings, capability limits,
// shader precision formats, extension lists, rendered pixels, and
// operation timing. A page probing the GPU sees one plausible device,
// chosen by profile, regardless of the hardware underneath.
//
// # Quick Start
//
//	import "github.com/veilgpu/veil"
//
//	sys, err := veil.NewSystem()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer sys.Shutdown()
//
//	ctx, err := sys.CreateContext("NVIDIA-RTX3060")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sys.MakeCurrent(ctx.ID())
//
//	// Identity queries now answer with the profile's values.
//	v, _ := ctx.GetSpoofedString(profile.StringRenderer)
//
// # Architecture
//
// The engine is organized into:
//   - profile: virtual GPU identities, plausibility validation, registry
//   - glcontext: live contexts bound to profiles, thread-current tracking
//   - intercept: call dispatch with per-call statistics
//   - shader: GLSL/WGSL rewriting for precision and vendor quirks
//   - render: deterministic pixel normalization and fingerprint hashing
//   - timing: duration quantization, protected clocks, probe defense
//   - backend: hardware-truth probes (wgpu, null)
//   - shim: the process-boundary layer and its resolution chain
//
// # Determinism
//
// All perturbation is keyed by profile seeds through a stateless
// generator, so two processes configured identically produce byte
// identical output. Nothing here draws from global randomness.
package veil

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
