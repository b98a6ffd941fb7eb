// Package backend provides a pluggable hardware-truth abstraction.
//
// The backend package answers queries about the real GPU: identity
// strings, numeric limits, shader precision formats, and extension
// lists. The engine consults a Backend only when the resolution chain
// (context override, then session default) finds no configured value.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The null backend is automatically registered on import:
//
//	import _ "github.com/veilgpu/veil/backend"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Get the default (best available) backend
//	b := backend.Default()
//
//	// Or request a specific backend
//	b := backend.Get("null")
//
// # Usage
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	if v, ok := b.RealInteger(profile.ParamMaxTextureSize); ok {
//		// v is the hardware's real limit
//	}
//
// # Available Backends
//
// - "null": answers nothing; forces configured values (always available)
// - "wgpu": hardware probe via gogpu/wgpu adapter info
package backend
