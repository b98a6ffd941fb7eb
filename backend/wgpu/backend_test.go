package wgpu

import (
	"testing"

	"github.com/veilgpu/veil/backend"
	"github.com/veilgpu/veil/profile"
)

func TestBackendName(t *testing.T) {
	b := NewBackend()
	if b.Name() != backend.BackendWGPU {
		t.Errorf("Name() = %q, want %q", b.Name(), backend.BackendWGPU)
	}
}

func TestBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendWGPU) {
		t.Error("wgpu probe should be registered on import")
	}
}

func TestUninitializedAnswersNothing(t *testing.T) {
	b := NewBackend()

	if _, ok := b.RealString(profile.StringRenderer); ok {
		t.Error("RealString() answered before Init")
	}
	if _, ok := b.RealInteger(profile.ParamMaxTextureSize); ok {
		t.Error("RealInteger() answered before Init")
	}
	if _, ok := b.RealFloat(profile.ParamMaxTextureAnisotropy); ok {
		t.Error("RealFloat() answered before Init")
	}
	if _, ok := b.RealShaderPrecision(profile.StageFragment, profile.PrecisionHigh); ok {
		t.Error("RealShaderPrecision() answered before Init")
	}
	if exts := b.RealExtensions(profile.WebGL2); exts != nil {
		t.Errorf("RealExtensions() = %v before Init", exts)
	}
	if b.Info() != nil {
		t.Error("Info() non-nil before Init")
	}
}

func TestCloseBeforeInit(t *testing.T) {
	b := NewBackend()
	// Close on a never-initialized probe must be a no-op.
	b.Close()
	b.Close()
}

func TestGPUInfoString(t *testing.T) {
	// String formatting only; no GPU required.
	info := &GPUInfo{Name: "Test GPU"}
	if got := info.String(); got == "" {
		t.Error("GPUInfo.String() returned empty string")
	}
}
