package backend

import (
	"testing"

	"github.com/veilgpu/veil/profile"
)

func TestNullBackendName(t *testing.T) {
	b := NewNullBackend()
	if b.Name() != "null" {
		t.Errorf("Name() = %q, want %q", b.Name(), "null")
	}
}

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	b.Close()
}

func TestNullBackendAnswersNothing(t *testing.T) {
	b := NewNullBackend()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()

	if s, ok := b.RealString(profile.StringRenderer); ok || s != "" {
		t.Errorf("RealString() = %q, %v, want \"\", false", s, ok)
	}
	if v, ok := b.RealInteger(profile.ParamMaxTextureSize); ok || v != 0 {
		t.Errorf("RealInteger() = %d, %v, want 0, false", v, ok)
	}
	if f, ok := b.RealFloat(profile.ParamMaxTextureAnisotropy); ok || f != 0 {
		t.Errorf("RealFloat() = %v, %v, want 0, false", f, ok)
	}
	if _, ok := b.RealShaderPrecision(profile.StageFragment, profile.PrecisionMedium); ok {
		t.Error("RealShaderPrecision() reported found")
	}
	if exts := b.RealExtensions(profile.WebGL2); exts != nil {
		t.Errorf("RealExtensions() = %v, want nil", exts)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	// Null backend is auto-registered via init()
	if !IsRegistered("null") {
		t.Error("null backend should be auto-registered")
	}

	b := Get("null")
	if b == nil {
		t.Fatal("Get(null) returned nil")
	}
	if b.Name() != "null" {
		t.Errorf("Get(null).Name() = %q, want %q", b.Name(), "null")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	b := Get("nonexistent")
	if b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	available := Available()
	found := false
	for _, name := range available {
		if name == "null" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Available() should include 'null'")
	}
}

func TestRegistryDefault(t *testing.T) {
	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
	// Null should be the default when no hardware probe is registered
	if b.Name() != "null" {
		t.Logf("Default() returned %q (may vary based on registered probes)", b.Name())
	}
}

func TestRegistryMustDefault(t *testing.T) {
	// Should not panic when the null backend is available
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustDefault() panicked: %v", r)
		}
	}()
	b := MustDefault()
	if b == nil {
		t.Error("MustDefault() returned nil")
	}
}

func TestRegistryInitDefault(t *testing.T) {
	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if b == nil {
		t.Fatal("InitDefault() returned nil backend")
	}
	defer b.Close()

	// An initialized backend must answer queries without panicking
	if _, ok := b.RealInteger(profile.ParamMaxTextureSize); ok {
		// A hardware probe may legitimately answer here; not an error.
		t.Log("InitDefault() backend answered a hardware query")
	}
}

func TestRegistryUnregister(t *testing.T) {
	testFactory := func() Backend {
		return &NullBackend{}
	}
	Register("test-backend", testFactory)

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryIsRegistered(t *testing.T) {
	if !IsRegistered("null") {
		t.Error("null should be registered")
	}
	if IsRegistered("nonexistent") {
		t.Error("nonexistent should not be registered")
	}
}

func TestRegistryPriorityPrefersProbe(t *testing.T) {
	// Register a stand-in under the wgpu name and verify Default picks it
	// over null, per the priority order.
	Register(BackendWGPU, func() Backend {
		return &NullBackend{}
	})
	defer Unregister(BackendWGPU)

	b := Default()
	if b == nil {
		t.Fatal("Default() returned nil")
	}
}
