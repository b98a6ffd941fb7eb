package glcontext

import (
	"runtime"
	"sync"
	"testing"

	"github.com/veilgpu/veil/profile"
)

func TestContextIDsAreUniqueAndIncreasing(t *testing.T) {
	p := profile.NewNVIDIARTX3060()
	a := Create(p)
	b := Create(p)
	if a.ID() == b.ID() {
		t.Fatal("two contexts share an id")
	}
	if b.ID() < a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
}

func TestGetSpoofedParameter(t *testing.T) {
	c := Create(profile.NewNVIDIARTX3060())

	if v, ok := c.GetSpoofedParameter(profile.ParamMaxTextureSize); !ok || v != 16384 {
		t.Errorf("MAX_TEXTURE_SIZE = %d, %v; want 16384, true", v, ok)
	}
	if _, ok := c.GetSpoofedParameter(profile.Param(0xBEEF)); ok {
		t.Error("unknown parameter reported as spoofed")
	}
}

func TestGetSpoofedStringSkipsNativeVersion(t *testing.T) {
	p := profile.NewNVIDIARTX3060()
	c := Create(p)

	if s, ok := c.GetSpoofedString(profile.StringRenderer); !ok || s != p.Caps.Renderer {
		t.Errorf("RENDERER = %q, %v", s, ok)
	}
	if s, _ := c.GetSpoofedString(profile.StringVersion); s == p.Caps.VersionNative {
		t.Error("VERSION query answered with the native version string")
	}
}

func TestObjectTrackingIsAdvisory(t *testing.T) {
	c := Create(profile.NewNVIDIARTX3060())

	// Removing and querying objects that were never tracked must not
	// panic or affect anything.
	c.RemoveShader(42)
	c.RemoveTexture(7)
	if _, ok := c.Shader(42); ok {
		t.Error("untracked shader reported as present")
	}

	c.TrackShader(1, profile.StageFragment, true)
	c.TrackTexture(2, 256, 256)
	c.TrackProgram(3)
	c.TrackFramebuffer(4)

	if info, ok := c.Shader(1); !ok || info.Stage != profile.StageFragment || !info.Translated {
		t.Errorf("Shader(1) = %+v, %v", info, ok)
	}
	if info, ok := c.Texture(2); !ok || info.Width != 256 {
		t.Errorf("Texture(2) = %+v, %v", info, ok)
	}

	s, pr, tx, fb := c.ObjectCounts()
	if s != 1 || pr != 1 || tx != 1 || fb != 1 {
		t.Errorf("ObjectCounts = %d,%d,%d,%d", s, pr, tx, fb)
	}
}

func TestDestroyClearsTables(t *testing.T) {
	c := Create(profile.NewNVIDIARTX3060())
	c.TrackShader(1, profile.StageVertex, false)
	c.TrackTexture(2, 64, 64)

	c.Destroy()
	c.Destroy() // idempotent

	s, pr, tx, fb := c.ObjectCounts()
	if s+pr+tx+fb != 0 {
		t.Errorf("tables not cleared: %d,%d,%d,%d", s, pr, tx, fb)
	}
	// Tracking after destruction is ignored.
	c.TrackShader(9, profile.StageVertex, false)
	if _, ok := c.Shader(9); ok {
		t.Error("destroyed context accepted tracking")
	}
	// Profile-backed queries still answer.
	if _, ok := c.GetSpoofedParameter(profile.ParamMaxTextureSize); !ok {
		t.Error("destroyed context lost its profile")
	}
}

func TestCurrentIsThreadScoped(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := Create(profile.NewNVIDIARTX3060())
	MakeCurrent(c)
	defer ClearCurrent()

	if Current() != c {
		t.Fatal("Current() does not return the bound context")
	}

	// Another OS thread must not observe this thread's binding.
	var wg sync.WaitGroup
	wg.Add(1)
	var other *Context
	go func() {
		defer wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		other = Current()
	}()
	wg.Wait()

	if other != nil {
		t.Error("current context leaked across threads")
	}
}

func TestClearCurrent(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := Create(profile.NewNVIDIARTX3060())
	MakeCurrent(c)
	ClearCurrent()
	if Current() != nil {
		t.Error("ClearCurrent left a binding")
	}
}

func TestDetachAll(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := Create(profile.NewNVIDIARTX3060())
	MakeCurrent(c)
	DetachAll(c)
	if Current() != nil {
		t.Error("DetachAll left a binding")
	}
}

type stubNormalizer struct{ calls int }

func (s *stubNormalizer) NormalizeRGBA8(pix []byte, w, h int, p *profile.Profile) { s.calls++ }

func TestNormalizePixelsDelegates(t *testing.T) {
	n := &stubNormalizer{}
	c := Create(profile.NewNVIDIARTX3060(), WithNormalizer(n))

	c.NormalizePixels(make([]byte, 16), 2, 2)
	if n.calls != 1 {
		t.Errorf("normalizer calls = %d, want 1", n.calls)
	}

	// No normalizer configured: silently a no-op.
	Create(profile.NewNVIDIARTX3060()).NormalizePixels(make([]byte, 16), 2, 2)
}
