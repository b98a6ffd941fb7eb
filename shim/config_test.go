package shim

import (
	"testing"

	"github.com/veilgpu/veil/profile"
)

func mapLookup(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseSessionConfig(t *testing.T) {
	cfg, err := ParseSessionConfig(mapLookup(map[string]string{
		"VEIL_ENABLED":                    "1",
		"VEIL_VERBOSE":                    "true",
		"VEIL_NORMALIZE_PIXELS":           "1",
		"VEIL_VENDOR":                     "Google Inc. (NVIDIA)",
		"VEIL_RENDERER":                   "ANGLE (NVIDIA, NVIDIA GeForce RTX 3060 {backend}, D3D11-27.21.14.5671)",
		"VEIL_VERSION":                    "WebGL 2.0 (OpenGL ES 3.0 Chromium)",
		"VEIL_GLSL_VERSION":               "WebGL GLSL ES 3.00 (OpenGL ES GLSL ES 3.0 Chromium)",
		"VEIL_PLATFORM":                   "windows",
		"VEIL_SEED":                       "0xdeadbeef",
		"VEIL_QUANT_BITS":                 "6",
		"VEIL_MAX_TEXTURE_SIZE":           "16384",
		"VEIL_SAMPLES":                    "4",
		"VEIL_SAMPLE_BUFFERS":             "1",
		"VEIL_PRECISION_FRAGMENT_MEDIUMP": "15,15,10",
	}))
	if err != nil {
		t.Fatalf("ParseSessionConfig() error = %v", err)
	}

	if !cfg.Enabled || !cfg.Verbose || !cfg.NormalizePixels {
		t.Errorf("flags = %v/%v/%v, want all true", cfg.Enabled, cfg.Verbose, cfg.NormalizePixels)
	}
	if cfg.Platform != profile.PlatformWindows {
		t.Errorf("Platform = %v, want windows", cfg.Platform)
	}
	if cfg.Seed != 0xdeadbeef {
		t.Errorf("Seed = %#x, want 0xdeadbeef", cfg.Seed)
	}
	if cfg.QuantBits != 6 {
		t.Errorf("QuantBits = %d, want 6", cfg.QuantBits)
	}
	if v, ok := cfg.LookupLimit(profile.ParamMaxTextureSize); !ok || v != 16384 {
		t.Errorf("LookupLimit(MAX_TEXTURE_SIZE) = %d, %v", v, ok)
	}
	prec, ok := cfg.LookupPrecision(profile.StageFragment, profile.PrecisionMedium)
	if !ok {
		t.Fatal("LookupPrecision(fragment, medium) not found")
	}
	want := profile.Precision{RangeMin: 15, RangeMax: 15, Precision: 10}
	if prec != want {
		t.Errorf("precision = %+v, want %+v", prec, want)
	}
}

func TestParseSessionConfigBackendLabel(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"windows", "D3D11"},
		{"macos", "Metal"},
		{"linux", "OpenGL"},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			cfg, err := ParseSessionConfig(mapLookup(map[string]string{
				"VEIL_RENDERER": "ANGLE (Vendor, Device {backend})",
				"VEIL_PLATFORM": tt.platform,
			}))
			if err != nil {
				t.Fatalf("ParseSessionConfig() error = %v", err)
			}
			if want := "ANGLE (Vendor, Device " + tt.want + ")"; cfg.Renderer != want {
				t.Errorf("Renderer = %q, want %q", cfg.Renderer, want)
			}
		})
	}
}

func TestParseSessionConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad bool", map[string]string{"VEIL_ENABLED": "maybe"}},
		{"bad seed", map[string]string{"VEIL_SEED": "not-a-number"}},
		{"quant bits high", map[string]string{"VEIL_QUANT_BITS": "9"}},
		{"quant bits low", map[string]string{"VEIL_QUANT_BITS": "0"}},
		{"bad platform", map[string]string{"VEIL_PLATFORM": "beos"}},
		{"bad limit", map[string]string{"VEIL_MAX_TEXTURE_SIZE": "big"}},
		{"short precision", map[string]string{"VEIL_PRECISION_VERTEX_HIGHP": "127,127"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionConfig(mapLookup(tt.env)); err == nil {
				t.Error("ParseSessionConfig() succeeded, want error")
			}
		})
	}
}

func TestParseSessionConfigDefaults(t *testing.T) {
	cfg, err := ParseSessionConfig(mapLookup(nil))
	if err != nil {
		t.Fatalf("ParseSessionConfig() error = %v", err)
	}
	if cfg.Enabled {
		t.Error("Enabled defaults true, want false")
	}
	if cfg.QuantBits != 8 {
		t.Errorf("QuantBits = %d, want 8", cfg.QuantBits)
	}
	if _, ok := cfg.LookupLimit(profile.ParamSamples); ok {
		t.Error("empty config should have no limits")
	}
}

func TestLookupLimitZeroSamples(t *testing.T) {
	// Zero samples is a stored answer, not an absence. The sample pair
	// is how pages distinguish render environments.
	cfg, err := ParseSessionConfig(mapLookup(map[string]string{
		"VEIL_SAMPLES":        "0",
		"VEIL_SAMPLE_BUFFERS": "0",
	}))
	if err != nil {
		t.Fatalf("ParseSessionConfig() error = %v", err)
	}
	if v, ok := cfg.LookupLimit(profile.ParamSamples); !ok || v != 0 {
		t.Errorf("LookupLimit(SAMPLES) = %d, %v, want 0, true", v, ok)
	}
	if v, ok := cfg.LookupLimit(profile.ParamSampleBuffers); !ok || v != 0 {
		t.Errorf("LookupLimit(SAMPLE_BUFFERS) = %d, %v, want 0, true", v, ok)
	}
}

func TestLookupStringNeverAnswersUnknown(t *testing.T) {
	cfg := SessionConfig{Vendor: "NVIDIA Corporation"}
	if v, ok := cfg.LookupString(profile.StringVendor); !ok || v != "NVIDIA Corporation" {
		t.Errorf("LookupString(VENDOR) = %q, %v", v, ok)
	}
	if v, ok := cfg.LookupString(profile.StringUnmaskedVendor); !ok || v != "NVIDIA Corporation" {
		t.Errorf("LookupString(UNMASKED_VENDOR) = %q, %v", v, ok)
	}
	if _, ok := cfg.LookupString(profile.StringRenderer); ok {
		t.Error("empty renderer should be not-found")
	}
}
