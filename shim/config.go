package shim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veilgpu/veil/profile"
)

// Lookup reads one configuration key. os.LookupEnv satisfies it; tests
// pass a map-backed closure.
type Lookup func(key string) (string, bool)

// PrecisionKey addresses one shader precision triple in a SessionConfig.
type PrecisionKey struct {
	Stage profile.ShaderStage
	Level profile.PrecisionLevel
}

// SessionConfig holds the process-wide fallback identity, read once at
// shim initialization. It is immutable after construction: the shim
// receives it by value and never writes back.
//
// Session values answer identity queries when no per-context value is
// registered; the real hardware answers when the session is silent too.
type SessionConfig struct {
	// Enabled turns identity spoofing on for the whole process.
	Enabled bool
	// Verbose turns on the per-call diagnostic log (Debug level).
	Verbose bool
	// NormalizePixels enables the lightweight read-back pixel pass.
	NormalizePixels bool

	// Identity strings. Version is the JS-facing version string; the
	// native version string is never taken from configuration.
	Vendor      string
	Renderer    string
	Version     string
	GLSLVersion string

	// Platform selects the backend label embedded in the renderer
	// string ("{backend}" placeholder substitution at parse time).
	Platform profile.Platform

	// Seed drives the pixel perturbation; identical seeds across
	// processes produce identical read-back bytes.
	Seed uint64
	// QuantBits is the number of effective channel bits QuantizePixels
	// keeps, 1 to 8. 8 keeps channels untouched before perturbation.
	QuantBits int

	// Limits holds the session's integer capability values, including
	// the samples/sample-buffers pair.
	Limits map[profile.Param]int64

	// Precisions holds per-stage, per-level shader precision triples.
	Precisions map[PrecisionKey]profile.Precision
}

// limitKeys maps configuration keys to capability parameters. One row
// per integer limit the session can carry.
var limitKeys = []struct {
	key   string
	param profile.Param
}{
	{"VEIL_MAX_TEXTURE_SIZE", profile.ParamMaxTextureSize},
	{"VEIL_MAX_CUBE_MAP_TEXTURE_SIZE", profile.ParamMaxCubeMapTextureSize},
	{"VEIL_MAX_RENDERBUFFER_SIZE", profile.ParamMaxRenderbufferSize},
	{"VEIL_MAX_VIEWPORT_DIMS", profile.ParamMaxViewportDims},
	{"VEIL_MAX_TEXTURE_IMAGE_UNITS", profile.ParamMaxTextureImageUnits},
	{"VEIL_MAX_VERTEX_TEXTURE_IMAGE_UNITS", profile.ParamMaxVertexTextureImageUnits},
	{"VEIL_MAX_COMBINED_TEXTURE_UNITS", profile.ParamMaxCombinedTextureUnits},
	{"VEIL_MAX_VERTEX_ATTRIBS", profile.ParamMaxVertexAttribs},
	{"VEIL_MAX_VERTEX_UNIFORM_VECTORS", profile.ParamMaxVertexUniformVectors},
	{"VEIL_MAX_VARYING_VECTORS", profile.ParamMaxVaryingVectors},
	{"VEIL_MAX_FRAGMENT_UNIFORM_VECTORS", profile.ParamMaxFragmentUniformVectors},
	{"VEIL_SAMPLES", profile.ParamSamples},
	{"VEIL_SAMPLE_BUFFERS", profile.ParamSampleBuffers},
	{"VEIL_MAX_SAMPLES", profile.ParamMaxSamples},
	{"VEIL_MAX_DRAW_BUFFERS", profile.ParamMaxDrawBuffers},
	{"VEIL_MAX_COLOR_ATTACHMENTS", profile.ParamMaxColorAttachments},
	{"VEIL_MAX_3D_TEXTURE_SIZE", profile.ParamMax3DTextureSize},
	{"VEIL_MAX_ARRAY_TEXTURE_LAYERS", profile.ParamMaxArrayTextureLayers},
	{"VEIL_MAX_UNIFORM_BUFFER_BINDINGS", profile.ParamMaxUniformBufferBindings},
}

// precisionKeys maps configuration keys to precision slots.
var precisionKeys = []struct {
	key   string
	stage profile.ShaderStage
	level profile.PrecisionLevel
}{
	{"VEIL_PRECISION_VERTEX_LOWP", profile.StageVertex, profile.PrecisionLow},
	{"VEIL_PRECISION_VERTEX_MEDIUMP", profile.StageVertex, profile.PrecisionMedium},
	{"VEIL_PRECISION_VERTEX_HIGHP", profile.StageVertex, profile.PrecisionHigh},
	{"VEIL_PRECISION_FRAGMENT_LOWP", profile.StageFragment, profile.PrecisionLow},
	{"VEIL_PRECISION_FRAGMENT_MEDIUMP", profile.StageFragment, profile.PrecisionMedium},
	{"VEIL_PRECISION_FRAGMENT_HIGHP", profile.StageFragment, profile.PrecisionHigh},
}

// ParseSessionConfig reads the process-wide fallback configuration
// through lookup. Missing keys leave zero values; malformed values are
// reported rather than silently coerced.
//
// Boolean keys accept strconv.ParseBool forms ("1", "true", ...).
// The seed accepts decimal or 0x-prefixed hex. Precision triples are
// "rangeMin,rangeMax,precision". A "{backend}" token in the renderer
// string is replaced with the platform's backend label, so one renderer
// template serves all platforms.
func ParseSessionConfig(lookup Lookup) (SessionConfig, error) {
	cfg := SessionConfig{
		QuantBits:  8,
		Limits:     make(map[profile.Param]int64),
		Precisions: make(map[PrecisionKey]profile.Precision),
	}

	var err error
	if cfg.Enabled, err = parseBool(lookup, "VEIL_ENABLED"); err != nil {
		return cfg, err
	}
	if cfg.Verbose, err = parseBool(lookup, "VEIL_VERBOSE"); err != nil {
		return cfg, err
	}
	if cfg.NormalizePixels, err = parseBool(lookup, "VEIL_NORMALIZE_PIXELS"); err != nil {
		return cfg, err
	}

	cfg.Vendor, _ = lookup("VEIL_VENDOR")
	cfg.Renderer, _ = lookup("VEIL_RENDERER")
	cfg.Version, _ = lookup("VEIL_VERSION")
	cfg.GLSLVersion, _ = lookup("VEIL_GLSL_VERSION")

	if v, ok := lookup("VEIL_PLATFORM"); ok {
		p, perr := parsePlatform(v)
		if perr != nil {
			return cfg, perr
		}
		cfg.Platform = p
	}
	cfg.Renderer = strings.ReplaceAll(cfg.Renderer, "{backend}", cfg.Platform.BackendLabel())

	if v, ok := lookup("VEIL_SEED"); ok {
		seed, perr := strconv.ParseUint(v, 0, 64)
		if perr != nil {
			return cfg, fmt.Errorf("shim: VEIL_SEED: %w", perr)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup("VEIL_QUANT_BITS"); ok {
		bits, perr := strconv.Atoi(v)
		if perr != nil {
			return cfg, fmt.Errorf("shim: VEIL_QUANT_BITS: %w", perr)
		}
		if bits < 1 || bits > 8 {
			return cfg, fmt.Errorf("shim: VEIL_QUANT_BITS: %d out of range [1,8]", bits)
		}
		cfg.QuantBits = bits
	}

	for _, lk := range limitKeys {
		v, ok := lookup(lk.key)
		if !ok {
			continue
		}
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return cfg, fmt.Errorf("shim: %s: %w", lk.key, perr)
		}
		cfg.Limits[lk.param] = n
	}

	for _, pk := range precisionKeys {
		v, ok := lookup(pk.key)
		if !ok {
			continue
		}
		prec, perr := parsePrecision(v)
		if perr != nil {
			return cfg, fmt.Errorf("shim: %s: %w", pk.key, perr)
		}
		cfg.Precisions[PrecisionKey{Stage: pk.stage, Level: pk.level}] = prec
	}

	return cfg, nil
}

// LookupLimit reports the session value for a capability parameter.
// A stored zero is found: zero samples is a meaningful answer for the
// render-environment probe, not an absence.
func (c *SessionConfig) LookupLimit(p profile.Param) (int64, bool) {
	if c.Limits == nil {
		return 0, false
	}
	v, ok := c.Limits[p]
	return v, ok
}

// LookupString reports the session value for an identity string.
// Unmasked queries answer with the same values as the masked ones; the
// whole point of the session identity is that the two layers agree.
func (c *SessionConfig) LookupString(name profile.StringName) (string, bool) {
	var v string
	switch name {
	case profile.StringVendor, profile.StringUnmaskedVendor:
		v = c.Vendor
	case profile.StringRenderer, profile.StringUnmaskedRenderer:
		v = c.Renderer
	case profile.StringVersion:
		v = c.Version
	case profile.StringGLSLVersion:
		v = c.GLSLVersion
	default:
		return "", false
	}
	return v, v != ""
}

// LookupPrecision reports the session's precision triple for a slot.
func (c *SessionConfig) LookupPrecision(stage profile.ShaderStage, level profile.PrecisionLevel) (profile.Precision, bool) {
	if c.Precisions == nil {
		return profile.Precision{}, false
	}
	p, ok := c.Precisions[PrecisionKey{Stage: stage, Level: level}]
	return p, ok
}

func parseBool(lookup Lookup, key string) (bool, error) {
	v, ok := lookup(key)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("shim: %s: %w", key, err)
	}
	return b, nil
}

func parsePlatform(v string) (profile.Platform, error) {
	switch strings.ToLower(v) {
	case "windows":
		return profile.PlatformWindows, nil
	case "linux":
		return profile.PlatformLinux, nil
	case "macos", "darwin":
		return profile.PlatformMacOS, nil
	case "android":
		return profile.PlatformAndroid, nil
	default:
		return profile.PlatformUnknown, fmt.Errorf("shim: VEIL_PLATFORM: unknown platform %q", v)
	}
}

func parsePrecision(v string) (profile.Precision, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return profile.Precision{}, fmt.Errorf("want \"rangeMin,rangeMax,precision\", got %q", v)
	}
	var vals [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return profile.Precision{}, err
		}
		vals[i] = n
	}
	return profile.Precision{
		RangeMin:  int32(vals[0]),
		RangeMax:  int32(vals[1]),
		Precision: int32(vals[2]),
	}, nil
}
