package shader

import (
	"strings"

	"github.com/veilgpu/veil/profile"
)

// A Quirk is one vendor- or architecture-specific source transform. Quirks
// are keyed by vendor and architecture prefix rather than GPU model: two
// boards of the same generation compile shaders identically, and that is
// the granularity a shader-output probe can actually distinguish.
type Quirk struct {
	Name string

	// Vendor this quirk emulates. Required.
	Vendor profile.Vendor

	// ArchPrefix restricts the quirk to architectures with this prefix.
	// Empty applies to all architectures of the vendor.
	ArchPrefix string

	// Apply transforms the source, returning the new source and whether
	// anything changed.
	Apply func(src string) (string, bool)
}

// nvidiaPowHelper emulates NVIDIA's fast-math pow lowering: pow(x, y) is
// compiled to exp2(y * log2(x)), which differs from a correctly rounded
// pow in the last bits of the mantissa.
const nvidiaPowHelper = "float veil_pow(float x, float y) { return exp2(y * log2(x)); }\n"

// defaultQuirks is the built-in transform table.
var defaultQuirks = []Quirk{
	{
		Name:   "nvidia-fastmath-pow",
		Vendor: profile.VendorNVIDIA,
		Apply: func(src string) (string, bool) {
			if !strings.Contains(src, "pow(") {
				return src, false
			}
			out := strings.ReplaceAll(src, "pow(", "veil_pow(")
			out = insertAfterDirectives(out, nvidiaPowHelper)
			return out, true
		},
	},
	{
		Name:   "intel-promote-fragment-mediump",
		Vendor: profile.VendorIntel,
		Apply: func(src string) (string, bool) {
			// Intel drivers run mediump at full fp32; promoting the
			// declaration reproduces their numeric behavior exactly.
			if !strings.Contains(src, "precision mediump float;") {
				return src, false
			}
			return strings.ReplaceAll(src, "precision mediump float;", "precision highp float;"), true
		},
	},
	{
		Name:   "apple-strip-precise",
		Vendor: profile.VendorApple,
		Apply: func(src string) (string, bool) {
			// The Metal translation layer ignores the precise qualifier;
			// removing it reproduces Apple's reassociation behavior.
			if !strings.Contains(src, "precise ") {
				return src, false
			}
			return strings.ReplaceAll(src, "precise ", ""), true
		},
	},
}

// quirksFor selects the quirks applicable to a profile.
func quirksFor(p *profile.Profile, table []Quirk) []Quirk {
	var out []Quirk
	for _, q := range table {
		if q.Vendor != p.Vendor {
			continue
		}
		if q.ArchPrefix != "" && !strings.HasPrefix(p.Architecture, q.ArchPrefix) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// insertAfterDirectives places text after the leading #version/#extension
// block, where GLSL requires declarations to go.
func insertAfterDirectives(src, text string) string {
	lines := strings.SplitAfter(src, "\n")
	insert := 0
	for i, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "#") || trimmed == "" {
			insert = i + 1
			continue
		}
		break
	}
	var b strings.Builder
	for i, ln := range lines {
		if i == insert {
			b.WriteString(text)
		}
		b.WriteString(ln)
	}
	if insert >= len(lines) {
		b.WriteString(text)
	}
	return b.String()
}
