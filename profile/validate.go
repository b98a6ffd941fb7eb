package profile

import (
	"fmt"
	"strings"
)

// Rule is one plausibility check. The default set below encodes the
// combinations known to give a virtual identity away; it is illustrative,
// not exhaustive, and registries accept additional rules at runtime.
type Rule struct {
	Name  string
	Check func(p *Profile) (ok bool, reason string)
}

// ValidationError reports why a profile was rejected at registration.
type ValidationError struct {
	ID      string
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile: %q failed validation: %s", e.ID, strings.Join(e.Reasons, "; "))
}

// DefaultRules returns the built-in plausibility rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "identity-present",
			Check: func(p *Profile) (bool, string) {
				if p.ID == "" || p.Caps.Vendor == "" || p.Caps.Renderer == "" {
					return false, "profile id, vendor string and renderer string must be set"
				}
				return true, ""
			},
		},
		{
			Name: "native-version-present",
			Check: func(p *Profile) (bool, string) {
				if p.Caps.VersionNative == "" {
					return false, "native version string must be set; it is validated by the host at context creation"
				}
				return true, ""
			},
		},
		{
			Name: "apple-platform",
			Check: func(p *Profile) (bool, string) {
				if p.Vendor == VendorApple && p.Platform != PlatformMacOS {
					return false, fmt.Sprintf("Apple vendor with non-Apple platform %q", p.Platform)
				}
				return true, ""
			},
		},
		{
			Name: "samples-bounded",
			Check: func(p *Profile) (bool, string) {
				if p.Caps.Samples > p.Caps.MaxSamples {
					return false, fmt.Sprintf("samples %d exceeds max_samples %d", p.Caps.Samples, p.Caps.MaxSamples)
				}
				if p.Caps.SampleBuffers != 0 && p.Caps.SampleBuffers != 1 {
					return false, fmt.Sprintf("sample_buffers must be 0 or 1, got %d", p.Caps.SampleBuffers)
				}
				if p.Caps.SampleBuffers == 1 && p.Caps.Samples == 0 {
					return false, "sample_buffers is 1 but samples is 0"
				}
				return true, ""
			},
		},
		{
			Name: "integrated-memory",
			Check: func(p *Profile) (bool, string) {
				if p.Vendor.Integrated() && p.MemoryMB > 4096 {
					return false, fmt.Sprintf("integrated vendor %s with discrete-class memory %d MB", p.Vendor, p.MemoryMB)
				}
				return true, ""
			},
		},
		{
			Name: "discrete-memory",
			Check: func(p *Profile) (bool, string) {
				if (p.Vendor == VendorNVIDIA || p.Vendor == VendorAMD) && p.MemoryMB > 0 && p.MemoryMB < 2048 {
					return false, fmt.Sprintf("discrete vendor %s with implausibly small memory %d MB", p.Vendor, p.MemoryMB)
				}
				return true, ""
			},
		},
		{
			Name: "core-count",
			Check: func(p *Profile) (bool, string) {
				if p.CoreCount <= 0 {
					return false, "core count must be positive"
				}
				if p.Vendor.Integrated() && p.CoreCount > 2048 {
					return false, fmt.Sprintf("integrated vendor %s with %d cores", p.Vendor, p.CoreCount)
				}
				return true, ""
			},
		},
		{
			Name: "texture-size",
			Check: func(p *Profile) (bool, string) {
				s := p.Caps.MaxTextureSize
				if s < 2048 {
					return false, fmt.Sprintf("max_texture_size %d below the WebGL floor", s)
				}
				if s&(s-1) != 0 {
					return false, fmt.Sprintf("max_texture_size %d is not a power of two", s)
				}
				return true, ""
			},
		},
		{
			Name: "precision-ordering",
			Check: func(p *Profile) (bool, string) {
				for _, stage := range []ShaderStage{StageVertex, StageFragment} {
					hi, _ := p.Caps.PrecisionFor(stage, PrecisionHigh)
					med, _ := p.Caps.PrecisionFor(stage, PrecisionMedium)
					if hi.RangeMax < med.RangeMax || hi.Precision < med.Precision {
						return false, fmt.Sprintf("%s highp precision below mediump", stage)
					}
				}
				return true, ""
			},
		},
		{
			Name: "backend-label",
			Check: func(p *Profile) (bool, string) {
				// The renderer string's backend label is chosen by the host
				// OS, not by the GPU vendor. A Metal label on Windows is an
				// immediate tell.
				label := p.Platform.BackendLabel()
				if strings.Contains(p.Caps.Renderer, "ANGLE") && !strings.Contains(p.Caps.Renderer, label) {
					return false, fmt.Sprintf("ANGLE renderer string lacks the %s backend label required on %s", label, p.Platform)
				}
				return true, ""
			},
		},
	}
}

// Validate runs the default rule set and reports whether the profile is
// internally consistent, along with human-readable reasons for every rule
// that failed.
func (p *Profile) Validate() (bool, []string) {
	return p.ValidateWith(DefaultRules())
}

// ValidateWith runs an explicit rule set.
func (p *Profile) ValidateWith(rules []Rule) (bool, []string) {
	var reasons []string
	for _, r := range rules {
		if ok, reason := r.Check(p); !ok {
			reasons = append(reasons, reason)
		}
	}
	return len(reasons) == 0, reasons
}
