package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Profiles round-trip through YAML with every field named, so capability
// fields can be added without breaking stored documents. Enumerations
// serialize as their string names rather than raw numbers.

// Encode serializes a profile to YAML.
func Encode(p *Profile) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("profile: cannot encode nil profile")
	}
	return yaml.Marshal(p)
}

// Decode parses a YAML document into a profile. The result is not
// validated; callers register it to have the rules applied.
func Decode(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	return &p, nil
}

// MarshalYAML encodes the vendor as its canonical name.
func (v Vendor) MarshalYAML() (any, error) {
	return v.String(), nil
}

// UnmarshalYAML decodes a vendor from its canonical name.
func (v *Vendor) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "NVIDIA":
		*v = VendorNVIDIA
	case "AMD":
		*v = VendorAMD
	case "Intel":
		*v = VendorIntel
	case "Apple":
		*v = VendorApple
	case "Qualcomm":
		*v = VendorQualcomm
	case "ARM":
		*v = VendorARM
	case "Unknown", "":
		*v = VendorUnknown
	default:
		return fmt.Errorf("profile: unknown vendor %q", s)
	}
	return nil
}

// MarshalYAML encodes the platform as its lowercase name.
func (p Platform) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML decodes a platform from its lowercase name.
func (p *Platform) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "windows":
		*p = PlatformWindows
	case "linux":
		*p = PlatformLinux
	case "macos":
		*p = PlatformMacOS
	case "android":
		*p = PlatformAndroid
	case "unknown", "":
		*p = PlatformUnknown
	default:
		return fmt.Errorf("profile: unknown platform %q", s)
	}
	return nil
}

// MarshalYAML encodes the rounding mode as its name.
func (m RoundingMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// UnmarshalYAML decodes a rounding mode from its name.
func (m *RoundingMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "nearest-even", "":
		*m = RoundNearestEven
	case "toward-zero":
		*m = RoundTowardZero
	default:
		return fmt.Errorf("profile: unknown rounding mode %q", s)
	}
	return nil
}
