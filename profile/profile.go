// Package profile defines virtual GPU identities: who the hardware claims
// to be, what limits it reports, how it renders, and how long its
// operations appear to take.
//
// A Profile is a complete, internally consistent description of one target
// GPU. Profiles are built by the factory functions (NewNVIDIARTX3060, ...)
// or decoded from YAML, validated against a set of plausibility rules, and
// then registered with a Registry. After registration a profile is frozen:
// every consumer sees the same immutable identity for the lifetime of the
// process.
package profile

import "time"

// Vendor identifies the GPU manufacturer a profile impersonates.
type Vendor uint8

const (
	VendorUnknown Vendor = iota
	VendorNVIDIA
	VendorAMD
	VendorIntel
	VendorApple
	VendorQualcomm
	VendorARM
)

// String returns the canonical vendor name as it appears in driver strings.
func (v Vendor) String() string {
	switch v {
	case VendorNVIDIA:
		return "NVIDIA"
	case VendorAMD:
		return "AMD"
	case VendorIntel:
		return "Intel"
	case VendorApple:
		return "Apple"
	case VendorQualcomm:
		return "Qualcomm"
	case VendorARM:
		return "ARM"
	default:
		return "Unknown"
	}
}

// PCIID returns the PCI vendor id used in bus-level identification.
func (v Vendor) PCIID() uint32 {
	switch v {
	case VendorNVIDIA:
		return 0x10de
	case VendorAMD:
		return 0x1002
	case VendorIntel:
		return 0x8086
	case VendorApple:
		return 0x106b
	case VendorQualcomm:
		return 0x5143
	case VendorARM:
		return 0x13b5
	default:
		return 0
	}
}

// Integrated reports whether the vendor ships integrated-class GPUs only.
// Apple silicon is unified-memory and deliberately excluded: its memory
// sizes follow system RAM, not discrete-VRAM conventions.
func (v Vendor) Integrated() bool {
	switch v {
	case VendorIntel, VendorQualcomm, VendorARM:
		return true
	default:
		return false
	}
}

// Platform is the host operating system the profile claims to run on.
// The renderer string's embedded backend label must agree with it.
type Platform uint8

const (
	PlatformUnknown Platform = iota
	PlatformWindows
	PlatformLinux
	PlatformMacOS
	PlatformAndroid
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformLinux:
		return "linux"
	case PlatformMacOS:
		return "macos"
	case PlatformAndroid:
		return "android"
	default:
		return "unknown"
	}
}

// BackendLabel returns the call-forwarding layer name embedded in ANGLE
// renderer strings on this platform (Direct3D on Windows, Metal on macOS,
// OpenGL elsewhere).
func (p Platform) BackendLabel() string {
	switch p {
	case PlatformWindows:
		return "D3D11"
	case PlatformMacOS:
		return "Metal"
	default:
		return "OpenGL"
	}
}

// APIGeneration selects which WebGL generation an extension list or limit
// applies to.
type APIGeneration uint8

const (
	WebGL1 APIGeneration = 1
	WebGL2 APIGeneration = 2
)

func (g APIGeneration) String() string {
	switch g {
	case WebGL1:
		return "webgl1"
	case WebGL2:
		return "webgl2"
	default:
		return "unknown"
	}
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// PrecisionLevel is a GLSL precision qualifier level.
type PrecisionLevel uint8

const (
	PrecisionLow PrecisionLevel = iota
	PrecisionMedium
	PrecisionHigh
)

func (l PrecisionLevel) String() string {
	switch l {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	default:
		return "highp"
	}
}

// Precision is a shader precision format triple as reported by
// getShaderPrecisionFormat: log2 of the representable range on either side
// of zero, and the number of mantissa bits.
type Precision struct {
	RangeMin  int32 `yaml:"range_min"`
	RangeMax  int32 `yaml:"range_max"`
	Precision int32 `yaml:"precision"`
}

// PrecisionSet holds the triples for all three qualifier levels of one
// shader stage.
type PrecisionSet struct {
	Low    Precision `yaml:"low"`
	Medium Precision `yaml:"medium"`
	High   Precision `yaml:"high"`
}

func (s *PrecisionSet) level(l PrecisionLevel) Precision {
	switch l {
	case PrecisionLow:
		return s.Low
	case PrecisionMedium:
		return s.Medium
	default:
		return s.High
	}
}

// ShaderPrecision holds per-stage precision tables.
type ShaderPrecision struct {
	Vertex   PrecisionSet `yaml:"vertex"`
	Fragment PrecisionSet `yaml:"fragment"`
}

// RoundingMode describes how the virtual hardware rounds float results.
type RoundingMode uint8

const (
	RoundNearestEven RoundingMode = iota
	RoundTowardZero
)

func (m RoundingMode) String() string {
	if m == RoundTowardZero {
		return "toward-zero"
	}
	return "nearest-even"
}

// RenderBehavior captures the observable rendering characteristics of the
// virtual hardware: the properties a canvas-hashing probe can measure.
type RenderBehavior struct {
	Rounding       RoundingMode `yaml:"rounding"`
	FlushDenormals bool         `yaml:"flush_denormals"`
	Gamma          float64      `yaml:"gamma"`
	ColorSpace     string       `yaml:"color_space"`
	AASamples      int          `yaml:"aa_samples"`
	ChannelBits    int          `yaml:"channel_bits"`
}

// OpCost is the expected duration of one operation class on the virtual
// hardware, with the natural spread observed on real parts.
type OpCost struct {
	Base     time.Duration `yaml:"base"`
	Variance time.Duration `yaml:"variance"`
}

// TimingProfile models how long the virtual hardware takes for each
// operation class. The timing normalizer uses it to shape observed
// durations toward the profile instead of merely hiding the real ones.
type TimingProfile struct {
	Draw          OpCost `yaml:"draw"`
	CompileShader OpCost `yaml:"compile_shader"`
	LinkProgram   OpCost `yaml:"link_program"`
	ReadPixels    OpCost `yaml:"read_pixels"`
	TexUpload     OpCost `yaml:"tex_upload"`
	BufferUpload  OpCost `yaml:"buffer_upload"`
}

// Seeds are the three independent deterministic seeds of a profile. Render
// drives pixel and shader perturbation, Canvas drives 2D canvas noise,
// Audio drives audio-context noise. They are independent so that fixing one
// fingerprint surface never shifts another.
type Seeds struct {
	Render uint64 `yaml:"render"`
	Canvas uint64 `yaml:"canvas"`
	Audio  uint64 `yaml:"audio"`
}

// Profile is a complete virtual GPU identity. Treat a registered profile as
// immutable; the Registry hands out shared references.
type Profile struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Vendor       Vendor `yaml:"vendor"`
	Architecture string `yaml:"architecture"`
	Platform     Platform `yaml:"platform"`

	// MemoryMB is the advertised device memory and CoreCount the advertised
	// shading-unit count. Both feed the plausibility rules.
	MemoryMB  int64 `yaml:"memory_mb"`
	CoreCount int   `yaml:"core_count"`

	Caps   Capabilities   `yaml:"capabilities"`
	Render RenderBehavior `yaml:"render"`
	Timing TimingProfile  `yaml:"timing"`
	Seeds  Seeds          `yaml:"seeds"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Caps.ExtensionsGL1 = append([]string(nil), p.Caps.ExtensionsGL1...)
	c.Caps.ExtensionsGL2 = append([]string(nil), p.Caps.ExtensionsGL2...)
	return &c
}
