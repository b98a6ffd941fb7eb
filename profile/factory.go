package profile

import "time"

// Factory presets. Each returns a fully populated, validated identity for a
// specific real-world GPU. The numbers come from the values those parts
// report through ANGLE-backed Chromium builds; a probe comparing any two of
// them against each other should find nothing out of place.

// ieeePrecision is the precision table ANGLE reports on desktop hardware:
// everything is IEEE 754 single precision, including mediump and lowp.
func ieeePrecision() ShaderPrecision {
	fp32 := Precision{RangeMin: 127, RangeMax: 127, Precision: 23}
	set := PrecisionSet{Low: fp32, Medium: fp32, High: fp32}
	return ShaderPrecision{Vertex: set, Fragment: set}
}

// metalPrecision is the table Apple silicon reports: mediump and lowp map
// to fp16 in the fragment stage.
func metalPrecision() ShaderPrecision {
	fp32 := Precision{RangeMin: 127, RangeMax: 127, Precision: 23}
	fp16 := Precision{RangeMin: 15, RangeMax: 15, Precision: 10}
	return ShaderPrecision{
		Vertex:   PrecisionSet{Low: fp32, Medium: fp32, High: fp32},
		Fragment: PrecisionSet{Low: fp16, Medium: fp16, High: fp32},
	}
}

func webgl1Extensions() []string {
	return []string{
		"ANGLE_instanced_arrays",
		"EXT_blend_minmax",
		"EXT_color_buffer_half_float",
		"EXT_texture_filter_anisotropic",
		"OES_element_index_uint",
		"OES_standard_derivatives",
		"OES_texture_float",
		"OES_texture_half_float",
		"OES_texture_half_float_linear",
		"OES_vertex_array_object",
		"WEBGL_color_buffer_float",
		"WEBGL_compressed_texture_s3tc",
		"WEBGL_debug_renderer_info",
		"WEBGL_depth_texture",
		"WEBGL_lose_context",
	}
}

func webgl2Extensions() []string {
	return []string{
		"EXT_color_buffer_float",
		"EXT_float_blend",
		"EXT_texture_compression_bptc",
		"EXT_texture_filter_anisotropic",
		"EXT_texture_norm16",
		"OES_draw_buffers_indexed",
		"OES_texture_float_linear",
		"WEBGL_compressed_texture_s3tc",
		"WEBGL_debug_renderer_info",
		"WEBGL_lose_context",
		"WEBGL_multi_draw",
	}
}

// desktopCaps fills the numeric limits shared by every desktop ANGLE/D3D11
// configuration. Identity strings and the sample pair differ per preset.
func desktopCaps() Capabilities {
	return Capabilities{
		VersionJS:   "WebGL 2.0 (OpenGL ES 3.0 Chromium)",
		GLSLVersion: "WebGL GLSL ES 3.00 (OpenGL ES GLSL ES 3.0 Chromium)",

		MaxTextureSize:             16384,
		MaxViewportDims:            32767,
		MaxTextureImageUnits:       16,
		MaxVertexTextureImageUnits: 16,
		MaxCombinedTextureUnits:    32,
		MaxVertexAttribs:           16,
		MaxVertexUniformVectors:    4096,
		MaxVaryingVectors:          30,
		MaxFragmentUniformVectors:  1024,
		MaxCubeMapTextureSize:      16384,
		MaxRenderbufferSize:        16384,
		SampleBuffers:              1,
		Samples:                    4,
		MaxSamples:                 8,
		MaxDrawBuffers:             8,
		MaxColorAttachments:        8,
		Max3DTextureSize:           2048,
		MaxArrayTextureLayers:      2048,
		MaxUniformBufferBindings:   72,
		MaxElementsVertices:        1048575,
		MaxElementsIndices:         1048575,
		MaxTextureAnisotropy:       16,

		Precision:     ieeePrecision(),
		ExtensionsGL1: webgl1Extensions(),
		ExtensionsGL2: webgl2Extensions(),
	}
}

func discreteTiming() TimingProfile {
	return TimingProfile{
		Draw:          OpCost{Base: 80 * time.Microsecond, Variance: 30 * time.Microsecond},
		CompileShader: OpCost{Base: 2 * time.Millisecond, Variance: 800 * time.Microsecond},
		LinkProgram:   OpCost{Base: 4 * time.Millisecond, Variance: 1500 * time.Microsecond},
		ReadPixels:    OpCost{Base: 500 * time.Microsecond, Variance: 200 * time.Microsecond},
		TexUpload:     OpCost{Base: 300 * time.Microsecond, Variance: 100 * time.Microsecond},
		BufferUpload:  OpCost{Base: 120 * time.Microsecond, Variance: 50 * time.Microsecond},
	}
}

func integratedTiming() TimingProfile {
	t := discreteTiming()
	for _, c := range []*OpCost{&t.Draw, &t.CompileShader, &t.LinkProgram, &t.ReadPixels, &t.TexUpload, &t.BufferUpload} {
		c.Base *= 2
		c.Variance *= 2
	}
	return t
}

// NewNVIDIARTX3060 returns the RTX 3060 identity on Windows.
func NewNVIDIARTX3060() *Profile {
	caps := desktopCaps()
	caps.Vendor = "Google Inc. (NVIDIA)"
	caps.Renderer = "ANGLE (NVIDIA, NVIDIA GeForce RTX 3060 Direct3D11 vs_5_0 ps_5_0, D3D11)"
	caps.VersionNative = "OpenGL ES 3.0.0 (ANGLE 2.1.2 git hash: unknown)"
	return &Profile{
		ID:           "NVIDIA-RTX3060",
		Name:         "NVIDIA GeForce RTX 3060",
		Vendor:       VendorNVIDIA,
		Architecture: "ampere",
		Platform:     PlatformWindows,
		MemoryMB:     12288,
		CoreCount:    3584,
		Caps:         caps,
		Render: RenderBehavior{
			Rounding:    RoundNearestEven,
			Gamma:       2.2,
			ColorSpace:  "srgb",
			AASamples:   4,
			ChannelBits: 8,
		},
		Timing: discreteTiming(),
		Seeds:  Seeds{Render: 0x3060a1b2c3d4e5f6, Canvas: 0x3060112233445566, Audio: 0x3060aabbccddeeff},
	}
}

// NewNVIDIARTX4070 returns the RTX 4070 identity on Windows.
func NewNVIDIARTX4070() *Profile {
	p := NewNVIDIARTX3060()
	p.ID = "NVIDIA-RTX4070"
	p.Name = "NVIDIA GeForce RTX 4070"
	p.Architecture = "ada"
	p.CoreCount = 5888
	p.Caps.Renderer = "ANGLE (NVIDIA, NVIDIA GeForce RTX 4070 Direct3D11 vs_5_0 ps_5_0, D3D11)"
	p.Caps.MaxSamples = 16
	p.Seeds = Seeds{Render: 0x4070a1b2c3d4e5f6, Canvas: 0x4070112233445566, Audio: 0x4070aabbccddeeff}
	return p
}

// NewAMDRX6700 returns the Radeon RX 6700 XT identity on Windows.
func NewAMDRX6700() *Profile {
	caps := desktopCaps()
	caps.Vendor = "Google Inc. (AMD)"
	caps.Renderer = "ANGLE (AMD, AMD Radeon RX 6700 XT Direct3D11 vs_5_0 ps_5_0, D3D11)"
	caps.VersionNative = "OpenGL ES 3.0.0 (ANGLE 2.1.2 git hash: unknown)"
	return &Profile{
		ID:           "AMD-RX6700XT",
		Name:         "AMD Radeon RX 6700 XT",
		Vendor:       VendorAMD,
		Architecture: "rdna2",
		Platform:     PlatformWindows,
		MemoryMB:     12288,
		CoreCount:    2560,
		Caps:         caps,
		Render: RenderBehavior{
			Rounding:    RoundNearestEven,
			Gamma:       2.2,
			ColorSpace:  "srgb",
			AASamples:   4,
			ChannelBits: 8,
		},
		Timing: discreteTiming(),
		Seeds:  Seeds{Render: 0x6700a1b2c3d4e5f6, Canvas: 0x6700112233445566, Audio: 0x6700aabbccddeeff},
	}
}

// NewIntelIrisXe returns the Iris Xe (mobile) identity on Windows.
func NewIntelIrisXe() *Profile {
	caps := desktopCaps()
	caps.Vendor = "Google Inc. (Intel)"
	caps.Renderer = "ANGLE (Intel, Intel(R) Iris(R) Xe Graphics Direct3D11 vs_5_0 ps_5_0, D3D11)"
	caps.VersionNative = "OpenGL ES 3.0.0 (ANGLE 2.1.2 git hash: unknown)"
	caps.MaxSamples = 8
	return &Profile{
		ID:           "Intel-IrisXe",
		Name:         "Intel Iris Xe Graphics",
		Vendor:       VendorIntel,
		Architecture: "xe-lp",
		Platform:     PlatformWindows,
		MemoryMB:     2048,
		CoreCount:    96,
		Caps:         caps,
		Render: RenderBehavior{
			Rounding:    RoundNearestEven,
			Gamma:       2.2,
			ColorSpace:  "srgb",
			AASamples:   4,
			ChannelBits: 8,
		},
		Timing: integratedTiming(),
		Seeds:  Seeds{Render: 0x00e1a1b2c3d4e5f6, Canvas: 0x00e1112233445566, Audio: 0x00e1aabbccddeeff},
	}
}

// NewIntelUHD630 returns the UHD 630 identity on Windows.
func NewIntelUHD630() *Profile {
	p := NewIntelIrisXe()
	p.ID = "Intel-UHD630"
	p.Name = "Intel UHD Graphics 630"
	p.Architecture = "gen9.5"
	p.MemoryMB = 1024
	p.CoreCount = 24
	p.Caps.Renderer = "ANGLE (Intel, Intel(R) UHD Graphics 630 Direct3D11 vs_5_0 ps_5_0, D3D11)"
	p.Seeds = Seeds{Render: 0x0630a1b2c3d4e5f6, Canvas: 0x0630112233445566, Audio: 0x0630aabbccddeeff}
	return p
}

// NewAppleM1 returns the Apple M1 identity on macOS. Apple silicon reports
// fp16 mediump in the fragment stage, a Metal backend label, and unified
// memory; the plausibility rules pin it to the Apple platform.
func NewAppleM1() *Profile {
	caps := desktopCaps()
	caps.Vendor = "Google Inc. (Apple)"
	caps.Renderer = "ANGLE (Apple, ANGLE Metal Renderer: Apple M1, Unspecified Version)"
	caps.VersionNative = "OpenGL ES 3.0.0 (ANGLE 2.1.2 git hash: unknown)"
	caps.Precision = metalPrecision()
	caps.MaxSamples = 8
	return &Profile{
		ID:           "Apple-M1",
		Name:         "Apple M1",
		Vendor:       VendorApple,
		Architecture: "apple-g13",
		Platform:     PlatformMacOS,
		MemoryMB:     8192,
		CoreCount:    8,
		Caps:         caps,
		Render: RenderBehavior{
			Rounding:    RoundNearestEven,
			Gamma:       2.2,
			ColorSpace:  "display-p3",
			AASamples:   4,
			ChannelBits: 8,
		},
		Timing: discreteTiming(),
		Seeds:  Seeds{Render: 0x00a1a1b2c3d4e5f6, Canvas: 0x00a1112233445566, Audio: 0x00a1aabbccddeeff},
	}
}

// NewAppleM2 returns the Apple M2 identity on macOS.
func NewAppleM2() *Profile {
	p := NewAppleM1()
	p.ID = "Apple-M2"
	p.Name = "Apple M2"
	p.Architecture = "apple-g14"
	p.CoreCount = 10
	p.Caps.Renderer = "ANGLE (Apple, ANGLE Metal Renderer: Apple M2, Unspecified Version)"
	p.Seeds = Seeds{Render: 0x00a2a1b2c3d4e5f6, Canvas: 0x00a2112233445566, Audio: 0x00a2aabbccddeeff}
	return p
}

// Builtin returns every factory preset. The slice is freshly built on each
// call; mutating the returned profiles does not affect later calls.
func Builtin() []*Profile {
	return []*Profile{
		NewNVIDIARTX3060(),
		NewNVIDIARTX4070(),
		NewAMDRX6700(),
		NewIntelIrisXe(),
		NewIntelUHD630(),
		NewAppleM1(),
		NewAppleM2(),
	}
}
