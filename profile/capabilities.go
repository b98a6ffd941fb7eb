package profile

// Param identifies a numeric capability by its GL enum value. The engine
// keys every parameter query on these, so the interceptor, the shim, and
// the capability table all agree on one vocabulary.
type Param uint32

const (
	ParamMaxTextureSize              Param = 0x0D33
	ParamMaxViewportDims             Param = 0x0D3A
	ParamMaxTextureImageUnits        Param = 0x8872
	ParamMaxVertexTextureImageUnits  Param = 0x8B4C
	ParamMaxCombinedTextureUnits     Param = 0x8B4D
	ParamMaxVertexAttribs            Param = 0x8869
	ParamMaxVertexUniformVectors     Param = 0x8DFB
	ParamMaxVaryingVectors           Param = 0x8DFC
	ParamMaxFragmentUniformVectors   Param = 0x8DFD
	ParamMaxCubeMapTextureSize       Param = 0x851C
	ParamMaxRenderbufferSize         Param = 0x84E8
	ParamSampleBuffers               Param = 0x80A8
	ParamSamples                     Param = 0x80A9
	ParamMaxSamples                  Param = 0x8D57
	ParamMaxDrawBuffers              Param = 0x8824
	ParamMaxColorAttachments         Param = 0x8CDF
	ParamMax3DTextureSize            Param = 0x8073
	ParamMaxArrayTextureLayers       Param = 0x88FF
	ParamMaxUniformBufferBindings    Param = 0x8A2F
	ParamMaxElementsVertices         Param = 0x80E8
	ParamMaxElementsIndices          Param = 0x80E9
	ParamMaxTextureAnisotropy        Param = 0x84FF
)

// String returns the GL constant name for a parameter.
func (p Param) String() string {
	switch p {
	case ParamMaxTextureSize:
		return "MAX_TEXTURE_SIZE"
	case ParamMaxViewportDims:
		return "MAX_VIEWPORT_DIMS"
	case ParamMaxTextureImageUnits:
		return "MAX_TEXTURE_IMAGE_UNITS"
	case ParamMaxVertexTextureImageUnits:
		return "MAX_VERTEX_TEXTURE_IMAGE_UNITS"
	case ParamMaxCombinedTextureUnits:
		return "MAX_COMBINED_TEXTURE_IMAGE_UNITS"
	case ParamMaxVertexAttribs:
		return "MAX_VERTEX_ATTRIBS"
	case ParamMaxVertexUniformVectors:
		return "MAX_VERTEX_UNIFORM_VECTORS"
	case ParamMaxVaryingVectors:
		return "MAX_VARYING_VECTORS"
	case ParamMaxFragmentUniformVectors:
		return "MAX_FRAGMENT_UNIFORM_VECTORS"
	case ParamMaxCubeMapTextureSize:
		return "MAX_CUBE_MAP_TEXTURE_SIZE"
	case ParamMaxRenderbufferSize:
		return "MAX_RENDERBUFFER_SIZE"
	case ParamSampleBuffers:
		return "SAMPLE_BUFFERS"
	case ParamSamples:
		return "SAMPLES"
	case ParamMaxSamples:
		return "MAX_SAMPLES"
	case ParamMaxDrawBuffers:
		return "MAX_DRAW_BUFFERS"
	case ParamMaxColorAttachments:
		return "MAX_COLOR_ATTACHMENTS"
	case ParamMax3DTextureSize:
		return "MAX_3D_TEXTURE_SIZE"
	case ParamMaxArrayTextureLayers:
		return "MAX_ARRAY_TEXTURE_LAYERS"
	case ParamMaxUniformBufferBindings:
		return "MAX_UNIFORM_BUFFER_BINDINGS"
	case ParamMaxElementsVertices:
		return "MAX_ELEMENTS_VERTICES"
	case ParamMaxElementsIndices:
		return "MAX_ELEMENTS_INDICES"
	case ParamMaxTextureAnisotropy:
		return "MAX_TEXTURE_MAX_ANISOTROPY_EXT"
	default:
		return "UNKNOWN_PARAM"
	}
}

// StringName identifies an identity string by its GL enum value. The
// unmasked pair comes from WEBGL_debug_renderer_info and is the surface
// most fingerprinting scripts read first.
type StringName uint32

const (
	StringVendor           StringName = 0x1F00
	StringRenderer         StringName = 0x1F01
	StringVersion          StringName = 0x1F02
	StringGLSLVersion      StringName = 0x8B8C
	StringUnmaskedVendor   StringName = 0x9245
	StringUnmaskedRenderer StringName = 0x9246
)

func (n StringName) String() string {
	switch n {
	case StringVendor:
		return "VENDOR"
	case StringRenderer:
		return "RENDERER"
	case StringVersion:
		return "VERSION"
	case StringGLSLVersion:
		return "SHADING_LANGUAGE_VERSION"
	case StringUnmaskedVendor:
		return "UNMASKED_VENDOR_WEBGL"
	case StringUnmaskedRenderer:
		return "UNMASKED_RENDERER_WEBGL"
	default:
		return "UNKNOWN_STRING"
	}
}

// Capabilities is everything the virtual hardware reports about itself:
// identity strings for both audiences, numeric limits, shader precision
// tables, and extension lists per API generation.
//
// VersionJS and VersionNative must never be conflated. VersionJS is the
// string a page sees through getParameter(VERSION). VersionNative is the
// string the translation layer reports to the browser's GL bindings; the
// browser validates it against the API level it requested, so spoofing it
// breaks context creation.
type Capabilities struct {
	Vendor        string `yaml:"vendor"`
	Renderer      string `yaml:"renderer"`
	VersionJS     string `yaml:"version_js"`
	VersionNative string `yaml:"version_native"`
	GLSLVersion   string `yaml:"glsl_version"`

	MaxTextureSize             int64 `yaml:"max_texture_size"`
	MaxViewportDims            int64 `yaml:"max_viewport_dims"`
	MaxTextureImageUnits       int64 `yaml:"max_texture_image_units"`
	MaxVertexTextureImageUnits int64 `yaml:"max_vertex_texture_image_units"`
	MaxCombinedTextureUnits    int64 `yaml:"max_combined_texture_units"`
	MaxVertexAttribs           int64 `yaml:"max_vertex_attribs"`
	MaxVertexUniformVectors    int64 `yaml:"max_vertex_uniform_vectors"`
	MaxVaryingVectors          int64 `yaml:"max_varying_vectors"`
	MaxFragmentUniformVectors  int64 `yaml:"max_fragment_uniform_vectors"`
	MaxCubeMapTextureSize      int64 `yaml:"max_cube_map_texture_size"`
	MaxRenderbufferSize        int64 `yaml:"max_renderbuffer_size"`
	SampleBuffers              int64 `yaml:"sample_buffers"`
	Samples                    int64 `yaml:"samples"`
	MaxSamples                 int64 `yaml:"max_samples"`
	MaxDrawBuffers             int64 `yaml:"max_draw_buffers"`
	MaxColorAttachments        int64 `yaml:"max_color_attachments"`
	Max3DTextureSize           int64 `yaml:"max_3d_texture_size"`
	MaxArrayTextureLayers      int64 `yaml:"max_array_texture_layers"`
	MaxUniformBufferBindings   int64 `yaml:"max_uniform_buffer_bindings"`
	MaxElementsVertices        int64 `yaml:"max_elements_vertices"`
	MaxElementsIndices         int64 `yaml:"max_elements_indices"`
	MaxTextureAnisotropy       int64 `yaml:"max_texture_anisotropy"`

	Precision ShaderPrecision `yaml:"precision"`

	ExtensionsGL1 []string `yaml:"extensions_webgl1"`
	ExtensionsGL2 []string `yaml:"extensions_webgl2"`
}

// Lookup returns the spoofed value for a numeric parameter, or false when
// the capability table does not define it and the caller should fall
// through the resolution chain.
func (c *Capabilities) Lookup(p Param) (int64, bool) {
	switch p {
	case ParamMaxTextureSize:
		return c.MaxTextureSize, c.MaxTextureSize != 0
	case ParamMaxViewportDims:
		return c.MaxViewportDims, c.MaxViewportDims != 0
	case ParamMaxTextureImageUnits:
		return c.MaxTextureImageUnits, c.MaxTextureImageUnits != 0
	case ParamMaxVertexTextureImageUnits:
		return c.MaxVertexTextureImageUnits, c.MaxVertexTextureImageUnits != 0
	case ParamMaxCombinedTextureUnits:
		return c.MaxCombinedTextureUnits, c.MaxCombinedTextureUnits != 0
	case ParamMaxVertexAttribs:
		return c.MaxVertexAttribs, c.MaxVertexAttribs != 0
	case ParamMaxVertexUniformVectors:
		return c.MaxVertexUniformVectors, c.MaxVertexUniformVectors != 0
	case ParamMaxVaryingVectors:
		return c.MaxVaryingVectors, c.MaxVaryingVectors != 0
	case ParamMaxFragmentUniformVectors:
		return c.MaxFragmentUniformVectors, c.MaxFragmentUniformVectors != 0
	case ParamMaxCubeMapTextureSize:
		return c.MaxCubeMapTextureSize, c.MaxCubeMapTextureSize != 0
	case ParamMaxRenderbufferSize:
		return c.MaxRenderbufferSize, c.MaxRenderbufferSize != 0
	case ParamSampleBuffers:
		// Zero is a meaningful value for the sample pair: a context without
		// multisampling reports 0, and render-environment probes check it.
		return c.SampleBuffers, true
	case ParamSamples:
		return c.Samples, true
	case ParamMaxSamples:
		return c.MaxSamples, c.MaxSamples != 0
	case ParamMaxDrawBuffers:
		return c.MaxDrawBuffers, c.MaxDrawBuffers != 0
	case ParamMaxColorAttachments:
		return c.MaxColorAttachments, c.MaxColorAttachments != 0
	case ParamMax3DTextureSize:
		return c.Max3DTextureSize, c.Max3DTextureSize != 0
	case ParamMaxArrayTextureLayers:
		return c.MaxArrayTextureLayers, c.MaxArrayTextureLayers != 0
	case ParamMaxUniformBufferBindings:
		return c.MaxUniformBufferBindings, c.MaxUniformBufferBindings != 0
	case ParamMaxElementsVertices:
		return c.MaxElementsVertices, c.MaxElementsVertices != 0
	case ParamMaxElementsIndices:
		return c.MaxElementsIndices, c.MaxElementsIndices != 0
	case ParamMaxTextureAnisotropy:
		return c.MaxTextureAnisotropy, c.MaxTextureAnisotropy != 0
	default:
		return 0, false
	}
}

// LookupString returns the spoofed identity string for name. The native
// version string is deliberately never answered here: overriding it breaks
// context creation, so queries for it always fall through to the real
// implementation.
func (c *Capabilities) LookupString(n StringName) (string, bool) {
	switch n {
	case StringVendor, StringUnmaskedVendor:
		return c.Vendor, c.Vendor != ""
	case StringRenderer, StringUnmaskedRenderer:
		return c.Renderer, c.Renderer != ""
	case StringVersion:
		return c.VersionJS, c.VersionJS != ""
	case StringGLSLVersion:
		return c.GLSLVersion, c.GLSLVersion != ""
	default:
		return "", false
	}
}

// PrecisionFor returns the precision triple for a stage and level.
func (c *Capabilities) PrecisionFor(stage ShaderStage, level PrecisionLevel) (Precision, bool) {
	var set *PrecisionSet
	switch stage {
	case StageVertex:
		set = &c.Precision.Vertex
	case StageFragment:
		set = &c.Precision.Fragment
	default:
		return Precision{}, false
	}
	p := set.level(level)
	if p == (Precision{}) {
		return Precision{}, false
	}
	return p, true
}

// Extensions returns the extension list for an API generation. The result
// is a copy; callers may filter it freely.
func (c *Capabilities) Extensions(gen APIGeneration) []string {
	switch gen {
	case WebGL2:
		return append([]string(nil), c.ExtensionsGL2...)
	default:
		return append([]string(nil), c.ExtensionsGL1...)
	}
}
