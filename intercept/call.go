package intercept

// Call identifies one intercepted graphics entry point. The same enum
// drives the interceptor's handler table and the shim's proc-address
// override table, so there is exactly one list of "calls we touch";
// everything else forwards unmodified.
type Call uint16

const (
	// CallUnknown is the zero value; dispatching it always continues.
	CallUnknown Call = iota

	// Identity and capability queries.
	CallGetString
	CallGetIntegerv
	CallGetFloatv
	CallGetShaderPrecisionFormat
	CallGetExtensions

	// Shader pipeline.
	CallShaderSource
	CallCompileShader
	CallLinkProgram

	// Pixel read-back.
	CallReadPixels

	// Draw calls (timing surface).
	CallDrawArrays
	CallDrawElements

	// Object lifecycle bookkeeping.
	CallCreateShader
	CallDeleteShader
	CallCreateProgram
	CallDeleteProgram
	CallGenTextures
	CallDeleteTextures
	CallGenFramebuffers
	CallDeleteFramebuffers

	callCount // keep last
)

var callNames = [...]string{
	CallUnknown:                  "unknown",
	CallGetString:                "glGetString",
	CallGetIntegerv:              "glGetIntegerv",
	CallGetFloatv:                "glGetFloatv",
	CallGetShaderPrecisionFormat: "glGetShaderPrecisionFormat",
	CallGetExtensions:            "glGetStringi(GL_EXTENSIONS)",
	CallShaderSource:             "glShaderSource",
	CallCompileShader:            "glCompileShader",
	CallLinkProgram:              "glLinkProgram",
	CallReadPixels:               "glReadPixels",
	CallDrawArrays:               "glDrawArrays",
	CallDrawElements:             "glDrawElements",
	CallCreateShader:             "glCreateShader",
	CallDeleteShader:             "glDeleteShader",
	CallCreateProgram:            "glCreateProgram",
	CallDeleteProgram:            "glDeleteProgram",
	CallGenTextures:              "glGenTextures",
	CallDeleteTextures:           "glDeleteTextures",
	CallGenFramebuffers:          "glGenFramebuffers",
	CallDeleteFramebuffers:       "glDeleteFramebuffers",
}

// String returns the native entry-point name for the call.
func (c Call) String() string {
	if int(c) < len(callNames) {
		return callNames[c]
	}
	return "unknown"
}

// Calls returns every interceptable call id, excluding CallUnknown.
func Calls() []Call {
	out := make([]Call, 0, int(callCount)-1)
	for c := CallGetString; c < callCount; c++ {
		out = append(out, c)
	}
	return out
}
