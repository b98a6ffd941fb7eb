package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// WebGPU contexts hand us WGSL instead of GLSL. The same perturbation idea
// applies, but WGSL has no precision qualifiers to rewrite; instead the
// seed epsilon is declared as a module-scope constant for fragment entry
// points to fold in. Because a miscompiled WGSL module kills the whole
// device, every transformed module is validated by compiling it with naga
// before it is handed back.

// TranslateWGSL applies the seed perturbation to a WGSL module and
// validates the result. On validation failure the original source is
// returned untouched along with the error, so the caller can fall back to
// the unmodified shader rather than lose the device.
func (t *Translator) TranslateWGSL(src string, renderSeed uint64) (string, error) {
	if !t.opts.InjectPerturbation {
		return src, nil
	}
	if strings.Contains(src, "veil_eps") {
		return src, nil // already transformed
	}

	eps := perturbationEpsilon(renderSeed)
	out := fmt.Sprintf("const veil_eps: f32 = %.8e;\n", eps) + src

	if _, err := naga.Compile(out); err != nil {
		return src, fmt.Errorf("shader: transformed WGSL failed validation: %w", err)
	}
	return out, nil
}

// ValidateWGSL compiles a WGSL module with naga and reports whether it is
// well formed. Callers use it on modules they receive but did not
// transform themselves.
func ValidateWGSL(src string) error {
	if _, err := naga.Compile(src); err != nil {
		return fmt.Errorf("shader: WGSL validation: %w", err)
	}
	return nil
}
