package shader

import (
	"strings"
	"testing"
)

const wgslSrc = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(0.5, 0.5, 0.5, 1.0);
}
`

func TestTranslateWGSLDisabled(t *testing.T) {
	tr := NewTranslator(Options{InjectPerturbation: false})
	out, err := tr.TranslateWGSL(wgslSrc, 42)
	if err != nil {
		t.Fatalf("TranslateWGSL: %v", err)
	}
	if out != wgslSrc {
		t.Error("perturbation disabled, source should pass through unchanged")
	}
}

func TestTranslateWGSLIdempotent(t *testing.T) {
	tr := NewTranslator(Options{InjectPerturbation: true})

	// A module that already carries the epsilon constant is not
	// transformed again, and no recompilation happens.
	already := "const veil_eps: f32 = 1.0e-7;\n" + wgslSrc
	out, err := tr.TranslateWGSL(already, 42)
	if err != nil {
		t.Fatalf("TranslateWGSL: %v", err)
	}
	if out != already {
		t.Error("already-transformed module should pass through unchanged")
	}
	if strings.Count(out, "veil_eps") != 1 {
		t.Error("epsilon constant duplicated")
	}
}
