// Package shader rewrites shader source so its compiled output behaves
// like the virtual GPU instead of the real one: precision qualifiers match
// the profile's precision tables, vendor quirks are emulated, extension
// enables are filtered to the profile's supported set, and an optional
// seed-derived perturbation ties float results to the profile rather than
// the real arithmetic units.
package shader

import (
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/veilgpu/veil/internal/cache"
	"github.com/veilgpu/veil/internal/detrand"
	"github.com/veilgpu/veil/profile"
)

// Options control a translation pass.
type Options struct {
	// EmulatePrecision inserts rounding helpers and routes fragment
	// outputs through them when the profile's mediump is narrower than
	// the real hardware's.
	EmulatePrecision bool

	// InjectPerturbation folds a seed-derived epsilon of negligible
	// magnitude into the fragment output so shader hashes follow the
	// profile's render seed.
	InjectPerturbation bool

	// Quirks overrides the built-in quirk table. Nil means the default.
	Quirks []Quirk

	// CacheSize caps the number of cached translation results. Zero
	// selects the default; a negative value disables caching.
	CacheSize int
}

const defaultCacheSize = 256

// Result reports what a translation pass did.
type Result struct {
	Source               string
	PrecisionChanges     int
	ExtensionsFiltered   int
	QuirksApplied        []string
	PerturbationInjected bool
}

// translationKey identifies one translation: the source digest plus
// everything that can change the output for the same source.
type translationKey struct {
	digest  [32]byte
	stage   profile.ShaderStage
	profile string
	seed    uint64
}

// Translator rewrites shaders for a target profile. The zero value is not
// usable; create one with NewTranslator.
//
// Translations are cached: pages compile the same handful of shaders in
// every context, so repeat passes over identical source for the same
// profile return the prior result.
type Translator struct {
	opts  Options
	cache *cache.Cache[translationKey, *Result]
}

// NewTranslator creates a translator with the given options.
func NewTranslator(opts Options) *Translator {
	size := opts.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	if size < 0 {
		size = 0
	}
	return &Translator{
		opts:  opts,
		cache: cache.New[translationKey, *Result](size),
	}
}

// CacheStats reports translation cache counters.
func (t *Translator) CacheStats() cache.Stats {
	return t.cache.Stats()
}

// NeedsTranslation is a fast pre-check for the shader-compile hot path.
// It scans without allocating; a false return means Translate would be an
// expensive no-op and the caller should skip it.
func (t *Translator) NeedsTranslation(src string) bool {
	if strings.Contains(src, "precision ") {
		return true
	}
	if strings.Contains(src, "#extension") {
		return true
	}
	if strings.Contains(src, "pow(") || strings.Contains(src, "precise ") {
		return true
	}
	if t.opts.InjectPerturbation && strings.Contains(src, "gl_FragColor") {
		return true
	}
	return false
}

// mediumpHelper rounds a float to 10 mantissa bits, the fp16 mediump the
// profile advertises. Scaling by the value's own exponent keeps the
// rounding relative, matching real half-precision units.
const mediumpHelper = `float veil_r16(float x) {
	float e = exp2(floor(log2(abs(x) + 1e-30)));
	return floor(x / e * 1024.0 + 0.5) * e * 0.0009765625;
}
vec4 veil_r16v(vec4 v) {
	return vec4(veil_r16(v.x), veil_r16(v.y), veil_r16(v.z), veil_r16(v.w));
}
`

// Translate rewrites src for the given stage and profile.
//
// The pass is line-oriented on top of the lexer: precision declarations
// and extension directives are located via tokens, then rewritten in
// place. Order matters: quirks run before precision emulation so a quirk
// that promotes a declaration is itself subject to emulation accounting.
// The returned Result may be shared with other callers through the
// translation cache; treat it as read-only.
func (t *Translator) Translate(src string, stage profile.ShaderStage, p *profile.Profile) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("shader: nil profile")
	}
	key := translationKey{
		digest:  blake3.Sum256([]byte(src)),
		stage:   stage,
		profile: p.ID,
		seed:    p.Seeds.Render,
	}
	if cached, ok := t.cache.Get(key); ok {
		return cached, nil
	}
	res := &Result{}

	out := src

	// Vendor quirks.
	table := t.opts.Quirks
	if table == nil {
		table = defaultQuirks
	}
	for _, q := range quirksFor(p, table) {
		var applied bool
		out, applied = q.Apply(out)
		if applied {
			res.QuirksApplied = append(res.QuirksApplied, q.Name)
		}
	}

	// Precision declarations.
	out, res.PrecisionChanges = t.rewritePrecision(out, stage, p)

	// Extension enables the profile does not support.
	out, res.ExtensionsFiltered = t.filterExtensions(out, p)

	// Precision emulation helpers.
	if t.opts.EmulatePrecision && stage == profile.StageFragment && profileWantsNarrowMediump(p) {
		if strings.Contains(out, "gl_FragColor =") {
			out = insertAfterDirectives(out, mediumpHelper)
			out = wrapFragColor(out, "veil_r16v")
		}
	}

	// Seed-derived perturbation.
	if t.opts.InjectPerturbation && stage == profile.StageFragment && strings.Contains(out, "gl_FragColor =") {
		eps := perturbationEpsilon(p.Seeds.Render)
		decl := fmt.Sprintf("const float VEIL_EPS = %.8e;\n", eps)
		out = insertAfterDirectives(out, decl)
		out = strings.Replace(out, "gl_FragColor =", "gl_FragColor = vec4(VEIL_EPS) +", 1)
		res.PerturbationInjected = true
	}

	res.Source = out
	t.cache.Set(key, res)
	return res, nil
}

// rewritePrecision rewrites `precision <level> float;` declarations to the
// level the profile's precision table implies for the stage.
func (t *Translator) rewritePrecision(src string, stage profile.ShaderStage, p *profile.Profile) (string, int) {
	target := targetLevel(stage, p)
	changes := 0

	toks := lex(src)
	// Collect replacements back to front so positions stay valid.
	type repl struct{ start, end int; text string }
	var repls []repl
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Kind != TokenIdent || toks[i].Text != "precision" {
			continue
		}
		level := toks[i+1]
		typ := toks[i+2]
		if level.Kind != TokenIdent || typ.Kind != TokenIdent {
			continue
		}
		if typ.Text != "float" && typ.Text != "int" {
			continue
		}
		if level.Text == target.String() {
			continue
		}
		switch level.Text {
		case "lowp", "mediump", "highp":
			repls = append(repls, repl{level.Pos, level.Pos + len(level.Text), target.String()})
		}
	}
	for i := len(repls) - 1; i >= 0; i-- {
		r := repls[i]
		src = src[:r.start] + r.text + src[r.end:]
		changes++
	}
	return src, changes
}

// filterExtensions drops #extension enables for extensions outside the
// profile's supported set. Disables are left alone: disabling something
// the profile lacks reveals nothing.
func (t *Translator) filterExtensions(src string, p *profile.Profile) (string, int) {
	if !strings.Contains(src, "#extension") {
		return src, 0
	}
	supported := make(map[string]struct{})
	for _, gen := range []profile.APIGeneration{profile.WebGL1, profile.WebGL2} {
		for _, e := range p.Caps.Extensions(gen) {
			supported[e] = struct{}{}
			supported["GL_"+e] = struct{}{}
		}
	}

	filtered := 0
	lines := strings.Split(src, "\n")
	out := lines[:0]
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "#extension") && strings.Contains(trimmed, "enable") {
			name := extensionName(trimmed)
			if _, ok := supported[name]; !ok && !strings.HasPrefix(name, "GL_all") {
				filtered++
				continue
			}
		}
		out = append(out, ln)
	}
	return strings.Join(out, "\n"), filtered
}

// extensionName extracts the extension name from an #extension directive.
func extensionName(directive string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(directive, "#extension"))
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// targetLevel derives the declaration level for a stage from the profile's
// precision table: hardware whose mediump is genuinely narrow keeps
// mediump declarations, hardware that promotes everything to fp32 gets
// highp declarations.
func targetLevel(stage profile.ShaderStage, p *profile.Profile) profile.PrecisionLevel {
	med, ok := p.Caps.PrecisionFor(stage, profile.PrecisionMedium)
	if ok && med.Precision < 23 {
		return profile.PrecisionMedium
	}
	return profile.PrecisionHigh
}

// profileWantsNarrowMediump reports whether the profile's fragment mediump
// is narrower than fp32 and therefore needs emulation on fp32 hardware.
func profileWantsNarrowMediump(p *profile.Profile) bool {
	med, ok := p.Caps.PrecisionFor(profile.StageFragment, profile.PrecisionMedium)
	return ok && med.Precision < 23
}

// wrapFragColor routes every gl_FragColor assignment through fn.
func wrapFragColor(src, fn string) string {
	var b strings.Builder
	for {
		idx := strings.Index(src, "gl_FragColor =")
		if idx < 0 {
			b.WriteString(src)
			break
		}
		end := strings.IndexByte(src[idx:], ';')
		if end < 0 {
			b.WriteString(src)
			break
		}
		expr := src[idx+len("gl_FragColor =") : idx+end]
		b.WriteString(src[:idx])
		b.WriteString("gl_FragColor = ")
		b.WriteString(fn)
		b.WriteString("(")
		b.WriteString(strings.TrimSpace(expr))
		b.WriteString(")")
		src = src[idx+end:]
	}
	return b.String()
}

// perturbationEpsilon maps a render seed to an epsilon in [1e-8, 1.1e-7],
// small enough to be invisible and large enough to move output hashes.
func perturbationEpsilon(seed uint64) float64 {
	return 1e-8 + detrand.Float64At(seed, 0)*1e-7
}
