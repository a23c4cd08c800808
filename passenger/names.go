package passenger

import "strings"

// NormalizerConfig holds the name-cleaning knobs. The noise rules are OCR
// heuristics, not linguistic ones: MRZ readers over-report one particular
// glyph, and repeated-character runs are recognition garbage. They can drop
// genuine short names, which is why the thresholds live in configuration.
type NormalizerConfig struct {
	// Filler is the MRZ padding character, replaced by a space in the
	// given-names field and stripped from the surname.
	Filler rune
	// NoiseRune is the glyph the recognizer over-reports; a token is
	// dropped when more than NoiseRatio of its characters are this rune.
	NoiseRune  rune
	NoiseRatio float64
	// Particles are name roots that OCR tends to run together with the
	// preceding word; a space is inserted before an embedded particle.
	Particles []string
}

// DefaultNormalizerConfig mirrors the tuning used in production batches.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Filler:     '<',
		NoiseRune:  'K',
		NoiseRatio: 0.6,
		Particles:  []string{"KHAN", "ULLAH"},
	}
}

// Normalizer cleans raw MRZ name fields into canonical form.
type Normalizer struct {
	cfg NormalizerConfig
}

func NewNormalizer(cfg NormalizerConfig) *Normalizer {
	if cfg.Filler == 0 {
		cfg.Filler = '<'
	}
	if cfg.NoiseRatio <= 0 {
		cfg.NoiseRatio = 0.6
	}
	return &Normalizer{cfg: cfg}
}

// Clean normalizes a raw surname and given-names pair. An empty result is
// valid: a given-names field made entirely of noise cleans to "".
func (n *Normalizer) Clean(surname, givenNames string) (string, string) {
	filler := string(n.cfg.Filler)

	surname = strings.ReplaceAll(surname, filler, "")
	surname = strings.ToUpper(strings.TrimSpace(surname))

	givenNames = strings.ReplaceAll(givenNames, filler, " ")
	givenNames = strings.ToUpper(strings.TrimSpace(givenNames))

	var kept []string
	for _, tok := range strings.Fields(givenNames) {
		for _, part := range n.resplit(tok) {
			if n.keep(part) {
				kept = append(kept, part)
			}
		}
	}

	return surname, strings.Join(kept, " ")
}

// keep applies the noise filters: single characters, runs of one repeated
// character, and tokens dominated by the noise glyph are discarded.
func (n *Normalizer) keep(tok string) bool {
	if len(tok) <= 1 {
		return false
	}

	runes := []rune(tok)
	identical := true
	noise := 0
	for _, r := range runes {
		if r != runes[0] {
			identical = false
		}
		if n.cfg.NoiseRune != 0 && r == n.cfg.NoiseRune {
			noise++
		}
	}
	if identical {
		return false
	}
	if float64(noise)/float64(len(runes)) > n.cfg.NoiseRatio {
		return false
	}
	return true
}

// resplit breaks apart tokens where a known particle was run together with
// the preceding word, e.g. "MUHAMMADKHAN" -> "MUHAMMAD", "KHAN".
func (n *Normalizer) resplit(tok string) []string {
	for _, p := range n.cfg.Particles {
		idx := strings.Index(tok, p)
		if idx > 0 && len(tok) > len(p) {
			head := tok[:idx]
			tail := tok[idx:]
			return append(n.resplit(head), tail)
		}
	}
	return []string{tok}
}
