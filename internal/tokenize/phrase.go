package tokenize

// phrasePOS is the internal POS tag carried by merged phrase tokens.
const phrasePOS = "慣用句"

// maxPhraseTokens bounds the merge window; no lexicon phrase spans more
// morphemes than this.
const maxPhraseTokens = 8

// PhraseSet is the phrase lexicon: multi-morpheme idiomatic expressions
// treated as a single lookup unit. Read-only after construction.
type PhraseSet struct {
	readings map[string]string
}

// NewPhraseSet builds a phrase set from headword -> hiragana reading.
func NewPhraseSet(entries map[string]string) *PhraseSet {
	readings := make(map[string]string, len(entries))
	for headword, reading := range entries {
		readings[headword] = reading
	}
	return &PhraseSet{readings: readings}
}

// Contains reports whether s is a lexicon phrase.
func (p *PhraseSet) Contains(s string) bool {
	if p == nil {
		return false
	}
	_, ok := p.readings[s]
	return ok
}

// Reading returns the lexicon reading for a phrase, empty when unknown.
func (p *PhraseSet) Reading(s string) string {
	if p == nil {
		return ""
	}
	return p.readings[s]
}

// Len reports the number of phrases in the set.
func (p *PhraseSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.readings)
}

// mergePhrases collapses consecutive morphemes whose concatenated surfaces
// appear verbatim in the phrase lexicon into one token. The scan prefers
// the longest match at each position, and phrase merging takes priority
// over the word-level split. A match of a single morpheme still becomes a
// phrase token; how the analyzer happened to segment an expression must not
// leak into its classification.
func (t *Tokenizer) mergePhrases(raw []rawToken) []rawToken {
	if t.phrases.Len() == 0 {
		return raw
	}

	var out []rawToken
	i := 0
	for i < len(raw) {
		matched := 0
		surface := ""
		candidate := ""
		limit := i + maxPhraseTokens
		if limit > len(raw) {
			limit = len(raw)
		}
		for j := i; j < limit; j++ {
			candidate += raw[j].surface
			if t.phrases.Contains(candidate) {
				matched = j - i + 1
				surface = candidate
			}
		}

		if matched == 0 {
			out = append(out, raw[i])
			i++
			continue
		}

		out = append(out, rawToken{
			surface: surface,
			base:    surface,
			reading: t.phrases.Reading(surface),
			pos:     []string{phrasePOS},
			known:   true,
			start:   raw[i].start,
		})
		i += matched
	}
	return out
}
