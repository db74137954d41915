package dictionary

import (
	"sort"

	"github.com/yomigo/yomigo-server/internal/tokenize"
)

// Caps keep pop-up payloads small; a hover target needs the top senses,
// not the full dictionary article.
const (
	maxEntriesPerToken    = 3
	maxDefinitionsPerForm = 5
)

// Resolver looks tokens up in a Lexicon. Safe for concurrent use.
type Resolver struct {
	lexicon *Lexicon
}

// NewResolver wraps a loaded lexicon.
func NewResolver(lexicon *Lexicon) *Resolver {
	return &Resolver{lexicon: lexicon}
}

// ShouldResolve reports whether a token class is worth a lexicon lookup.
// Grammatical glue and punctuation are skipped.
func ShouldResolve(pos tokenize.PartOfSpeech) bool {
	switch pos {
	case tokenize.POSParticle, tokenize.POSSymbol:
		return false
	}
	return true
}

// Resolve returns the lexicon entries for a dictionary form, ranked for
// pop-up display: entries whose class matches pos come first, then lower
// Rank, then headword order for a stable tie-break. Definitions are capped
// per entry and the entry list is capped per form. A miss returns nil.
func (r *Resolver) Resolve(form string, pos tokenize.PartOfSpeech) []Entry {
	if form == "" {
		return nil
	}

	group := r.lexicon.Entries(form)
	if len(group) == 0 {
		return nil
	}

	ranked := make([]Entry, len(group))
	copy(ranked, group)
	sort.SliceStable(ranked, func(i, j int) bool {
		mi, mj := ranked[i].PartOfSpeech == pos, ranked[j].PartOfSpeech == pos
		if mi != mj {
			return mi
		}
		if ri, rj := rankKey(ranked[i].Rank), rankKey(ranked[j].Rank); ri != rj {
			return ri < rj
		}
		return ranked[i].Headword < ranked[j].Headword
	})

	if len(ranked) > maxEntriesPerToken {
		ranked = ranked[:maxEntriesPerToken]
	}
	for i := range ranked {
		if len(ranked[i].Definitions) > maxDefinitionsPerForm {
			defs := make([]string, maxDefinitionsPerForm)
			copy(defs, ranked[i].Definitions)
			ranked[i].Definitions = defs
		}
	}
	return ranked
}

// ResolveToken resolves a single token by its dictionary form, falling back
// to the surface when lemmatization produced none. Tokens whose class is
// never looked up return nil.
func (r *Resolver) ResolveToken(tok tokenize.Token) []Entry {
	if !ShouldResolve(tok.PartOfSpeech) {
		return nil
	}
	form := tok.DictionaryForm
	if form == "" {
		form = tok.Surface
	}
	return r.Resolve(form, tok.PartOfSpeech)
}

// ResolveAll resolves a batch of tokens positionally, sharing one lookup
// per unique (form, class) pair. Repeated words in a text block resolve to
// the identical entry slice.
func (r *Resolver) ResolveAll(tokens []tokenize.Token) [][]Entry {
	type key struct {
		form string
		pos  tokenize.PartOfSpeech
	}

	cache := make(map[key][]Entry)
	out := make([][]Entry, len(tokens))
	for i, tok := range tokens {
		if !ShouldResolve(tok.PartOfSpeech) {
			continue
		}
		form := tok.DictionaryForm
		if form == "" {
			form = tok.Surface
		}

		k := key{form: form, pos: tok.PartOfSpeech}
		entries, ok := cache[k]
		if !ok {
			entries = r.Resolve(form, tok.PartOfSpeech)
			cache[k] = entries
		}
		out[i] = entries
	}
	return out
}

// rankKey orders unranked (zero) entries after all ranked ones.
func rankKey(rank int) int {
	if rank == 0 {
		return int(^uint(0) >> 1)
	}
	return rank
}
