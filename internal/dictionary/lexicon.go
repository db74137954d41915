package dictionary

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/yomigo/yomigo-server/internal/apperrors"
	"github.com/yomigo/yomigo-server/internal/tokenize"
)

//go:embed data/lexicon.json
var seedLexicon []byte

// Lexicon is an immutable headword-keyed word list.
type Lexicon struct {
	entries map[string][]Entry
	count   int
}

// Load builds a Lexicon from the JSON word list at path, or from the
// embedded seed lexicon when path is empty. Failures are reported as
// apperrors.KindDictionaryUnavailable; the server cannot start without a
// lexicon.
func Load(path string) (*Lexicon, error) {
	data := seedLexicon
	if path != "" {
		external, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindDictionaryUnavailable,
				fmt.Sprintf("read lexicon %s", path), err)
		}
		data = external
	}

	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, apperrors.Wrap(apperrors.KindDictionaryUnavailable, "parse lexicon", err)
	}

	entries := make(map[string][]Entry, len(list))
	for i, entry := range list {
		if entry.Headword == "" {
			return nil, apperrors.New(apperrors.KindDictionaryUnavailable,
				fmt.Sprintf("lexicon entry %d has no headword", i))
		}
		if len(entry.Definitions) == 0 {
			return nil, apperrors.New(apperrors.KindDictionaryUnavailable,
				fmt.Sprintf("lexicon entry %q has no definitions", entry.Headword))
		}
		entries[entry.Headword] = append(entries[entry.Headword], entry)
	}

	return &Lexicon{entries: entries, count: len(list)}, nil
}

// Entries returns all sense groups for a headword, in lexicon file order.
// The returned slice is shared and must not be mutated.
func (l *Lexicon) Entries(headword string) []Entry {
	return l.entries[headword]
}

// Len reports the total number of entries.
func (l *Lexicon) Len() int {
	return l.count
}

// PhraseEntries returns headword -> reading for every expression entry.
// These feed the tokenizer's phrase lexicon so multi-morpheme idioms are
// kept whole during segmentation.
func (l *Lexicon) PhraseEntries() map[string]string {
	phrases := make(map[string]string)
	for headword, group := range l.entries {
		for _, entry := range group {
			if entry.PartOfSpeech == tokenize.POSExpression {
				phrases[headword] = entry.Reading
				break
			}
		}
	}
	return phrases
}
