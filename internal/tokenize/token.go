package tokenize

// PartOfSpeech is the coarse grammatical class of a token, mapped from the
// IPA dictionary's Japanese tags.
type PartOfSpeech string

const (
	POSNoun         PartOfSpeech = "noun"
	POSVerb         PartOfSpeech = "verb"
	POSAdjective    PartOfSpeech = "adjective"
	POSAdverb       PartOfSpeech = "adverb"
	POSParticle     PartOfSpeech = "particle"
	POSAuxiliary    PartOfSpeech = "auxiliary"
	POSConjunction  PartOfSpeech = "conjunction"
	POSInterjection PartOfSpeech = "interjection"
	POSAdnominal    PartOfSpeech = "adnominal"
	POSPrefix       PartOfSpeech = "prefix"
	POSSuffix       PartOfSpeech = "suffix"
	POSSymbol       PartOfSpeech = "symbol"
	POSFiller       PartOfSpeech = "filler"
	POSExpression   PartOfSpeech = "expression"
	POSUnknown      PartOfSpeech = "unknown"
)

// posFromJapanese maps the IPA dictionary's top-level POS tags (and the
// UniDic variants that differ) onto the coarse classes.
var posFromJapanese = map[string]PartOfSpeech{
	"名詞":   POSNoun,
	"動詞":   POSVerb,
	"形容詞":  POSAdjective,
	"副詞":   POSAdverb,
	"助詞":   POSParticle,
	"助動詞":  POSAuxiliary,
	"接続詞":  POSConjunction,
	"感動詞":  POSInterjection,
	"連体詞":  POSAdnominal,
	"接頭詞":  POSPrefix,
	"接頭辞":  POSPrefix,
	"接尾辞":  POSSuffix,
	"記号":   POSSymbol,
	"補助記号": POSSymbol,
	"空白":   POSSymbol,
	"フィラー": POSFiller,
}

// MapPartOfSpeech converts a Japanese POS tag to its coarse class.
// Unrecognized tags map to POSUnknown.
func MapPartOfSpeech(japanese string) PartOfSpeech {
	if pos, ok := posFromJapanese[japanese]; ok {
		return pos
	}
	return POSUnknown
}

// Token is a single dictionary-lookup unit produced by the tokenizer.
type Token struct {
	// Surface is the exact substring as it appeared in the input text.
	Surface string `json:"surface"`

	// DictionaryForm is the lemma used for lexicon lookup. It may differ
	// from Surface for inflected words (食べた -> 食べる) and is empty
	// for opaque unknown-script runs.
	DictionaryForm string `json:"dictionary_form"`

	// Reading is the hiragana pronunciation, empty when it could not be
	// determined.
	Reading string `json:"reading"`

	// PartOfSpeech is the coarse grammatical class.
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`

	// IsPhrase marks tokens merged from a phrase-lexicon match.
	IsPhrase bool `json:"is_phrase,omitempty"`

	// SourceLineIndex is the zero-based input line the surface starts on.
	SourceLineIndex int `json:"source_line_index"`
}

// KatakanaToHiragana converts katakana runes to their hiragana
// counterparts, leaving everything else untouched. The IPA dictionary
// reports readings in katakana; lexicon readings and the extension UI use
// hiragana.
func KatakanaToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// ContainsJapanese reports whether s contains at least one hiragana,
// katakana, or CJK ideograph rune.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if isJapanese(r) {
			return true
		}
	}
	return false
}

func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	}
	return false
}
