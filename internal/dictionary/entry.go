package dictionary

import "github.com/yomigo/yomigo-server/internal/tokenize"

// Entry is one lexicon sense group for a headword.
type Entry struct {
	// Headword is the dictionary form the entry is keyed by.
	Headword string `json:"headword"`

	// Reading is the hiragana pronunciation of the headword.
	Reading string `json:"reading"`

	// PartOfSpeech is the coarse grammatical class of this sense group. A
	// headword may carry several entries with different classes.
	PartOfSpeech tokenize.PartOfSpeech `json:"part_of_speech"`

	// Definitions are the gloss strings, most common sense first.
	Definitions []string `json:"definitions"`

	// Rank orders entries sharing a headword: lower is more common, zero
	// means unranked.
	Rank int `json:"rank,omitempty"`
}
