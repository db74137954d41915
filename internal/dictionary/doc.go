// Package dictionary resolves tokenized words against the lookup lexicon.
//
// The lexicon is a JSON word list keyed by headword. A compact seed lexicon
// is embedded in the binary so the server works out of the box; a larger
// lexicon in the same format can be supplied at startup via configuration.
// Once loaded the lexicon is immutable and safe for concurrent lookups.
//
// Resolution is by dictionary form: the tokenizer lemmatizes inflected
// words (食べた -> 食べる) and the resolver returns the lexicon entries for
// that lemma, exact part-of-speech matches first. A miss is not an error;
// it returns an empty entry list, since pop-up dictionaries meet unknown
// words constantly.
package dictionary
