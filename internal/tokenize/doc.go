// Package tokenize segments recognized Japanese text into dictionary-lookup
// units.
//
// Segmentation is performed by the kagome v2 morphological analyzer with the
// IPA dictionary; its lattice search produces the most probable split of
// contiguous text, preferring longer surface forms and higher-frequency
// entries. On top of the raw morphemes this package applies two merges:
//
//   - Inflected verbs and adjectives absorb their trailing auxiliaries, so
//     食べた stays one token whose dictionary form is 食べる instead of
//     splitting into stem + past-tense marker.
//   - Sequences that appear verbatim in the phrase lexicon collapse into a
//     single token with IsPhrase set (お疲れ様 rather than three
//     morphemes). Phrase merging takes priority over the word-level split.
//
// # Text Normalization
//
// Paragraph breaks (blank lines) are hard token boundaries. Single line
// wraps are not: wrapped lines inside a paragraph are joined before
// analysis, since OCR splits vertical manga text into short columns
// mid-word. Every token records the source line its surface starts on.
//
// # Partition Invariant
//
// Concatenating the surfaces of all returned tokens, in order, exactly
// reconstructs the normalized input text (paragraph breaks appear as
// single-newline symbol tokens). There are no gaps and no overlaps.
//
// # Error Handling
//
// Tokenize fails with apperrors.KindUnanalyzableInput only for empty or
// Japanese-free input. Everything else produces a best-effort split;
// runs of unknown script survive as opaque tokens with no dictionary form
// and no reading.
package tokenize
