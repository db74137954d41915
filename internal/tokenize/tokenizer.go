package tokenize

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/yomigo/yomigo-server/internal/apperrors"
)

// Tokenizer segments Japanese text into Tokens.
//
// A Tokenizer is built once at startup and is safe for concurrent use: the
// kagome analyzer and the phrase set are read-only after construction.
type Tokenizer struct {
	analyzer *tokenizer.Tokenizer
	phrases  *PhraseSet
}

// New builds a Tokenizer over the embedded IPA dictionary. phrases may be
// nil when no phrase lexicon is configured.
func New(phrases *PhraseSet) (*Tokenizer, error) {
	analyzer, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("initialize morphological analyzer: %w", err)
	}
	return &Tokenizer{analyzer: analyzer, phrases: phrases}, nil
}

// Result holds a tokenization outcome.
type Result struct {
	// Tokens partition Normalized exactly: concatenating their surfaces
	// in order reconstructs it with no gaps or overlaps.
	Tokens []Token

	// Normalized is the analyzed text: line wraps within paragraphs
	// joined, paragraph breaks collapsed to single newlines.
	Normalized string
}

// Tokenize segments text into dictionary-lookup units.
//
// Line breaks in text are treated as OCR line wraps: consecutive non-blank
// lines form one paragraph and are joined before analysis, so a token may
// span a wrap but never a paragraph break. Fails with
// apperrors.KindUnanalyzableInput for empty or Japanese-free input.
func (t *Tokenizer) Tokenize(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.New(apperrors.KindUnanalyzableInput, "empty input")
	}
	if !ContainsJapanese(text) {
		return nil, apperrors.New(apperrors.KindUnanalyzableInput, "input contains no Japanese text")
	}

	paragraphs, lineIndexes := splitParagraphs(text)

	var tokens []Token
	var normalized strings.Builder
	for i, para := range paragraphs {
		if i > 0 {
			normalized.WriteByte('\n')
			tokens = append(tokens, Token{
				Surface:         "\n",
				PartOfSpeech:    POSSymbol,
				SourceLineIndex: lineIndexes[i][0],
			})
		}
		normalized.WriteString(para.text)
		tokens = append(tokens, t.tokenizeParagraph(para)...)
	}

	return &Result{Tokens: tokens, Normalized: normalized.String()}, nil
}

// paragraph is a wrap-joined run of input lines.
type paragraph struct {
	// text is the joined paragraph text.
	text string

	// lineStarts maps each original line to its starting rune offset in
	// text, parallel with lineIndex.
	lineStarts []int
	lineIndex  []int
}

// splitParagraphs groups the input's non-blank lines into paragraphs and
// records, per paragraph, the original line indices.
func splitParagraphs(text string) ([]paragraph, [][]int) {
	lines := strings.Split(text, "\n")

	var paragraphs []paragraph
	var indexes [][]int
	var current *paragraph
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			current = nil
			continue
		}
		if current == nil {
			paragraphs = append(paragraphs, paragraph{})
			indexes = append(indexes, nil)
			current = &paragraphs[len(paragraphs)-1]
		}
		current.lineStarts = append(current.lineStarts, len([]rune(current.text)))
		current.lineIndex = append(current.lineIndex, i)
		current.text += line
		indexes[len(indexes)-1] = append(indexes[len(indexes)-1], i)
	}
	return paragraphs, indexes
}

// lineAt returns the original line index for a rune offset in the joined
// paragraph text.
func (p *paragraph) lineAt(runeOffset int) int {
	line := 0
	for i, start := range p.lineStarts {
		if runeOffset >= start {
			line = p.lineIndex[i]
		}
	}
	return line
}

// rawToken carries the kagome morpheme features needed by the merge passes.
type rawToken struct {
	surface string
	base    string
	reading string // katakana, empty when undetermined
	pos     []string
	known   bool
	start   int // rune offset in the paragraph text
}

func (t *Tokenizer) tokenizeParagraph(para paragraph) []Token {
	raw := t.analyze(para.text)
	raw = t.mergePhrases(raw)
	raw = mergeAuxiliaries(raw)

	tokens := make([]Token, 0, len(raw))
	for _, rt := range raw {
		tokens = append(tokens, rt.finish(para.lineAt(rt.start)))
	}
	return tokens
}

// analyze runs kagome over the paragraph and fills any coverage gaps (for
// example whitespace the lattice skipped) with opaque symbol tokens so the
// partition invariant holds.
func (t *Tokenizer) analyze(text string) []rawToken {
	runes := []rune(text)
	var out []rawToken
	cursor := 0

	for _, kt := range t.analyzer.Tokenize(text) {
		if kt.Class == tokenizer.DUMMY || kt.Surface == "" {
			continue
		}
		if kt.Start > cursor {
			out = append(out, gapToken(runes, cursor, kt.Start))
		}

		rt := rawToken{
			surface: kt.Surface,
			known:   kt.Class != tokenizer.UNKNOWN,
			pos:     kt.POS(),
			start:   kt.Start,
		}
		if rt.known {
			if base, ok := kt.BaseForm(); ok && base != "" && base != "*" {
				rt.base = base
			} else {
				rt.base = kt.Surface
			}
			if reading, ok := kt.Reading(); ok && reading != "*" {
				rt.reading = reading
			}
		}
		out = append(out, rt)
		cursor = kt.End
	}
	if cursor < len(runes) {
		out = append(out, gapToken(runes, cursor, len(runes)))
	}
	return out
}

func gapToken(runes []rune, start, end int) rawToken {
	return rawToken{
		surface: string(runes[start:end]),
		pos:     []string{"記号"},
		start:   start,
	}
}

// finish converts a merged rawToken into the public Token shape.
func (rt rawToken) finish(lineIndex int) Token {
	tok := Token{
		Surface:         rt.surface,
		Reading:         KatakanaToHiragana(rt.reading),
		SourceLineIndex: lineIndex,
	}

	switch {
	case rt.pos != nil && rt.pos[0] == phrasePOS:
		tok.PartOfSpeech = POSExpression
		tok.IsPhrase = true
		tok.DictionaryForm = rt.base
	case rt.known:
		tok.PartOfSpeech = MapPartOfSpeech(rt.pos[0])
		tok.DictionaryForm = rt.base
	default:
		// Opaque unknown-script run: no dictionary form, no reading.
		tok.PartOfSpeech = classifyUnknown(rt.surface)
		tok.Reading = ""
	}
	return tok
}

// classifyUnknown gives unknown-script runs a coarse class so downstream
// filtering (symbols are never looked up) still works.
func classifyUnknown(surface string) PartOfSpeech {
	for _, r := range surface {
		if r > ' ' && !isPunct(r) {
			return POSUnknown
		}
	}
	return POSSymbol
}

func isPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ';', ':', '"', '\'', '(', ')', '[', ']', '-', '_', '/':
		return true
	}
	return false
}

// mergeAuxiliaries merges verb and adjective stems with their trailing
// auxiliary morphemes so inflected forms stay one lookup unit: 食べ+た
// becomes 食べた with dictionary form 食べる.
func mergeAuxiliaries(raw []rawToken) []rawToken {
	var out []rawToken
	i := 0
	for i < len(raw) {
		head := raw[i]
		if !isInflectableHead(head) {
			out = append(out, head)
			i++
			continue
		}

		j := i + 1
		merged := head
		for j < len(raw) && isAuxiliary(raw[j]) {
			merged.surface += raw[j].surface
			if merged.reading != "" && raw[j].reading != "" {
				merged.reading += raw[j].reading
			} else {
				merged.reading = ""
			}
			j++
		}
		out = append(out, merged)
		i = j
	}
	return out
}

func isInflectableHead(rt rawToken) bool {
	if !rt.known || len(rt.pos) == 0 {
		return false
	}
	switch rt.pos[0] {
	case "動詞":
		// Dependent verbs (非自立) are absorbed into a preceding head,
		// never start a merge themselves.
		return len(rt.pos) < 2 || rt.pos[1] != "非自立"
	case "形容詞":
		return true
	}
	return false
}

func isAuxiliary(rt rawToken) bool {
	if !rt.known || len(rt.pos) == 0 {
		return false
	}
	if rt.pos[0] == "助動詞" {
		return true
	}
	if rt.pos[0] == "動詞" && len(rt.pos) > 1 && (rt.pos[1] == "非自立" || rt.pos[1] == "接尾") {
		return true
	}
	return false
}
