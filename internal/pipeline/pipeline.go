package pipeline

import (
	"context"
	"log/slog"
	"math"

	"github.com/yomigo/yomigo-server/internal/dictionary"
	"github.com/yomigo/yomigo-server/internal/imaging"
	"github.com/yomigo/yomigo-server/internal/ocr"
	"github.com/yomigo/yomigo-server/internal/tokenize"
)

// Orchestrator runs the recognition pipeline. Safe for concurrent use; the
// OCR engine is expected to bound its own concurrency (see ocr.Pool).
type Orchestrator struct {
	engine    ocr.Engine
	tokenizer *tokenize.Tokenizer
	resolver  *dictionary.Resolver
	threshold float64
	logger    *slog.Logger
}

// New wires the pipeline stages together. threshold is the OCR confidence
// below which lines are flagged (never dropped). logger may be nil.
func New(engine ocr.Engine, tk *tokenize.Tokenizer, resolver *dictionary.Resolver, threshold float64, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		engine:    engine,
		tokenizer: tk,
		resolver:  resolver,
		threshold: threshold,
		logger:    logger,
	}
}

// OCRResult is the recognition output for one captured image.
type OCRResult struct {
	// Text is all recognized text in reading order, lines joined with
	// newlines.
	Text string `json:"text"`

	// Lines are the individual recognized lines. Bounding boxes are in
	// the original image's coordinates.
	Lines []ocr.TextLine `json:"lines"`

	// Orientation is the text direction that was used, after auto
	// detection if no hint was given.
	Orientation imaging.Orientation `json:"orientation"`
}

// AnnotatedToken is a token with its resolved dictionary definitions.
type AnnotatedToken struct {
	tokenize.Token

	// Definitions are the ranked glosses for the token's dictionary form,
	// flattened across the matched entries. Empty for words not in the
	// lexicon and for classes that are never looked up.
	Definitions []string `json:"definitions"`
}

// ParseResult is the tokenized-and-resolved output for one text.
type ParseResult struct {
	// OriginalText is the normalized text the tokens partition.
	OriginalText string `json:"original_text"`

	Tokens []AnnotatedToken `json:"tokens"`
}

// OCR recognizes Japanese text in a raw image payload.
func (o *Orchestrator) OCR(ctx context.Context, data []byte, mimeType string, hint imaging.Orientation) (*OCRResult, error) {
	decoded, err := imaging.Decode(data, mimeType)
	if err != nil {
		return nil, err
	}
	return o.recognize(ctx, decoded, hint)
}

// OCRBase64 recognizes Japanese text in a base64-encoded image, as sent by
// the extension's canvas capture.
func (o *Orchestrator) OCRBase64(ctx context.Context, encoded string, hint imaging.Orientation) (*OCRResult, error) {
	decoded, err := imaging.DecodeBase64(encoded)
	if err != nil {
		return nil, err
	}
	return o.recognize(ctx, decoded, hint)
}

func (o *Orchestrator) recognize(ctx context.Context, decoded *imaging.DecodedImage, hint imaging.Orientation) (*OCRResult, error) {
	orientation := hint
	if orientation == "" || orientation == imaging.OrientationAuto {
		orientation = imaging.DetectOrientation(decoded.Image)
	}

	pre := imaging.Preprocess(decoded.Image, imaging.DefaultPreprocessOptions())
	o.logger.Debug("image preprocessed",
		"width", decoded.Width, "height", decoded.Height,
		"format", decoded.Format, "scale", pre.Scale,
		"glyph_height", pre.GlyphHeight, "orientation", orientation)

	result, err := o.engine.Recognize(ctx, ocr.Input{Image: pre.Image, Orientation: orientation})
	if err != nil {
		return nil, err
	}

	lines := ocr.MarkLowConfidence(result.Lines, o.threshold)
	if pre.Scale != 1.0 {
		inv := 1.0 / pre.Scale
		for i := range lines {
			lines[i].Bounds = scaleBounds(lines[i].Bounds, inv)
		}
	}

	o.logger.Info("recognition complete",
		"engine", o.engine.Name(), "lines", len(lines), "chars", len([]rune(result.FullText)))

	return &OCRResult{
		Text:        result.FullText,
		Lines:       lines,
		Orientation: orientation,
	}, nil
}

// Parse recognizes a raw image payload and resolves the recognized text
// into annotated tokens.
func (o *Orchestrator) Parse(ctx context.Context, data []byte, mimeType string, hint imaging.Orientation) (*ParseResult, error) {
	recognized, err := o.OCR(ctx, data, mimeType, hint)
	if err != nil {
		return nil, err
	}
	return o.ParseText(ctx, recognized.Text)
}

// ParseBase64 is Parse for a base64-encoded image.
func (o *Orchestrator) ParseBase64(ctx context.Context, encoded string, hint imaging.Orientation) (*ParseResult, error) {
	recognized, err := o.OCRBase64(ctx, encoded, hint)
	if err != nil {
		return nil, err
	}
	return o.ParseText(ctx, recognized.Text)
}

// ParseText tokenizes already-recognized text and resolves each token
// against the lexicon. Lookup misses are not errors; the token is returned
// with an empty definition list.
func (o *Orchestrator) ParseText(ctx context.Context, text string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := o.tokenizer.Tokenize(text)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedToken, 0, len(result.Tokens))
	resolved := 0
	for i, entries := range o.resolver.ResolveAll(result.Tokens) {
		if len(entries) > 0 {
			resolved++
		}
		annotated = append(annotated, AnnotatedToken{
			Token:       result.Tokens[i],
			Definitions: flattenDefinitions(entries),
		})
	}

	o.logger.Debug("text parsed",
		"tokens", len(annotated), "resolved", resolved)

	return &ParseResult{
		OriginalText: result.Normalized,
		Tokens:       annotated,
	}, nil
}

// Health reports per-stage availability for the health endpoint.
type Health struct {
	OCR        bool `json:"ocr"`
	Tokenizer  bool `json:"tokenizer"`
	Dictionary bool `json:"dictionary"`
}

// Healthy reports whether every stage is available.
func (h Health) Healthy() bool {
	return h.OCR && h.Tokenizer && h.Dictionary
}

// Health probes the pipeline stages. The tokenizer and resolver are
// in-process and healthy once constructed; only the OCR backend can
// degrade at runtime.
func (o *Orchestrator) Health() Health {
	engineOK := true
	if hc, ok := o.engine.(ocr.HealthChecker); ok {
		engineOK = hc.Healthy()
	}
	return Health{
		OCR:        engineOK,
		Tokenizer:  o.tokenizer != nil,
		Dictionary: o.resolver != nil,
	}
}

// flattenDefinitions merges ranked entry glosses into one display list.
func flattenDefinitions(entries []dictionary.Entry) []string {
	defs := make([]string, 0, len(entries)*3)
	for _, entry := range entries {
		defs = append(defs, entry.Definitions...)
	}
	return defs
}

// scaleBounds maps a recognized bounding box back into original image
// coordinates after preprocessing upscaled the buffer.
func scaleBounds(b ocr.Bounds, factor float64) ocr.Bounds {
	return ocr.Bounds{
		X1: int(math.Round(float64(b.X1) * factor)),
		Y1: int(math.Round(float64(b.Y1) * factor)),
		X2: int(math.Round(float64(b.X2) * factor)),
		Y2: int(math.Round(float64(b.Y2) * factor)),
	}
}
