package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/yomigo/yomigo-server/internal/apperrors"
	"github.com/yomigo/yomigo-server/internal/imaging"
)

// TesseractEngine recognizes Japanese text using the gosseract binding.
//
// Each recognition uses a fresh gosseract client; clients are cheap compared
// to the recognition itself and sharing one across goroutines is not safe.
// Concurrency is bounded by wrapping the engine in a Pool.
type TesseractEngine struct {
	// TessdataPrefix points Tesseract at its traineddata directory.
	// Empty means the system default.
	TessdataPrefix string

	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs the Tesseract-backed engine.
func NewTesseractEngine(tessdataPrefix string) *TesseractEngine {
	return &TesseractEngine{
		TessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Healthy reports whether the Tesseract backend responds at all.
func (e *TesseractEngine) Healthy() bool {
	client := e.clientFactory()
	defer client.Close()
	return client.Version() != ""
}

// Recognize performs OCR on a preprocessed image.
//
// The language and page segmentation mode follow the input orientation:
// jpn_vert with single-block vertical segmentation for vertical text,
// jpn with single-block segmentation for horizontal. Lines are returned
// already sorted into reading order with per-line confidences.
//
// The blocking Tesseract call runs in a goroutine; when ctx expires first,
// the call is abandoned best-effort and a KindOcrTimeout error is returned.
func (e *TesseractEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := e.recognize(in)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, apperrors.Wrap(apperrors.KindOcrTimeout,
				"recognition exceeded deadline", ctx.Err())
		}
		return Result{}, ctx.Err()
	case out := <-done:
		return out.result, out.err
	}
}

func (e *TesseractEngine) recognize(in Input) (Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, in.Image); err != nil {
		return Result{}, fmt.Errorf("encode image for recognition: %w", err)
	}

	client := e.clientFactory()
	defer client.Close()

	if e.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			return Result{}, apperrors.Wrap(apperrors.KindOcrUnavailable,
				"failed to set tessdata path", err)
		}
	}

	language := "jpn"
	pageSegMode := gosseract.PSM_SINGLE_BLOCK
	if in.Orientation == imaging.OrientationVertical {
		language = "jpn_vert"
		pageSegMode = gosseract.PSM_SINGLE_BLOCK_VERT_TEXT
	}

	if err := client.SetLanguage(language); err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindOcrUnavailable,
			fmt.Sprintf("language data %q not available", language), err)
	}
	if err := client.SetPageSegMode(pageSegMode); err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindOcrUnavailable,
			"failed to set page segmentation mode", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindOcrUnavailable,
			"failed to set image", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.KindOcrUnavailable, "recognition failed", err)
	}
	text = normalizeRecognizedText(text)

	// Line boxes can fail on some Tesseract builds; fall back to a single
	// synthetic line so the text is never lost.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil || len(boxes) == 0 {
		if text == "" {
			return Result{FullText: "", Lines: nil}, nil
		}
		return Result{
			FullText: text,
			Lines:    []TextLine{{Text: text, Confidence: 1.0}},
		}, nil
	}

	lines := make([]TextLine, 0, len(boxes))
	for _, box := range boxes {
		lineText := normalizeRecognizedText(box.Word)
		if lineText == "" {
			continue
		}
		lines = append(lines, TextLine{
			Text:       lineText,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	lines = OrderLines(lines, in.Orientation)

	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}

	return Result{
		FullText: strings.Join(texts, "\n"),
		Lines:    lines,
	}, nil
}

// normalizeRecognizedText strips engine artifacts: trailing form feeds,
// surrounding whitespace, and the spaces Tesseract inserts between CJK
// glyphs it segmented as separate words.
func normalizeRecognizedText(text string) string {
	text = strings.ReplaceAll(text, "\f", "")
	text = strings.TrimSpace(text)

	// Tesseract's jpn models pad glyph boundaries with ASCII spaces;
	// Japanese text has none, so drop spaces flanked by wide characters.
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		if r == ' ' && i > 0 && i < len(runes)-1 && isWide(runes[i-1]) && isWide(runes[i+1]) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isWide reports whether r belongs to the Japanese script ranges.
func isWide(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x30FF: // hiragana + katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // fullwidth forms
		return true
	}
	return false
}
