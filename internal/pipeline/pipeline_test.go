package pipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/yomigo/yomigo-server/internal/apperrors"
	"github.com/yomigo/yomigo-server/internal/dictionary"
	"github.com/yomigo/yomigo-server/internal/imaging"
	"github.com/yomigo/yomigo-server/internal/ocr"
	"github.com/yomigo/yomigo-server/internal/tokenize"
)

type fakeEngine struct {
	result  ocr.Result
	err     error
	healthy bool

	called    bool
	lastInput ocr.Input
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	f.called = true
	f.lastInput = in
	return f.result, f.err
}

func (f *fakeEngine) Healthy() bool { return f.healthy }

func newTestOrchestrator(t *testing.T, engine ocr.Engine) *Orchestrator {
	t.Helper()

	lexicon, err := dictionary.Load("")
	if err != nil {
		t.Fatalf("load lexicon: %v", err)
	}
	tk, err := tokenize.New(tokenize.NewPhraseSet(lexicon.PhraseEntries()))
	if err != nil {
		t.Fatalf("build tokenizer: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(engine, tk, dictionary.NewResolver(lexicon), 0.4, logger)
}

func encodeTestImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 120, 160))
	for y := 0; y < 160; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}
	// A few dark strokes so preprocessing has ink to measure.
	for y := 20; y < 60; y++ {
		for x := 50; x < 54; x++ {
			img.Set(x, y, color.Black)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestOCR_InvalidImage(t *testing.T) {
	engine := &fakeEngine{}
	o := newTestOrchestrator(t, engine)

	_, err := o.OCR(context.Background(), []byte("not an image"), "image/png", imaging.OrientationAuto)
	if err == nil {
		t.Fatal("corrupt payload should fail")
	}
	if !apperrors.Is(err, apperrors.KindInvalidImage) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindInvalidImage)
	}
	if engine.called {
		t.Error("engine must not run for undecodable input")
	}
}

func TestOCR_Success(t *testing.T) {
	engine := &fakeEngine{
		result: ocr.Result{
			FullText: "今日は雨\n傘がない",
			Lines: []ocr.TextLine{
				{Text: "今日は雨", Bounds: ocr.Bounds{X1: 80, Y1: 10, X2: 110, Y2: 150}, Confidence: 0.92},
				{Text: "傘がない", Bounds: ocr.Bounds{X1: 20, Y1: 10, X2: 50, Y2: 150}, Confidence: 0.2},
			},
		},
	}
	o := newTestOrchestrator(t, engine)

	result, err := o.OCR(context.Background(), encodeTestImage(t), "image/png", imaging.OrientationVertical)
	if err != nil {
		t.Fatalf("OCR failed: %v", err)
	}

	if result.Text != "今日は雨\n傘がない" {
		t.Errorf("Text: got %q", result.Text)
	}
	if result.Orientation != imaging.OrientationVertical {
		t.Errorf("Orientation: got %s", result.Orientation)
	}
	if engine.lastInput.Orientation != imaging.OrientationVertical {
		t.Errorf("engine orientation: got %s", engine.lastInput.Orientation)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("Lines: got %d, want 2", len(result.Lines))
	}
	if result.Lines[0].LowConfidence {
		t.Error("confident line flagged as low confidence")
	}
	if !result.Lines[1].LowConfidence {
		t.Error("0.2-confidence line should be flagged, not dropped")
	}
}

func TestOCR_AutoOrientationResolved(t *testing.T) {
	engine := &fakeEngine{result: ocr.Result{FullText: "雨"}}
	o := newTestOrchestrator(t, engine)

	result, err := o.OCR(context.Background(), encodeTestImage(t), "image/png", imaging.OrientationAuto)
	if err != nil {
		t.Fatalf("OCR failed: %v", err)
	}

	if result.Orientation == imaging.OrientationAuto || result.Orientation == "" {
		t.Error("auto orientation must be resolved before recognition")
	}
	if engine.lastInput.Orientation == imaging.OrientationAuto {
		t.Error("engine must never see the auto orientation")
	}
}

func TestOCR_EngineErrorPropagates(t *testing.T) {
	engine := &fakeEngine{err: apperrors.New(apperrors.KindOcrUnavailable, "tesseract not installed")}
	o := newTestOrchestrator(t, engine)

	_, err := o.OCR(context.Background(), encodeTestImage(t), "image/png", imaging.OrientationVertical)
	if !apperrors.Is(err, apperrors.KindOcrUnavailable) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindOcrUnavailable)
	}
}

func TestOCRBase64(t *testing.T) {
	engine := &fakeEngine{result: ocr.Result{FullText: "雨"}}
	o := newTestOrchestrator(t, engine)

	encoded := "data:image/png;base64," + base64Encode(encodeTestImage(t))
	if _, err := o.OCRBase64(context.Background(), encoded, imaging.OrientationVertical); err != nil {
		t.Fatalf("OCRBase64 failed: %v", err)
	}

	_, err := o.OCRBase64(context.Background(), "%%%not-base64%%%", imaging.OrientationVertical)
	if !apperrors.Is(err, apperrors.KindInvalidImage) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindInvalidImage)
	}
}

func TestParse_EndToEnd(t *testing.T) {
	engine := &fakeEngine{result: ocr.Result{FullText: "食べた"}}
	o := newTestOrchestrator(t, engine)

	result, err := o.Parse(context.Background(), encodeTestImage(t), "image/png", imaging.OrientationVertical)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.OriginalText != "食べた" {
		t.Errorf("OriginalText: got %q", result.OriginalText)
	}
	if len(result.Tokens) != 1 {
		t.Fatalf("Tokens: got %d, want 1", len(result.Tokens))
	}

	tok := result.Tokens[0]
	if tok.DictionaryForm != "食べる" {
		t.Errorf("DictionaryForm: got %q, want 食べる", tok.DictionaryForm)
	}
	if len(tok.Definitions) == 0 || tok.Definitions[0] != "to eat" {
		t.Errorf("Definitions: got %v, want to eat first", tok.Definitions)
	}
}

func TestParseText_ResolvesPerToken(t *testing.T) {
	o := newTestOrchestrator(t, &fakeEngine{})

	result, err := o.ParseText(context.Background(), "今日は未知語を食べた")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	byForm := map[string]AnnotatedToken{}
	for _, tok := range result.Tokens {
		byForm[tok.Surface] = tok
	}

	if tok, ok := byForm["今日"]; !ok || len(tok.Definitions) == 0 {
		t.Error("今日 should resolve to definitions")
	}
	if tok, ok := byForm["は"]; !ok || len(tok.Definitions) != 0 {
		t.Error("particles must be present but unresolved")
	}
	// Lookup misses never fail the parse.
	for _, tok := range result.Tokens {
		if tok.Surface == "未知" || tok.Surface == "未知語" {
			if len(tok.Definitions) != 0 {
				t.Errorf("unexpected definitions for %q", tok.Surface)
			}
		}
	}
}

func TestParseText_Phrase(t *testing.T) {
	o := newTestOrchestrator(t, &fakeEngine{})

	result, err := o.ParseText(context.Background(), "お疲れ様でした")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	var phrase *AnnotatedToken
	for i := range result.Tokens {
		if result.Tokens[i].IsPhrase {
			phrase = &result.Tokens[i]
		}
	}
	if phrase == nil {
		t.Fatal("expected a phrase token")
	}
	if phrase.Surface != "お疲れ様" {
		t.Errorf("Surface: got %q, want お疲れ様", phrase.Surface)
	}
	if len(phrase.Definitions) == 0 {
		t.Error("phrase token should resolve against its lexicon entry")
	}
}

func TestParseText_Unanalyzable(t *testing.T) {
	o := newTestOrchestrator(t, &fakeEngine{})

	_, err := o.ParseText(context.Background(), "only english here")
	if !apperrors.Is(err, apperrors.KindUnanalyzableInput) {
		t.Errorf("kind: got %s, want %s", apperrors.KindOf(err), apperrors.KindUnanalyzableInput)
	}
}

func TestHealth(t *testing.T) {
	engine := &fakeEngine{healthy: true}
	o := newTestOrchestrator(t, engine)

	h := o.Health()
	if !h.OCR || !h.Tokenizer || !h.Dictionary {
		t.Errorf("expected all stages healthy, got %+v", h)
	}
	if !h.Healthy() {
		t.Error("Healthy() should be true when all stages are up")
	}

	engine.healthy = false
	h = o.Health()
	if h.OCR {
		t.Error("OCR stage should report the engine's state")
	}
	if h.Healthy() {
		t.Error("Healthy() must be false with a degraded stage")
	}
}

func TestScaleBounds(t *testing.T) {
	b := scaleBounds(ocr.Bounds{X1: 100, Y1: 50, X2: 201, Y2: 151}, 0.5)
	want := ocr.Bounds{X1: 50, Y1: 25, X2: 101, Y2: 76}
	if b != want {
		t.Errorf("scaleBounds: got %+v, want %+v", b, want)
	}
}
