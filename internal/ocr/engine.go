package ocr

import (
	"context"
	"image"

	"github.com/yomigo/yomigo-server/internal/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextLine is a single recognized line of text with its location and
// confidence.
type TextLine struct {
	// Text is the recognized line content.
	Text string `json:"text"`

	// Bounds is the bounding box around the line in the recognized
	// image's coordinates.
	Bounds Bounds `json:"bounds"`

	// Confidence is the recognition confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// LowConfidence marks lines below the configured threshold. Such
	// lines are still returned so the caller can decide whether to
	// surface them.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// Result contains the recognition output for one image.
type Result struct {
	// FullText is all recognized text joined with newlines, in reading
	// order.
	FullText string `json:"full_text"`

	// Lines contains the individual lines in reading order. May contain
	// a single synthetic line without bounds when the backend could not
	// produce line geometry (text is never lost).
	Lines []TextLine `json:"lines"`
}

// Input is a single recognition request.
type Input struct {
	// Image is the preprocessed pixel buffer to recognize.
	Image image.Image

	// Orientation selects the text direction convention. Must be
	// vertical or horizontal; preprocessing resolves auto before the
	// engine is invoked.
	Orientation imaging.Orientation
}

// Engine is the recognition capability: one preprocessed image in, one
// result out. Implementations must honor context cancellation where the
// underlying backend allows it.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}

// HealthChecker is implemented by engines that can report availability
// without performing a recognition.
type HealthChecker interface {
	Healthy() bool
}

// MarkLowConfidence flags lines whose confidence falls below threshold.
// The slice is modified in place and returned for chaining.
func MarkLowConfidence(lines []TextLine, threshold float64) []TextLine {
	for i := range lines {
		lines[i].LowConfidence = lines[i].Confidence < threshold
	}
	return lines
}
