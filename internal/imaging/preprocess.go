package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// PreprocessOptions tunes the normalization applied before OCR.
type PreprocessOptions struct {
	// Binarize applies an Otsu threshold after grayscale conversion.
	// Manga speech bubbles are high-contrast line art, so this is on by
	// default; photographs of pages may prefer plain grayscale.
	Binarize bool

	// MinGlyphHeight is the smallest median glyph height (in pixels) the
	// OCR engine handles reliably. Images whose estimated glyph height
	// falls below it are upscaled.
	MinGlyphHeight int

	// MaxScale caps the upscale factor.
	MaxScale float64
}

// DefaultPreprocessOptions returns the options used by the pipeline.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Binarize:       true,
		MinGlyphHeight: 24,
		MaxScale:       4.0,
	}
}

// PreprocessResult contains the cleaned buffer and the transform metadata
// needed to map OCR coordinates back to the original image.
type PreprocessResult struct {
	// Image is the normalized buffer handed to the OCR engine.
	Image image.Image

	// Scale is the upscale factor that was applied (1.0 = none).
	// Divide OCR bounding-box coordinates by it to recover original
	// image coordinates.
	Scale float64

	// GlyphHeight is the estimated median glyph height of the original
	// image, 0 when no dark runs were found.
	GlyphHeight int
}

// Preprocess normalizes a decoded image for recognition.
//
// The steps, in order:
//
//  1. Grayscale conversion.
//  2. Contrast stretch when the luminance spread is narrow (washed-out
//     screenshots, JPEG-murdered scans).
//  3. Optional Otsu binarization.
//  4. Lanczos upscale when the estimated glyph height is below
//     opts.MinGlyphHeight.
//
// Pure function of its input; the source image is never modified.
func Preprocess(img image.Image, opts PreprocessOptions) *PreprocessResult {
	gray := imaging.Grayscale(img)

	if spread := luminanceSpread(gray); spread > 0 && spread < 0.5 {
		// Narrow histograms leave too little gradient for Tesseract.
		gray = imaging.AdjustContrast(gray, 40)
	}

	var processed image.Image = gray
	if opts.Binarize {
		processed = segment.Threshold(gray, otsuLevel(gray))
	}

	scale := 1.0
	glyphHeight := estimateGlyphHeight(gray)
	if glyphHeight > 0 && glyphHeight < opts.MinGlyphHeight {
		scale = float64(opts.MinGlyphHeight) / float64(glyphHeight)
		if opts.MaxScale > 0 && scale > opts.MaxScale {
			scale = opts.MaxScale
		}
		w := int(float64(processed.Bounds().Dx()) * scale)
		h := int(float64(processed.Bounds().Dy()) * scale)
		processed = imaging.Resize(processed, w, h, imaging.Lanczos)
	}

	return &PreprocessResult{
		Image:       processed,
		Scale:       scale,
		GlyphHeight: glyphHeight,
	}
}

// luminanceSpread measures how much of the perceptual luminance range the
// image uses, sampling on a coarse grid. Returns a value in [0, 1].
func luminanceSpread(img image.Image) float64 {
	bounds := img.Bounds()
	step := maxInt(1, maxInt(bounds.Dx(), bounds.Dy())/64)

	minL, maxL := 1.0, 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			if l < minL {
				minL = l
			}
			if l > maxL {
				maxL = l
			}
		}
	}
	if maxL < minL {
		return 0
	}
	return maxL - minL
}

// otsuLevel computes the Otsu threshold from the image's gray histogram:
// the level that maximizes between-class variance of the dark (ink) and
// light (paper) pixel populations.
func otsuLevel(img image.Image) uint8 {
	hist := histogram.NewRGBAHistogram(img).R.Bins

	total := 0
	var sum float64
	for level, count := range hist {
		total += count
		sum += float64(level * count)
	}
	if total == 0 {
		return 128
	}

	var sumB, wB float64
	var best float64
	lo, hi := 128, 128
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		switch {
		case between > best:
			best = between
			lo, hi = t, t
		case between == best:
			hi = t
		}
	}
	// Strictly bimodal histograms plateau; the midpoint of the plateau
	// separates the classes.
	return uint8((lo + hi) / 2)
}

// estimateGlyphHeight estimates the median glyph height by measuring
// contiguous dark runs down sampled columns. Manga glyphs are roughly
// square, so vertical ink runs approximate character height for both
// text directions.
func estimateGlyphHeight(img image.Image) int {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	threshold := int(otsuLevel(img))
	step := maxInt(1, width/48)

	var runs []int
	for x := bounds.Min.X; x < bounds.Max.X; x += step {
		run := 0
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			if grayValue(img, x, y) < threshold {
				run++
				continue
			}
			if run > 1 {
				runs = append(runs, run)
			}
			run = 0
		}
		if run > 1 {
			runs = append(runs, run)
		}
	}
	if len(runs) == 0 {
		return 0
	}

	// Median is robust against long vertical strokes and speckle noise.
	return medianInt(runs)
}

// grayValue returns the 8-bit luminance of the pixel at (x, y).
func grayValue(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	return int((299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000)
}

func medianInt(values []int) int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted[len(sorted)/2]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
