package imaging

import (
	"image"
	"math"
)

// Orientation classifies the dominant text direction of a captured block.
type Orientation string

const (
	// OrientationAuto defers to DetectOrientation.
	OrientationAuto Orientation = "auto"

	// OrientationHorizontal is left-to-right rows, top to bottom.
	OrientationHorizontal Orientation = "horizontal"

	// OrientationVertical is top-to-bottom columns, right to left
	// (standard manga typesetting).
	OrientationVertical Orientation = "vertical"
)

// ParseOrientation maps a request hint onto an Orientation.
// Unknown values fall back to auto-detection.
func ParseOrientation(s string) Orientation {
	switch Orientation(s) {
	case OrientationHorizontal, OrientationVertical:
		return Orientation(s)
	default:
		return OrientationAuto
	}
}

// DetectOrientation classifies a text block as vertical or horizontal.
//
// The heuristic projects the edge map onto both axes. Text set in
// horizontal rows concentrates edge pixels into alternating bands along Y
// (high row-profile variance, flat column profile); vertical columns are
// the transpose. When the projections do not discriminate, the block's
// aspect ratio breaks the tie: tall captures lean vertical, wide ones
// horizontal.
//
// Returns OrientationVertical or OrientationHorizontal, never
// OrientationAuto. Blocks with no detectable edges default to vertical,
// the dominant manga convention.
func DetectOrientation(img image.Image) Orientation {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return OrientationVertical
	}

	edges := edgeMap(img, width, height)

	rowProfile := make([]float64, height)
	colProfile := make([]float64, width)
	total := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] {
				// Normalize by axis length so narrow crops don't
				// bias one profile.
				rowProfile[y] += 1.0 / float64(width)
				colProfile[x] += 1.0 / float64(height)
				total++
			}
		}
	}
	if total == 0 {
		return OrientationVertical
	}

	rowVar := variance(rowProfile)
	colVar := variance(colProfile)

	switch {
	case rowVar > colVar*1.1:
		return OrientationHorizontal
	case colVar > rowVar*1.1:
		return OrientationVertical
	case width > height:
		return OrientationHorizontal
	default:
		return OrientationVertical
	}
}

// edgeMap builds a binary edge image using a simple gradient threshold.
func edgeMap(img image.Image, width, height int) [][]bool {
	bounds := img.Bounds()
	edges := make([][]bool, height)
	const threshold = 30.0

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}

			c := grayValue(img, x+bounds.Min.X, y+bounds.Min.Y)
			cx := grayValue(img, x+1+bounds.Min.X, y+bounds.Min.Y)
			cy := grayValue(img, x+bounds.Min.X, y+1+bounds.Min.Y)

			dx := math.Abs(float64(c) - float64(cx))
			dy := math.Abs(float64(c) - float64(cy))

			if dx > threshold || dy > threshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

func variance(profile []float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	var sum float64
	for _, v := range profile {
		sum += v
	}
	mean := sum / float64(len(profile))

	var sq float64
	for _, v := range profile {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(profile))
}
