package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createBarsImage creates a white square with parallel dark bars, either
// horizontal rows (text lines) or vertical columns.
func createBarsImage(size, barThickness, gap int, vertical bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.White)
		}
	}
	for start := gap; start+barThickness < size-gap; start += barThickness + gap {
		for major := start; major < start+barThickness; major++ {
			for minor := gap; minor < size-gap; minor++ {
				if vertical {
					img.Set(major, minor, color.Black)
				} else {
					img.Set(minor, major, color.Black)
				}
			}
		}
	}
	return img
}

func TestDetectOrientation_Horizontal(t *testing.T) {
	img := createBarsImage(200, 12, 16, false)

	if got := DetectOrientation(img); got != OrientationHorizontal {
		t.Errorf("horizontal text lines: got %s, want %s", got, OrientationHorizontal)
	}
}

func TestDetectOrientation_Vertical(t *testing.T) {
	img := createBarsImage(200, 12, 16, true)

	if got := DetectOrientation(img); got != OrientationVertical {
		t.Errorf("vertical text columns: got %s, want %s", got, OrientationVertical)
	}
}

func TestDetectOrientation_BlankDefaultsVertical(t *testing.T) {
	img := createSolidImage(100, 100, color.White)

	if got := DetectOrientation(img); got != OrientationVertical {
		t.Errorf("blank image: got %s, want %s (manga default)", got, OrientationVertical)
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		input string
		want  Orientation
	}{
		{"vertical", OrientationVertical},
		{"horizontal", OrientationHorizontal},
		{"auto", OrientationAuto},
		{"", OrientationAuto},
		{"diagonal", OrientationAuto},
	}

	for _, tt := range tests {
		if got := ParseOrientation(tt.input); got != tt.want {
			t.Errorf("ParseOrientation(%q): got %s, want %s", tt.input, got, tt.want)
		}
	}
}
