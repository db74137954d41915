package ocr

import (
	"sort"

	"github.com/yomigo/yomigo-server/internal/imaging"
)

// OrderLines sorts recognized lines into reading order: top-to-bottom then
// left-to-right for horizontal blocks, columns right-to-left with
// top-to-bottom within a column for vertical blocks (manga convention).
//
// Sorting is stable so lines the comparison cannot distinguish keep the
// engine's order, keeping the pipeline deterministic.
func OrderLines(lines []TextLine, orientation imaging.Orientation) []TextLine {
	if len(lines) < 2 {
		return lines
	}

	if orientation == imaging.OrientationVertical {
		sort.SliceStable(lines, func(i, j int) bool {
			ci := centerX(lines[i].Bounds)
			cj := centerX(lines[j].Bounds)
			if !sameBand(ci, cj, columnWidth(lines[i].Bounds, lines[j].Bounds)) {
				return ci > cj // rightmost column first
			}
			return lines[i].Bounds.Y1 < lines[j].Bounds.Y1
		})
		return lines
	}

	sort.SliceStable(lines, func(i, j int) bool {
		ci := centerY(lines[i].Bounds)
		cj := centerY(lines[j].Bounds)
		if !sameBand(ci, cj, rowHeight(lines[i].Bounds, lines[j].Bounds)) {
			return ci < cj // top row first
		}
		return lines[i].Bounds.X1 < lines[j].Bounds.X1
	})
	return lines
}

func centerX(b Bounds) int { return (b.X1 + b.X2) / 2 }
func centerY(b Bounds) int { return (b.Y1 + b.Y2) / 2 }

// sameBand reports whether two line centers fall within half a line extent
// of each other, i.e. belong to the same visual column or row.
func sameBand(a, b, extent int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d*2 < extent
}

func columnWidth(a, b Bounds) int {
	wa := a.X2 - a.X1
	wb := b.X2 - b.X1
	if wa < wb {
		return wa
	}
	return wb
}

func rowHeight(a, b Bounds) int {
	ha := a.Y2 - a.Y1
	hb := b.Y2 - b.Y1
	if ha < hb {
		return ha
	}
	return hb
}
