package ocr

import (
	"testing"

	"github.com/yomigo/yomigo-server/internal/imaging"
)

func line(text string, x1, y1, x2, y2 int) TextLine {
	return TextLine{Text: text, Bounds: Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2}, Confidence: 0.9}
}

func texts(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestOrderLines_Vertical(t *testing.T) {
	// Three columns of vertical text: rightmost is read first.
	lines := []TextLine{
		line("second", 60, 10, 90, 200),
		line("third", 10, 10, 40, 200),
		line("first", 110, 10, 140, 200),
	}

	ordered := OrderLines(lines, imaging.OrientationVertical)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if ordered[i].Text != w {
			t.Fatalf("vertical order: got %v, want %v", texts(ordered), want)
		}
	}
}

func TestOrderLines_VerticalSameColumn(t *testing.T) {
	// Two segments in the same column: upper one first.
	lines := []TextLine{
		line("lower", 100, 150, 130, 280),
		line("upper", 102, 10, 132, 140),
	}

	ordered := OrderLines(lines, imaging.OrientationVertical)

	if ordered[0].Text != "upper" || ordered[1].Text != "lower" {
		t.Errorf("same-column order: got %v, want [upper lower]", texts(ordered))
	}
}

func TestOrderLines_Horizontal(t *testing.T) {
	lines := []TextLine{
		line("second", 10, 60, 300, 90),
		line("first", 10, 10, 300, 40),
		line("third", 10, 110, 300, 140),
	}

	ordered := OrderLines(lines, imaging.OrientationHorizontal)

	want := []string{"first", "second", "third"}
	for i, w := range want {
		if ordered[i].Text != w {
			t.Fatalf("horizontal order: got %v, want %v", texts(ordered), want)
		}
	}
}

func TestOrderLines_HorizontalSameRow(t *testing.T) {
	lines := []TextLine{
		line("right", 200, 12, 380, 40),
		line("left", 10, 10, 180, 38),
	}

	ordered := OrderLines(lines, imaging.OrientationHorizontal)

	if ordered[0].Text != "left" || ordered[1].Text != "right" {
		t.Errorf("same-row order: got %v, want [left right]", texts(ordered))
	}
}

func TestOrderLines_Deterministic(t *testing.T) {
	build := func() []TextLine {
		return []TextLine{
			line("a", 60, 10, 90, 200),
			line("b", 10, 10, 40, 200),
			line("c", 110, 10, 140, 200),
		}
	}

	first := texts(OrderLines(build(), imaging.OrientationVertical))
	for i := 0; i < 5; i++ {
		again := texts(OrderLines(build(), imaging.OrientationVertical))
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("ordering not deterministic: %v vs %v", first, again)
			}
		}
	}
}

func TestMarkLowConfidence(t *testing.T) {
	lines := []TextLine{
		{Text: "good", Confidence: 0.9},
		{Text: "bad", Confidence: 0.2},
		{Text: "edge", Confidence: 0.4},
	}

	marked := MarkLowConfidence(lines, 0.4)

	if marked[0].LowConfidence {
		t.Error("0.9 should not be low confidence at threshold 0.4")
	}
	if !marked[1].LowConfidence {
		t.Error("0.2 should be low confidence at threshold 0.4")
	}
	if marked[2].LowConfidence {
		t.Error("exactly at threshold should not be flagged")
	}
	if len(marked) != 3 {
		t.Errorf("no line may be dropped: got %d, want 3", len(marked))
	}
}
