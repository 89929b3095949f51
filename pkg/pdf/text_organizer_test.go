package pdf

import (
	"testing"
)

// makeChars lays out text on a baseline with fixed 6pt advances
func makeChars(text string, x, y float64, color Color) []CharObject {
	var chars []CharObject
	for _, r := range text {
		chars = append(chars, CharObject{
			Text:     string(r),
			Font:     "Helvetica",
			FontSize: 12,
			X0:       x,
			Y0:       y - 2.4,
			X1:       x + 6,
			Y1:       y + 9.6,
			Color:    color,
		})
		x += 6
	}
	return chars
}

func TestTextOrganizerWords(t *testing.T) {
	chars := makeChars("Key point", 100, 700, nil)
	// A second word after a visible gap and no space glyph
	chars = append(chars, makeChars("here", 100+6*9+10, 700, nil)...)

	words := NewTextOrganizer().Words(chars)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d: %+v", len(words), words)
	}
	want := []string{"Key", "point", "here"}
	for i, w := range words {
		if w.Text != want[i] {
			t.Errorf("word %d = %q, want %q", i, w.Text, want[i])
		}
	}
	if words[0].X0 != 100 || words[0].X1 != 118 {
		t.Errorf("unexpected first word box %v", words[0].GetBBox())
	}
}

func TestTextOrganizerSpans(t *testing.T) {
	chars := makeChars("plain ", 100, 700, nil)
	chars = append(chars, makeChars("red", 136, 700, RGBColor(1, 0, 0))...)

	spans := NewTextOrganizer().Spans(chars)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Text != "plain" {
		t.Errorf("first span = %q", spans[0].Text)
	}
	if spans[1].Text != "red" || spans[1].Color.Hex() != "#ff0000" {
		t.Errorf("second span = %q %v", spans[1].Text, spans[1].Color)
	}
}

func TestTextOrganizerReadingOrder(t *testing.T) {
	var chars []CharObject
	// Content order is bottom line first
	chars = append(chars, makeChars("second", 100, 680, nil)...)
	chars = append(chars, makeChars("first", 100, 700, nil)...)

	got := NewTextOrganizer().OrganizeText(chars)
	if got != "first\nsecond" {
		t.Errorf("OrganizeText() = %q", got)
	}
}

func TestTextInRect(t *testing.T) {
	chars := makeChars("Important finding", 100, 700, nil)
	chars = append(chars, makeChars("elsewhere", 100, 500, nil)...)
	organizer := NewTextOrganizer()

	tests := []struct {
		name string
		rect BoundingBox
		want string
	}{
		{"whole line", BoundingBox{X0: 98, Y0: 695, X1: 210, Y1: 712}, "Important finding"},
		{"first word", BoundingBox{X0: 98, Y0: 695, X1: 154, Y1: 712}, "Important"},
		{"nothing", BoundingBox{X0: 400, Y0: 400, X1: 410, Y1: 410}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := organizer.TextInRect(chars, tt.rect); got != tt.want {
				t.Errorf("TextInRect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCharLayerCaches(t *testing.T) {
	layer := newCharLayer(makeChars("cached words", 10, 10, nil), nil)
	first := layer.Words()
	second := layer.Words()
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 words, got %d and %d", len(first), len(second))
	}
	if got := layer.ExtractText(); got != "cached words" {
		t.Errorf("ExtractText() = %q", got)
	}
}
