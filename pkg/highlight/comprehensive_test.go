package highlight

import (
	"testing"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/pdf"
)

func word(text string, x, y float64) pdf.Word {
	return pdf.Word{Text: text, X0: x, Y0: y, X1: x + 5*float64(len(text)), Y1: y + 10}
}

func TestGroupLines(t *testing.T) {
	words := []pdf.Word{
		word("first", 10, 700),
		word("line", 40, 701),
		word("drifts", 70, 704.5), // 3.5 from the previous word
		word("second", 10, 680),
		word("line", 50, 680),
	}

	lines := GroupLines(words, 5)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "first line drifts" || lines[1].Text != "second line" {
		t.Errorf("lines = %q, %q", lines[0].Text, lines[1].Text)
	}
	if lines[0].BBox.X0 != 10 || lines[0].BBox.X1 != 100 {
		t.Errorf("first line box = %v", lines[0].BBox)
	}
	if GroupLines(nil, 5) != nil {
		t.Error("no words should give no lines")
	}
}

func TestMatchLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"This is an important result", ReasonKeyword},
		{"Keynote speakers", ReasonKeyword},
		{"SECTION SUMMARY", ReasonUppercase},
		{"SECTION 2.1: 100%", ReasonUppercase},
		{"starred * entry here", ReasonAsterisk},
		{"a-b-c-d ranges here", ReasonDashes},
		{"a-b-c ranges here", ""},
		{"ordinary sentence", ""},
		{"IMPORTANT", ""}, // too short
		{"1234567890 12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := MatchLine(tt.line, 10, DefaultKeywords); got != tt.want {
				t.Errorf("MatchLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
