package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"

	"github.com/pyhub-apps/pdfhighlights-golang/pkg/highlight"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "short text", 50, "short text"},
		{"whitespace collapsed", "two\n  lines", 50, "two lines"},
		{"truncated", "abcdefghijklmnop", 10, "abcdefg..."},
		{"wide characters", "日本語のテキストです", 10, "日本語..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preview(tt.text, tt.width)
			if got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
			if w := runewidth.StringWidth(got); w > tt.width {
				t.Errorf("preview is %d columns wide", w)
			}
		})
	}
}

func TestConsoleResults(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, language.English).Results(sampleReport().Records)
	out := buf.String()

	for _, want := range []string{
		"Found 2 highlighted text(s)!",
		"[1] Page 1 - Method: Annotation-Highlight",
		"Color: (1, 1, 0.1)",
		"[2] Page 3 - Method: ColoredText",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestConsoleNoResults(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, language.English).Results(nil)
	if !strings.Contains(buf.String(), "No highlighted text found in this file.") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestConsoleStats(t *testing.T) {
	stats := highlight.Stats{
		ByMethod: map[highlight.Method]int{
			highlight.MethodDrawing:     2,
			"Annotation-Highlight":      3,
			highlight.MethodColoredText: 1,
		},
		Total:  6,
		Unique: 4,
	}

	var buf bytes.Buffer
	NewConsole(&buf, language.English).Stats(stats)
	out := buf.String()

	annot := strings.Index(out, "Annotation-Highlight")
	drawing := strings.Index(out, "Drawing")
	if annot < 0 || drawing < 0 || annot > drawing {
		t.Errorf("methods should be listed in order:\n%s", out)
	}
	if !strings.Contains(out, "Total: 6, unique: 4") {
		t.Errorf("totals missing:\n%s", out)
	}
}

func TestConsoleMatch(t *testing.T) {
	var buf bytes.Buffer
	rec := highlight.MatchRecord{Page: 12, Method: highlight.MethodDrawing, Text: strings.Repeat("word ", 30)}
	NewConsole(&buf, language.English).Match(rec)

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasPrefix(line, "  p12 ") || !strings.HasSuffix(line, "...") {
		t.Errorf("unexpected progress line %q", line)
	}
}
