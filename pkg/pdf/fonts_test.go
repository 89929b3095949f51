package pdf

import (
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestFlagsFromFontName(t *testing.T) {
	tests := []struct {
		name string
		want FontFlags
	}{
		{"Helvetica", 0},
		{"Helvetica-BoldOblique", FlagBold | FlagItalic},
		{"Times-Roman", FlagSerif},
		{"Courier-Bold", FlagBold | FlagMonospace},
		{"OpenSans-SemiBold", FlagBold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlagsFromFontName(tt.name); got != tt.want {
				t.Errorf("FlagsFromFontName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseFontFlags(t *testing.T) {
	flags, err := ParseFontFlags([]string{"bold", " Italic "})
	if err != nil {
		t.Fatalf("ParseFontFlags() error = %v", err)
	}
	if flags != FlagBold|FlagItalic {
		t.Errorf("flags = %v", flags)
	}
	if flags.String() != "italic|bold" {
		t.Errorf("String() = %q", flags.String())
	}
	if _, err := ParseFontFlags([]string{"wide"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestSimpleFontDifferences(t *testing.T) {
	font, err := loadFont(resolver{}, "F2", types.Dict{
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name("Custom"),
		"Encoding": types.Dict{
			"BaseEncoding": types.Name("WinAnsiEncoding"),
			"Differences":  types.Array{types.Integer(65), types.Name("bullet"), types.Name("uni263A")},
		},
		"FontDescriptor": types.Dict{"Flags": types.Integer(1<<6 | 1<<1)},
	})
	if err != nil {
		t.Fatalf("loadFont() error = %v", err)
	}

	var text string
	for _, g := range font.decode([]byte("ABC")) {
		text += g.text
	}
	if text != "•☺C" {
		t.Errorf("decoded %q", text)
	}
	if font.Flags != FlagItalic|FlagSerif {
		t.Errorf("Flags = %v", font.Flags)
	}
}

func TestCIDWidths(t *testing.T) {
	widths := parseCIDWidths(resolver{}, types.Array{
		types.Integer(1), types.Array{types.Integer(500), types.Integer(600)},
		types.Integer(10), types.Integer(12), types.Integer(250),
	})
	want := map[int]float64{1: 500, 2: 600, 10: 250, 11: 250, 12: 250}
	if len(widths) != len(want) {
		t.Fatalf("got %v", widths)
	}
	for code, w := range want {
		if widths[code] != w {
			t.Errorf("width[%d] = %v, want %v", code, widths[code], w)
		}
	}
}

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"D:20230615143000", time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC)},
		{"D:2023", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"D:20230615143000+02'00'", time.Date(2023, 6, 15, 14, 30, 0, 0, time.FixedZone("", 7200))},
		{"garbage", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parsePDFDate(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("parsePDFDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCharsFromRun(t *testing.T) {
	chars := charsFromRun("ABCDEF+Arial-Bold", 10, 100, 500, 30, "abc")
	if len(chars) != 3 {
		t.Fatalf("expected 3 chars, got %d", len(chars))
	}
	if chars[1].X0 != 110 || chars[1].X1 != 120 {
		t.Errorf("second char spans %v..%v", chars[1].X0, chars[1].X1)
	}
	if chars[0].Y0 != 498 || chars[0].Y1 != 508 {
		t.Errorf("vertical extent %v..%v", chars[0].Y0, chars[0].Y1)
	}
	if chars[0].Font != "Arial-Bold" || chars[0].Flags&FlagBold == 0 {
		t.Errorf("font %q flags %v", chars[0].Font, chars[0].Flags)
	}
}
