package pdf

import (
	"testing"
)

func TestBoundingBoxIntersects(t *testing.T) {
	base := BoundingBox{X0: 0, Y0: 0, X1: 10, Y1: 10}

	tests := []struct {
		name  string
		other BoundingBox
		want  bool
	}{
		{"overlapping", BoundingBox{X0: 5, Y0: 5, X1: 15, Y1: 15}, true},
		{"contained", BoundingBox{X0: 2, Y0: 2, X1: 3, Y1: 3}, true},
		{"shared edge", BoundingBox{X0: 10, Y0: 0, X1: 20, Y1: 10}, false},
		{"shared corner", BoundingBox{X0: 10, Y0: 10, X1: 20, Y1: 20}, false},
		{"disjoint", BoundingBox{X0: 30, Y0: 30, X1: 40, Y1: 40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Intersects(base); got != tt.want {
				t.Errorf("Intersects() is not symmetric: got %v", got)
			}
		})
	}
}

func TestBoundingBoxExpand(t *testing.T) {
	point := BoundingBox{X0: 5, Y0: 5, X1: 5, Y1: 5}
	got := point.Expand(3)
	want := BoundingBox{X0: 2, Y0: 2, X1: 8, Y1: 8}
	if got != want {
		t.Errorf("Expand(3) = %v, want %v", got, want)
	}
	if got.Width() != 6 || got.Height() != 6 {
		t.Errorf("expanded point should be 6x6, got %vx%v", got.Width(), got.Height())
	}
}

func TestBoundingBoxUnionAndNormalize(t *testing.T) {
	a := NewBoundingBox(10, 10, 0, 0)
	if a != (BoundingBox{X0: 0, Y0: 0, X1: 10, Y1: 10}) {
		t.Errorf("NewBoundingBox did not normalize corners: %v", a)
	}
	u := a.Union(BoundingBox{X0: 5, Y0: -5, X1: 20, Y1: 5})
	if u != (BoundingBox{X0: 0, Y0: -5, X1: 20, Y1: 10}) {
		t.Errorf("Union() = %v", u)
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		name    string
		color   Color
		black   bool
		hex     string
		display string
	}{
		{"absent", nil, true, "#000000", ""},
		{"gray", GrayColor(0.5), false, "#808080", "(0.5)"},
		{"yellow", RGBColor(1, 1, 0.1), false, "#ffff1a", "(1, 1, 0.1)"},
		{"cmyk black", CMYKColor(0, 0, 0, 1), true, "#000000", "(0, 0, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.IsBlack(); got != tt.black {
				t.Errorf("IsBlack() = %v, want %v", got, tt.black)
			}
			if got := tt.color.Hex(); got != tt.hex {
				t.Errorf("Hex() = %q, want %q", got, tt.hex)
			}
			if got := tt.color.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
		})
	}

	if !GrayColor(1).IsGray() || RGBColor(1, 1, 1).IsGray() {
		t.Error("IsGray() should only hold for single component colors")
	}
}

func TestParseAnnotationKind(t *testing.T) {
	if got := ParseAnnotationKind("highlight"); got != AnnotHighlight {
		t.Errorf("ParseAnnotationKind(highlight) = %q", got)
	}
	if got := ParseAnnotationKind("Ink"); got != AnnotationKind("Ink") {
		t.Errorf("ParseAnnotationKind(Ink) = %q", got)
	}
}

func TestAnnotationEffectiveColor(t *testing.T) {
	a := AnnotationObject{InteriorColor: RGBColor(0, 1, 0)}
	if got := a.EffectiveColor(); got.Hex() != "#00ff00" {
		t.Errorf("expected interior color, got %v", got)
	}
	a.Color = RGBColor(1, 0, 0)
	if got := a.EffectiveColor(); got.Hex() != "#ff0000" {
		t.Errorf("expected stroke color, got %v", got)
	}
}
