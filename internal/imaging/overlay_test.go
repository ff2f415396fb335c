package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func decodeOverlay(t *testing.T, result *OverlayResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

func TestRenderOverlay(t *testing.T) {
	img := solidImage(10, 10, color.White)
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	layers := []Layer{
		{
			Points: mat.NewDense(2, 2, []float64{2, 2, 50, 50}),
			Color:  blue,
		},
		{
			Curve: mat.NewDense(2, 2, []float64{0, 5, 9, 5}),
			Color: red,
		},
	}

	result, err := RenderOverlay(img, layers)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if result.Width != 10 || result.Height != 10 || result.MimeType != "image/png" {
		t.Errorf("unexpected result header: %+v", result)
	}

	out := decodeOverlay(t, result)
	for x := 0; x < 10; x++ {
		if !sameColor(out.At(x, 5), red) {
			t.Errorf("curve pixel (%d,5) not red", x)
		}
	}
	if !sameColor(out.At(2, 2), blue) {
		t.Error("point (2,2) not blue")
	}
	if !sameColor(out.At(7, 7), color.White) {
		t.Error("untouched pixel changed")
	}

	// The source image is never modified.
	if !sameColor(img.At(2, 2), color.White) {
		t.Error("RenderOverlay modified its input")
	}
}

func TestRenderOverlay_Diagonal(t *testing.T) {
	img := solidImage(8, 8, color.Black)
	green := color.NRGBA{0, 255, 0, 255}

	result, err := RenderOverlay(img, []Layer{{Curve: mat.NewDense(2, 2, []float64{7, 7, 0, 0}), Color: green}})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	out := decodeOverlay(t, result)
	for i := 0; i < 8; i++ {
		if !sameColor(out.At(i, i), green) {
			t.Errorf("diagonal pixel (%d,%d) not drawn", i, i)
		}
	}
	if !sameColor(out.At(0, 7), color.Black) {
		t.Error("off-diagonal pixel drawn")
	}
}

func TestRenderOverlay_ClipsCurve(t *testing.T) {
	img := solidImage(5, 5, color.White)

	result, err := RenderOverlay(img, []Layer{{Curve: mat.NewDense(2, 2, []float64{-20, 2, 30, 2}), Color: color.Black}})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	out := decodeOverlay(t, result)
	for x := 0; x < 5; x++ {
		if !sameColor(out.At(x, 2), color.Black) {
			t.Errorf("clipped curve pixel (%d,2) missing", x)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#00F", color.NRGBA{0, 0, 255, 255}, false},
		{"", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor failed: %v", err)
			}
			if got != color.Color(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	def := color.NRGBA{1, 2, 3, 255}
	if ColorOrDefault("nope", def) != color.Color(def) {
		t.Error("ColorOrDefault should fall back on invalid input")
	}
}

func TestPalette(t *testing.T) {
	if len(Palette(0)) != 0 {
		t.Error("Palette(0) should be empty")
	}

	colors := Palette(4)
	if len(colors) != 4 {
		t.Fatalf("len: got %d, want 4", len(colors))
	}
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			if sameColor(colors[i], colors[j]) {
				t.Errorf("colors %d and %d are equal", i, j)
			}
		}
	}

	r, g, b, _ := colors[0].RGBA()
	if r <= g || r <= b {
		t.Errorf("first palette color should be red-dominant, got %d,%d,%d", r, g, b)
	}
}
